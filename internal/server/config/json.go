package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/clipvault/internal/flagx"
	"github.com/dmitrijs2005/clipvault/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields use timex.Duration so both "30s" and integer nanoseconds decode.
type JsonConfig struct {
	HTTPAddr         string         `json:"http_addr"`
	StorageBackend   string         `json:"storage_backend"`
	MetadataFile     string         `json:"metadata_file"`
	MongoURL         string         `json:"mongodb_url"`
	MongoDatabase    string         `json:"mongodb_database"`
	MongoCollection  string         `json:"mongodb_collection"`
	DatabaseDSN      string         `json:"database_dsn"`
	RedisAddr        string         `json:"redis_addr"`
	CacheTTL         timex.Duration `json:"cache_ttl"`
	ArtifactBackend  string         `json:"artifact_backend"`
	UploadDir        string         `json:"upload_dir"`
	UploadURLPrefix  string         `json:"upload_url_prefix"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	S3PublicURL      string         `json:"s3_public_url"`
	WorkspaceDir     string         `json:"workspace_dir"`
	WorkspaceMaxAge  timex.Duration `json:"workspace_max_age"`
	JanitorSchedule  string         `json:"janitor_schedule"`
	TranscoderPath   string         `json:"transcoder_path"`
	TranscodeTimeout timex.Duration `json:"transcode_timeout"`
	RescaleFilter    string         `json:"rescale_filter"`
	MaxUploadBytes   int64          `json:"max_upload_bytes"`
	NatsURL          string         `json:"nats_url"`
}

// parseJson overlays values from the JSON file named by -c / -config in args.
// Without that flag nothing is loaded. Only fields present (non-zero) in the
// file override the current values. An unreadable or malformed file panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.MetadataFile, c.MetadataFile)
	setString(&config.MongoURL, c.MongoURL)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.MongoCollection, c.MongoCollection)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.ArtifactBackend, c.ArtifactBackend)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.UploadURLPrefix, c.UploadURLPrefix)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.WorkspaceDir, c.WorkspaceDir)
	setString(&config.JanitorSchedule, c.JanitorSchedule)
	setString(&config.TranscoderPath, c.TranscoderPath)
	setString(&config.RescaleFilter, c.RescaleFilter)
	setString(&config.NatsURL, c.NatsURL)

	if c.CacheTTL.Duration > 0 {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.WorkspaceMaxAge.Duration > 0 {
		config.WorkspaceMaxAge = c.WorkspaceMaxAge.Duration
	}
	if c.TranscodeTimeout.Duration > 0 {
		config.TranscodeTimeout = c.TranscodeTimeout.Duration
	}
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

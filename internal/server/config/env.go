package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. If dotenvPath names
// an existing file it is loaded first; variables already set in the
// environment win over the file, as godotenv.Load never overrides.
//
// SERVICE_PORT and MONGODB_URL keep the names used by earlier deployments.
// Unparseable numeric or duration values are ignored.
func parseEnv(config *Config, dotenvPath string) {
	if dotenvPath != "" {
		_ = godotenv.Load(dotenvPath)
	}

	if v, ok := os.LookupEnv("SERVICE_PORT"); ok && v != "" {
		config.HTTPAddr = ":" + v
	}

	strs := map[string]*string{
		"HTTP_ADDR":          &config.HTTPAddr,
		"STORAGE_BACKEND":    &config.StorageBackend,
		"METADATA_FILE":      &config.MetadataFile,
		"MONGODB_URL":        &config.MongoURL,
		"MONGODB_DATABASE":   &config.MongoDatabase,
		"MONGODB_COLLECTION": &config.MongoCollection,
		"DATABASE_DSN":       &config.DatabaseDSN,
		"REDIS_ADDR":         &config.RedisAddr,
		"ARTIFACT_BACKEND":   &config.ArtifactBackend,
		"UPLOAD_DIR":         &config.UploadDir,
		"UPLOAD_URL_PREFIX":  &config.UploadURLPrefix,
		"S3_ROOT_USER":       &config.S3RootUser,
		"S3_ROOT_PASSWORD":   &config.S3RootPassword,
		"S3_BUCKET":          &config.S3Bucket,
		"S3_REGION":          &config.S3Region,
		"S3_BASE_ENDPOINT":   &config.S3BaseEndpoint,
		"S3_PUBLIC_URL":      &config.S3PublicURL,
		"WORKSPACE_DIR":      &config.WorkspaceDir,
		"JANITOR_SCHEDULE":   &config.JanitorSchedule,
		"TRANSCODER_PATH":    &config.TranscoderPath,
		"RESCALE_FILTER":     &config.RescaleFilter,
		"NATS_URL":           &config.NatsURL,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"CACHE_TTL":         &config.CacheTTL,
		"WORKSPACE_MAX_AGE": &config.WorkspaceMaxAge,
		"TRANSCODE_TIMEOUT": &config.TranscodeTimeout,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	if v, ok := os.LookupEnv("MAX_UPLOAD_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxUploadBytes = n
		}
	}
}

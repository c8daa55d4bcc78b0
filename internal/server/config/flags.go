package config

import (
	"flag"

	"github.com/dmitrijs2005/clipvault/internal/flagx"
)

var knownFlags = []string{
	"-a", "-s", "-f", "-m", "-d", "-r", "-u", "-w", "-t",
	"-artifacts", "-upload-prefix", "-transcode-timeout", "-rescale",
	"-max-upload", "-nats", "-janitor", "-workspace-max-age", "-cache-ttl",
	"-s3-bucket", "-s3-endpoint", "-s3-public-url",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string                  HTTP bind address (e.g. ":3000")
//	-s string                  storage backend: jsonfile, mongo, postgres
//	-f string                  metadata file for the jsonfile backend
//	-m string                  MongoDB URL
//	-d string                  PostgreSQL DSN
//	-r string                  Redis address for the list cache
//	-u string                  upload (artifact) directory
//	-w string                  workspace directory
//	-t string                  transcoder binary
//	-artifacts string          artifact backend: fs, s3
//	-upload-prefix string      URL prefix artifacts are served under
//	-transcode-timeout dur     maximum transcoder run time
//	-rescale string            ffmpeg -vf filter used when no trim range is given
//	-max-upload int            POST /upload body limit in bytes
//	-nats string               NATS URL for ingest/delete events
//	-janitor string            cron spec of the workspace sweep
//	-workspace-max-age dur     age after which scratch dirs are swept
//	-cache-ttl dur             list cache lifetime
//	-s3-bucket, -s3-endpoint, -s3-public-url string
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// layers (-c) do not cause parse errors. A malformed value panics.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "storage backend")
	fs.StringVar(&config.MetadataFile, "f", config.MetadataFile, "metadata file")
	fs.StringVar(&config.MongoURL, "m", config.MongoURL, "MongoDB URL")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.WorkspaceDir, "w", config.WorkspaceDir, "workspace directory")
	fs.StringVar(&config.TranscoderPath, "t", config.TranscoderPath, "transcoder binary")

	fs.StringVar(&config.ArtifactBackend, "artifacts", config.ArtifactBackend, "artifact backend")
	fs.StringVar(&config.UploadURLPrefix, "upload-prefix", config.UploadURLPrefix, "artifact URL prefix")
	fs.DurationVar(&config.TranscodeTimeout, "transcode-timeout", config.TranscodeTimeout, "transcoder timeout")
	fs.StringVar(&config.RescaleFilter, "rescale", config.RescaleFilter, "rescale filter")
	fs.Int64Var(&config.MaxUploadBytes, "max-upload", config.MaxUploadBytes, "max upload size in bytes")
	fs.StringVar(&config.NatsURL, "nats", config.NatsURL, "NATS URL")
	fs.StringVar(&config.JanitorSchedule, "janitor", config.JanitorSchedule, "workspace sweep schedule")
	fs.DurationVar(&config.WorkspaceMaxAge, "workspace-max-age", config.WorkspaceMaxAge, "workspace max age")
	fs.DurationVar(&config.CacheTTL, "cache-ttl", config.CacheTTL, "list cache TTL")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "s3-public-url", config.S3PublicURL, "S3 public URL")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}
}

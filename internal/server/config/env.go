package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays configuration values from the environment. A .env file in
// the working directory is loaded first (missing file is fine); real
// environment variables win over .env entries because godotenv never
// overrides existing variables.
//
// Supported variables:
//
//	TASKHUB_SNAPSHOT_PATH            snapshot file path
//	TASKHUB_AUTO_SAVE                bool
//	TASKHUB_WATCH_SNAPSHOT           bool
//	TASKHUB_SECRET_KEY               JWT HMAC secret
//	TASKHUB_ACCESS_TOKEN_VALIDITY    duration ("1h")
//	TASKHUB_SESSION_TOKEN_VALIDITY   duration ("24h")
//	TASKHUB_EVENT_STREAM_INTERVAL    duration ("5s")
//	TASKHUB_BLOB_BACKEND             "local" or "s3"
//	TASKHUB_BLOB_LOCAL_DIR           local blob root directory
//	TASKHUB_S3_ROOT_USER             S3 credentials and settings
//	TASKHUB_S3_ROOT_PASSWORD
//	TASKHUB_S3_BUCKET
//	TASKHUB_S3_REGION
//	TASKHUB_S3_BASE_ENDPOINT
//
// Unparseable bool or duration values are ignored rather than fatal.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	envString(&config.SnapshotPath, "TASKHUB_SNAPSHOT_PATH")
	envBool(&config.AutoSave, "TASKHUB_AUTO_SAVE")
	envBool(&config.WatchSnapshot, "TASKHUB_WATCH_SNAPSHOT")
	envString(&config.SecretKey, "TASKHUB_SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "TASKHUB_ACCESS_TOKEN_VALIDITY")
	envDuration(&config.SessionTokenValidityDuration, "TASKHUB_SESSION_TOKEN_VALIDITY")
	envDuration(&config.EventStreamInterval, "TASKHUB_EVENT_STREAM_INTERVAL")
	envString(&config.BlobBackend, "TASKHUB_BLOB_BACKEND")
	envString(&config.BlobLocalDir, "TASKHUB_BLOB_LOCAL_DIR")
	envString(&config.S3RootUser, "TASKHUB_S3_ROOT_USER")
	envString(&config.S3RootPassword, "TASKHUB_S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "TASKHUB_S3_BUCKET")
	envString(&config.S3Region, "TASKHUB_S3_REGION")
	envString(&config.S3BaseEndpoint, "TASKHUB_S3_BASE_ENDPOINT")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func envDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

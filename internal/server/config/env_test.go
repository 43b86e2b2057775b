package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv_OverlaysValues(t *testing.T) {
	t.Setenv("TASKHUB_SNAPSHOT_PATH", "/var/lib/taskhub/state.json")
	t.Setenv("TASKHUB_AUTO_SAVE", "false")
	t.Setenv("TASKHUB_WATCH_SNAPSHOT", "true")
	t.Setenv("TASKHUB_SECRET_KEY", "env_secret")
	t.Setenv("TASKHUB_ACCESS_TOKEN_VALIDITY", "45m")
	t.Setenv("TASKHUB_EVENT_STREAM_INTERVAL", "10s")
	t.Setenv("TASKHUB_BLOB_BACKEND", "s3")
	t.Setenv("TASKHUB_S3_BUCKET", "env-bucket")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "/var/lib/taskhub/state.json", cfg.SnapshotPath)
	assert.False(t, cfg.AutoSave)
	assert.True(t, cfg.WatchSnapshot)
	assert.Equal(t, "env_secret", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 10*time.Second, cfg.EventStreamInterval)
	assert.Equal(t, "s3", cfg.BlobBackend)
	assert.Equal(t, "env-bucket", cfg.S3Bucket)

	// Untouched variables keep their defaults.
	assert.Equal(t, 24*time.Hour, cfg.SessionTokenValidityDuration)
	assert.Equal(t, "admin", cfg.S3RootUser)
}

func Test_parseEnv_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("TASKHUB_AUTO_SAVE", "not-a-bool")
	t.Setenv("TASKHUB_ACCESS_TOKEN_VALIDITY", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.True(t, cfg.AutoSave)
	assert.Equal(t, 1*time.Hour, cfg.AccessTokenValidityDuration)
}

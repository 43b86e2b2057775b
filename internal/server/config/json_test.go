package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsAllFields(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "flag.json", map[string]any{
		"snapshot_path":                   "/tmp/state.json",
		"auto_save":                       false,
		"watch_snapshot":                  true,
		"secret_key":                      "my_secret_key",
		"access_token_validity_duration":  "30m",
		"session_token_validity_duration": "12h",
		"event_stream_interval":           "2s",
		"blob_backend":                    "s3",
		"blob_local_dir":                  "/tmp/blobs",
		"s3_root_user":                    "user",
		"s3_root_password":                "password",
		"s3_bucket":                       "bucket",
		"s3_region":                       "region",
		"s3_base_endpoint":                "base_endpoint",
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "/tmp/state.json", cfg.SnapshotPath)
	assert.False(t, cfg.AutoSave)
	assert.True(t, cfg.WatchSnapshot)
	assert.Equal(t, "my_secret_key", cfg.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 12*time.Hour, cfg.SessionTokenValidityDuration)
	assert.Equal(t, 2*time.Second, cfg.EventStreamInterval)
	assert.Equal(t, "s3", cfg.BlobBackend)
	assert.Equal(t, "/tmp/blobs", cfg.BlobLocalDir)
	assert.Equal(t, "user", cfg.S3RootUser)
	assert.Equal(t, "password", cfg.S3RootPassword)
	assert.Equal(t, "bucket", cfg.S3Bucket)
	assert.Equal(t, "region", cfg.S3Region)
	assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
}

func Test_parseJson_AbsentKeysKeepDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "partial.json", map[string]any{
		"secret_key": "only_this",
	})

	os.Args = []string{"testbin", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "only_this", cfg.SecretKey)
	assert.Equal(t, "data/taskhub.json", cfg.SnapshotPath)
	assert.True(t, cfg.AutoSave)
	assert.Equal(t, 1*time.Hour, cfg.AccessTokenValidityDuration)
}

func Test_parseJson_NoFlagIsNoOp(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "data/taskhub.json", cfg.SnapshotPath)
}

func Test_parseJson_IntegerNanosecondDuration(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "ns.json", map[string]any{
		"event_stream_interval": int64(3 * time.Second),
	})

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, 3*time.Second, cfg.EventStreamInterval)
}

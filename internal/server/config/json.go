package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/flagx"
	"github.com/dmitrijs2005/taskhub/internal/timex"
)

// JsonConfig is the JSON-file shape of Config. It uses timex.Duration for
// interval fields, which accepts both strings such as "1h30m" and integer
// nanoseconds; after unmarshalling its fields are copied into the runtime
// Config.
//
// All fields are pointers so that absent keys leave the corresponding Config
// values untouched instead of zeroing them.
type JsonConfig struct {
	SnapshotPath                 *string         `json:"snapshot_path"`
	AutoSave                     *bool           `json:"auto_save"`
	WatchSnapshot                *bool           `json:"watch_snapshot"`
	SecretKey                    *string         `json:"secret_key"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	SessionTokenValidityDuration *timex.Duration `json:"session_token_validity_duration"`
	EventStreamInterval          *timex.Duration `json:"event_stream_interval"`
	BlobBackend                  *string         `json:"blob_backend"`
	BlobLocalDir                 *string         `json:"blob_local_dir"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config command-line flags;
// when neither is set no file is loaded. An unreadable or invalid file
// panics: a config the operator pointed at explicitly must not be silently
// skipped.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	applyDuration := func(dst *time.Duration, src *timex.Duration) {
		if src != nil {
			*dst = time.Duration(src.Duration)
		}
	}

	applyString(&config.SnapshotPath, c.SnapshotPath)
	applyBool(&config.AutoSave, c.AutoSave)
	applyBool(&config.WatchSnapshot, c.WatchSnapshot)
	applyString(&config.SecretKey, c.SecretKey)
	applyDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	applyDuration(&config.SessionTokenValidityDuration, c.SessionTokenValidityDuration)
	applyDuration(&config.EventStreamInterval, c.EventStreamInterval)
	applyString(&config.BlobBackend, c.BlobBackend)
	applyString(&config.BlobLocalDir, c.BlobLocalDir)
	applyString(&config.S3RootUser, c.S3RootUser)
	applyString(&config.S3RootPassword, c.S3RootPassword)
	applyString(&config.S3Bucket, c.S3Bucket)
	applyString(&config.S3Region, c.S3Region)
	applyString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

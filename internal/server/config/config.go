// Package config handles configuration for the server component, including
// defaults, JSON overlay, environment variables, and command-line flags.
package config

import "time"

// Config holds runtime settings for the TaskHub server.
//
// Fields:
//   - SnapshotPath: path of the JSON snapshot the store persists to.
//   - AutoSave: persist the full state after every mutation.
//   - WatchSnapshot: reload the snapshot when another process rewrites it.
//     Mutually exclusive with AutoSave in practice; the watcher would reload
//     the store's own writes.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test
//     defaults in prod.
//   - AccessTokenValidityDuration: lifetime of tokens issued at login.
//   - SessionTokenValidityDuration: lifetime of tokens issued by the
//     email-based authenticate flow.
//   - EventStreamInterval: tick interval of the task event stream.
//   - BlobBackend: "local" or "s3".
//   - BlobLocalDir: root directory for the local blob backend.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	SnapshotPath                 string
	AutoSave                     bool
	WatchSnapshot                bool
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	SessionTokenValidityDuration time.Duration
	EventStreamInterval          time.Duration
	BlobBackend                  string
	BlobLocalDir                 string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.SnapshotPath = "data/taskhub.json"
	c.AutoSave = true
	c.WatchSnapshot = false
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 1 * time.Hour
	c.SessionTokenValidityDuration = 24 * time.Hour
	c.EventStreamInterval = 5 * time.Second
	c.BlobBackend = "local"
	c.BlobLocalDir = "data/blobs"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "taskhub"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

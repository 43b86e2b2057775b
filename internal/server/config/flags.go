package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   snapshot file path
//	-n          disable auto-save
//	-w          watch the snapshot for external changes
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-k int      session token validity, minutes
//	-i int      event stream interval, seconds
//	-l string   blob backend ("local" or "s3")
//	-d string   local blob directory
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-n", "-w", "-s", "-t", "-k", "-i", "-l", "-d", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.SnapshotPath, "f", config.SnapshotPath, "snapshot file path")
	noAutoSave := fs.Bool("n", false, "disable auto-save")
	fs.BoolVar(&config.WatchSnapshot, "w", config.WatchSnapshot, "watch snapshot for external changes")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	sessionTokenValidity := fs.Int("k", int(config.SessionTokenValidityDuration.Minutes()), "session token validity (in minutes)")
	eventStreamInterval := fs.Int("i", int(config.EventStreamInterval.Seconds()), "event stream interval (in seconds)")

	fs.StringVar(&config.BlobBackend, "l", config.BlobBackend, "blob backend (local or s3)")
	fs.StringVar(&config.BlobLocalDir, "d", config.BlobLocalDir, "local blob directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// The converted flags only overwrite when actually passed; reapplying
	// their whole-minute/-second defaults would truncate finer-grained values
	// from the JSON or env layers.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			config.AutoSave = !*noAutoSave
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "k":
			config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidity) * time.Minute
		case "i":
			config.EventStreamInterval = time.Duration(*eventStreamInterval) * time.Second
		}
	})
}

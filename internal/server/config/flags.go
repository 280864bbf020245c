package config

import (
	"flag"
	"os"
	"time"

	"github.com/secretspace/secretspace/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-l string   public base URL for shareable links
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-i int      expiry sweep interval, seconds
//	-m string   email API endpoint
//	-k string   email API key
//	-f string   email From header
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-d", "-s", "-i", "-m", "-k", "-f", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.BaseURL, "l", config.BaseURL, "public base URL for shareable links")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sweepIntervalSeconds := fs.Int("i", int(config.SweepInterval.Seconds()), "expiry sweep interval (in seconds)")

	fs.StringVar(&config.EmailEndpoint, "m", config.EmailEndpoint, "email API endpoint")
	fs.StringVar(&config.EmailAPIKey, "k", config.EmailAPIKey, "email API key")
	fs.StringVar(&config.EmailFrom, "f", config.EmailFrom, "email From header")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SweepInterval = time.Duration(*sweepIntervalSeconds) * time.Second
}

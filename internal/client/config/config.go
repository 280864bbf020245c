// Package config handles configuration for the SecretSpace CLI.
package config

import "os"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend API (e.g., "http://localhost:8080").
//   - Token: session JWT issued by the identity provider integration.
type Config struct {
	ServerEndpointAddr string
	Token              string
}

// LoadDefaults populates c with sensible defaults. The token default comes
// from the SECRETSPACE_TOKEN environment variable so it never has to appear
// in shell history.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8080"
	c.Token = os.Getenv("SECRETSPACE_TOKEN")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

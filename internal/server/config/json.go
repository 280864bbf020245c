package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/secretspace/secretspace/internal/flagx"
	"github.com/secretspace/secretspace/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "1m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr   string         `json:"endpoint_addr"`
	BaseURL        string         `json:"base_url"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	SweepInterval  timex.Duration `json:"sweep_interval"`
	EmailEndpoint  string         `json:"email_endpoint"`
	EmailAPIKey    string         `json:"email_api_key"`
	EmailFrom      string         `json:"email_from"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable file or
// invalid JSON panics, matching flag-parse behavior.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.BaseURL = c.BaseURL
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	config.EmailEndpoint = c.EmailEndpoint
	config.EmailAPIKey = c.EmailAPIKey
	config.EmailFrom = c.EmailFrom
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}

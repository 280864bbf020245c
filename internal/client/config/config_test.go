package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRETSPACE_TOKEN", "env-token")

	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.ServerEndpointAddr != "http://localhost:8080" {
		t.Errorf("ServerEndpointAddr = %q", cfg.ServerEndpointAddr)
	}
	if cfg.Token != "env-token" {
		t.Errorf("token not taken from env: %q", cfg.Token)
	}
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cli", "-a", "https://api.secretspace.me", "-t", "flag-token"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.ServerEndpointAddr != "https://api.secretspace.me" || cfg.Token != "flag-token" {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestParseJson_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	body := `{"server_endpoint_addr": "https://json.example.org", "token": "json-token"}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cli", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	if cfg.ServerEndpointAddr != "https://json.example.org" || cfg.Token != "json-token" {
		t.Errorf("json not applied: %+v", cfg)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %s, want text", cfg.Log.Format)
	}
	if cfg.Balancer.MaxConcurrentPerServer != 100 {
		t.Errorf("Balancer.MaxConcurrentPerServer = %d, want 100", cfg.Balancer.MaxConcurrentPerServer)
	}
	if cfg.Timeouts.Handshake <= 0 {
		t.Error("Timeouts.Handshake must default to a positive duration")
	}
}

func TestParseValidConfig(t *testing.T) {
	yamlConfig := `
log:
  level: debug
  format: json
fleet:
  servers:
    - address: "1.2.3.4:3333"
      public_key: "00000000000000000000000000000000000000000000000000000000000000ab"
timeouts:
  handshake: 5s
  query: 10s
balancer:
  max_concurrent_per_server: 4
`
	cfg, err := Parse([]byte(yamlConfig))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
	if len(cfg.Fleet.Servers) != 1 {
		t.Fatalf("len(Fleet.Servers) = %d, want 1", len(cfg.Fleet.Servers))
	}
	if cfg.Balancer.MaxConcurrentPerServer != 4 {
		t.Errorf("Balancer.MaxConcurrentPerServer = %d, want 4", cfg.Balancer.MaxConcurrentPerServer)
	}
}

func TestParseInvalidLogLevel(t *testing.T) {
	_, err := Parse([]byte("log:\n  level: verbose\n"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid log level")
	}
}

func TestParseInvalidServerPublicKey(t *testing.T) {
	yamlConfig := `
fleet:
  servers:
    - address: "1.2.3.4:3333"
      public_key: "not-hex"
`
	_, err := Parse([]byte(yamlConfig))
	if err == nil {
		t.Fatal("Parse() expected error for invalid public_key")
	}
}

func TestParseMissingServerAddress(t *testing.T) {
	yamlConfig := `
fleet:
  servers:
    - public_key: "000000000000000000000000000000000000000000000000000000000000000a"
`
	_, err := Parse([]byte(yamlConfig))
	if err == nil {
		t.Fatal("Parse() expected error for missing server address")
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TLCLIENT_TEST_LEVEL", "warn")
	defer os.Unsetenv("TLCLIENT_TEST_LEVEL")

	cfg, err := Parse([]byte("log:\n  level: ${TLCLIENT_TEST_LEVEL}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn (expanded from env)", cfg.Log.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %s, want error", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Fatalf("Load() error = %v, want wrapped read error", err)
	}
}

// Package config provides configuration parsing and validation for the
// lite-server client.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/tonfleet/liteclient/internal/balancer"
	"github.com/tonfleet/liteclient/internal/identity"
	"gopkg.in/yaml.v3"
)

// Config is the complete client configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Schema   SchemaConfig   `yaml:"schema"`
	Fleet    FleetConfig    `yaml:"fleet"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Balancer BalancerConfig `yaml:"balancer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// LogConfig controls structured log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// SchemaConfig selects the TL schema file describing the liteServer API
// surface this client was generated against.
type SchemaConfig struct {
	File string `yaml:"file"`
}

// ServerConfig is one fleet member: its dial address and its
// hex-encoded Curve25519 public key.
type ServerConfig struct {
	Address   string `yaml:"address"`
	PublicKey string `yaml:"public_key"`
}

// PublicKeyBytes decodes the server's hex-encoded public key.
func (s ServerConfig) PublicKeyBytes() ([32]byte, error) {
	key, err := identity.ParsePublicKey(s.PublicKey)
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid public_key for %s: %w", s.Address, err)
	}
	return [32]byte(key), nil
}

// FleetConfig lists the static seed set of lite-servers to connect to.
type FleetConfig struct {
	Servers []ServerConfig `yaml:"servers"`
}

// TimeoutsConfig controls how long various client operations wait
// before giving up.
type TimeoutsConfig struct {
	Handshake       time.Duration `yaml:"handshake"`
	Query           time.Duration `yaml:"query"`
	MasterchainPoll time.Duration `yaml:"masterchain_poll"`
	FirstBlockPoll  time.Duration `yaml:"first_block_poll"`
}

// BalancerConfig tunes the load-balancing layer.
type BalancerConfig struct {
	MaxConcurrentPerServer int           `yaml:"max_concurrent_per_server"`
	DecayHalfLife          time.Duration `yaml:"decay_half_life"`
	DefaultRTT             time.Duration `yaml:"default_rtt"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Default returns a Config populated with the client's default settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Schema: SchemaConfig{
			File: "tl/schema/liteserver.tl",
		},
		Fleet: FleetConfig{Servers: []ServerConfig{}},
		Timeouts: TimeoutsConfig{
			Handshake:       5 * time.Second,
			Query:           3 * time.Second,
			MasterchainPoll: 2 * time.Second,
			FirstBlockPoll:  30 * time.Second,
		},
		Balancer: BalancerConfig{
			MaxConcurrentPerServer: 100,
			DecayHalfLife:          balancer.DefaultDecayHalfLife,
			DefaultRTT:             balancer.DefaultRTT,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9465",
		},
	}
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes, starting from Default()
// so unset fields keep sane values, then validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envVarRegex matches ${VAR} or $VAR patterns.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars replaces environment variable references with their values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		var name string
		if strings.HasPrefix(match, "${") {
			name = match[2 : len(match)-1]
		} else {
			name = match[1:]
		}
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Validate checks the configuration for consistency, returning the
// first problem found.
func (c *Config) Validate() error {
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if !isValidLogFormat(c.Log.Format) {
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	for i, s := range c.Fleet.Servers {
		if s.Address == "" {
			return fmt.Errorf("fleet.servers[%d]: address is required", i)
		}
		if _, err := s.PublicKeyBytes(); err != nil {
			return fmt.Errorf("fleet.servers[%d]: %w", i, err)
		}
	}
	if c.Timeouts.Handshake <= 0 {
		return fmt.Errorf("timeouts.handshake must be positive")
	}
	if c.Timeouts.Query <= 0 {
		return fmt.Errorf("timeouts.query must be positive")
	}
	if c.Balancer.MaxConcurrentPerServer < 0 {
		return fmt.Errorf("balancer.max_concurrent_per_server must be >= 0")
	}
	if c.Balancer.DecayHalfLife <= 0 {
		return fmt.Errorf("balancer.decay_half_life must be positive")
	}
	if c.Balancer.DefaultRTT <= 0 {
		return fmt.Errorf("balancer.default_rtt must be positive")
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func isValidLogFormat(format string) bool {
	switch format {
	case "text", "json":
		return true
	}
	return false
}

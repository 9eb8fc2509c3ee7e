package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kumarlokesh/trie-server/internal/logging"
)

// envPrefix namespaces environment overrides, e.g. TRIE_SERVER_PORT
const envPrefix = "TRIE"

// DefaultStateFile is where the trie is persisted when no state file is
// configured
const DefaultStateFile = "/tmp/trie_server.state.json"

// Config holds all configuration for the trie server
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	State   StateConfig   `mapstructure:"state"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StateConfig holds persistence related configuration. File defaults to
// DefaultStateFile; setting it to an empty string keeps the trie in memory
// only.
type StateConfig struct {
	File string `mapstructure:"file"`
}

// IsDefault reports whether the state file was left at DefaultStateFile
func (c *StateConfig) IsDefault() bool {
	return c.File == DefaultStateFile
}

// SuggestConfig holds completion related configuration
type SuggestConfig struct {
	DefaultCount int `mapstructure:"default_count"`
}

// LogConfig holds logging related configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Addr returns the host:port the server listens on
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("state.file", DefaultStateFile)

	v.SetDefault("suggest.default_count", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Suggest.DefaultCount < 0 {
		return fmt.Errorf("suggest default count cannot be negative: %d", c.Suggest.DefaultCount)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `mapstructure:"addr"`
	// DatabasePath is the SQLite database file. Empty selects the
	// in-memory session store (no durable persistence).
	DatabasePath string `mapstructure:"database_path"`
	// MasterSecret signs bearer tokens. Required.
	MasterSecret string `mapstructure:"master_secret"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// AllowedOrigins is the CORS allow-list.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// Agent configures the voice-agent provider integration.
	Agent AgentConfig `mapstructure:"agent"`
}

// AgentConfig holds the voice-agent provider settings used by the
// signed-URL exchange.
type AgentConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	AgentID string `mapstructure:"agent_id"`
}

// Load reads configuration from config.yaml (optional) and ATELIER_*
// environment variables. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ATELIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults also register the keys so AutomaticEnv can override them
	// during Unmarshal.
	v.SetDefault("addr", ":3005")
	v.SetDefault("database_path", "./atelier.db")
	v.SetDefault("master_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("agent.base_url", "https://api.elevenlabs.io")
	v.SetDefault("agent.api_key", "")
	v.SetDefault("agent.agent_id", "")

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional; environment variables alone are fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MasterSecret == "" {
		return nil, fmt.Errorf("ATELIER_MASTER_SECRET is required")
	}

	return &cfg, nil
}

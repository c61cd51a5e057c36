package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	ListenAddr     string        `mapstructure:"LISTEN_ADDR"`
	DBPath         string        `mapstructure:"DB_PATH"`
	StatePath      string        `mapstructure:"STATE_PATH"`
	GithubAPIURL   string        `mapstructure:"GITHUB_API_URL"`
	NetworkTimeout time.Duration `mapstructure:"NETWORK_TIMEOUT"`
	PageSize       int           `mapstructure:"PAGE_SIZE"`
	ProbeAddr      string        `mapstructure:"PROBE_ADDR"`
	ProbeInterval  time.Duration `mapstructure:"PROBE_INTERVAL"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LISTEN_ADDR", "127.0.0.1:8343")
	viper.SetDefault("DB_PATH", "data/gitcards.db")
	viper.SetDefault("STATE_PATH", "data/state.db")
	viper.SetDefault("GITHUB_API_URL", "")
	viper.SetDefault("NETWORK_TIMEOUT", "10s")
	viper.SetDefault("PAGE_SIZE", 30)
	viper.SetDefault("PROBE_ADDR", "api.github.com:443")
	viper.SetDefault("PROBE_INTERVAL", "15s")

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is a required configuration field")
	}
	if cfg.StatePath == "" {
		return nil, errors.New("STATE_PATH is a required configuration field")
	}
	if cfg.NetworkTimeout <= 0 {
		return nil, errors.New("NETWORK_TIMEOUT must be a positive duration")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return nil, errors.New("PAGE_SIZE must be between 1 and 100")
	}
	if cfg.ProbeInterval <= 0 {
		return nil, errors.New("PROBE_INTERVAL must be a positive duration")
	}

	return &cfg, nil
}

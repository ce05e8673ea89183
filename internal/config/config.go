// Package config loads the lezwallet-go command settings from the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/logging"
)

// Prefix is prepended to every variable name, e.g. LEZ_WALLET_STORAGE_PATH.
const Prefix = "LEZ_WALLET"

var (
	ErrMissingStorage  = errors.New("config: storage path is required")
	ErrMissingPassword = errors.New("config: password is required to create a wallet")
)

// Config holds the command settings. Password is only read when Create is
// set; opening an existing wallet does not take one.
type Config struct {
	ConfigPath  string `envconfig:"CONFIG_PATH"`
	StoragePath string `envconfig:"STORAGE_PATH" required:"true"`
	Password    string `envconfig:"PASSWORD"`
	Create      bool   `envconfig:"CREATE" default:"false"`

	// Simulated selects the in-process engine instead of the native one. It
	// reaches no chain and stores account keys unencrypted.
	Simulated bool `envconfig:"SIMULATED" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	Metrics   bool   `envconfig:"METRICS" default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.StoragePath == "" {
		return ErrMissingStorage
	}
	if c.Create && c.Password == "" {
		return ErrMissingPassword
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "zap":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	return nil
}

// LogValue keeps the password out of log records.
func (c *Config) LogValue() slog.Value {
	pw := ""
	if c.Password != "" {
		pw = logging.Placeholder()
	}
	return slog.GroupValue(
		slog.String("config_path", c.ConfigPath),
		slog.String("storage_path", c.StoragePath),
		slog.String("password", pw),
		slog.Bool("create", c.Create),
		slog.Bool("simulated", c.Simulated),
		slog.String("log_level", c.LogLevel),
		slog.String("log_format", c.LogFormat),
		slog.Bool("metrics", c.Metrics),
	)
}

// Package config loads hxdash settings from hxdash.yaml and HXDASH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "hxdash"
	configType = "yaml"
	envPrefix  = "HXDASH"
)

// Config keys.
const (
	KeyListen        = "listen"
	KeyAPIBaseURL    = "api.base_url"
	KeyAPIRateLimit  = "api.rate_limit"
	KeyAPIBurst      = "api.burst"
	KeyAPITimeout    = "api.timeout"
	KeyAccountHeader = "api.account_header"
	KeyStatePath     = "state.path"
	KeySecret        = "secret"
	KeyLogLevel      = "log.level"
	KeySessionTTL    = "session.lifetime"
)

// ErrNoBaseURL is returned by Validate when api.base_url is unset.
var ErrNoBaseURL = errors.New("config: api.base_url is required")

// Config is the resolved configuration.
type Config struct {
	Listen  string        `mapstructure:"listen"`
	API     APIConfig     `mapstructure:"api"`
	State   StateConfig   `mapstructure:"state"`
	Secret  string        `mapstructure:"secret"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
}

type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	RateLimit     float64       `mapstructure:"rate_limit"`
	Burst         int           `mapstructure:"burst"`
	Timeout       time.Duration `mapstructure:"timeout"`
	AccountHeader string        `mapstructure:"account_header"`
}

type StateConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SessionConfig struct {
	Lifetime time.Duration `mapstructure:"lifetime"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyAPIBaseURL, "")
	v.SetDefault(KeyAPIRateLimit, 20.0)
	v.SetDefault(KeyAPIBurst, 10)
	v.SetDefault(KeyAPITimeout, 15*time.Second)
	v.SetDefault(KeyAccountHeader, "X-Account-ID")
	v.SetDefault(KeyStatePath, ".hxdash/state.db")
	v.SetDefault(KeySecret, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySessionTTL, 12*time.Hour)
}

// Load reads configuration. An explicit file must exist; otherwise
// hxdash.yaml is searched in the working directory and $HOME/.hxdash and
// may be missing.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.hxdash")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to serve.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return ErrNoBaseURL
	}
	return nil
}

// LogLevel maps log.level to a slog level. Unknown names mean info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.LogLevel()}))
}

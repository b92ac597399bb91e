// Package config loads the pmapserial command line configuration
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the CLI configuration
type Config struct {
	Device        string       `mapstructure:"device"`
	ReadTimeoutMs int          `mapstructure:"read_timeout_ms"`
	Log           LogConfig    `mapstructure:"log"`
	Prompt        PromptConfig `mapstructure:"prompt"`
}

// LogConfig controls the session log file
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// PromptConfig controls operator prompts
type PromptConfig struct {
	Doubled bool `mapstructure:"doubled"`
}

// Load reads configuration from configFile (or pmapserial.yaml in the usual
// places), PMAPSERIAL_* environment variables and flags bound to v.
// A missing default config file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("pmapserial")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pmapserial")
	}

	v.SetEnvPrefix("PMAPSERIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("device", "")
	v.SetDefault("read_timeout_ms", 5000)
	v.SetDefault("log.enabled", false)
	v.SetDefault("log.dir", ".")
	v.SetDefault("prompt.doubled", false)
}

func validate(config *Config) error {
	if config.ReadTimeoutMs < 0 || config.ReadTimeoutMs > math.MaxUint16 {
		return fmt.Errorf("read_timeout_ms must be between 0 and %d", math.MaxUint16)
	}
	if config.Log.Enabled && config.Log.Dir == "" {
		return fmt.Errorf("log.dir is required when logging is enabled")
	}
	return nil
}

// ReadTimeout returns the read timeout in milliseconds
func (c *Config) ReadTimeout() uint16 {
	return uint16(c.ReadTimeoutMs)
}

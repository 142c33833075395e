package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

var (
	once sync.Once
	cfg  *Config
)

// GetConfig reads and validates config.yaml from the working directory on
// every call and stores the result in the package-level configuration
func GetConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		cfg = nil
		return nil, fmt.Errorf("failed to read config file: %s", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		cfg = nil
		return nil, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if err := cfg.Validate(); err != nil {
		cfg = nil
		return nil, fmt.Errorf("failed to validate config: %s", err)
	}

	if cfg == nil {
		return nil, errors.New("failed to load configuration")
	}

	return cfg, nil
}

// Reset resets the configuration singleton, useful for testing
func Reset() {
	once = sync.Once{}
	cfg = nil
}

// Validate checks the config to error on empty field
func (cfg *Config) Validate() error {
	if cfg.Setup.App.Name == "" {
		return fmt.Errorf("setup.app.name is required")
	}

	if cfg.Setup.App.Version == "" {
		return fmt.Errorf("setup.app.version is required")
	}

	if cfg.Setup.Logging.Level == "" {
		return fmt.Errorf("setup.logging.level is required")
	}

	if cfg.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative")
	}

	return nil
}

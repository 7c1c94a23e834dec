package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	Storage string `mapstructure:"STORAGE"` // "postgres" or "redis"

	DatabaseURL string `mapstructure:"DATABASE_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Delivery policy; zero values fall back to the getters' defaults
	DeliveryTimeoutSeconds int `mapstructure:"DELIVERY_TIMEOUT_SECONDS"`
	MaxAttempts            int `mapstructure:"MAX_ATTEMPTS"`
	BaseDelayMillis        int `mapstructure:"BASE_DELAY_MILLIS"`

	// Standard Webhooks signing secret (whsec_...); empty disables signing
	SigningSecret string `mapstructure:"SIGNING_SECRET"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		// Environment-only configuration is fine; a missing file is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	return &config, nil
}

// GetPort returns the HTTP listen port (default 8080)
func (c *Config) GetPort() string {
	if c.Port == "" {
		return "8080"
	}
	return c.Port
}

// GetStorage returns the store backend name (default postgres)
func (c *Config) GetStorage() string {
	if c.Storage == "" {
		return "postgres"
	}
	return c.Storage
}

// GetDeliveryTimeout returns the per-attempt HTTP timeout (default 10s)
func (c *Config) GetDeliveryTimeout() time.Duration {
	if c.DeliveryTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.DeliveryTimeoutSeconds) * time.Second
}

// GetMaxAttempts returns the total dispatch attempts ceiling (default 3)
func (c *Config) GetMaxAttempts() int {
	if c.MaxAttempts <= 0 {
		return 3
	}
	return c.MaxAttempts
}

// GetBaseDelay returns the wait before the first retry (default 1s)
func (c *Config) GetBaseDelay() time.Duration {
	if c.BaseDelayMillis <= 0 {
		return time.Second
	}
	return time.Duration(c.BaseDelayMillis) * time.Millisecond
}

package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultTokenTTLSeconds is the access token lifetime when none is configured.
const DefaultTokenTTLSeconds = 86400

type Config struct {
	APIPort  int `yaml:"apiPort"`
	Database struct {
		Type       string `yaml:"type"` // postgres, sqlite or memory
		Path       string `yaml:"path"` // sqlite only
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		Name       string `yaml:"name"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		SSLMode    string `yaml:"sslMode"`
		MaxRetries int    `yaml:"maxRetries"`
		RetryDelay int    `yaml:"retryDelay"`
	} `yaml:"database"`
	Auth struct {
		BcryptCost      int `yaml:"bcryptCost"`
		TokenTTLSeconds int `yaml:"tokenTTLSeconds"`
	} `yaml:"auth"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLSeconds) * time.Second
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("AUTHCORE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Printf("Warning: could not read config file %s, using defaults and environment variables", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIPort == 0 {
		cfg.APIPort = 8080
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "authcore.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}
	if cfg.Database.RetryDelay == 0 {
		cfg.Database.RetryDelay = 2
	}
	// BcryptCost 0 means "driver default"; the auth package resolves it.
	if cfg.Auth.TokenTTLSeconds == 0 {
		cfg.Auth.TokenTTLSeconds = DefaultTokenTTLSeconds
	}
}

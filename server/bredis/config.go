package bredis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RedisConfig holds redis configuration
type RedisConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// LoadRedisConfig loads redis configuration from yaml file
func LoadRedisConfig(path string) (*RedisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read redis config file: %w", err)
	}

	var config RedisConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse redis config file: %w", err)
	}

	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == "" {
		config.Port = "6379"
	}

	return &config, nil
}

// NewFromConfig opens a client from a config file. Returns nil when the
// config file is missing or the server is unreachable.
func NewFromConfig(configPath string) *Client {
	config, err := LoadRedisConfig(configPath)
	if err != nil {
		return nil
	}
	return New(config.Host+":"+config.Port, config.Password, config.DB, config.KeyPrefix)
}

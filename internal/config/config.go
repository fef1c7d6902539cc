// Package config loads the market-data service configuration from a YAML
// file with ${VAR} environment substitution, applies defaults, and
// validates required fields.
package config

import "time"

// ServiceConfig is the root configuration for the market-data service.
type ServiceConfig struct {
	Service  ServerConfig   `yaml:"service"`
	Kraken   KrakenConfig   `yaml:"kraken"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"` // development or production
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Debug       bool   `yaml:"debug"`
}

// KrakenConfig holds Kraken REST API settings.
type KrakenConfig struct {
	RestURL    string        `yaml:"rest_url"`
	APIKey     string        `yaml:"api_key"`    // Only needed for private endpoints
	APISecret  string        `yaml:"api_secret"` // Base64 secret for request signing
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// DatabaseConfig holds the database web service connection.
// The database is consumed as an HTTP CRUD API, not a SQL connection.
type DatabaseConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig holds pair cache settings.
type CacheConfig struct {
	PairsTTL time.Duration `yaml:"pairs_ttl"`
	Redis    RedisConfig   `yaml:"redis"`
}

// RedisConfig holds the optional Redis snapshot store. When disabled the
// pair cache is purely in-memory.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

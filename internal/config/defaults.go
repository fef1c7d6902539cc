package config

import (
	"os"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultServiceName   = "market-data"
	DefaultEnvironment   = "development"
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8001
	DefaultKrakenRestURL = "https://api.kraken.com"
	DefaultKrakenTimeout = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultDatabaseURL   = "http://dev01.int.stortz.tech:8000"
	DefaultDBTimeout     = 30 * time.Second
	DefaultPairsTTL      = time.Hour
	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisKey      = "kraken:pairs"
)

func (c *ServiceConfig) applyDefaults() {
	// Service defaults
	if c.Service.Name == "" {
		c.Service.Name = DefaultServiceName
	}
	if c.Service.Environment == "" {
		c.Service.Environment = DefaultEnvironment
	}
	if c.Service.Host == "" {
		c.Service.Host = DefaultHost
	}
	if c.Service.Port == 0 {
		c.Service.Port = DefaultPort
	}

	// Kraken defaults
	if c.Kraken.RestURL == "" {
		c.Kraken.RestURL = DefaultKrakenRestURL
	}
	if c.Kraken.Timeout == 0 {
		c.Kraken.Timeout = DefaultKrakenTimeout
	}
	if c.Kraken.MaxRetries == 0 {
		c.Kraken.MaxRetries = DefaultMaxRetries
	}

	// Database defaults. DATABASE_API_URL (or legacy DATABASE_URL) wins
	// over the file so deployments can repoint the web service without a
	// config edit.
	if url := os.Getenv("DATABASE_API_URL"); url != "" {
		c.Database.BaseURL = url
	} else if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Database.BaseURL = url
	}
	if c.Database.BaseURL == "" {
		c.Database.BaseURL = DefaultDatabaseURL
	}
	if c.Database.Timeout == 0 {
		c.Database.Timeout = DefaultDBTimeout
	}

	// Cache defaults
	if c.Cache.PairsTTL == 0 {
		c.Cache.PairsTTL = DefaultPairsTTL
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = DefaultRedisAddr
	}
	if c.Cache.Redis.Key == "" {
		c.Cache.Redis.Key = DefaultRedisKey
	}
}

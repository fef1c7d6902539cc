package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServiceConfig) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port must be between 1 and 65535, got %d", c.Service.Port)
	}
	if c.Service.Environment != "development" && c.Service.Environment != "production" {
		return fmt.Errorf("service.environment must be development or production, got %q", c.Service.Environment)
	}

	if c.Kraken.RestURL == "" {
		return errors.New("kraken.rest_url is required")
	}
	if c.Kraken.MaxRetries < 0 {
		return errors.New("kraken.max_retries must be >= 0")
	}

	if c.Database.BaseURL == "" {
		return errors.New("database.base_url is required")
	}

	if c.Cache.PairsTTL <= 0 {
		return errors.New("cache.pairs_ttl must be positive")
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Addr == "" {
		return errors.New("cache.redis.addr is required when redis is enabled")
	}

	return nil
}

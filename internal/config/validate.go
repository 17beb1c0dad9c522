package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if c.Feed.URL == "" {
		return errors.New("feed.url is required")
	}
	if c.Feed.BufferSize < 1 {
		return errors.New("feed.buffer_size must be >= 1")
	}
	if c.Feed.ReconnectBaseDelay > c.Feed.ReconnectMaxDelay {
		return fmt.Errorf("feed.reconnect_base_delay (%v) cannot exceed reconnect_max_delay (%v)",
			c.Feed.ReconnectBaseDelay, c.Feed.ReconnectMaxDelay)
	}

	if c.Journal.Enabled {
		if err := c.Journal.validate("journal"); err != nil {
			return err
		}
	}

	if c.Market.EventID == "" {
		return errors.New("market.event_id is required")
	}
	if c.Market.MarketID == "" {
		return errors.New("market.market_id is required")
	}

	return nil
}

func (j *JournalConfig) validate(prefix string) error {
	if j.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if j.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if j.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if j.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if j.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if j.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if j.MinConns > j.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, j.MinConns, j.MaxConns)
	}
	return nil
}

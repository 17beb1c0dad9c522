package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryBackoff    = 1 * time.Second
	DefaultPingInterval    = 15 * time.Second
	DefaultReadTimeout     = 30 * time.Second
	DefaultHandshake       = 10 * time.Second
	DefaultReconnectBase   = 1 * time.Second
	DefaultReconnectMax    = 60 * time.Second
	DefaultFeedBufferSize  = 256
	DefaultJournalPort     = 5432
	DefaultJournalSSLMode  = "prefer"
	DefaultJournalMaxConns = 4
	DefaultJournalMinConns = 1
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	// Feed defaults
	if c.Feed.PingInterval == 0 {
		c.Feed.PingInterval = DefaultPingInterval
	}
	if c.Feed.ReadTimeout == 0 {
		c.Feed.ReadTimeout = DefaultReadTimeout
	}
	if c.Feed.HandshakeTimeout == 0 {
		c.Feed.HandshakeTimeout = DefaultHandshake
	}
	if c.Feed.ReconnectBaseDelay == 0 {
		c.Feed.ReconnectBaseDelay = DefaultReconnectBase
	}
	if c.Feed.ReconnectMaxDelay == 0 {
		c.Feed.ReconnectMaxDelay = DefaultReconnectMax
	}
	if c.Feed.BufferSize == 0 {
		c.Feed.BufferSize = DefaultFeedBufferSize
	}

	// Journal defaults
	if c.Journal.Port == 0 {
		c.Journal.Port = DefaultJournalPort
	}
	if c.Journal.SSLMode == "" {
		c.Journal.SSLMode = DefaultJournalSSLMode
	}
	if c.Journal.MaxConns == 0 {
		c.Journal.MaxConns = DefaultJournalMaxConns
	}
	if c.Journal.MinConns == 0 {
		c.Journal.MinConns = DefaultJournalMinConns
	}
}

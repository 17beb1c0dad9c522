// Package config provides YAML configuration loading for the trading
// client, with environment-variable expansion, defaults, and validation.
package config

import "time"

// Config is the root configuration.
type Config struct {
	// API settings for the venue REST endpoints
	API APIConfig `yaml:"api"`

	// Feed settings for the WebSocket price stream
	Feed FeedConfig `yaml:"feed"`

	// Journal settings for the optional Postgres submission journal
	Journal JournalConfig `yaml:"journal"`

	// Market identifies the event/market the CLI trades by default
	Market MarketConfig `yaml:"market"`
}

// APIConfig contains REST client settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// FeedConfig contains WebSocket price feed settings.
type FeedConfig struct {
	URL                string        `yaml:"url"`
	PingInterval       time.Duration `yaml:"ping_interval"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	HandshakeTimeout   time.Duration `yaml:"handshake_timeout"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	BufferSize         int           `yaml:"buffer_size"`
}

// JournalConfig contains settings for the submission journal database.
// The journal is off unless enabled explicitly.
type JournalConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// MarketConfig names the event and market the CLI operates on.
type MarketConfig struct {
	EventID  string `yaml:"event_id"`
	MarketID string `yaml:"market_id"`
}

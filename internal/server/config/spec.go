package config

import "time"

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	Admin AdminConfig `koanf:"admin"`
}

// Command error policies.
const (
	OnErrorReply = "reply"
	OnErrorClose = "close"
)

// RedisConfig configures the RESP server.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadTimeout bounds the time to receive the rest of a started request.
	ReadTimeout time.Duration `koanf:"read_timeout"`
	// WriteTimeout bounds each flush of replies.
	WriteTimeout time.Duration `koanf:"write_timeout"`
	// IdleTimeout bounds the wait for the next request.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// RateLimit is commands per second per client IP. 0 disables it.
	RateLimit int `koanf:"rate_limit"`
	// MaxConnections caps concurrent clients. 0 means unlimited.
	MaxConnections int `koanf:"max_connections"`
	// OnCommandError is "reply" or "close".
	OnCommandError string `koanf:"on_command_error"`

	// Decoder limits. 0 keeps the decoder's default.
	MaxBulkLen      int `koanf:"max_bulk_len"`
	MaxAggregateLen int `koanf:"max_aggregate_len"`
	MaxLineLen      int `koanf:"max_line_len"`
	MaxDepth        int `koanf:"max_depth"`

	TLS TLSConfig `koanf:"tls"`
}

// TLSConfig enables TLS on the RESP listener when CertFile is set.
// The key pair is reloaded when either file changes.
type TLSConfig struct {
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
	// ClientCAFile, when set, requires client certificates signed by it.
	ClientCAFile string `koanf:"client_ca_file"`
}

// Enabled reports whether TLS is configured.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != ""
}

// AdminConfig configures the HTTP admin endpoint.
type AdminConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	// Shards per key space; must be a power of two.
	Shards int `koanf:"shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

package config

import "time"

// Default configuration values.
const (
	DefaultRedisAddr    = "127.0.0.1:6379"
	DefaultAdminAddr    = "127.0.0.1:9121"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 5 * time.Minute

	DefaultShards = 16

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Redis: RedisConfig{
				Addr:           DefaultRedisAddr,
				ReadTimeout:    DefaultReadTimeout,
				WriteTimeout:   DefaultWriteTimeout,
				IdleTimeout:    DefaultIdleTimeout,
				OnCommandError: OnErrorReply,
			},
			Admin: AdminConfig{
				Enabled: true,
				Addr:    DefaultAdminAddr,
			},
		},
		Storage: StorageSection{
			Shards: DefaultShards,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns the defaults keyed by their dotted config paths, for
// seeding the config loader.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server.redis.addr":               d.Server.Redis.Addr,
		"server.redis.read_timeout":       d.Server.Redis.ReadTimeout.String(),
		"server.redis.write_timeout":      d.Server.Redis.WriteTimeout.String(),
		"server.redis.idle_timeout":       d.Server.Redis.IdleTimeout.String(),
		"server.redis.rate_limit":         d.Server.Redis.RateLimit,
		"server.redis.max_connections":    d.Server.Redis.MaxConnections,
		"server.redis.on_command_error":   d.Server.Redis.OnCommandError,
		"server.redis.tls.cert_file":      d.Server.Redis.TLS.CertFile,
		"server.redis.tls.key_file":       d.Server.Redis.TLS.KeyFile,
		"server.redis.tls.client_ca_file": d.Server.Redis.TLS.ClientCAFile,
		"server.admin.enabled":            d.Server.Admin.Enabled,
		"server.admin.addr":               d.Server.Admin.Addr,
		"storage.shards":                  d.Storage.Shards,
		"log.level":                       d.Log.Level,
		"log.format":                      d.Log.Format,
	}
}

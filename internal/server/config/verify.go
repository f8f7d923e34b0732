package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyRedis(&cfg.Server.Redis); err != nil {
		return err
	}
	if err := verifyAdmin(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

func verifyAddr(name, addr string) error {
	if addr == "" {
		return invalid("%s is required", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return invalid("%s %q: %v", name, addr, err)
	}
	return nil
}

func verifyRedis(cfg *RedisConfig) error {
	if err := verifyAddr("server.redis.addr", cfg.Addr); err != nil {
		return err
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return invalid("server.redis timeouts must not be negative")
	}
	if cfg.RateLimit < 0 {
		return invalid("server.redis.rate_limit must not be negative")
	}
	if cfg.MaxConnections < 0 {
		return invalid("server.redis.max_connections must not be negative")
	}
	switch cfg.OnCommandError {
	case OnErrorReply, OnErrorClose:
	default:
		return invalid("server.redis.on_command_error must be %q or %q, got %q", OnErrorReply, OnErrorClose, cfg.OnCommandError)
	}
	if cfg.MaxBulkLen < 0 || cfg.MaxAggregateLen < 0 || cfg.MaxLineLen < 0 || cfg.MaxDepth < 0 {
		return invalid("server.redis decoder limits must not be negative")
	}
	return verifyTLS(&cfg.TLS)
}

func verifyTLS(cfg *TLSConfig) error {
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return invalid("server.redis.tls.cert_file and key_file must be set together")
	}
	if cfg.ClientCAFile != "" && !cfg.Enabled() {
		return invalid("server.redis.tls.client_ca_file requires cert_file and key_file")
	}
	return nil
}

func verifyAdmin(cfg *ServerSection) error {
	if !cfg.Admin.Enabled {
		return nil
	}
	if err := verifyAddr("server.admin.addr", cfg.Admin.Addr); err != nil {
		return err
	}
	if cfg.Admin.Addr == cfg.Redis.Addr {
		return invalid("server.admin.addr and server.redis.addr are both %q", cfg.Admin.Addr)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.Shards <= 0 || cfg.Shards&(cfg.Shards-1) != 0 {
		return invalid("storage.shards must be a power of two, got %d", cfg.Shards)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return invalid("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return invalid("log.format %q must be json or text", cfg.Format)
	}
	return nil
}

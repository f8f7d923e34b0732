package confloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Redis struct {
			Addr        string        `koanf:"addr"`
			ReadTimeout time.Duration `koanf:"read_timeout"`
			RateLimit   int           `koanf:"rate_limit"`
		} `koanf:"redis"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func testDefaults() map[string]any {
	return map[string]any{
		"server.redis.addr":         "127.0.0.1:6379",
		"server.redis.read_timeout": "30s",
		"server.redis.rate_limit":   0,
		"log.level":                 "info",
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoader_Defaults(t *testing.T) {
	l := NewLoader(WithDefaults(testDefaults()))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("Addr = %q", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want 30s", cfg.Server.Redis.ReadTimeout)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false after Load()")
	}
}

func TestLoader_YAMLFile(t *testing.T) {
	path := writeFile(t, "respkv.yaml", `
server:
  redis:
    addr: "0.0.0.0:7000"
    read_timeout: 5s
log:
  level: debug
`)
	l := NewLoader(WithDefaults(testDefaults()), WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "0.0.0.0:7000" || cfg.Server.Redis.ReadTimeout != 5*time.Second {
		t.Errorf("redis = %+v", cfg.Server.Redis)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoader_TOMLFile(t *testing.T) {
	path := writeFile(t, "respkv.toml", `
[server.redis]
addr = "0.0.0.0:7001"
rate_limit = 250

[log]
level = "warn"
`)
	l := NewLoader(WithDefaults(testDefaults()), WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "0.0.0.0:7001" || cfg.Server.Redis.RateLimit != 250 {
		t.Errorf("redis = %+v", cfg.Server.Redis)
	}
	if cfg.Server.Redis.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v, want default 30s", cfg.Server.Redis.ReadTimeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoader_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "respkv.ini", "x=1")
	l := NewLoader(WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml")))

	var cfg testConfig
	if err := l.Load(&cfg); err == nil {
		t.Error("Load() with missing file should fail")
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "respkv.yaml", "server:\n  redis:\n    addr: from-file:1\n")
	t.Setenv("RESPKV_SERVER_REDIS_ADDR", "from-env:2")
	t.Setenv("RESPKV_SERVER_REDIS_READ_TIMEOUT", "2s")
	t.Setenv("RESPKV_SERVER_REDIS_RATE_LIMIT", "10")

	l := NewLoader(WithDefaults(testDefaults()), WithConfigFile(path))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "from-env:2" {
		t.Errorf("Addr = %q, want env value", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadTimeout != 2*time.Second {
		t.Errorf("ReadTimeout = %v, want 2s from env", cfg.Server.Redis.ReadTimeout)
	}
	if cfg.Server.Redis.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10 from env", cfg.Server.Redis.RateLimit)
	}
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("KV_LOG_LEVEL", "error")
	l := NewLoader(WithEnvPrefix("KV_"), WithDefaults(testDefaults()))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
}

func TestLoader_LoadMapDottedKeys(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{"server.redis.addr": "h:1", "debug": true}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if got := l.GetString("server.redis.addr"); got != "h:1" {
		t.Errorf("server.redis.addr = %q", got)
	}
	if !l.GetBool("debug") {
		t.Error("debug should be true")
	}

	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Server.Redis.Addr != "h:1" {
		t.Errorf("unmarshalled Addr = %q, want nested value", cfg.Server.Redis.Addr)
	}
}

func TestMapProvider_ReadBytes(t *testing.T) {
	if _, err := mapProvider(nil).ReadBytes(); !errors.Is(err, ErrReadBytesNotSupported) {
		t.Errorf("ReadBytes() error = %v", err)
	}
}

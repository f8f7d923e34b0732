package confloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "RESPKV_"

// ErrUnsupportedFormat is returned for a config file with an unknown extension.
var ErrUnsupportedFormat = errors.New("confloader: unsupported config file format")

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	defaults  map[string]any
	loaded    bool
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithDefaults sets the lowest-priority values, keyed by dotted path.
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) {
		l.defaults = defaults
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads configuration from all sources and unmarshals into target.
// Later sources override earlier ones: defaults, file, environment.
func (l *Loader) Load(target any) error {
	if l.defaults != nil {
		if err := l.LoadMap(l.defaults); err != nil {
			return fmt.Errorf("load defaults: %w", err)
		}
	}

	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.LoadEnv(); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	l.loaded = true
	return nil
}

// LoadFile loads a YAML (.yaml, .yml) or TOML (.toml) file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("load file %s: %w", path, err)
		}
	case ".toml":
		var data map[string]any
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("load file %s: %w", path, err)
		}
		if err := l.LoadMap(data); err != nil {
			return fmt.Errorf("load file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	return nil
}

// LoadEnv loads configuration from environment variables.
//
// RESPKV_SERVER_REDIS_READ_TIMEOUT resolves to server.redis.read_timeout
// when that key is already known from defaults or the file; otherwise each
// underscore becomes a dot.
func (l *Loader) LoadEnv() error {
	known := make(map[string]string)
	for _, k := range l.k.Keys() {
		known[strings.ReplaceAll(k, ".", "_")] = k
	}

	transform := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		if k, ok := known[s]; ok {
			return k
		}
		return strings.ReplaceAll(s, "_", ".")
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", transform), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadMap loads configuration from a map (useful for flags or testing).
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the loaded configuration into the target struct.
// Uses koanf tags for struct field mapping.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// FilePath returns the configured file path, or "".
func (l *Loader) FilePath() string {
	return l.filePath
}

// GetString returns a string value from the configuration.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt returns an int value from the configuration.
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// GetBool returns a bool value from the configuration.
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// IsLoaded returns true if configuration has been loaded.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}

// Keys returns all configuration keys.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}

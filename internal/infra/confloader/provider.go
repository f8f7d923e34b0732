package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// ErrReadBytesNotSupported is returned when ReadBytes is called on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: ReadBytes not supported by map provider, use Read() instead")

// mapProvider is a koanf provider over an in-memory map. Dotted keys
// ("server.redis.addr") are expanded into nested maps on Read.
type mapProvider map[string]any

// ReadBytes returns an error as map provider doesn't support byte serialization.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the configuration map.
func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}

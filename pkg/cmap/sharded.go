package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the shard count used by New.
const DefaultShardCount = 16

// Map is a concurrent sharded map keyed by string.
type Map[V any] struct {
	shards    []*shard[V]
	shardMask uint32
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// New creates a map with DefaultShardCount shards.
func New[V any]() *Map[V] {
	return NewWithShards[V](DefaultShardCount)
}

// NewWithShards creates a map with shardCount shards.
// shardCount must be a power of 2; other values fall back to the default.
func NewWithShards[V any](shardCount int) *Map[V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &Map[V]{
		shards:    make([]*shard[V], shardCount),
		shardMask: uint32(shardCount - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

// ShardIndex returns the shard a key is routed to.
func (m *Map[V]) ShardIndex(key string) int {
	return int(murmur3.Sum32([]byte(key)) & m.shardMask)
}

func (m *Map[V]) getShard(key string) *shard[V] {
	return m.shards[m.ShardIndex(key)]
}

// Get retrieves a value by key.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.getShard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// Set stores a value, replacing any previous one.
func (m *Map[V]) Set(key string, value V) {
	s := m.getShard(key)
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
}

// Delete removes a key. Deleting a missing key is a no-op.
func (m *Map[V]) Delete(key string) {
	s := m.getShard(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Count returns the number of keys across all shards.
func (m *Map[V]) Count() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Clear removes every key.
func (m *Map[V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[string]V)
		s.mu.Unlock()
	}
}

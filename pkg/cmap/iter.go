package cmap

// Range calls fn for every entry until fn returns false.
// Each shard is read-locked while it is visited; fn must not call back into m.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, s := range m.shards {
		s.mu.RLock()
		for k, v := range s.items {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}

// Keys returns a snapshot of all keys in no particular order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Count())
	m.Range(func(k string, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// GetOrSet returns the existing value for key, or stores and returns value.
// The bool is true when the key already existed.
func (m *Map[V]) GetOrSet(key string, value V) (V, bool) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.items[key]; ok {
		return v, true
	}
	s.items[key] = value
	return value, false
}

// Update replaces the value for key with the result of fn, called under the
// shard's write lock. fn receives the zero value and false for a missing key.
func (m *Map[V]) Update(key string, fn func(value V, exists bool) V) V {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	nv := fn(v, ok)
	s.items[key] = nv
	return nv
}

// View calls fn with the value for key under the shard's read lock.
// fn must not retain references to mutable parts of the value.
func (m *Map[V]) View(key string, fn func(value V, exists bool)) {
	s := m.getShard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	fn(v, ok)
}

// ShardCount returns the number of shards.
func (m *Map[V]) ShardCount() int {
	return len(m.shards)
}

// ShardStats describes one shard.
type ShardStats struct {
	Index int
	Count int
}

// Stats returns the entry count of every shard.
func (m *Map[V]) Stats() []ShardStats {
	stats := make([]ShardStats, len(m.shards))
	for i, s := range m.shards {
		s.mu.RLock()
		stats[i] = ShardStats{Index: i, Count: len(s.items)}
		s.mu.RUnlock()
	}
	return stats
}

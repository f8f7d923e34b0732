package memory

import (
	"github.com/yndnr/respkv/pkg/cmap"
	"github.com/yndnr/respkv/pkg/resp"
)

type (
	hash map[string]resp.Frame
	set  map[string]struct{}
)

// Store is a concurrent in-memory store for strings, hashes and sets.
type Store struct {
	strings *cmap.Map[resp.Frame]
	hashes  *cmap.Map[hash]
	sets    *cmap.Map[set]
}

// Option configures the Store.
type Option func(*config)

type config struct {
	shards int
}

// WithShards sets the shard count of each key space. It must be a power of 2.
func WithShards(n int) Option {
	return func(c *config) {
		c.shards = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	cfg := config{shards: cmap.DefaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Store{
		strings: cmap.NewWithShards[resp.Frame](cfg.shards),
		hashes:  cmap.NewWithShards[hash](cfg.shards),
		sets:    cmap.NewWithShards[set](cfg.shards),
	}
}

// Get returns the value at key.
func (s *Store) Get(key string) (resp.Frame, bool) {
	return s.strings.Get(key)
}

// Set stores value at key, replacing any previous value.
func (s *Store) Set(key string, value resp.Frame) {
	s.strings.Set(key, value)
}

// HGet returns field of the hash at key.
func (s *Store) HGet(key, field string) (resp.Frame, bool) {
	var (
		v  resp.Frame
		ok bool
	)
	s.hashes.View(key, func(h hash, exists bool) {
		if exists {
			v, ok = h[field]
		}
	})
	return v, ok
}

// HSet sets field of the hash at key, creating the hash if needed.
func (s *Store) HSet(key, field string, value resp.Frame) {
	s.hashes.Update(key, func(h hash, exists bool) hash {
		if !exists {
			h = make(hash)
		}
		h[field] = value
		return h
	})
}

// HGetAll returns a copy of the hash at key.
func (s *Store) HGetAll(key string) (map[string]resp.Frame, bool) {
	var out map[string]resp.Frame
	s.hashes.View(key, func(h hash, exists bool) {
		if !exists {
			return
		}
		out = make(map[string]resp.Frame, len(h))
		for f, v := range h {
			out[f] = v
		}
	})
	return out, out != nil
}

// HMGet returns the values of fields in order, nil where a field is missing.
func (s *Store) HMGet(key string, fields []string) []resp.Frame {
	out := make([]resp.Frame, len(fields))
	s.hashes.View(key, func(h hash, exists bool) {
		if !exists {
			return
		}
		for i, f := range fields {
			out[i] = h[f]
		}
	})
	return out
}

// SAdd adds members to the set at key and returns how many were new.
// A member repeated within one call counts once.
func (s *Store) SAdd(key string, members []string) int {
	added := 0
	s.sets.Update(key, func(st set, exists bool) set {
		if !exists {
			st = make(set, len(members))
		}
		for _, m := range members {
			if _, ok := st[m]; !ok {
				st[m] = struct{}{}
				added++
			}
		}
		return st
	})
	return added
}

// SIsMember reports whether member is in the set at key.
func (s *Store) SIsMember(key, member string) bool {
	var ok bool
	s.sets.View(key, func(st set, exists bool) {
		if exists {
			_, ok = st[member]
		}
	})
	return ok
}

// SMembers returns the members of the set at key in no particular order.
func (s *Store) SMembers(key string) []string {
	var out []string
	s.sets.View(key, func(st set, exists bool) {
		if !exists {
			return
		}
		out = make([]string, 0, len(st))
		for m := range st {
			out = append(out, m)
		}
	})
	return out
}

// Stats is a point-in-time count of keys per key space.
type Stats struct {
	Strings int
	Hashes  int
	Sets    int
}

// Stats returns the current key counts.
func (s *Store) Stats() Stats {
	return Stats{
		Strings: s.strings.Count(),
		Hashes:  s.hashes.Count(),
		Sets:    s.sets.Count(),
	}
}

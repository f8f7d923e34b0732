// Package cmap provides a concurrent string-keyed map split into
// independently locked shards.
//
// Keys are routed to shards with murmur3, so the same key always lands
// on the same shard for a given shard count. Read-modify-write helpers
// (Update, View) run their callback while holding the shard lock, which
// lets callers keep mutable containers as values without a second lock.
package cmap

// Package memory provides the in-memory key space served by respkv.
//
// Strings, hashes and sets live in three independent sharded maps, so
// the same key name can hold one of each. Hash and set containers are
// mutated only while their shard is write-locked; readers receive copies.
package memory

// Package tlsroots loads TLS material for the RESP listener and its clients.
//
//   - roots.go: trusted CA pools from the system store and PEM files
//   - watcher.go: a server key pair that reloads when its files change
//
// A server built from a Watcher picks up renewed certificates on the next
// handshake without restarting.
package tlsroots

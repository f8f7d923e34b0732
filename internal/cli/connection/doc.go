// Package connection provides the RESP client used by respkv-cli.
//
//   - client.go: a single connection that sends commands and decodes replies
//   - pool.go: a pool of clients for concurrent use
package connection

// Package redisserver serves the command set over TCP using RESP.
//
// Each connection gets its own goroutine and byte accumulator. Bytes read
// from the socket are appended to the accumulator and every complete frame
// in it is decoded, executed against the store and answered in order.
// Replies are buffered and flushed before the next blocking read, so
// pipelined requests are answered in one write.
package redisserver

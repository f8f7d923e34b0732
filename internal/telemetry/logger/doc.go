// Package logger provides structured logging for respkv.
//
//   - logger.go: the slog-backed Logger, level control and the default logger
//   - context.go: carrying a logger, connection ID and request ID in a context
//   - redact.go: secret redaction and payload summarizing
//
// Output is JSON by default. Attribute values are rewritten before they
// are written: secrets are masked and stored values are reduced to their
// size, so client data never reaches the log verbatim.
package logger

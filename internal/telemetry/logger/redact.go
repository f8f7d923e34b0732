package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Key name fragments whose values are always redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"auth",
	"bearer",
}

// Attributes that may carry client data. Their values are replaced with a
// size summary once longer than maxPayloadLen.
var payloadKeys = map[string]bool{
	"value":   true,
	"payload": true,
	"args":    true,
}

const (
	redactedValue = "***REDACTED***"
	maxPayloadLen = 64
)

// redactSensitive masks string attributes whose key looks like a secret.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if a.Value.String() != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = summarizePayload(redactSensitive(attr))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// summarizePayload collapses long payload attributes into "<N bytes>".
func summarizePayload(a slog.Attr) slog.Attr {
	if !payloadKeys[strings.ToLower(a.Key)] {
		return a
	}

	var n int
	switch a.Value.Kind() {
	case slog.KindString:
		n = len(a.Value.String())
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case []byte:
			n = len(v)
		case []string:
			for _, s := range v {
				n += len(s)
			}
		default:
			return a
		}
	default:
		return a
	}

	if n <= maxPayloadLen && a.Value.Kind() == slog.KindString {
		return a
	}
	return slog.String(a.Key, SummarizeBytes(n))
}

// SummarizeBytes renders a payload size the way the logger reports it.
func SummarizeBytes(n int) string {
	return fmt.Sprintf("<%d bytes>", n)
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

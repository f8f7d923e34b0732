package logger

import (
	"log/slog"
	"strings"
	"testing"
)

func TestRedactSensitive(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"password", slog.String("password", "hunter2"), redactedValue},
		{"auth header", slog.String("Authorization", "Bearer x"), redactedValue},
		{"empty secret kept", slog.String("secret", ""), ""},
		{"store key kept", slog.String("key", "user:1"), "user:1"},
		{"command kept", slog.String("command", "get"), "get"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactSensitive(tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("redactSensitive(%v) = %q, want %q", tt.attr, got.Value.String(), tt.want)
			}
		})
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	a := slog.Group("client", slog.String("token", "abc"), slog.String("addr", "127.0.0.1"))
	got := redactSensitive(a).Value.Group()
	if got[0].Value.String() != redactedValue {
		t.Errorf("token = %q, want redacted", got[0].Value.String())
	}
	if got[1].Value.String() != "127.0.0.1" {
		t.Errorf("addr = %q, want unchanged", got[1].Value.String())
	}
}

func TestSummarizePayload(t *testing.T) {
	long := strings.Repeat("x", maxPayloadLen+1)
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"short value kept", slog.String("value", "small"), "small"},
		{"long value summarized", slog.String("value", long), "<65 bytes>"},
		{"bytes summarized", slog.Any("payload", []byte("abc")), "<3 bytes>"},
		{"args summarized", slog.Any("args", []string{"set", "k", "v"}), "<5 bytes>"},
		{"other key kept", slog.String("msg", long), long},
		{"integer kept", slog.Int("value", 5), "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarizePayload(tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("summarizePayload() = %q, want %q", got.Value.String(), tt.want)
			}
		})
	}
}

func TestLogger_HidesPayloads(t *testing.T) {
	l, buf := newBuffered(t, "info", "json")
	l.Info("stored", "key", "k", "value", strings.Repeat("v", 200), "password", "p")

	entry := decodeLine(t, buf.Bytes())
	if entry["value"] != "<200 bytes>" {
		t.Errorf("value = %v", entry["value"])
	}
	if entry["password"] != redactedValue {
		t.Errorf("password = %v", entry["password"])
	}
	if entry["key"] != "k" {
		t.Errorf("key = %v", entry["key"])
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for key, want := range map[string]bool{
		"password":      true,
		"API_TOKEN":     true,
		"client_secret": true,
		"key":           false,
		"field":         false,
	} {
		if got := IsSensitiveKey(key); got != want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}

package logger

import (
	"context"
	"testing"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext without logger returned nil")
	}

	l, buf := newBuffered(t, "info", "json")
	FromContext(WithLogger(context.Background(), l)).Info("from ctx")
	if buf.Len() == 0 {
		t.Error("logger from context produced no output")
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if ConnIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" {
		t.Fatal("empty context returned IDs")
	}

	ctx = WithConnID(ctx, "01HCONN")
	ctx = WithRequestID(ctx, "req-1")
	if got := ConnIDFromContext(ctx); got != "01HCONN" {
		t.Errorf("ConnIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
}

func TestL_AddsIDs(t *testing.T) {
	tests := []struct {
		name    string
		connID  string
		reqID   string
		wantKey []string
	}{
		{name: "none"},
		{name: "conn", connID: "c1", wantKey: []string{"conn_id"}},
		{name: "request", reqID: "r1", wantKey: []string{"request_id"}},
		{name: "both", connID: "c1", reqID: "r1", wantKey: []string{"conn_id", "request_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBuffered(t, "info", "json")
			ctx := WithLogger(context.Background(), l)
			if tt.connID != "" {
				ctx = WithConnID(ctx, tt.connID)
			}
			if tt.reqID != "" {
				ctx = WithRequestID(ctx, tt.reqID)
			}

			L(ctx).Info("msg")
			entry := decodeLine(t, buf.Bytes())
			for _, k := range tt.wantKey {
				if _, ok := entry[k]; !ok {
					t.Errorf("entry missing %q: %v", k, entry)
				}
			}
			if len(tt.wantKey) == 0 {
				if _, ok := entry["conn_id"]; ok {
					t.Error("conn_id added without one in context")
				}
			}
		})
	}
}

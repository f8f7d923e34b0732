package metric

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry_Independent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.ConnectionsTotal.Inc()
	if got := testutil.ToFloat64(a.ConnectionsTotal); got != 1 {
		t.Errorf("a.ConnectionsTotal = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.ConnectionsTotal); got != 0 {
		t.Errorf("b.ConnectionsTotal = %v, want 0", got)
	}
}

func TestRegistry_CommandsTotal(t *testing.T) {
	r := NewRegistry()
	r.CommandsTotal.WithLabelValues("get", ResultOK).Inc()
	r.CommandsTotal.WithLabelValues("get", ResultOK).Inc()
	r.CommandsTotal.WithLabelValues("set", ResultError).Inc()

	if got := testutil.ToFloat64(r.CommandsTotal.WithLabelValues("get", ResultOK)); got != 2 {
		t.Errorf("get/ok = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(r.CommandsTotal); got != 2 {
		t.Errorf("series count = %d, want 2", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.BytesRead.Add(42)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(string(body), "respkv_resp_read_bytes_total 42") {
		t.Errorf("metrics output missing read bytes counter:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing Go runtime collector")
	}
}

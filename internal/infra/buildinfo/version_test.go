package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() has empty fields: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	orig := Commit
	defer func() { Commit = orig }()

	Commit = "abc123"
	if got := Get().Commit; got != "abc123" {
		t.Errorf("Commit = %q, want abc123", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, Version) || !strings.Contains(s, runtime.Version()) {
		t.Errorf("String() = %q", s)
	}
}

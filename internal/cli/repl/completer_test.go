package repl

import (
	"reflect"
	"testing"
)

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter([]string{"get", "set", "hget", "hgetall", "hmget", "hset"})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"hg", []string{"hget", "hgetall"}},
		{"HG", []string{"HGET", "HGETALL"}},
		{"e", []string{"exit"}},
		{"zz", nil},
		{"s", []string{"set"}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCompleter_Commands(t *testing.T) {
	c := NewCompleter([]string{"PING", "ping", "get"})

	want := []string{"clear", "exit", "get", "help", "ping", "quit"}
	got := c.Commands()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %v, want %v", got, want)
	}

	got[0] = "mutated"
	if c.Commands()[0] != "clear" {
		t.Error("Commands() must return a copy")
	}
}

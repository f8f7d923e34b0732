package command

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yndnr/respkv/pkg/resp"
)

// Store is the storage the commands run against. Keys, fields and members
// are text; stored values are arbitrary frames. Implementations must be
// safe for concurrent use.
type Store interface {
	Get(key string) (resp.Frame, bool)
	Set(key string, value resp.Frame)

	HGet(key, field string) (resp.Frame, bool)
	HSet(key, field string, value resp.Frame)
	// HGetAll returns a copy of the hash, or false if key holds no hash.
	HGetAll(key string) (map[string]resp.Frame, bool)
	// HMGet returns one entry per field in order; missing fields are nil.
	HMGet(key string, fields []string) []resp.Frame

	// SAdd returns how many members were not already in the set.
	SAdd(key string, members []string) int
	SIsMember(key, member string) bool
	SMembers(key string) []string
}

// Command is a parsed request ready to run.
type Command interface {
	// Name is the lower-case command name, or "unknown" for Unrecognized.
	Name() string
	Execute(s Store) resp.Frame
}

// grammar describes one command: its name, how many arguments follow the
// name, and how to build it from those arguments. max < 0 means unbounded.
type grammar struct {
	name  string
	min   int
	max   int
	build func(args []resp.Frame) (Command, error)
}

var grammars = map[string]grammar{}

func register(g grammar) {
	grammars[g.name] = g
}

func init() {
	register(grammar{name: "get", min: 1, max: 1, build: buildGet})
	register(grammar{name: "set", min: 2, max: 2, build: buildSet})
	register(grammar{name: "hget", min: 2, max: 2, build: buildHGet})
	register(grammar{name: "hset", min: 3, max: 3, build: buildHSet})
	register(grammar{name: "hgetall", min: 1, max: 1, build: buildHGetAll})
	register(grammar{name: "hmget", min: 2, max: -1, build: buildHMGet})
	register(grammar{name: "sadd", min: 2, max: -1, build: buildSAdd})
	register(grammar{name: "sismember", min: 2, max: 2, build: buildSIsMember})
	register(grammar{name: "smembers", min: 1, max: 1, build: buildSMembers})
	register(grammar{name: "echo", min: 1, max: 1, build: buildEcho})
	register(grammar{name: "ping", min: 0, max: 1, build: buildPing})
}

// Names returns the known command names in ascending order.
func Names() []string {
	names := make([]string, 0, len(grammars))
	for n := range grammars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Parse builds a Command from a decoded request frame.
func Parse(f resp.Frame) (Command, error) {
	arr, ok := f.(resp.Array)
	if !ok || arr.Null {
		return nil, fmt.Errorf("%w: request must be an array", ErrInvalidCommand)
	}
	if len(arr.Elems) == 0 {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidCommand)
	}

	head, ok := arr.Elems[0].(resp.BulkString)
	if !ok || head.Null {
		return nil, fmt.Errorf("%w: command must have a bulk string as the first element", ErrInvalidCommand)
	}

	g, ok := grammars[asciiLower(head.Data)]
	if !ok {
		return Unrecognized{Command: string(head.Data)}, nil
	}

	args := arr.Elems[1:]
	if len(args) < g.min || (g.max >= 0 && len(args) > g.max) {
		return nil, arityError{cmd: g.name}
	}
	return g.build(args)
}

// Execute parses f and runs it against s.
func Execute(f resp.Frame, s Store) (resp.Frame, error) {
	cmd, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return cmd.Execute(s), nil
}

// asciiLower lower-cases ASCII letters only, so names compare the same way
// whatever the client's locale.
func asciiLower(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// bulkArg returns args[i] as a non-null bulk string.
func bulkArg(cmd string, args []resp.Frame, i int) (resp.BulkString, error) {
	b, ok := args[i].(resp.BulkString)
	if !ok || b.Null {
		return resp.BulkString{}, fmt.Errorf("%w for '%s' command at position %d", ErrArgumentType, cmd, i+1)
	}
	return b, nil
}

// textArg returns args[i] as UTF-8 text.
func textArg(cmd string, args []resp.Frame, i int) (string, error) {
	b, err := bulkArg(cmd, args, i)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b.Data) {
		return "", fmt.Errorf("%w for '%s' command at position %d", ErrInvalidUTF8, cmd, i+1)
	}
	return string(b.Data), nil
}

// fieldArg returns args[i] as a hash field.
func fieldArg(cmd string, args []resp.Frame, i int) (string, error) {
	s, err := textArg(cmd, args, i)
	if err != nil {
		return "", err
	}
	if strings.ContainsAny(s, "\r\n") {
		return "", fmt.Errorf("%w for '%s' command at position %d", ErrInvalidField, cmd, i+1)
	}
	return s, nil
}

// textArgs returns args[from:] as UTF-8 text.
func textArgs(cmd string, args []resp.Frame, from int) ([]string, error) {
	out := make([]string, 0, len(args)-from)
	for i := from; i < len(args); i++ {
		s, err := textArg(cmd, args, i)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Unrecognized is any request whose name is not known. It does nothing.
type Unrecognized struct {
	Command string
}

func (Unrecognized) Name() string { return "unknown" }

func (Unrecognized) Execute(Store) resp.Frame { return resp.OK }

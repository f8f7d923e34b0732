package command

import "github.com/yndnr/respkv/pkg/resp"

// Get returns the value stored at Key, or Null.
type Get struct {
	Key string
}

func buildGet(args []resp.Frame) (Command, error) {
	key, err := textArg("get", args, 0)
	if err != nil {
		return nil, err
	}
	return Get{Key: key}, nil
}

func (Get) Name() string { return "get" }

func (c Get) Execute(s Store) resp.Frame {
	if v, ok := s.Get(c.Key); ok {
		return v
	}
	return resp.Null{}
}

// Set overwrites the value at Key. The value may be any frame.
type Set struct {
	Key   string
	Value resp.Frame
}

func buildSet(args []resp.Frame) (Command, error) {
	key, err := textArg("set", args, 0)
	if err != nil {
		return nil, err
	}
	return Set{Key: key, Value: args[1]}, nil
}

func (Set) Name() string { return "set" }

func (c Set) Execute(s Store) resp.Frame {
	s.Set(c.Key, c.Value)
	return resp.OK
}

// Echo replies with its argument unchanged.
type Echo struct {
	Message resp.BulkString
}

func buildEcho(args []resp.Frame) (Command, error) {
	msg, err := bulkArg("echo", args, 0)
	if err != nil {
		return nil, err
	}
	return Echo{Message: msg}, nil
}

func (Echo) Name() string { return "echo" }

func (c Echo) Execute(Store) resp.Frame { return c.Message }

// Ping replies PONG, or echoes Message when one was given.
type Ping struct {
	Message *resp.BulkString
}

func buildPing(args []resp.Frame) (Command, error) {
	if len(args) == 0 {
		return Ping{}, nil
	}
	msg, err := bulkArg("ping", args, 0)
	if err != nil {
		return nil, err
	}
	return Ping{Message: &msg}, nil
}

func (Ping) Name() string { return "ping" }

func (c Ping) Execute(Store) resp.Frame {
	if c.Message != nil {
		return *c.Message
	}
	return resp.SimpleString("PONG")
}

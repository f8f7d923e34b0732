package command

import "github.com/yndnr/respkv/pkg/resp"

// HGet returns Field of the hash at Key, or Null.
type HGet struct {
	Key   string
	Field string
}

func buildHGet(args []resp.Frame) (Command, error) {
	key, err := textArg("hget", args, 0)
	if err != nil {
		return nil, err
	}
	field, err := textArg("hget", args, 1)
	if err != nil {
		return nil, err
	}
	return HGet{Key: key, Field: field}, nil
}

func (HGet) Name() string { return "hget" }

func (c HGet) Execute(s Store) resp.Frame {
	if v, ok := s.HGet(c.Key, c.Field); ok {
		return v
	}
	return resp.Null{}
}

// HSet sets Field of the hash at Key, creating the hash if needed.
type HSet struct {
	Key   string
	Field string
	Value resp.Frame
}

func buildHSet(args []resp.Frame) (Command, error) {
	key, err := textArg("hset", args, 0)
	if err != nil {
		return nil, err
	}
	field, err := fieldArg("hset", args, 1)
	if err != nil {
		return nil, err
	}
	return HSet{Key: key, Field: field, Value: args[2]}, nil
}

func (HSet) Name() string { return "hset" }

func (c HSet) Execute(s Store) resp.Frame {
	s.HSet(c.Key, c.Field, c.Value)
	return resp.OK
}

// HGetAll returns every field of the hash at Key as a Map.
// A missing hash yields an empty Map.
type HGetAll struct {
	Key string
}

func buildHGetAll(args []resp.Frame) (Command, error) {
	key, err := textArg("hgetall", args, 0)
	if err != nil {
		return nil, err
	}
	return HGetAll{Key: key}, nil
}

func (HGetAll) Name() string { return "hgetall" }

func (c HGetAll) Execute(s Store) resp.Frame {
	fields, ok := s.HGetAll(c.Key)
	if !ok {
		return resp.Map{}
	}
	return resp.Map(fields)
}

// HMGet returns the values of Fields in request order, Null for each
// missing one.
type HMGet struct {
	Key    string
	Fields []string
}

func buildHMGet(args []resp.Frame) (Command, error) {
	key, err := textArg("hmget", args, 0)
	if err != nil {
		return nil, err
	}
	fields, err := textArgs("hmget", args, 1)
	if err != nil {
		return nil, err
	}
	return HMGet{Key: key, Fields: fields}, nil
}

func (HMGet) Name() string { return "hmget" }

func (c HMGet) Execute(s Store) resp.Frame {
	values := s.HMGet(c.Key, c.Fields)
	out := make([]resp.Frame, len(c.Fields))
	for i := range out {
		if i < len(values) && values[i] != nil {
			out[i] = values[i]
		} else {
			out[i] = resp.Null{}
		}
	}
	return resp.NewArray(out...)
}

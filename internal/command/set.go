package command

import (
	"sort"

	"github.com/yndnr/respkv/pkg/resp"
)

// SAdd adds Members to the set at Key and replies with the number that
// were new.
type SAdd struct {
	Key     string
	Members []string
}

func buildSAdd(args []resp.Frame) (Command, error) {
	key, err := textArg("sadd", args, 0)
	if err != nil {
		return nil, err
	}
	members, err := textArgs("sadd", args, 1)
	if err != nil {
		return nil, err
	}
	return SAdd{Key: key, Members: members}, nil
}

func (SAdd) Name() string { return "sadd" }

func (c SAdd) Execute(s Store) resp.Frame {
	return resp.Integer(s.SAdd(c.Key, c.Members))
}

// SIsMember replies 1 if Member is in the set at Key, else 0.
type SIsMember struct {
	Key    string
	Member string
}

func buildSIsMember(args []resp.Frame) (Command, error) {
	key, err := textArg("sismember", args, 0)
	if err != nil {
		return nil, err
	}
	member, err := textArg("sismember", args, 1)
	if err != nil {
		return nil, err
	}
	return SIsMember{Key: key, Member: member}, nil
}

func (SIsMember) Name() string { return "sismember" }

func (c SIsMember) Execute(s Store) resp.Frame {
	if s.SIsMember(c.Key, c.Member) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

// SMembers replies with the members of the set at Key in ascending order.
type SMembers struct {
	Key string
}

func buildSMembers(args []resp.Frame) (Command, error) {
	key, err := textArg("smembers", args, 0)
	if err != nil {
		return nil, err
	}
	return SMembers{Key: key}, nil
}

func (SMembers) Name() string { return "smembers" }

func (c SMembers) Execute(s Store) resp.Frame {
	members := s.SMembers(c.Key)
	sort.Strings(members)
	out := make(resp.Set, len(members))
	for i, m := range members {
		out[i] = resp.BulkFromString(m)
	}
	return out
}

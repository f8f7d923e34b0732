package output

import (
	"math"
	"unicode/utf8"

	"github.com/yndnr/respkv/pkg/resp"
)

// ToValue converts a frame into plain Go values for structured encoders.
// Null frames become nil, error replies become {"error": msg}, and bulk
// strings that are not valid UTF-8 become byte slices.
func ToValue(f resp.Frame) any {
	switch v := f.(type) {
	case nil, resp.Null:
		return nil
	case resp.SimpleString:
		return string(v)
	case resp.SimpleError:
		return map[string]any{"error": string(v)}
	case resp.Integer:
		return int64(v)
	case resp.BulkString:
		if v.Null {
			return nil
		}
		if !utf8.Valid(v.Data) {
			return v.Data
		}
		return string(v.Data)
	case resp.Boolean:
		return bool(v)
	case resp.Double:
		d := float64(v)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return resp.FormatDouble(d)
		}
		return d
	case resp.Array:
		if v.Null {
			return nil
		}
		return listValue(v.Elems)
	case resp.Set:
		return listValue(v)
	case resp.Map:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = ToValue(e)
		}
		return out
	default:
		return nil
	}
}

func listValue(elems []resp.Frame) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = ToValue(e)
	}
	return out
}

package output

import (
	"math"
	"reflect"
	"testing"

	"github.com/yndnr/respkv/pkg/resp"
)

func TestToValue(t *testing.T) {
	tests := []struct {
		name string
		in   resp.Frame
		want any
	}{
		{"nil", nil, nil},
		{"null", resp.Null{}, nil},
		{"null bulk", resp.NullBulkString(), nil},
		{"null array", resp.NullArray(), nil},
		{"simple", resp.OK, "OK"},
		{"error", resp.SimpleError("ERR x"), map[string]any{"error": "ERR x"}},
		{"integer", resp.Integer(7), int64(7)},
		{"bulk", resp.BulkFromString("v"), "v"},
		{"binary bulk", resp.NewBulkString([]byte{0xff, 0x00}), []byte{0xff, 0x00}},
		{"boolean", resp.Boolean(true), true},
		{"double", resp.Double(2.5), 2.5},
		{"nan", resp.Double(math.NaN()), "nan"},
		{"array", resp.NewArray(resp.Integer(1), resp.Null{}), []any{int64(1), nil}},
		{"set", resp.Set{resp.BulkFromString("m")}, []any{"m"}},
		{"map", resp.Map{"k": resp.Integer(1)}, map[string]any{"k": int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToValue(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

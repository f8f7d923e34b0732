package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// TextFormatter renders replies the way redis-cli does.
type TextFormatter struct{}

// Format writes data as text.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case resp.Frame:
		_, err := io.WriteString(w, RenderText(v))
		return err
	case *Table:
		return v.Render(w)
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// RenderText returns the redis-cli rendering of f, ending in a newline.
func RenderText(f resp.Frame) string {
	var b strings.Builder
	render(&b, f, 0)
	return b.String()
}

func render(b *strings.Builder, f resp.Frame, indent int) {
	switch v := f.(type) {
	case resp.Array:
		if v.Null {
			b.WriteString("(nil)\n")
			return
		}
		renderList(b, v.Elems, ")", "(empty array)", indent)
	case resp.Set:
		renderList(b, v, "~", "(empty set)", indent)
	case resp.Map:
		if len(v) == 0 {
			b.WriteString("(empty hash)\n")
			return
		}
		keys := v.Keys()
		width := len(strconv.Itoa(len(keys)))
		for i, k := range keys {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", indent))
			}
			label := fmt.Sprintf("%*d# %s => ", width, i+1, quote([]byte(k)))
			b.WriteString(label)
			render(b, v[k], indent+len(label))
		}
	default:
		b.WriteString(scalar(f))
		b.WriteByte('\n')
	}
}

func renderList(b *strings.Builder, elems []resp.Frame, sep, empty string, indent int) {
	if len(elems) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	width := len(strconv.Itoa(len(elems)))
	for i, e := range elems {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", indent))
		}
		label := fmt.Sprintf("%*d%s ", width, i+1, sep)
		b.WriteString(label)
		render(b, e, indent+len(label))
	}
}

func scalar(f resp.Frame) string {
	switch v := f.(type) {
	case nil, resp.Null:
		return "(nil)"
	case resp.SimpleString:
		return string(v)
	case resp.SimpleError:
		return "(error) " + string(v)
	case resp.Integer:
		return "(integer) " + strconv.FormatInt(int64(v), 10)
	case resp.BulkString:
		if v.Null {
			return "(nil)"
		}
		return quote(v.Data)
	case resp.Boolean:
		if v {
			return "(true)"
		}
		return "(false)"
	case resp.Double:
		d := float64(v)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return "(double) " + resp.FormatDouble(d)
		}
		return "(double) " + strconv.FormatFloat(d, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quote wraps b in double quotes, escaping non-printable bytes as \xNN.
func quote(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + 2)
	sb.WriteByte('"')
	for _, c := range b {
		switch c {
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

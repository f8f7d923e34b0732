package resp

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Doubles outside [1e-8, 1e8) are written in exponential notation.
const (
	expUpper = 1e8
	expLower = 1e-8
)

// Encode returns the wire bytes of f.
func Encode(f Frame) []byte {
	return AppendFrame(nil, f)
}

// WriteFrame encodes f into w.
func WriteFrame(w io.Writer, f Frame) error {
	_, err := w.Write(AppendFrame(nil, f))
	return err
}

// AppendFrame appends the wire bytes of f to dst and returns the extended
// slice. Every frame has exactly one encoding; a nil frame encodes as Null.
func AppendFrame(dst []byte, f Frame) []byte {
	switch v := f.(type) {
	case nil:
		return append(dst, nullToken...)
	case SimpleString:
		return appendLine(dst, TypeSimpleString, string(v))
	case SimpleError:
		return appendLine(dst, TypeSimpleError, string(v))
	case Integer:
		dst = append(dst, byte(TypeInteger))
		if v >= 0 {
			dst = append(dst, '+')
		}
		dst = strconv.AppendInt(dst, int64(v), 10)
		return append(dst, CRLF...)
	case BulkString:
		if v.Null {
			return append(dst, nullBulkToken...)
		}
		dst = appendHeader(dst, TypeBulkString, len(v.Data))
		dst = append(dst, v.Data...)
		return append(dst, CRLF...)
	case Array:
		if v.Null {
			return append(dst, nullArrayToken...)
		}
		dst = appendHeader(dst, TypeArray, len(v.Elems))
		for _, e := range v.Elems {
			dst = AppendFrame(dst, e)
		}
		return dst
	case Null:
		return append(dst, nullToken...)
	case Boolean:
		if v {
			return append(dst, "#t\r\n"...)
		}
		return append(dst, "#f\r\n"...)
	case Double:
		return appendLine(dst, TypeDouble, FormatDouble(float64(v)))
	case Map:
		dst = appendHeader(dst, TypeMap, len(v))
		for _, k := range v.Keys() {
			dst = appendLine(dst, TypeSimpleString, k)
			dst = AppendFrame(dst, v[k])
		}
		return dst
	case Set:
		dst = appendHeader(dst, TypeSet, len(v))
		for _, e := range v {
			dst = AppendFrame(dst, e)
		}
		return dst
	default:
		panic(fmt.Sprintf("resp: unknown frame type %T", f))
	}
}

// FormatDouble renders v the way the encoder writes it: an explicit sign,
// fixed notation for magnitudes in [1e-8, 1e8), exponential otherwise.
func FormatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs >= expUpper || abs < expLower {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		neg := strings.HasPrefix(exp, "-")
		exp = strings.TrimLeft(strings.TrimLeft(exp, "+-"), "0")
		if exp == "" {
			exp = "0"
		}
		if neg {
			exp = "-" + exp
		}
		return withSign(mant) + "e" + exp
	}
	return withSign(strconv.FormatFloat(v, 'f', -1, 64))
}

func withSign(s string) string {
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}

func appendLine(dst []byte, t Type, s string) []byte {
	dst = append(dst, byte(t))
	dst = append(dst, s...)
	return append(dst, CRLF...)
}

func appendHeader(dst []byte, t Type, n int) []byte {
	dst = append(dst, byte(t))
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, CRLF...)
}

package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

// Decoder turns buffered bytes into frames under a set of Limits.
//
// A Decoder holds no per-stream state and is safe for concurrent use.
type Decoder struct {
	limits Limits
}

var defaultDecoder = NewDecoder(DefaultLimits())

// NewDecoder creates a decoder. Zero limit fields use the defaults.
func NewDecoder(limits Limits) *Decoder {
	return &Decoder{limits: limits.withDefaults()}
}

// Limits returns the effective limits.
func (d *Decoder) Limits() Limits {
	return d.limits
}

// Decode decodes one frame from buf using the default limits.
func Decode(buf *bytes.Buffer) (Frame, error) {
	return defaultDecoder.Decode(buf)
}

// Decode removes exactly one frame from the front of buf and returns it.
//
// If buf holds only part of a frame, Decode returns ErrNotComplete and buf
// is not modified. Any error wrapping ErrProtocol also leaves buf untouched;
// the caller is expected to drop the connection.
//
// No progress is kept between calls: a frame that arrives over k reads is
// probed k times from its first byte, so the cost of one large pipelined
// aggregate grows with the square of its read count. Limits bound that
// cost by bounding the frame.
func (d *Decoder) Decode(buf *bytes.Buffer) (Frame, error) {
	view := buf.Bytes()
	n, err := d.Probe(view)
	if err != nil {
		return nil, err
	}

	f, m, err := d.parse(view[:n], 0)
	if err != nil {
		return nil, err
	}
	if m != n {
		return nil, fmt.Errorf("%w: decoded %d of %d probed bytes", ErrInvalidFrame, m, n)
	}

	buf.Next(n)
	return f, nil
}

// Parse decodes the first frame in b without modifying b, returning the
// frame and the number of bytes it occupied.
func (d *Decoder) Parse(b []byte) (Frame, int, error) {
	n, err := d.Probe(b)
	if err != nil {
		return nil, 0, err
	}
	return d.parse(b[:n], 0)
}

// parse builds the frame at the front of b. Probe has already established
// that b holds the whole frame, but every bound is still checked.
func (d *Decoder) parse(b []byte, depth int) (Frame, int, error) {
	if len(b) == 0 {
		return nil, 0, ErrNotComplete
	}

	switch Type(b[0]) {
	case TypeSimpleString:
		line, n, err := d.readLine(b)
		if err != nil {
			return nil, 0, err
		}
		return SimpleString(line), n, nil
	case TypeSimpleError:
		line, n, err := d.readLine(b)
		if err != nil {
			return nil, 0, err
		}
		return SimpleError(line), n, nil
	case TypeInteger:
		return d.parseInteger(b)
	case TypeBoolean:
		return d.parseBoolean(b)
	case TypeDouble:
		return d.parseDouble(b)
	case TypeNull:
		if err := matchFixed(b, nullToken); err != nil {
			return nil, 0, err
		}
		return Null{}, len(nullToken), nil
	case TypeBulkString:
		return d.parseBulk(b)
	case TypeArray:
		return d.parseArray(b, depth)
	case TypeMap:
		return d.parseMap(b, depth)
	case TypeSet:
		return d.parseSet(b, depth)
	default:
		return nil, 0, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidFrameType, b[0])
	}
}

func (d *Decoder) parseInteger(b []byte) (Frame, int, error) {
	line, n, err := d.readLine(b)
	if err != nil {
		return nil, 0, err
	}
	v, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: integer %q", ErrInvalidFrame, line)
	}
	return Integer(v), n, nil
}

func (d *Decoder) parseBoolean(b []byte) (Frame, int, error) {
	line, n, err := d.readLine(b)
	if err != nil {
		return nil, 0, err
	}
	switch string(line) {
	case "t":
		return Boolean(true), n, nil
	case "f":
		return Boolean(false), n, nil
	default:
		return nil, 0, fmt.Errorf("%w: boolean %q", ErrInvalidFrame, line)
	}
}

func (d *Decoder) parseDouble(b []byte) (Frame, int, error) {
	line, n, err := d.readLine(b)
	if err != nil {
		return nil, 0, err
	}
	v, err := strconv.ParseFloat(string(line), 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: double %q", ErrInvalidFrame, line)
	}
	return Double(v), n, nil
}

func (d *Decoder) parseBulk(b []byte) (Frame, int, error) {
	ok, err := hasToken(b, nullBulkToken)
	if err != nil {
		return nil, 0, err
	}
	if ok {
		return NullBulkString(), len(nullBulkToken), nil
	}

	size, hdr, err := d.readCount(b, d.limits.MaxBulkLen)
	if err != nil {
		return nil, 0, err
	}
	total := hdr + size + len(CRLF)
	if len(b) < total {
		return nil, 0, ErrNotComplete
	}
	if b[hdr+size] != '\r' || b[hdr+size+1] != '\n' {
		return nil, 0, fmt.Errorf("%w: bulk string missing CRLF terminator", ErrInvalidFrame)
	}

	// Copy out of the connection buffer, which is reused after Next.
	data := make([]byte, size)
	copy(data, b[hdr:hdr+size])
	return BulkString{Data: data}, total, nil
}

func (d *Decoder) parseArray(b []byte, depth int) (Frame, int, error) {
	ok, err := hasToken(b, nullArrayToken)
	if err != nil {
		return nil, 0, err
	}
	if ok {
		return NullArray(), len(nullArrayToken), nil
	}

	elems, n, err := d.parseElems(b, depth)
	if err != nil {
		return nil, 0, err
	}
	return Array{Elems: elems}, n, nil
}

func (d *Decoder) parseSet(b []byte, depth int) (Frame, int, error) {
	elems, n, err := d.parseElems(b, depth)
	if err != nil {
		return nil, 0, err
	}
	return Set(elems), n, nil
}

func (d *Decoder) parseElems(b []byte, depth int) ([]Frame, int, error) {
	count, off, err := d.readCount(b, d.limits.MaxAggregateLen)
	if err != nil {
		return nil, 0, err
	}
	if count > 0 && depth+1 > d.limits.MaxDepth {
		return nil, 0, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, d.limits.MaxDepth)
	}

	elems := make([]Frame, 0, count)
	for i := 0; i < count; i++ {
		f, n, err := d.parse(b[off:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		elems = append(elems, f)
		off += n
	}
	return elems, off, nil
}

func (d *Decoder) parseMap(b []byte, depth int) (Frame, int, error) {
	count, off, err := d.readCount(b, d.limits.MaxAggregateLen)
	if err != nil {
		return nil, 0, err
	}
	if count > 0 && depth+1 > d.limits.MaxDepth {
		return nil, 0, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, d.limits.MaxDepth)
	}

	m := make(Map, count)
	for i := 0; i < count; i++ {
		if len(b[off:]) == 0 {
			return nil, 0, ErrNotComplete
		}
		if Type(b[off]) != TypeSimpleString {
			return nil, 0, fmt.Errorf("%w: map key must be a simple string, got %q", ErrInvalidFrameType, b[off])
		}
		key, n, err := d.readLine(b[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		v, n, err := d.parse(b[off:], depth+1)
		if err != nil {
			return nil, 0, err
		}
		off += n

		if _, dup := m[string(key)]; dup {
			return nil, 0, fmt.Errorf("%w: duplicate map key %q", ErrInvalidFrame, key)
		}
		m[string(key)] = v
	}
	return m, off, nil
}

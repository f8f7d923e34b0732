package resp

import (
	"bytes"
	"fmt"
)

// Protocol limits to keep a single client from exhausting memory.
const (
	// DefaultMaxLineLen bounds simple strings, errors and numeric lines (64KB).
	DefaultMaxLineLen = 64 * 1024

	// DefaultMaxBulkLen bounds a single bulk string (512MB, the Redis default).
	DefaultMaxBulkLen = 512 * 1024 * 1024

	// DefaultMaxAggregateLen bounds the declared count of an array, map or set.
	DefaultMaxAggregateLen = 1 << 20

	// DefaultMaxDepth bounds aggregate nesting.
	DefaultMaxDepth = 64

	// maxHeaderLen bounds "$<len>\r\n" and "*<count>\r\n" headers.
	maxHeaderLen = 32
)

// Limits configures a Decoder. Zero fields fall back to the defaults.
type Limits struct {
	MaxLineLen      int
	MaxBulkLen      int
	MaxAggregateLen int
	MaxDepth        int
}

// DefaultLimits returns the default decoder limits.
func DefaultLimits() Limits {
	return Limits{
		MaxLineLen:      DefaultMaxLineLen,
		MaxBulkLen:      DefaultMaxBulkLen,
		MaxAggregateLen: DefaultMaxAggregateLen,
		MaxDepth:        DefaultMaxDepth,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxLineLen <= 0 {
		l.MaxLineLen = d.MaxLineLen
	}
	if l.MaxBulkLen <= 0 {
		l.MaxBulkLen = d.MaxBulkLen
	}
	if l.MaxAggregateLen <= 0 {
		l.MaxAggregateLen = d.MaxAggregateLen
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = d.MaxDepth
	}
	return l
}

// Probe reports how many bytes the first frame in b occupies using the
// default limits. See Decoder.Probe.
func Probe(b []byte) (int, error) {
	return defaultDecoder.Probe(b)
}

// Probe reports how many bytes the first frame in b occupies.
//
// b is never modified: the walk only advances an offset. Aggregates are
// probed child by child, recursively, so an array whose last element is
// still in flight reports ErrNotComplete.
func (d *Decoder) Probe(b []byte) (int, error) {
	return d.probe(b, 0)
}

func (d *Decoder) probe(b []byte, depth int) (int, error) {
	if len(b) == 0 {
		return 0, ErrNotComplete
	}

	switch Type(b[0]) {
	case TypeSimpleString, TypeSimpleError, TypeInteger, TypeBoolean, TypeDouble:
		_, n, err := d.readLine(b)
		return n, err
	case TypeNull:
		if err := matchFixed(b, nullToken); err != nil {
			return 0, err
		}
		return len(nullToken), nil
	case TypeBulkString:
		return d.probeBulk(b)
	case TypeArray:
		return d.probeAggregate(b, TypeArray, depth)
	case TypeMap:
		return d.probeAggregate(b, TypeMap, depth)
	case TypeSet:
		return d.probeAggregate(b, TypeSet, depth)
	default:
		return 0, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidFrameType, b[0])
	}
}

func (d *Decoder) probeBulk(b []byte) (int, error) {
	ok, err := hasToken(b, nullBulkToken)
	if err != nil {
		return 0, err
	}
	if ok {
		return len(nullBulkToken), nil
	}

	size, hdr, err := d.readCount(b, d.limits.MaxBulkLen)
	if err != nil {
		return 0, err
	}
	total := hdr + size + len(CRLF)
	if len(b) < total {
		return 0, ErrNotComplete
	}
	if b[hdr+size] != '\r' || b[hdr+size+1] != '\n' {
		return 0, fmt.Errorf("%w: bulk string missing CRLF terminator", ErrInvalidFrame)
	}
	return total, nil
}

func (d *Decoder) probeAggregate(b []byte, t Type, depth int) (int, error) {
	if t == TypeArray {
		ok, err := hasToken(b, nullArrayToken)
		if err != nil {
			return 0, err
		}
		if ok {
			return len(nullArrayToken), nil
		}
	}

	count, off, err := d.readCount(b, d.limits.MaxAggregateLen)
	if err != nil {
		return 0, err
	}
	if count > 0 && depth+1 > d.limits.MaxDepth {
		return 0, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, d.limits.MaxDepth)
	}

	for i := 0; i < count; i++ {
		if t == TypeMap {
			n, err := d.probeMapKey(b[off:])
			if err != nil {
				return 0, err
			}
			off += n
		}
		n, err := d.probe(b[off:], depth+1)
		if err != nil {
			return 0, err
		}
		off += n
	}
	return off, nil
}

func (d *Decoder) probeMapKey(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, ErrNotComplete
	}
	if Type(b[0]) != TypeSimpleString {
		return 0, fmt.Errorf("%w: map key must be a simple string, got %q", ErrInvalidFrameType, b[0])
	}
	_, n, err := d.readLine(b)
	return n, err
}

// readLine returns the payload between the prefix byte and the first CRLF,
// and the total bytes through the CRLF.
func (d *Decoder) readLine(b []byte) ([]byte, int, error) {
	idx := bytes.Index(b[1:], []byte(CRLF))
	if idx < 0 {
		if len(b)-1 > d.limits.MaxLineLen {
			return nil, 0, fmt.Errorf("%w: line longer than %d bytes", ErrLimitExceeded, d.limits.MaxLineLen)
		}
		return nil, 0, ErrNotComplete
	}
	if idx > d.limits.MaxLineLen {
		return nil, 0, fmt.Errorf("%w: line longer than %d bytes", ErrLimitExceeded, d.limits.MaxLineLen)
	}
	line := b[1 : 1+idx]
	if bytes.IndexByte(line, '\r') >= 0 || bytes.IndexByte(line, '\n') >= 0 {
		return nil, 0, fmt.Errorf("%w: embedded CR or LF", ErrInvalidFrame)
	}
	return line, 1 + idx + len(CRLF), nil
}

// readCount parses a "<prefix><digits>\r\n" header and returns the value and
// the header length. Negative values are rejected here; null sentinels are
// matched as fixed tokens before this is called.
func (d *Decoder) readCount(b []byte, limit int) (int, int, error) {
	window := b
	if len(window) > maxHeaderLen {
		window = window[:maxHeaderLen]
	}
	idx := bytes.Index(window[1:], []byte(CRLF))
	if idx < 0 {
		if len(b) >= maxHeaderLen {
			return 0, 0, fmt.Errorf("%w: header too long", ErrInvalidFrameLength)
		}
		return 0, 0, ErrNotComplete
	}

	digits := b[1 : 1+idx]
	if len(digits) == 0 {
		return 0, 0, fmt.Errorf("%w: empty header", ErrInvalidFrameLength)
	}
	n := 0
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidFrameLength, digits)
		}
		n = n*10 + int(c-'0')
		if n > limit {
			return 0, 0, fmt.Errorf("%w: %q exceeds %d", ErrLimitExceeded, digits, limit)
		}
	}
	return n, 1 + idx + len(CRLF), nil
}

// hasToken reports whether b starts with token. A b that is a strict prefix
// of token is ErrNotComplete since the next read may complete it.
func hasToken(b []byte, token string) (bool, error) {
	if len(b) >= len(token) {
		return bytes.HasPrefix(b, []byte(token)), nil
	}
	if bytes.HasPrefix([]byte(token), b) {
		return false, ErrNotComplete
	}
	return false, nil
}

// matchFixed requires b to start with token.
func matchFixed(b []byte, token string) error {
	ok, err := hasToken(b, token)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: expected %q", ErrInvalidFrameType, token)
	}
	return nil
}

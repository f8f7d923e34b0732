package resp

import (
	"sort"
)

// Type identifies a frame kind by its wire prefix byte.
type Type byte

// Wire prefixes.
const (
	TypeSimpleString Type = '+'
	TypeSimpleError  Type = '-'
	TypeInteger      Type = ':'
	TypeBulkString   Type = '$'
	TypeArray        Type = '*'
	TypeNull         Type = '_'
	TypeBoolean      Type = '#'
	TypeDouble       Type = ','
	TypeMap          Type = '%'
	TypeSet          Type = '~'
)

// CRLF terminates every header and line payload.
const CRLF = "\r\n"

const (
	nullBulkToken  = "$-1\r\n"
	nullArrayToken = "*-1\r\n"
	nullToken      = "_\r\n"
)

func (t Type) String() string {
	switch t {
	case TypeSimpleString:
		return "simple-string"
	case TypeSimpleError:
		return "simple-error"
	case TypeInteger:
		return "integer"
	case TypeBulkString:
		return "bulk-string"
	case TypeArray:
		return "array"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeDouble:
		return "double"
	case TypeMap:
		return "map"
	case TypeSet:
		return "set"
	default:
		return "unknown"
	}
}

// Frame is one value of the protocol's type system.
//
// The set of implementations is closed: SimpleString, SimpleError, Integer,
// BulkString, Array, Null, Boolean, Double, Map and Set.
type Frame interface {
	// Type returns the wire kind of the frame.
	Type() Type
	isFrame()
}

// SimpleString is a short, CR/LF-free text ("+OK").
type SimpleString string

// SimpleError is a short, CR/LF-free error message ("-ERR ...").
type SimpleError string

// Integer is a signed 64-bit number.
type Integer int64

// BulkString is a length-prefixed byte sequence.
//
// Null reports the absence of a value; both "$-1\r\n" and "_\r\n" mean
// "no value" to command logic, but only the former decodes to a null
// BulkString so that re-encoding stays byte-exact.
type BulkString struct {
	Data []byte
	Null bool
}

// Array is an ordered sequence of frames, or the legacy null array.
type Array struct {
	Elems []Frame
	Null  bool
}

// Null is the RESP3 null unit.
type Null struct{}

// Boolean is true or false.
type Boolean bool

// Double is a 64-bit float.
type Double float64

// Map maps simple-string keys to frames. Keys are encoded in ascending order.
type Map map[string]Frame

// Set is an ordered sequence of frames.
type Set []Frame

// OK is the shared "+OK" reply.
const OK = SimpleString("OK")

func (SimpleString) Type() Type { return TypeSimpleString }
func (SimpleError) Type() Type  { return TypeSimpleError }
func (Integer) Type() Type      { return TypeInteger }
func (BulkString) Type() Type   { return TypeBulkString }
func (Array) Type() Type        { return TypeArray }
func (Null) Type() Type         { return TypeNull }
func (Boolean) Type() Type      { return TypeBoolean }
func (Double) Type() Type       { return TypeDouble }
func (Map) Type() Type          { return TypeMap }
func (Set) Type() Type          { return TypeSet }

func (SimpleString) isFrame() {}
func (SimpleError) isFrame()  {}
func (Integer) isFrame()      {}
func (BulkString) isFrame()   {}
func (Array) isFrame()        {}
func (Null) isFrame()         {}
func (Boolean) isFrame()      {}
func (Double) isFrame()       {}
func (Map) isFrame()          {}
func (Set) isFrame()          {}

// NewBulkString returns a non-null bulk string holding b.
func NewBulkString(b []byte) BulkString {
	if b == nil {
		b = []byte{}
	}
	return BulkString{Data: b}
}

// BulkFromString returns a non-null bulk string holding s.
func BulkFromString(s string) BulkString {
	return BulkString{Data: []byte(s)}
}

// NullBulkString returns the "$-1" bulk string.
func NullBulkString() BulkString {
	return BulkString{Null: true}
}

// String returns the payload as text.
func (b BulkString) String() string {
	return string(b.Data)
}

// NewArray returns a non-null array of elems.
func NewArray(elems ...Frame) Array {
	if elems == nil {
		elems = []Frame{}
	}
	return Array{Elems: elems}
}

// NullArray returns the "*-1" array.
func NullArray() Array {
	return Array{Null: true}
}

// Len returns the element count; zero for the null array.
func (a Array) Len() int {
	return len(a.Elems)
}

// Keys returns the map keys in encoding order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsNull reports whether f represents "no value": the null unit, a null
// bulk string or a null array.
func IsNull(f Frame) bool {
	switch v := f.(type) {
	case nil:
		return true
	case Null:
		return true
	case BulkString:
		return v.Null
	case Array:
		return v.Null
	default:
		return false
	}
}

package output

import (
	"fmt"
	"io"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formatter formats data for output. data is either a reply frame, a *Table
// or any value the JSON and YAML encoders accept.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// ParseFormat validates a --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/pkg/resp"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format formats data as YAML.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	if fr, ok := data.(resp.Frame); ok {
		data = ToValue(fr)
	}
	if t, ok := data.(*Table); ok {
		data = t.Records()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

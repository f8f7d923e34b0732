package output

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/yndnr/respkv/pkg/resp"
)

// JSONFormatter formats data as JSON.
type JSONFormatter struct{}

// Format formats data as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	if fr, ok := data.(resp.Frame); ok {
		data = ToValue(fr)
	}
	if t, ok := data.(*Table); ok {
		data = t.Records()
	}
	b, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

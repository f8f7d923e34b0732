package output

import (
	"io"
	"text/tabwriter"
)

// Table is a simple column-aligned table.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		writeRow(tw, t.Headers)
	}
	for _, row := range t.Rows {
		writeRow(tw, row)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, cell)
	}
	io.WriteString(w, "\n")
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}

// Records returns one map per row keyed by header, for structured output.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

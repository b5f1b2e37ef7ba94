package outfmt

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
)

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output writes data in the structured mode from the context, after the
// jq query and template (if any). In text mode it writes nothing and
// returns false so the caller can print a table instead.
func (f *Formatter) Output(data any) (bool, error) {
	mode := ModeFromContext(f.ctx)
	if mode == Text {
		return false, nil
	}

	v, err := ApplyQuery(f.ctx, data, GetQuery(f.ctx))
	if err != nil {
		return true, err
	}
	if tmpl := GetTemplate(f.ctx); tmpl != "" {
		return true, WriteTemplate(f.out, v, tmpl)
	}

	switch mode {
	case JSONL:
		return true, WriteJSONLines(f.out, v)
	case YAML:
		return true, WriteYAML(f.out, v)
	default:
		return true, WriteJSON(f.out, v, IsCompact(f.ctx))
	}
}

// StartTable writes table headers.
func (f *Formatter) StartTable(headers ...string) {
	f.Row(headers...)
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	for i, col := range columns {
		if i > 0 {
			_, _ = fmt.Fprint(f.tabWriter, "\t")
		}
		_, _ = fmt.Fprint(f.tabWriter, col)
	}
	_, _ = fmt.Fprintln(f.tabWriter)
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}

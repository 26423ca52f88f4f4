// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects how results are rendered
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --output value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("invalid output format '%s', must be one of: table, json, yaml", s)
	}
}

// Table is a header plus rows of cells
type Table struct {
	Header []string
	Rows   [][]string
}

// AddRow appends one row, formatting each value with %v
func (t *Table) AddRow(values ...any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	t.Rows = append(t.Rows, row)
}

// Printer writes results in the selected format
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a Printer
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, format: format}
}

// Format returns the printer's format
func (p *Printer) Format() Format {
	return p.format
}

// Print renders v as JSON or YAML, or table when the format is table
func (p *Printer) Print(v any, table *Table) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return p.table(table)
	}
}

func (p *Printer) table(t *Table) error {
	if t == nil {
		return nil
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Header, "\t"))

	rule := make([]string, len(t.Header))
	for i, h := range t.Header {
		rule[i] = strings.Repeat("─", len([]rune(h)))
	}
	fmt.Fprintln(w, strings.Join(rule, "\t"))

	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return w.Flush()
}

// Println writes a plain message line. It is suppressed for json and yaml
// so machine-readable output stays parseable.
func (p *Printer) Println(a ...any) {
	if p.format != FormatTable {
		return
	}
	fmt.Fprintln(p.out, a...)
}

// Printf is the formatted variant of Println
func (p *Printer) Printf(format string, a ...any) {
	if p.format != FormatTable {
		return
	}
	fmt.Fprintf(p.out, format, a...)
}

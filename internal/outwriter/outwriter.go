// Package outwriter renders engine results for the terminal.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format selects how results are written
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat accepts table or json in any casing
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: table, json)", s)
	}
}

// Color variables for console output.
var (
	tierOddColor  = color.New(color.FgCyan)
	tierEvenColor = color.New(color.FgYellow)
	alertColor    = color.New(color.FgRed, color.Bold)
	goodColor     = color.New(color.FgGreen, color.Bold)
	mutedColor    = color.New(color.FgHiBlack)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func render(table *tablewriter.Table, rows [][]string) error {
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func fmtADP(adp float64) string {
	if adp >= 999 {
		return "-"
	}
	return fmt.Sprintf("%.1f", adp)
}

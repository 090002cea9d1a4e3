// Package report renders a count comparison for people (bordered table) or
// for machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/alexanderjulianmartinez/countcheck/internal/drift"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	Title = "=== RECORD COUNT COMPARISON: TERADATA VS DATABRICKS ==="
)

var headers = []string{"Table", "Teradata Count", "Databricks Count", "Difference", "Diff %", "Status"}

type Options struct {
	Format string
	Color  bool
}

func Render(w io.Writer, rep *drift.Report, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, rep)
	case FormatText, "":
		return renderText(w, rep, opts.Color)
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}

type palette struct {
	pass, fail, warn *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		pass: color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.warn} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func renderText(w io.Writer, rep *drift.Report, enableColor bool) error {
	p := newPalette(enableColor)

	if _, err := fmt.Fprintf(w, "\n%s\n\n", Title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	for _, row := range rep.Rows {
		status := p.pass.Sprint(row.Status)
		if !row.Passed() {
			status = p.fail.Sprint(row.Status)
		}
		table.Append([]string{
			row.Table,
			strconv.FormatInt(row.CountTeradata, 10),
			strconv.FormatInt(row.CountDatabricks, 10),
			strconv.FormatInt(row.CountDiff, 10),
			strconv.FormatFloat(row.DiffPercentage, 'f', 2, 64),
			status,
		})
	}
	table.Render()

	if !rep.Passed() {
		if _, err := fmt.Fprintf(w, "\n%s\n\n", p.warn.Sprintf("⚠️ WARNING: Found %d tables with count mismatches!", len(rep.Failures))); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Failed tables: %s\n", p.fail.Sprint(strings.Join(rep.Failures, ", ")))
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n\n", p.pass.Sprint("✅ SUCCESS: All table counts match between environments!"))
	return err
}

type jsonReport struct {
	*drift.Report
	Passed bool `json:"passed"`
}

func renderJSON(w io.Writer, rep *drift.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Report: rep, Passed: rep.Passed()})
}

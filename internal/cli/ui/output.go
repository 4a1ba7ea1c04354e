// Package ui renders leadctl output.
package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	boldColor    = color.New(color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...any) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// RenderPreview writes a dry-run report: detected layout, counts, then
// the sample rows.
func RenderPreview(w io.Writer, p *core.PreviewResponse) {
	boldColor.Fprintln(w, "FILE")
	fmt.Fprintf(w, "  format:    %s\n", p.Format)
	if p.Separator != "" {
		fmt.Fprintf(w, "  separator: %q\n", p.Separator)
	}
	fmt.Fprintf(w, "  headers:   %s\n", strings.Join(p.Headers, " | "))
	fmt.Fprintln(w)

	boldColor.Fprintln(w, "MAPPING")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, kind := range core.AllFieldKinds {
		field := kind.String()
		idx, ok := p.Mapping[field]
		if !ok {
			continue
		}
		header := ""
		if idx < len(p.Headers) {
			header = p.Headers[idx]
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", field, idx, header)
	}
	tw.Flush()
	if p.ForcedMapping {
		PrintWarning(w, "no name/email/phone header recognized, columns 0-2 were assumed")
	}
	fmt.Fprintln(w)

	s := p.Summary
	boldColor.Fprintln(w, "SUMMARY")
	fmt.Fprintf(w, "  rows: %d  import: %d  errors: %d  skipped: %d  duplicates: %d  suspect phones: %d\n",
		s.TotalRows, s.WouldImport, s.ErrorRows, s.SkippedRows, s.DuplicateInFile, s.SuspectPhones)

	if len(p.Samples) > 0 {
		fmt.Fprintln(w)
		boldColor.Fprintln(w, "SAMPLES")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  LINE\tNAME\tEMAIL\tPHONE\tCITY\tSTATE")
		for _, r := range p.Samples {
			l := r.Lead
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\n", r.LineNumber, l.Name, l.Email, l.Phone, l.Cidade, l.Estado)
		}
		tw.Flush()
	}

	if len(p.ErrorSamples) > 0 {
		fmt.Fprintln(w)
		boldColor.Fprintln(w, "ERRORS")
		for _, e := range p.ErrorSamples {
			fmt.Fprintf(w, "  line %d: %s\n", e.LineNumber, e.Reason)
		}
	}
}

// RenderResult writes the outcome of a committed import.
func RenderResult(w io.Writer, r core.ImportResult) {
	PrintSuccess(w, "%s", r.Message)
	fmt.Fprintf(w, "  import:     %s\n", r.ImportID)
	fmt.Fprintf(w, "  imported:   %d\n", r.ImportedLeads)
	fmt.Fprintf(w, "  errors:     %d\n", r.ErrorLeads)
	fmt.Fprintf(w, "  duplicates: %d\n", r.DuplicateLeads)
}

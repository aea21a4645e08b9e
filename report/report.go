// Package report renders the inspection of a table as Markdown, as an HTML
// page with severity colours, and as a bar chart of missing percentages.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/YuminosukeSato/csvclean/table"
)

// Inspector is the read-only view a report is built from. Both *table.Table
// and *processor.TableProcessor satisfy it.
type Inspector interface {
	Preview(rows int) *table.Preview
	BasicInfo() table.Info
	HighlightMissing(threshold float64) ([]table.HighlightedMissing, error)
}

// Report is a snapshot of one inspection.
type Report struct {
	Title     string
	Threshold float64
	Preview   *table.Preview
	Info      table.Info
	Missing   []table.HighlightedMissing
}

// Build inspects src. rows and threshold follow the Preview and
// HighlightMissing conventions.
func Build(title string, src Inspector, rows int, threshold float64) (*Report, error) {
	missing, err := src.HighlightMissing(threshold)
	if err != nil {
		return nil, err
	}
	return &Report{
		Title:     title,
		Threshold: threshold,
		Preview:   src.Preview(rows),
		Info:      src.BasicInfo(),
		Missing:   missing,
	}, nil
}

var bandColours = map[table.Band]string{
	table.BandLow:    "#ffe6e6",
	table.BandMedium: "#ffcccc",
	table.BandHigh:   "#ff9999",
	table.BandSevere: "#ff4d4d",
}

// BandColour returns the background colour of a band, or "" for BandNone.
func BandColour(b table.Band) string {
	return bandColours[b]
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeRow(b *bytes.Buffer, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeHeader(b *bytes.Buffer, cells []string) {
	writeRow(b, cells)
	sep := make([]string, len(cells))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(b, sep)
}

func (r *Report) render(coloured bool) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", r.Title)

	fmt.Fprintf(&b, "## Preview\n\nShowing %d of %d rows.\n\n", len(r.Preview.Rows), r.Preview.TotalRows)
	if len(r.Preview.Columns) > 0 {
		header := make([]string, len(r.Preview.Columns))
		for i, c := range r.Preview.Columns {
			header[i] = cell(c)
		}
		writeHeader(&b, header)
		for _, row := range r.Preview.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = cell(c)
			}
			writeRow(&b, cells)
		}
	}

	b.WriteString("\n## Basic info\n\n```\n")
	b.WriteString(r.Info.String())
	b.WriteString("```\n")

	fmt.Fprintf(&b, "\n## Missing values\n\nHighlight threshold: %g%%\n\n", r.Threshold)
	writeHeader(&b, []string{"Column", "Missing", "Missing (%)", "Band"})
	for _, m := range r.Missing {
		pct := fmt.Sprintf("%.2f", m.MissingPercentage)
		if colour := BandColour(m.Band); coloured && colour != "" {
			pct = fmt.Sprintf(`<span style="background-color: %s;">%s</span>`, colour, pct)
		}
		writeRow(&b, []string{cell(m.Column), fmt.Sprint(m.MissingCount), pct, string(m.Band)})
	}
	return b.Bytes()
}

// Markdown renders the report as GitHub-flavoured Markdown.
func (r *Report) Markdown() []byte {
	return r.render(false)
}

// HTML renders the report as a standalone HTML page. Missing percentages are
// highlighted with the colour of their band.
func (r *Report) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables | parser.FencedCode)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML(r.render(true), p, renderer)

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(r.Title))
	b.WriteString("<style>table{border-collapse:collapse}th,td{border:1px solid #ddd;padding:4px 8px}</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}

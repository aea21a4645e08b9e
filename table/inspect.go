package table

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// DefaultPreviewRows is the preview window used when none is given.
const DefaultPreviewRows = 50

// Preview is a bounded, display-ready snapshot of the first rows.
type Preview struct {
	Columns []string
	Rows    [][]string
	// TotalRows is the row count of the whole table.
	TotalRows int
}

// Preview returns the first rows rows (DefaultPreviewRows when rows <= 0).
func (t *Table) Preview(rows int) *Preview {
	if rows <= 0 {
		rows = DefaultPreviewRows
	}
	if rows > t.rows {
		rows = t.rows
	}
	p := &Preview{Columns: t.ColumnNames(), Rows: make([][]string, rows), TotalRows: t.rows}
	for i := 0; i < rows; i++ {
		row := make([]string, len(t.columns))
		for j, c := range t.columns {
			row[j] = c.Display(i)
		}
		p.Rows[i] = row
	}
	return p
}

// ColumnInfo is one line of the schema summary.
type ColumnInfo struct {
	Name    string
	DType   string
	NonNull int
}

// Info summarizes the table schema.
type Info struct {
	Rows    int
	Columns []ColumnInfo
}

// DType names a column's storage type: int64, float64 or object.
func DType(c *Column) string {
	switch {
	case c.Type == Text:
		return "object"
	case c.IsInteger():
		return "int64"
	default:
		return "float64"
	}
}

// BasicInfo returns name, dtype and non-null count per column.
func (t *Table) BasicInfo() Info {
	info := Info{Rows: t.rows, Columns: make([]ColumnInfo, len(t.columns))}
	for i, c := range t.columns {
		info.Columns[i] = ColumnInfo{Name: c.Name, DType: DType(c), NonNull: c.NonNullCount()}
	}
	return info
}

// String renders the summary in the layout of DataFrame.info().
func (info Info) String() string {
	var b strings.Builder
	if info.Rows == 0 {
		b.WriteString("RangeIndex: 0 entries\n")
	} else {
		fmt.Fprintf(&b, "RangeIndex: %d entries, 0 to %d\n", info.Rows, info.Rows-1)
	}
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", len(info.Columns))

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tDtype")
	fmt.Fprintln(tw, "---\t------\t--------------\t-----")
	counts := map[string]int{}
	for i, c := range info.Columns {
		fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\n", i, c.Name, c.NonNull, c.DType)
		counts[c.DType]++
	}
	tw.Flush()

	dtypes := make([]string, 0, len(counts))
	for d := range counts {
		dtypes = append(dtypes, d)
	}
	sort.Strings(dtypes)
	parts := make([]string, len(dtypes))
	for i, d := range dtypes {
		parts[i] = fmt.Sprintf("%s(%d)", d, counts[d])
	}
	fmt.Fprintf(&b, "dtypes: %s\n", strings.Join(parts, ", "))
	return b.String()
}

// MissingInfo is the missing-value profile of one column.
type MissingInfo struct {
	Column            string
	MissingCount      int
	MissingPercentage float64
}

// MissingReport counts nulls per column. Percentages are rounded to two
// decimals. A table without rows has no defined percentage.
func (t *Table) MissingReport() ([]MissingInfo, error) {
	if t.rows == 0 {
		return nil, errors.NewDivisionError("MissingReport")
	}
	report := make([]MissingInfo, len(t.columns))
	for i, c := range t.columns {
		n := c.NullCount()
		report[i] = MissingInfo{
			Column:            c.Name,
			MissingCount:      n,
			MissingPercentage: errors.Round(float64(n)/float64(t.rows)*100, 2),
		}
	}
	return report, nil
}

// Band is the severity class of a missing percentage.
type Band string

const (
	BandNone   Band = "none"
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
	BandSevere Band = "severe"
)

// DefaultThreshold is the lower bound of the low band when none is given.
const DefaultThreshold = 10.0

// Classify bands a percentage. The checks run in order, so a threshold above
// 30 keeps everything below it in BandNone.
func Classify(pct, threshold float64) Band {
	switch {
	case pct < threshold:
		return BandNone
	case pct < 30:
		return BandLow
	case pct < 50:
		return BandMedium
	case pct < 70:
		return BandHigh
	default:
		return BandSevere
	}
}

// HighlightedMissing is a MissingInfo with its severity band.
type HighlightedMissing struct {
	MissingInfo
	Band Band
}

// HighlightMissing returns the missing report with a band per column.
func (t *Table) HighlightMissing(threshold float64) ([]HighlightedMissing, error) {
	report, err := t.MissingReport()
	if err != nil {
		return nil, err
	}
	out := make([]HighlightedMissing, len(report))
	for i, m := range report {
		out[i] = HighlightedMissing{MissingInfo: m, Band: Classify(m.MissingPercentage, threshold)}
	}
	return out, nil
}

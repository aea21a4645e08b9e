package table

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

func TestPreview(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = float64(i)
	}
	values[1] = math.NaN()
	tbl := MustNew(NewNumeric("x", values))

	p := tbl.Preview(0)
	assert.Len(t, p.Rows, DefaultPreviewRows)
	assert.Equal(t, 60, p.TotalRows)
	assert.Equal(t, []string{"x"}, p.Columns)
	assert.Equal(t, []string{"0.0"}, p.Rows[0])
	assert.Equal(t, []string{"NaN"}, p.Rows[1])

	assert.Len(t, tbl.Preview(5).Rows, 5)
	assert.Len(t, tbl.Preview(100).Rows, 60)
}

func TestBasicInfo(t *testing.T) {
	tbl := MustNew(
		NewInteger("id", []int64{1, 2, 3}),
		NewNumeric("w", []float64{1, math.NaN(), 2}),
		NewText("s", []string{"a", "", ""}),
	)
	info := tbl.BasicInfo()
	assert.Equal(t, 3, info.Rows)
	assert.Equal(t, []ColumnInfo{
		{Name: "id", DType: "int64", NonNull: 3},
		{Name: "w", DType: "float64", NonNull: 2},
		{Name: "s", DType: "object", NonNull: 1},
	}, info.Columns)

	out := info.String()
	assert.Contains(t, out, "RangeIndex: 3 entries, 0 to 2")
	assert.Contains(t, out, "Data columns (total 3 columns):")
	assert.Contains(t, out, "dtypes: float64(1), int64(1), object(1)")
	assert.True(t, strings.Contains(out, "2 non-null"))
}

func TestMissingReport(t *testing.T) {
	ten := make([]float64, 10)
	for _, i := range []int{0, 4, 9} {
		ten[i] = math.NaN()
	}
	third := []string{"a", "", "c"}
	tbl := MustNew(NewNumeric("x", ten))

	report, err := tbl.MissingReport()
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, MissingInfo{Column: "x", MissingCount: 3, MissingPercentage: 30.00}, report[0])

	rounded := MustNew(NewText("s", third))
	report, err = rounded.MissingReport()
	require.NoError(t, err)
	assert.Equal(t, 33.33, report[0].MissingPercentage)
}

func TestMissingReportEmptyTable(t *testing.T) {
	tbl := MustNew(NewNumeric("x", nil))
	_, err := tbl.MissingReport()
	assert.True(t, errors.IsDivisionError(err))

	_, err = tbl.HighlightMissing(DefaultThreshold)
	assert.True(t, errors.IsDivisionError(err))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		pct       float64
		threshold float64
		want      Band
	}{
		{0, 10, BandNone},
		{5, 10, BandNone},
		{10, 10, BandLow},
		{29.99, 10, BandLow},
		{30, 10, BandMedium},
		{45, 10, BandMedium},
		{50, 10, BandHigh},
		{69.99, 10, BandHigh},
		{70, 10, BandSevere},
		{71, 10, BandSevere},
		{100, 10, BandSevere},
		{40, 60, BandNone},
		{65, 60, BandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.pct, tt.threshold), "pct=%v threshold=%v", tt.pct, tt.threshold)
	}
}

func TestHighlightMissing(t *testing.T) {
	tbl := MustNew(
		NewNumeric("full", []float64{1, 2, 3, 4}),
		NewNumeric("half", []float64{1, math.NaN(), math.NaN(), 4}),
		NewText("most", []string{"", "", "", "x"}),
	)
	got, err := tbl.HighlightMissing(DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, BandNone, got[0].Band)
	assert.Equal(t, BandHigh, got[1].Band)
	assert.Equal(t, 50.0, got[1].MissingPercentage)
	assert.Equal(t, BandSevere, got[2].Band)
	assert.Equal(t, "most", got[2].Column)
}

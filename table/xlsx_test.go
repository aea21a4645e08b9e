package table

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSXFile(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"name", "height", "team"},
		{"a", 170, "red"},
		{"b", nil, "blue"},
		{"c", 181.5, nil},
	})

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, []string{"name", "height", "team"}, tbl.ColumnNames())

	height, _ := tbl.Column("height")
	assert.Equal(t, Numeric, height.Type)
	assert.Equal(t, []int{1}, height.NullIndices())

	team, _ := tbl.Column("team")
	assert.Equal(t, Text, team.Type)
	assert.Equal(t, 1, team.NullCount(), "trailing empty cell is padded as null")
}

func TestReadXLSXFileErrors(t *testing.T) {
	_, err := ReadXLSXFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.True(t, errors.IsParseError(err))

	empty := writeWorkbook(t, nil)
	_, err = ReadXLSXFile(empty)
	assert.True(t, errors.IsParseError(err))
}

func TestWriteXLSXFileRoundTrip(t *testing.T) {
	src := MustNew(
		NewInteger("id", []int64{1, 2, 3}),
		NewNumeric("score", []float64{1.5, math.NaN(), 3.25}),
		NewText("city", []string{"Tokyo", "", "Osaka"}),
	)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteFile(path, src))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.ColumnNames(), got.ColumnNames())

	id, _ := got.Column("id")
	assert.True(t, id.IsInteger())
	score, _ := got.Column("score")
	assert.Equal(t, []int{1}, score.NullIndices())
	assert.Equal(t, 3.25, score.Values[2].Num)
	city, _ := got.Column("city")
	assert.Equal(t, "Osaka", city.Values[2].Str)
	assert.True(t, city.Values[1].Null)
}

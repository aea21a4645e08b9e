package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

func editFixture() *Table {
	return MustNew(
		NewInteger("a", []int64{1, 2}),
		NewText("b", []string{"x", "y"}),
		NewInteger("c", []int64{3, 4}),
	)
}

func TestRemoveColumns(t *testing.T) {
	tests := []struct {
		name     string
		remove   []string
		removed  []string
		leftover []string
	}{
		{"single", []string{"b"}, []string{"b"}, []string{"a", "c"}},
		{"request order", []string{"c", "a"}, []string{"c", "a"}, []string{"b"}},
		{"unknown ignored", []string{"zzz", "a"}, []string{"a"}, []string{"b", "c"}},
		{"duplicates collapse", []string{"a", "a"}, []string{"a"}, []string{"b", "c"}},
		{"all", []string{"a", "b", "c"}, []string{"a", "b", "c"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := editFixture()
			removed, err := tbl.RemoveColumns(tt.remove...)
			require.NoError(t, err)
			assert.Equal(t, tt.removed, removed)
			assert.Equal(t, tt.leftover, tbl.ColumnNames())
			assert.Equal(t, 2, tbl.NumRows())
			for _, name := range tt.leftover {
				assert.True(t, tbl.HasColumn(name))
			}
		})
	}
}

func TestRemoveColumnsNoMatch(t *testing.T) {
	tbl := editFixture()
	removed, err := tbl.RemoveColumns("nope", "zip")
	require.Error(t, err)
	assert.Nil(t, removed)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "['nope', 'zip']")
	assert.Equal(t, []string{"a", "b", "c"}, tbl.ColumnNames())

	_, err = tbl.RemoveColumns()
	assert.True(t, errors.IsValidationError(err))
}

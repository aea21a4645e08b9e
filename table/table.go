// Package table holds the in-memory tabular dataset: typed columns of nullable
// cells, the CSV/XLSX loaders, the read-only inspector and the column editor.
package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// ColumnType tags how a column's cells are stored.
type ColumnType int

const (
	// Numeric columns store float64 cells.
	Numeric ColumnType = iota
	// Text columns store string cells.
	Text
)

func (t ColumnType) String() string {
	if t == Text {
		return "text"
	}
	return "numeric"
}

// Value is a single nullable cell. Num is meaningful for numeric columns and
// Str for text columns.
type Value struct {
	Null bool
	Num  float64
	Str  string
}

// Null returns a missing cell.
func Null() Value { return Value{Null: true} }

// Num returns a numeric cell.
func Num(v float64) Value { return Value{Num: v} }

// Str returns a text cell.
func Str(s string) Value { return Value{Str: s} }

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value

	// integer is set on load when every cell was present and parsed as an
	// integer; BasicInfo then reports int64.
	integer bool
}

// NewNumeric builds a numeric column; NaN entries become nulls.
func NewNumeric(name string, values []float64) *Column {
	c := &Column{Name: name, Type: Numeric, Values: make([]Value, len(values))}
	for i, v := range values {
		if math.IsNaN(v) {
			c.Values[i] = Null()
		} else {
			c.Values[i] = Num(v)
		}
	}
	return c
}

// NewInteger builds a numeric column tagged as integer. It has no nulls.
func NewInteger(name string, values []int64) *Column {
	c := &Column{Name: name, Type: Numeric, Values: make([]Value, len(values)), integer: true}
	for i, v := range values {
		c.Values[i] = Num(float64(v))
	}
	return c
}

// NewText builds a text column; empty strings become nulls.
func NewText(name string, values []string) *Column {
	c := &Column{Name: name, Type: Text, Values: make([]Value, len(values))}
	for i, v := range values {
		if v == "" {
			c.Values[i] = Null()
		} else {
			c.Values[i] = Str(v)
		}
	}
	return c
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Values) }

// IsNumeric reports whether the column stores numbers.
func (c *Column) IsNumeric() bool { return c.Type == Numeric }

// IsInteger reports whether the column is an integer-valued numeric column
// without nulls.
func (c *Column) IsInteger() bool { return c.Type == Numeric && c.integer }

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.Null {
			n++
		}
	}
	return n
}

// NonNullCount returns the number of present cells.
func (c *Column) NonNullCount() int { return len(c.Values) - c.NullCount() }

// NullIndices returns the row indices of missing cells in ascending order.
func (c *Column) NullIndices() []int {
	var idx []int
	for i, v := range c.Values {
		if v.Null {
			idx = append(idx, i)
		}
	}
	return idx
}

// Floats returns the present values of a numeric column in row order.
func (c *Column) Floats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Null {
			out = append(out, v.Num)
		}
	}
	return out
}

// Set writes a cell. Writing a null into an integer column drops the integer
// tag, so the column is reported and written as float64.
func (c *Column) Set(i int, v Value) {
	if v.Null || (c.Type == Numeric && v.Num != math.Trunc(v.Num)) {
		c.integer = false
	}
	c.Values[i] = v
}

// Format renders a cell for CSV output: nulls are empty, integer columns have
// no fraction, float columns always carry one.
func (c *Column) Format(i int) string {
	v := c.Values[i]
	if v.Null {
		return ""
	}
	if c.Type == Text {
		return v.Str
	}
	return formatNumber(v.Num, c.integer)
}

// Display renders a cell for previews; nulls show as NaN.
func (c *Column) Display(i int) string {
	if c.Values[i].Null {
		return "NaN"
	}
	return c.Format(i)
}

// Key returns the cell's identity for counting (mode) and encoding.
func (c *Column) Key(i int) string {
	v := c.Values[i]
	if v.Null {
		return "nan"
	}
	if c.Type == Text {
		return v.Str
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	cp := *c
	cp.Values = append([]Value(nil), c.Values...)
	return &cp
}

func formatNumber(v float64, integer bool) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case integer:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Table is an ordered set of equally long, uniquely named columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New assembles a table, validating unique names and equal lengths.
func New(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if c.Name == "" {
			return nil, errors.NewValidationError("columns", "column name must not be empty", i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, errors.NewDimensionError("table.New", t.rows, c.Len(), 0)
		}
		t.index[c.Name] = i
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// MustNew is New for fixtures that are known to be valid.
func MustNew(columns ...*Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count.
func (t *Table) NumColumns() int { return len(t.columns) }

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column { return t.columns }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumnNames returns the names of numeric columns in order.
func (t *Table) NumericColumnNames() []string {
	var names []string
	for _, c := range t.columns {
		if c.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// HasColumn reports whether name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Clone()
	}
	cp := &Table{columns: cols, index: make(map[string]int, len(cols)), rows: t.rows}
	for k, v := range t.index {
		cp.index[k] = v
	}
	return cp
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		t.index[c.Name] = i
	}
}

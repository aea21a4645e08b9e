package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// nullTokens are read as missing cells, in addition to blank cells.
var nullTokens = map[string]struct{}{
	"NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {},
}

func isNullToken(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, ok := nullTokens[s]
	return ok
}

// ReadCSVFile loads a comma-separated file with a header row.
func ReadCSVFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewParseError(path, 0, err.Error())
	}
	return parseCSV(path, data)
}

// ReadCSV loads comma-separated UTF-8 text with a header row from r.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewParseError("stream", 0, "read: "+err.Error())
	}
	return parseCSV("stream", data)
}

func parseCSV(source string, data []byte) (*Table, error) {
	if !utf8.Valid(data) {
		return nil, errors.NewParseError(source, 0, "input is not valid UTF-8")
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, errors.NewParseError(source, pe.Line, pe.Err.Error())
		}
		return nil, errors.NewParseError(source, 0, err.Error())
	}
	if len(records) == 0 {
		return nil, errors.NewParseError(source, 0, "no header row")
	}
	return fromRecords(source, records[0], records[1:])
}

// fromRecords infers a type per column and builds the table. Every record
// must be exactly as wide as the header.
func fromRecords(source string, header []string, records [][]string) (*Table, error) {
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			return nil, errors.NewParseError(source, 1, "empty column name at position "+strconv.Itoa(i+1))
		}
		if _, dup := seen[name]; dup {
			return nil, errors.NewParseError(source, 1, "duplicate column name "+strconv.Quote(name))
		}
		seen[name] = struct{}{}
	}
	for i, rec := range records {
		if len(rec) != len(header) {
			return nil, errors.NewParseError(source, i+2,
				"expected "+strconv.Itoa(len(header))+" fields, got "+strconv.Itoa(len(rec)))
		}
	}

	columns := make([]*Column, len(header))
	raw := make([]string, len(records))
	for j, name := range header {
		for i, rec := range records {
			raw[i] = rec[j]
		}
		columns[j] = inferColumn(name, raw)
	}
	return New(columns...)
}

// inferColumn makes a column numeric when every present cell parses as a
// float; an all-null column is numeric as well. A column without rows is text.
func inferColumn(name string, raw []string) *Column {
	nums := make([]float64, len(raw))
	numeric, integer := len(raw) > 0, true
	for i, s := range raw {
		if isNullToken(s) {
			integer = false
			continue
		}
		s = strings.TrimSpace(s)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = v
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			integer = false
		}
	}

	col := &Column{Name: name, Values: make([]Value, len(raw))}
	if numeric {
		col.Type = Numeric
		col.integer = integer
		for i, s := range raw {
			if isNullToken(s) {
				col.Values[i] = Null()
			} else {
				col.Values[i] = Num(nums[i])
			}
		}
		return col
	}

	col.Type = Text
	for i, s := range raw {
		if isNullToken(s) {
			col.Values[i] = Null()
		} else {
			col.Values[i] = Str(s)
		}
	}
	return col
}

// WriteCSV serializes t as comma-separated text: header row, no index
// column, nulls as empty cells.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return errors.Wrap(err, "write header")
	}
	record := make([]string, t.NumColumns())
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.columns {
			record[j] = c.Format(i)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write row %d", i+1)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// WriteCSVFile writes t to path, replacing any existing file.
func WriteCSVFile(path string, t *Table) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

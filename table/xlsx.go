package table

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
)

// ReadXLSXFile loads the first sheet of a workbook. The first row is the
// header; the null and type rules are the same as for CSV.
func ReadXLSXFile(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParseError(path, 0, "open workbook: "+err.Error())
	}
	defer f.Close()
	return readWorkbook(path, f)
}

// ReadXLSX loads the first sheet of a workbook read from r.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewParseError("stream", 0, "open workbook: "+err.Error())
	}
	defer f.Close()
	return readWorkbook("stream", f)
}

func readWorkbook(source string, f *excelize.File) (*Table, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParseError(source, 0, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParseError(source, 0, "read sheet "+sheets[0]+": "+err.Error())
	}
	if len(rows) == 0 {
		return nil, errors.NewParseError(source, 0, "no header row")
	}

	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// GetRows drops trailing empty cells.
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		records = append(records, row)
	}
	return fromRecords(source, header, records)
}

// ReadFile picks the loader from the file extension: .xlsx workbooks go
// through excelize, everything else is read as CSV.
func ReadFile(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSXFile(path)
	}
	return ReadCSVFile(path)
}

// WriteXLSXFile writes t to the first sheet of a new workbook at path. Nulls
// are left as empty cells and numbers keep their numeric cell type.
func WriteXLSXFile(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, t.NumColumns())
	for j, name := range t.ColumnNames() {
		header[j] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "write header")
	}
	row := make([]interface{}, t.NumColumns())
	for i := 0; i < t.NumRows(); i++ {
		for j, c := range t.columns {
			v := c.Values[i]
			switch {
			case v.Null:
				row[j] = nil
			case c.IsInteger():
				row[j] = int64(v.Num)
			case c.IsNumeric():
				row[j] = v.Num
			default:
				row[j] = v.Str
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrapf(err, "row %d", i+1)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write row %d", i+1)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// WriteFile picks the writer from the file extension, mirroring ReadFile.
func WriteFile(path string, t *Table) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return WriteXLSXFile(path, t)
	}
	return WriteCSVFile(path, t)
}

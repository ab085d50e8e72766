package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "surfviz/internal/errors"
)

const utf8BOM = "\ufeff"

// record is one raw input row and the line it came from.
type record struct {
	fields []string
	line   int
}

// LoadTable reads a table from path. The first row is the header; the first
// three columns become (x, y, z) whatever their names. Files ending in .xlsx
// are read from their first sheet, everything else is parsed as CSV.
func LoadTable(path string) (*Table, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path, name)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError("failed to open table", err).
			WithContext("path", path)
	}
	defer f.Close()

	return readCSV(f, name, path)
}

// ReadCSV reads a comma-separated table with a header row from r.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	return readCSV(r, name, name)
}

func readCSV(r io.Reader, name, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewDataLoadError("malformed CSV", err).
				WithContext("path", source)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{fields: fields, line: line})
	}

	return buildTable(name, source, records)
}

func loadXLSX(path, name string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewDataLoadError("workbook has no sheets", nil).
			WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewDataLoadError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}

	records := make([]record, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		records = append(records, record{fields: row, line: i + 1})
	}

	return buildTable(name, path, records)
}

func buildTable(name, source string, records []record) (*Table, error) {
	if len(records) == 0 {
		return nil, apperrors.NewDataLoadError("table has no header row", nil).
			WithContext("path", source)
	}

	header := records[0].fields
	if len(header) < 3 {
		return nil, apperrors.NewDataLoadError(
			fmt.Sprintf("table needs at least 3 columns, header has %d", len(header)), nil).
			WithContext("path", source)
	}

	t := &Table{
		Name:   name,
		Source: source,
		Rows:   make([]Row, 0, len(records)-1),
	}
	for i := range t.Columns {
		t.Columns[i] = strings.TrimSpace(header[i])
	}
	t.Columns[0] = strings.TrimPrefix(t.Columns[0], utf8BOM)

	for _, rec := range records[1:] {
		row, err := parseRow(t.Columns, rec)
		if err != nil {
			return nil, err.WithContext("path", source)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func parseRow(columns [3]string, rec record) (Row, *apperrors.AppError) {
	if len(rec.fields) < 3 {
		return Row{}, apperrors.NewDataLoadError(
			fmt.Sprintf("line %d has %d fields, want at least 3", rec.line, len(rec.fields)), nil).
			WithContext("line", rec.line)
	}

	var values [3]float64
	for i := range values {
		raw := strings.TrimSpace(rec.fields[i])
		if raw == "" {
			return Row{}, fieldError(columns[i], rec.line, "missing value", nil)
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Row{}, fieldError(columns[i], rec.line, fmt.Sprintf("value %q is not numeric", raw), err)
		}

		// x and y index the grid; z may be NaN, which marks a gap.
		if i < 2 && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return Row{}, fieldError(columns[i], rec.line, "coordinate must be finite", nil)
		}
		if math.IsInf(v, 0) {
			return Row{}, fieldError(columns[i], rec.line, "value must not be infinite", nil)
		}
		values[i] = v
	}

	return Row{X: values[0], Y: values[1], Z: values[2], Line: rec.line}, nil
}

func fieldError(column string, line int, msg string, cause error) *apperrors.AppError {
	var numErr *strconv.NumError
	if errors.As(cause, &numErr) {
		cause = numErr.Err
	}
	return apperrors.NewDataLoadError(fmt.Sprintf("line %d, column %q: %s", line, column, msg), cause).
		WithContext("line", line).
		WithContext("column", column)
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

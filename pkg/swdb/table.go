// Package swdb parses Statewide Database (SWDB) precinct data files: the
// statewide vote-by-precinct report, the precinct-to-census-block
// conversion, and the CVAP population file.
//
// The files are plain CSV, published both comma and tab delimited depending
// on vintage. Column sets vary by election cycle (vote columns are named
// per contest, e.g. GOVDEM01), so rows are decoded through a header index
// rather than fixed structs.
package swdb

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/censusalign/censusalign/pkg/errors"
)

// Well-known SWDB column names.
const (
	ColPrecinctKey = "SRPREC_KEY"
	ColBlockKey    = "BLOCK_KEY"
	ColBlockReg    = "BLKREG"
	ColPrecinctReg = "SRTOTREG"
	ColBlock20     = "BLOCK20"
)

// Table is a decoded delimited file: a header index over raw rows.
type Table struct {
	columns map[string]int
	rows    [][]string
}

// ReadTable decodes a delimited file, falling back from comma to tab when
// the comma parse yields a single-column header containing tabs.
func ReadTable(r io.Reader, name string) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}

	tbl, err := readDelimited(data, ',', name)
	if err == nil && tbl.singleColumnWithTabs() {
		return readDelimited(data, '\t', name)
	}
	if err != nil {
		// Ragged comma parses usually mean a tab-delimited mirror.
		if tabTbl, tabErr := readDelimited(data, '\t', name); tabErr == nil && len(tabTbl.columns) > 1 {
			return tabTbl, nil
		}
		return nil, err
	}
	return tbl, nil
}

func readDelimited(data []byte, delim rune, name string) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	// TrimLeadingSpace would eat a leading tab as whitespace even in tab
	// mode, shifting rows whose first field is blank. Cells are trimmed in
	// cell() instead.
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", name, err)
	}
	if len(records) == 0 {
		return nil, errors.NewParseError("csv", name, "file has no header row", nil)
	}

	columns := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		columns[strings.ToUpper(strings.TrimSpace(col))] = i
	}

	return &Table{columns: columns, rows: records[1:]}, nil
}

func (t *Table) singleColumnWithTabs() bool {
	if len(t.columns) != 1 {
		return false
	}
	for col := range t.columns {
		return strings.Contains(col, "\t")
	}
	return false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the header contains the column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[strings.ToUpper(name)]
	return ok
}

// Columns returns the header names in no particular order.
func (t *Table) Columns() []string {
	cols := make([]string, 0, len(t.columns))
	for col := range t.columns {
		cols = append(cols, col)
	}
	return cols
}

// cell returns the trimmed value at (row, column), empty when the column is
// absent or the row is short.
func (t *Table) cell(row int, column string) string {
	idx, ok := t.columns[strings.ToUpper(column)]
	if !ok || row < 0 || row >= len(t.rows) || idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

// intCell parses the value at (row, column) as an integer. Empty cells are
// an error; callers decide whether to skip the row.
func (t *Table) intCell(row int, column string) (int64, error) {
	raw := t.cell(row, column)
	if raw == "" {
		return 0, errors.NewValidationError(column, raw, "empty numeric cell")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Some vintages serialize counts as "123.0".
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0, errors.NewValidationError(column, raw, "not an integer")
		}
		return int64(f), nil
	}
	return v, nil
}

// floatCell parses the value at (row, column) as a float. Empty cells are
// an error; callers decide whether to skip the row.
func (t *Table) floatCell(row int, column string) (float64, error) {
	raw := t.cell(row, column)
	if raw == "" {
		return 0, errors.NewValidationError(column, raw, "empty numeric cell")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewValidationError(column, raw, "not a number")
	}
	return v, nil
}

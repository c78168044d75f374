package swdb

import (
	"io"

	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
)

// ConversionRow maps one (precinct, block) pair with its registration
// weights: BlockReg registrants of the precinct live in the block out of
// PrecinctReg total.
type ConversionRow struct {
	Precinct    string
	Block       geo.GEOID
	BlockReg    float64
	PrecinctReg float64
}

// ConversionTable is the precinct-to-census-block crosswalk.
type ConversionTable struct {
	rows []ConversionRow
}

// ParseConversion decodes the SR-precinct-to-block mapping file. Rows
// missing either key are dropped (the published file carries summary rows
// with blank keys); block keys are normalized to full GEOID width.
func ParseConversion(r io.Reader, name string) (*ConversionTable, error) {
	tbl, err := ReadTable(r, name)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{ColPrecinctKey, ColBlockKey, ColBlockReg, ColPrecinctReg} {
		if !tbl.HasColumn(col) {
			return nil, errors.NewParseError("csv", name, "missing column "+col, nil)
		}
	}

	ct := &ConversionTable{rows: make([]ConversionRow, 0, tbl.Len())}
	for i := 0; i < tbl.Len(); i++ {
		precinct := tbl.cell(i, ColPrecinctKey)
		blockKey := tbl.cell(i, ColBlockKey)
		if precinct == "" || blockKey == "" {
			continue
		}
		block, err := geo.NormalizeBlock(blockKey)
		if err != nil {
			return nil, errors.WrapParse("csv", name, err)
		}
		blockReg, err := tbl.floatCell(i, ColBlockReg)
		if err != nil {
			// Registration can be blank for unpopulated blocks; treat as no
			// registrants rather than rejecting the file.
			blockReg = 0
		}
		precinctReg, err := tbl.floatCell(i, ColPrecinctReg)
		if err != nil {
			precinctReg = 0
		}
		ct.rows = append(ct.rows, ConversionRow{
			Precinct:    precinct,
			Block:       block,
			BlockReg:    blockReg,
			PrecinctReg: precinctReg,
		})
	}
	return ct, nil
}

// Len returns the number of crosswalk rows.
func (c *ConversionTable) Len() int {
	return len(c.rows)
}

// Rows returns all crosswalk rows in file order.
func (c *ConversionTable) Rows() []ConversionRow {
	return c.rows
}

package swdb

import (
	"io"

	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
)

// CVAPRow holds one census block's citizen voting-age population estimate.
type CVAPRow struct {
	Block      geo.GEOID
	Population float64
}

// CVAPTable is the block-level citizen voting-age population file.
type CVAPTable struct {
	rows []CVAPRow
}

// ParseCVAP decodes a CVAP-by-block file. The population column name varies
// by vintage (CIT_22, CIT_20, ...) and comes from the vintage config.
func ParseCVAP(r io.Reader, name, populationColumn string) (*CVAPTable, error) {
	tbl, err := ReadTable(r, name)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{ColBlock20, populationColumn} {
		if !tbl.HasColumn(col) {
			return nil, errors.NewParseError("csv", name, "missing column "+col, nil)
		}
	}

	ct := &CVAPTable{rows: make([]CVAPRow, 0, tbl.Len())}
	for i := 0; i < tbl.Len(); i++ {
		blockKey := tbl.cell(i, ColBlock20)
		if blockKey == "" {
			continue
		}
		block, err := geo.NormalizeBlock(blockKey)
		if err != nil {
			return nil, errors.WrapParse("csv", name, err)
		}
		pop, err := tbl.floatCell(i, populationColumn)
		if err != nil {
			// Unpopulated blocks are sometimes blank rather than zero.
			pop = 0
		}
		ct.rows = append(ct.rows, CVAPRow{Block: block, Population: pop})
	}
	return ct, nil
}

// Len returns the number of block rows.
func (c *CVAPTable) Len() int {
	return len(c.rows)
}

// Rows returns all block rows in file order.
func (c *CVAPTable) Rows() []CVAPRow {
	return c.rows
}

// AggregateTo sums block populations to the requested level, keyed by the
// truncated GEOID.
func (c *CVAPTable) AggregateTo(level geo.Level) map[geo.GEOID]float64 {
	agg := make(map[geo.GEOID]float64)
	for _, row := range c.rows {
		agg[row.Block.Truncate(level)] += row.Population
	}
	return agg
}

package swdb

import (
	"io"

	"github.com/censusalign/censusalign/pkg/errors"
)

// PrecinctVotes holds one SRPrecinct's results for the chosen contest.
type PrecinctVotes struct {
	Precinct string
	Dem      int64
	Rep      int64
}

// VoteTable indexes precinct results for the chosen contest by precinct key.
type VoteTable struct {
	rows []PrecinctVotes
	byID map[string]PrecinctVotes
}

// ParseVotes decodes a statewide vote-by-precinct file, extracting the two
// contest columns selected by the vintage config (e.g. GOVDEM01/GOVREP01).
// Rows without a precinct key or with unparsable counts are rejected: the
// SOV report is authoritative and holes in it mean the wrong file.
func ParseVotes(r io.Reader, name, demColumn, repColumn string) (*VoteTable, error) {
	tbl, err := ReadTable(r, name)
	if err != nil {
		return nil, err
	}

	for _, col := range []string{ColPrecinctKey, demColumn, repColumn} {
		if !tbl.HasColumn(col) {
			return nil, errors.NewParseError("csv", name, "missing column "+col, nil)
		}
	}

	vt := &VoteTable{
		rows: make([]PrecinctVotes, 0, tbl.Len()),
		byID: make(map[string]PrecinctVotes, tbl.Len()),
	}
	for i := 0; i < tbl.Len(); i++ {
		precinct := tbl.cell(i, ColPrecinctKey)
		if precinct == "" {
			continue
		}
		dem, err := tbl.intCell(i, demColumn)
		if err != nil {
			return nil, errors.WrapParse("csv", name, err)
		}
		rep, err := tbl.intCell(i, repColumn)
		if err != nil {
			return nil, errors.WrapParse("csv", name, err)
		}
		row := PrecinctVotes{Precinct: precinct, Dem: dem, Rep: rep}
		vt.rows = append(vt.rows, row)
		vt.byID[precinct] = row
	}
	return vt, nil
}

// Len returns the number of precincts.
func (v *VoteTable) Len() int {
	return len(v.rows)
}

// Lookup returns the votes for a precinct key.
func (v *VoteTable) Lookup(precinct string) (PrecinctVotes, bool) {
	row, ok := v.byID[precinct]
	return row, ok
}

// Rows returns all precinct rows in file order.
func (v *VoteTable) Rows() []PrecinctVotes {
	return v.rows
}

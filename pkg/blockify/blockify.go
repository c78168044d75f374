// Package blockify disaggregates precinct-level election returns to census
// blocks and rolls them up to a target census level.
//
// The Statewide Database reports votes by SRPrecinct while census data is
// keyed by block, so each precinct's votes are split across its blocks in
// proportion to registered voters (BLKREG / SRTOTREG), rounded with the
// Hamilton method so every precinct's total is conserved, then summed to
// the requested level.
package blockify

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/censusalign/censusalign/pkg/apportion"
	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
	"github.com/censusalign/censusalign/pkg/swdb"
)

// Row is one census unit's rolled-up votes.
type Row struct {
	GEOID      geo.GEOID `json:"geoid"`
	TotalVotes int64     `json:"total_vote"`
	DemVotes   int64     `json:"dem_vote"`
	RepVotes   int64     `json:"rep_vote"`
}

// Rollup is an election's votes aggregated to a census level, sorted by
// GEOID.
type Rollup struct {
	Level geo.Level
	Rows  []Row
}

// Lookup returns the row for a GEOID.
func (r *Rollup) Lookup(id geo.GEOID) (Row, bool) {
	i := sort.Search(len(r.Rows), func(i int) bool { return r.Rows[i].GEOID >= id })
	if i < len(r.Rows) && r.Rows[i].GEOID == id {
		return r.Rows[i], true
	}
	return Row{}, false
}

// Totals returns the summed total, dem and rep counts across all rows.
func (r *Rollup) Totals() (total, dem, rep int64) {
	for _, row := range r.Rows {
		total += row.TotalVotes
		dem += row.DemVotes
		rep += row.RepVotes
	}
	return total, dem, rep
}

// Blockify distributes precinct votes to blocks and aggregates them to the
// requested level. Precincts absent from the vote table, crosswalk rows
// with no registration denominator, and water-only block groups drop out.
func Blockify(votes *swdb.VoteTable, conversion *swdb.ConversionTable, level geo.Level) (*Rollup, error) {
	if !level.IsValid() {
		return nil, errors.NewValidationError("level", level, "unknown aggregation level")
	}

	// Group crosswalk rows by precinct, preserving file order so Hamilton
	// tie-breaks are reproducible.
	grouped := make(map[string][]swdb.ConversionRow)
	order := make([]string, 0, 64)
	for _, row := range conversion.Rows() {
		if row.PrecinctReg <= 0 {
			continue
		}
		if _, seen := grouped[row.Precinct]; !seen {
			order = append(order, row.Precinct)
		}
		grouped[row.Precinct] = append(grouped[row.Precinct], row)
	}

	type tally struct{ dem, rep int64 }
	blocks := make(map[geo.GEOID]*tally)

	for _, precinct := range order {
		result, ok := votes.Lookup(precinct)
		if !ok {
			continue
		}
		rows := grouped[precinct]

		demShares := make([]float64, len(rows))
		repShares := make([]float64, len(rows))
		for i, row := range rows {
			weight := row.BlockReg / row.PrecinctReg
			demShares[i] = float64(result.Dem) * weight
			repShares[i] = float64(result.Rep) * weight
		}

		demAlloc := apportion.Hamilton(demShares)
		repAlloc := apportion.Hamilton(repShares)

		for i, row := range rows {
			if row.Block.IsWaterBlockGroup() {
				continue
			}
			t := blocks[row.Block]
			if t == nil {
				t = &tally{}
				blocks[row.Block] = t
			}
			t.dem += demAlloc[i]
			t.rep += repAlloc[i]
		}
	}

	// Aggregate blocks up to the requested level.
	units := make(map[geo.GEOID]*tally, len(blocks))
	for block, t := range blocks {
		id := block.Truncate(level)
		u := units[id]
		if u == nil {
			u = &tally{}
			units[id] = u
		}
		u.dem += t.dem
		u.rep += t.rep
	}

	rollup := &Rollup{Level: level, Rows: make([]Row, 0, len(units))}
	for id, t := range units {
		rollup.Rows = append(rollup.Rows, Row{
			GEOID:      id,
			TotalVotes: t.dem + t.rep,
			DemVotes:   t.dem,
			RepVotes:   t.rep,
		})
	}
	sort.Slice(rollup.Rows, func(i, j int) bool {
		return rollup.Rows[i].GEOID < rollup.Rows[j].GEOID
	})
	return rollup, nil
}

// WriteCSV writes the rollup with the column naming the downstream tooling
// expects: GEOID_<LEVEL>, total_vote, dem_vote, rep_vote.
func (r *Rollup) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	header := []string{
		"GEOID_" + strings.ToUpper(string(r.Level)),
		"total_vote", "dem_vote", "rep_vote",
	}
	if err := writer.Write(header); err != nil {
		return errors.WrapIO("write", "rollup header", err)
	}
	for _, row := range r.Rows {
		record := []string{
			row.GEOID.String(),
			strconv.FormatInt(row.TotalVotes, 10),
			strconv.FormatInt(row.DemVotes, 10),
			strconv.FormatInt(row.RepVotes, 10),
		}
		if err := writer.Write(record); err != nil {
			return errors.WrapIO("write", "rollup row", err)
		}
	}
	writer.Flush()
	return errors.WrapIO("flush", "rollup", writer.Error())
}

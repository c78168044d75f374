package blockify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censusalign/censusalign/pkg/geo"
	"github.com/censusalign/censusalign/pkg/swdb"
)

const voteCSV = `SRPREC_KEY,GOVDEM01,GOVREP01
60750001,100,50
60750002,80,20
60990003,10,30
`

// Precinct 60750001 splits 60/40 over two blocks in one block group;
// 60750002 maps to one block in another group; 60990003 maps entirely to a
// water block group. 60750004 has votes but no crosswalk denominator.
const conversionCSV = `SRPREC_KEY,BLOCK_KEY,BLKREG,SRTOTREG
60750001,60750101011000,600,1000
60750001,60750101011001,400,1000
60750002,60750101021000,500,500
60990003,60990001010000,200,200
60750004,60750101031000,100,0
`

func parseTables(t *testing.T) (*swdb.VoteTable, *swdb.ConversionTable) {
	t.Helper()
	votes, err := swdb.ParseVotes(strings.NewReader(voteCSV), "sov.csv", "GOVDEM01", "GOVREP01")
	require.NoError(t, err)
	conversion, err := swdb.ParseConversion(strings.NewReader(conversionCSV), "blk_map.csv")
	require.NoError(t, err)
	return votes, conversion
}

func TestBlockifyToBlock(t *testing.T) {
	votes, conversion := parseTables(t)

	rollup, err := Blockify(votes, conversion, geo.LevelBlock)
	require.NoError(t, err)

	// Water block group 609900010100 excluded; zero-denominator precinct
	// contributes nothing.
	require.Len(t, rollup.Rows, 3)

	row, ok := rollup.Lookup(geo.GEOID("060750101011000"))
	require.True(t, ok)
	assert.Equal(t, int64(60), row.DemVotes)
	assert.Equal(t, int64(30), row.RepVotes)
	assert.Equal(t, int64(90), row.TotalVotes)

	row, ok = rollup.Lookup(geo.GEOID("060750101011001"))
	require.True(t, ok)
	assert.Equal(t, int64(40), row.DemVotes)
	assert.Equal(t, int64(20), row.RepVotes)

	// Precinct totals are conserved across its blocks.
	total, dem, rep := rollup.Totals()
	assert.Equal(t, int64(100+80), dem)
	assert.Equal(t, int64(50+20), rep)
	assert.Equal(t, dem+rep, total)
}

func TestBlockifyToBlockGroup(t *testing.T) {
	votes, conversion := parseTables(t)

	rollup, err := Blockify(votes, conversion, geo.LevelBlockGroup)
	require.NoError(t, err)
	require.Len(t, rollup.Rows, 2)

	row, ok := rollup.Lookup(geo.GEOID("060750101011"))
	require.True(t, ok)
	assert.Equal(t, int64(100), row.DemVotes)
	assert.Equal(t, int64(50), row.RepVotes)

	row, ok = rollup.Lookup(geo.GEOID("060750101021"))
	require.True(t, ok)
	assert.Equal(t, int64(80), row.DemVotes)
}

func TestBlockifyToCounty(t *testing.T) {
	votes, conversion := parseTables(t)

	rollup, err := Blockify(votes, conversion, geo.LevelCounty)
	require.NoError(t, err)
	require.Len(t, rollup.Rows, 1)
	assert.Equal(t, geo.GEOID("06075"), rollup.Rows[0].GEOID)
	assert.Equal(t, int64(250), rollup.Rows[0].TotalVotes)
}

func TestBlockifyRoundingConservation(t *testing.T) {
	// Thirds do not divide evenly; Hamilton must still conserve the 100/50.
	voteData := "SRPREC_KEY,GOVDEM01,GOVREP01\n60750001,100,50\n"
	convData := `SRPREC_KEY,BLOCK_KEY,BLKREG,SRTOTREG
60750001,60750101011000,1,3
60750001,60750101011001,1,3
60750001,60750101011002,1,3
`
	votes, err := swdb.ParseVotes(strings.NewReader(voteData), "sov.csv", "GOVDEM01", "GOVREP01")
	require.NoError(t, err)
	conversion, err := swdb.ParseConversion(strings.NewReader(convData), "blk_map.csv")
	require.NoError(t, err)

	rollup, err := Blockify(votes, conversion, geo.LevelBlock)
	require.NoError(t, err)

	_, dem, rep := rollup.Totals()
	assert.Equal(t, int64(100), dem)
	assert.Equal(t, int64(50), rep)
}

func TestBlockifyInvalidLevel(t *testing.T) {
	votes, conversion := parseTables(t)
	_, err := Blockify(votes, conversion, geo.Level("precinct"))
	assert.Error(t, err)
}

func TestRollupWriteCSV(t *testing.T) {
	votes, conversion := parseTables(t)
	rollup, err := Blockify(votes, conversion, geo.LevelBlockGroup)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rollup.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "GEOID_BLOCKGROUP,total_vote,dem_vote,rep_vote", lines[0])
	assert.Equal(t, "060750101011,150,100,50", lines[1])
}

func TestRollupLookupMissing(t *testing.T) {
	votes, conversion := parseTables(t)
	rollup, err := Blockify(votes, conversion, geo.LevelBlockGroup)
	require.NoError(t, err)

	_, ok := rollup.Lookup(geo.GEOID("999999999999"))
	assert.False(t, ok)
}

package unitgraph

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censusalign/censusalign/pkg/geo"
)

// square returns a unit-square multipolygon with its southwest corner at
// (x, y), in fake planar meters.
func square(x, y float64) orb.MultiPolygon {
	return orb.MultiPolygon{orb.Polygon{orb.Ring{
		{x, y}, {x + 1000, y}, {x + 1000, y + 1000}, {x, y + 1000}, {x, y},
	}}}
}

// testUnits lays out three squares in a row plus a detached island:
//
//	[A][B][C]   [D]
func testUnits() []*Unit {
	return []*Unit{
		{GEOID: "060750101011", FIPS: "06075", Population: 100, TotalVotes: 90, DemVotes: 60, RepVotes: 30, Geometry: square(0, 0)},
		{GEOID: "060750101012", FIPS: "06075", Population: 200, TotalVotes: 150, DemVotes: 80, RepVotes: 70, Geometry: square(1000, 0)},
		{GEOID: "060750101021", FIPS: "06075", Population: 50, TotalVotes: 40, DemVotes: 10, RepVotes: 30, Geometry: square(2000, 0)},
		{GEOID: "061110036181", FIPS: "06111", Population: 10, TotalVotes: 8, DemVotes: 5, RepVotes: 3, Geometry: square(9000, 9000)},
	}
}

func TestNewSortsAndRejectsDuplicates(t *testing.T) {
	units := testUnits()
	// Shuffle input; New must order nodes by GEOID.
	units[0], units[2] = units[2], units[0]

	g, err := New(units)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, geo.GEOID("060750101011"), g.Units()[0].GEOID)

	_, err = New(append(testUnits(), testUnits()[0]))
	assert.Error(t, err)
}

func TestBuildAdjacencyQueenContiguity(t *testing.T) {
	g, err := New(testUnits())
	require.NoError(t, err)

	g.BuildAdjacency()

	// A-B and B-C share edges; A-C and the island touch nothing.
	assert.True(t, g.HasEdge("060750101011", "060750101012"))
	assert.True(t, g.HasEdge("060750101012", "060750101021"))
	assert.False(t, g.HasEdge("060750101011", "060750101021"))
	assert.Equal(t, 2, g.EdgeCount())

	assert.Equal(t, []geo.GEOID{"060750101011", "060750101021"}, g.Neighbors("060750101012"))
	assert.Equal(t, 2, g.Degree("060750101012"))
	assert.Equal(t, -1, g.Degree("unknown"))

	assert.Equal(t, []geo.GEOID{"061110036181"}, g.Islands())
}

func TestBuildAdjacencyCornerTouch(t *testing.T) {
	// Queen contiguity: a single shared corner vertex is adjacency.
	units := []*Unit{
		{GEOID: "060010001001", Geometry: square(0, 0)},
		{GEOID: "060010001002", Geometry: square(1000, 1000)},
	}
	g, err := New(units)
	require.NoError(t, err)
	g.BuildAdjacency()

	assert.True(t, g.HasEdge("060010001001", "060010001002"))
}

func TestAddEdgeCustomConnections(t *testing.T) {
	g, err := New(testUnits())
	require.NoError(t, err)
	g.BuildAdjacency()

	// The ferry connection the geometry cannot produce.
	assert.True(t, g.AddEdge("060750101011", "061110036181"))
	assert.True(t, g.HasEdge("061110036181", "060750101011"))
	assert.Empty(t, g.Islands())

	// Unknown GEOIDs are reported, not fatal.
	assert.False(t, g.AddEdge("060750101011", "999999999999"))
	assert.Equal(t, 3, g.EdgeCount())

	// Self edges are ignored.
	assert.True(t, g.AddEdge("060750101011", "060750101011"))
	assert.Equal(t, 3, g.EdgeCount())
}

func TestComponents(t *testing.T) {
	g, err := New(testUnits())
	require.NoError(t, err)
	g.BuildAdjacency()

	components := g.Components()
	require.Len(t, components, 2)
	assert.Equal(t, []geo.GEOID{"060750101011", "060750101012", "060750101021"}, components[0])
	assert.Equal(t, []geo.GEOID{"061110036181"}, components[1])

	g.AddEdge("060750101021", "061110036181")
	assert.Len(t, g.Components(), 1)
}

func TestUnitLookup(t *testing.T) {
	g, err := New(testUnits())
	require.NoError(t, err)

	unit, ok := g.Unit("060750101012")
	require.True(t, ok)
	assert.Equal(t, 200.0, unit.Population)

	_, ok = g.Unit("nope")
	assert.False(t, ok)
}

func TestWriteJSONAdjacencyFormat(t *testing.T) {
	g, err := New(testUnits())
	require.NoError(t, err)
	g.BuildAdjacency()

	var buf bytes.Buffer
	require.NoError(t, g.WriteJSON(&buf))

	var doc struct {
		Directed   bool             `json:"directed"`
		Multigraph bool             `json:"multigraph"`
		Graph      []any            `json:"graph"`
		Nodes      []map[string]any `json:"nodes"`
		Adjacency  [][]map[string]any `json:"adjacency"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.False(t, doc.Directed)
	assert.False(t, doc.Multigraph)
	assert.NotNil(t, doc.Graph)
	require.Len(t, doc.Nodes, 4)
	require.Len(t, doc.Adjacency, 4)

	first := doc.Nodes[0]
	assert.Equal(t, "060750101011", first["GEOID20"])
	assert.Equal(t, "06075", first["FIPS"])
	assert.Equal(t, 100.0, first["pop_total"])
	assert.Equal(t, 60.0, first["dem_vote"])
	assert.InDelta(t, 1e6, first["area"].(float64), 1e-6)
	assert.InDelta(t, 4e3, first["perimeter"].(float64), 1e-6)

	// Node 1 (the middle square) lists both neighbors by id.
	require.Len(t, doc.Adjacency[1], 2)
	assert.Equal(t, 0.0, doc.Adjacency[1][0]["id"])
	assert.Equal(t, 2.0, doc.Adjacency[1][1]["id"])

	// The island has an empty adjacency list, not null.
	assert.NotNil(t, doc.Adjacency[3])
	assert.Empty(t, doc.Adjacency[3])
}

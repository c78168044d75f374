// Package unitgraph builds the contiguity graph of census units handed to
// districting analysis: one node per unit carrying population and vote
// attributes, with edges between geographically adjacent units.
package unitgraph

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
)

// Unit is one census tabulation unit: identity, merged attributes and
// planar geometry (EPSG:3310 meters).
type Unit struct {
	GEOID      geo.GEOID
	FIPS       string
	Population float64
	TotalVotes int64
	DemVotes   int64
	RepVotes   int64
	Geometry   orb.MultiPolygon
}

// Area returns the unit's planar area in square meters.
func (u *Unit) Area() float64 {
	return planar.Area(u.Geometry)
}

// Perimeter returns the unit's boundary length in meters.
func (u *Unit) Perimeter() float64 {
	return planar.Length(u.Geometry)
}

// node adapts a Unit to gonum's graph.Node.
type node struct {
	id   int64
	unit *Unit
}

// ID implements graph.Node.
func (n *node) ID() int64 { return n.id }

// Graph is an undirected contiguity graph over census units. Node IDs are
// the index of the unit in GEOID order, so exports are deterministic.
type Graph struct {
	units   []*Unit
	byGEOID map[geo.GEOID]int64
	g       *simple.UndirectedGraph
}

// New builds a graph with one node per unit and no edges. Units are sorted
// by GEOID; duplicate GEOIDs are an error.
func New(units []*Unit) (*Graph, error) {
	sorted := make([]*Unit, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].GEOID < sorted[j].GEOID })

	g := &Graph{
		units:   sorted,
		byGEOID: make(map[geo.GEOID]int64, len(sorted)),
		g:       simple.NewUndirectedGraph(),
	}
	for i, unit := range sorted {
		if _, dup := g.byGEOID[unit.GEOID]; dup {
			return nil, errors.NewValidationError("geoid", unit.GEOID, "duplicate unit")
		}
		g.byGEOID[unit.GEOID] = int64(i)
		g.g.AddNode(&node{id: int64(i), unit: unit})
	}
	return g, nil
}

// Len returns the number of units.
func (g *Graph) Len() int {
	return len(g.units)
}

// Units returns the units in GEOID order.
func (g *Graph) Units() []*Unit {
	return g.units
}

// Unit returns the unit for a GEOID.
func (g *Graph) Unit(id geo.GEOID) (*Unit, bool) {
	idx, ok := g.byGEOID[id]
	if !ok {
		return nil, false
	}
	return g.units[idx], true
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.g.Edges().Len()
}

// HasEdge reports whether two units are connected.
func (g *Graph) HasEdge(a, b geo.GEOID) bool {
	ai, aok := g.byGEOID[a]
	bi, bok := g.byGEOID[b]
	if !aok || !bok {
		return false
	}
	return g.g.HasEdgeBetween(ai, bi)
}

// AddEdge connects two units by GEOID. It reports false without modifying
// the graph when either GEOID is unknown; connecting a unit to itself is a
// no-op.
func (g *Graph) AddEdge(a, b geo.GEOID) bool {
	ai, aok := g.byGEOID[a]
	bi, bok := g.byGEOID[b]
	if !aok || !bok {
		return false
	}
	if ai == bi {
		return true
	}
	g.g.SetEdge(simple.Edge{F: simple.Node(ai), T: simple.Node(bi)})
	return true
}

// Neighbors returns the GEOIDs adjacent to a unit, sorted.
func (g *Graph) Neighbors(id geo.GEOID) []geo.GEOID {
	idx, ok := g.byGEOID[id]
	if !ok {
		return nil
	}
	var neighbors []geo.GEOID
	it := g.g.From(idx)
	for it.Next() {
		neighbors = append(neighbors, g.units[it.Node().ID()].GEOID)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	return neighbors
}

// Degree returns the number of neighbors of a unit, or -1 for an unknown
// GEOID.
func (g *Graph) Degree(id geo.GEOID) int {
	idx, ok := g.byGEOID[id]
	if !ok {
		return -1
	}
	return g.g.From(idx).Len()
}

// Islands returns the GEOIDs of degree-zero units, the candidates for
// manual custom edges.
func (g *Graph) Islands() []geo.GEOID {
	var islands []geo.GEOID
	for i, unit := range g.units {
		if g.g.From(int64(i)).Len() == 0 {
			islands = append(islands, unit.GEOID)
		}
	}
	return islands
}

// adjacencyIDs returns each node's neighbor IDs in ascending order.
func (g *Graph) adjacencyIDs(idx int64) []int64 {
	var ids []int64
	it := g.g.From(idx)
	for it.Next() {
		ids = append(ids, it.Node().ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

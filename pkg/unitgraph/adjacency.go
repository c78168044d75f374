package unitgraph

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/topo"

	"github.com/censusalign/censusalign/pkg/geo"
)

// vertexQuantum is the grid size for vertex matching, in projected meters.
// TIGER features share exact boundary coordinates, so a millimeter grid
// only has to absorb float round-off from projection.
const vertexQuantum = 1e-3

// vertex is a quantized coordinate used as a hash key.
type vertex struct {
	x, y int64
}

func quantize(x, y float64) vertex {
	return vertex{
		x: int64(math.Round(x / vertexQuantum)),
		y: int64(math.Round(y / vertexQuantum)),
	}
}

// BuildAdjacency adds queen-contiguity edges: two units are adjacent when
// their boundaries share at least one vertex. Runs in O(total vertices).
func (g *Graph) BuildAdjacency() {
	// vertex -> node ids touching it, deduplicated per unit.
	touching := make(map[vertex][]int64)

	for i, unit := range g.units {
		seen := make(map[vertex]struct{})
		for _, polygon := range unit.Geometry {
			for _, ring := range polygon {
				for _, pt := range ring {
					v := quantize(pt[0], pt[1])
					if _, dup := seen[v]; dup {
						continue
					}
					seen[v] = struct{}{}
					touching[v] = append(touching[v], int64(i))
				}
			}
		}
	}

	for _, ids := range touching {
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				g.AddEdge(g.units[ids[i]].GEOID, g.units[ids[j]].GEOID)
			}
		}
	}
}

// Components returns the connected components as sorted GEOID groups,
// largest component first. A well-connected state yields one component;
// anything else points at missing custom edges.
func (g *Graph) Components() [][]geo.GEOID {
	components := topo.ConnectedComponents(g.g)

	result := make([][]geo.GEOID, 0, len(components))
	for _, component := range components {
		ids := make([]geo.GEOID, 0, len(component))
		for _, n := range component {
			ids = append(ids, g.units[n.ID()].GEOID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		result = append(result, ids)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if len(result[i]) != len(result[j]) {
			return len(result[i]) > len(result[j])
		}
		return result[i][0] < result[j][0]
	})
	return result
}

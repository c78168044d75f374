package unitgraph

import (
	"encoding/json"
	"io"

	"github.com/censusalign/censusalign/pkg/errors"
)

// adjacencyDocument mirrors the NetworkX adjacency_data JSON layout, the
// format districting toolchains load graphs from.
type adjacencyDocument struct {
	Directed   bool               `json:"directed"`
	Multigraph bool               `json:"multigraph"`
	Graph      []any              `json:"graph"`
	Nodes      []exportNode       `json:"nodes"`
	Adjacency  [][]exportNeighbor `json:"adjacency"`
}

type exportNode struct {
	ID         int64   `json:"id"`
	GEOID      string  `json:"GEOID20"`
	FIPS       string  `json:"FIPS"`
	Population float64 `json:"pop_total"`
	TotalVotes int64   `json:"total_vote"`
	DemVotes   int64   `json:"dem_vote"`
	RepVotes   int64   `json:"rep_vote"`
	Area       float64 `json:"area"`
	Perimeter  float64 `json:"perimeter"`
}

type exportNeighbor struct {
	ID int64 `json:"id"`
}

// document assembles the export form of the graph.
func (g *Graph) document() *adjacencyDocument {
	doc := &adjacencyDocument{
		Graph:     []any{},
		Nodes:     make([]exportNode, 0, len(g.units)),
		Adjacency: make([][]exportNeighbor, 0, len(g.units)),
	}
	for i, unit := range g.units {
		doc.Nodes = append(doc.Nodes, exportNode{
			ID:         int64(i),
			GEOID:      unit.GEOID.String(),
			FIPS:       unit.FIPS,
			Population: unit.Population,
			TotalVotes: unit.TotalVotes,
			DemVotes:   unit.DemVotes,
			RepVotes:   unit.RepVotes,
			Area:       unit.Area(),
			Perimeter:  unit.Perimeter(),
		})

		ids := g.adjacencyIDs(int64(i))
		neighbors := make([]exportNeighbor, 0, len(ids))
		for _, id := range ids {
			neighbors = append(neighbors, exportNeighbor{ID: id})
		}
		doc.Adjacency = append(doc.Adjacency, neighbors)
	}
	return doc
}

// MarshalJSON implements json.Marshaler with the adjacency_data layout.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.document())
}

// WriteJSON writes the graph as indented adjacency_data JSON.
func (g *Graph) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(g.document()); err != nil {
		return errors.WrapResource("write", "graph", "", err)
	}
	return nil
}

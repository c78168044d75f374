package censusalign

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/censusalign/censusalign/internal/sources"
	"github.com/censusalign/censusalign/pkg/blockify"
	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
	"github.com/censusalign/censusalign/pkg/swdb"
	"github.com/censusalign/censusalign/pkg/tiger"
	"github.com/censusalign/censusalign/pkg/unitgraph"
)

func (c *cultivator) Blockify(ctx context.Context, level geo.Level) (*blockify.Rollup, error) {
	if !level.IsValid() {
		return nil, errors.NewValidationError("level", string(level), "unknown level")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.harvest(ctx); err != nil {
		return nil, err
	}
	return c.blockify(level)
}

// blockify parses the vote and crosswalk files and disaggregates. Callers
// hold c.mu.
func (c *cultivator) blockify(level geo.Level) (*blockify.Rollup, error) {
	votes, err := parseSource(c.srcs[sources.VoteID], func(f io.Reader, name string) (*swdb.VoteTable, error) {
		return swdb.ParseVotes(f, name, c.election.Dem, c.election.Rep)
	})
	if err != nil {
		return nil, err
	}

	conversion, err := parseSource(c.srcs[sources.ConversionID], swdb.ParseConversion)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("precincts", votes.Len()).
		Int("crosswalk_rows", conversion.Len()).
		Str("level", string(level)).
		Msg("Disaggregating votes")
	return blockify.Blockify(votes, conversion, level)
}

func (c *cultivator) Merge(ctx context.Context) ([]*unitgraph.Unit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.harvest(ctx); err != nil {
		return nil, err
	}

	rollup, err := c.blockify(c.config.level)
	if err != nil {
		return nil, err
	}

	cvap, err := parseSource(c.srcs[sources.CensusID], func(f io.Reader, name string) (*swdb.CVAPTable, error) {
		return swdb.ParseCVAP(f, name, c.vintage.Datasets.Census.PopulationColumn)
	})
	if err != nil {
		return nil, err
	}
	population := cvap.AggregateTo(c.config.level)

	boundaries, err := tiger.ReadUnits(c.srcs[sources.ShapefileID].Path())
	if err != nil {
		return nil, err
	}

	// Inner join: a unit needs boundary geometry, a population figure and a
	// vote rollup row to survive.
	units := make([]*unitgraph.Unit, 0, len(boundaries))
	for _, boundary := range boundaries {
		pop, ok := population[boundary.GEOID]
		if !ok {
			continue
		}
		row, ok := rollup.Lookup(boundary.GEOID)
		if !ok {
			continue
		}
		units = append(units, &unitgraph.Unit{
			GEOID:      boundary.GEOID,
			FIPS:       boundary.FIPS,
			Population: pop,
			TotalVotes: row.TotalVotes,
			DemVotes:   row.DemVotes,
			RepVotes:   row.RepVotes,
			Geometry:   geo.ProjectMultiPolygon(boundary.Geometry),
		})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].GEOID < units[j].GEOID })

	c.log.Info().
		Int("boundaries", len(boundaries)).
		Int("merged", len(units)).
		Msg("Merged population and votes onto geometry")
	return units, nil
}

func (c *cultivator) Graphify(ctx context.Context) (*unitgraph.Graph, error) {
	units, err := c.Merge(ctx)
	if err != nil {
		return nil, err
	}

	graph, err := unitgraph.New(units)
	if err != nil {
		return nil, err
	}
	graph.BuildAdjacency()

	edges := append(c.vintage.Edges(), c.config.customEdges...)
	for _, pair := range edges {
		if !graph.AddEdge(pair[0], pair[1]) {
			c.log.Warn().
				Str("from", pair[0].String()).
				Str("to", pair[1].String()).
				Msg("Custom edge references unknown unit, skipping")
		}
	}

	c.log.Info().
		Int("units", graph.Len()).
		Int("edges", graph.EdgeCount()).
		Int("islands", len(graph.Islands())).
		Msg("Built contiguity graph")
	return graph, nil
}

// parseSource opens a harvested file and runs a parser over it.
func parseSource[T any](src sources.Source, parse func(io.Reader, string) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(src.Path())
	if err != nil {
		return zero, errors.WrapIO("open", src.Path(), err)
	}
	defer f.Close()
	return parse(f, filepath.Base(src.Path()))
}

// Package censusalign aligns census demographic data with Statewide Database
// election data on a common set of census units and builds the contiguity
// graph districting analysis starts from.
//
// The pipeline harvests four datasets (election results, the precinct-to-
// block crosswalk, citizen voting age population, and TIGER/Line
// boundaries), disaggregates precinct votes onto census blocks, rolls both
// votes and population up to a chosen level, joins them onto projected
// boundary geometry, and emits an adjacency graph in the NetworkX
// adjacency_data JSON layout.
//
// Example usage:
//
//	cultivator, err := censusalign.New(
//	    censusalign.WithElection("governor"),
//	    censusalign.WithLevel(geo.LevelBlockGroup),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cultivator.Cleanup()
//
//	graph, err := cultivator.Graphify(ctx)
package censusalign

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	vintages "github.com/censusalign/censusalign/internal/config"
	"github.com/censusalign/censusalign/internal/sources"
	"github.com/censusalign/censusalign/internal/transport"
	"github.com/censusalign/censusalign/pkg/blockify"
	"github.com/censusalign/censusalign/pkg/geo"
	"github.com/censusalign/censusalign/pkg/logging"
	"github.com/censusalign/censusalign/pkg/unitgraph"
)

// Cultivator runs the alignment pipeline for one vintage and election.
type Cultivator interface {
	// Harvest downloads all four datasets. The other operations call it
	// implicitly; calling it up front separates network failures from
	// processing failures.
	Harvest(ctx context.Context) error

	// Blockify disaggregates the configured election's precinct votes onto
	// census blocks and rolls them up to the given level
	Blockify(ctx context.Context, level geo.Level) (*blockify.Rollup, error)

	// Merge joins population and vote rollups onto projected boundary
	// geometry at the configured level, inner-join semantics
	Merge(ctx context.Context) ([]*unitgraph.Unit, error)

	// Graphify builds the contiguity graph over the merged units and
	// applies the configured custom edges
	Graphify(ctx context.Context) (*unitgraph.Graph, error)

	// Store writes the harvested datasets and derived outputs into dir
	Store(ctx context.Context, dir string) error

	// Cleanup releases scratch space held by the harvested sources
	Cleanup() error
}

// cultivator is the internal implementation of the Cultivator interface.
type cultivator struct {
	mu        sync.Mutex
	config    *config
	vintage   *vintages.Config
	election  vintages.Election
	srcs      map[sources.ID]sources.Source
	log       *zerolog.Logger
	harvested bool
}

// New creates a Cultivator with the given options. Defaults target the
// California 2022 governor contest at block group level.
func New(opts ...Option) (Cultivator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	vintage, err := vintages.Load(cfg.state, cfg.year)
	if err != nil {
		return nil, err
	}
	election, err := vintage.Election(cfg.election)
	if err != nil {
		return nil, err
	}

	cacheDir := cfg.cacheDir
	if cacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		cacheDir = filepath.Join(base, "censusalign")
	}

	var clientOpts []transport.Option
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, transport.WithHTTPClient(cfg.httpClient))
	}
	client := transport.New(cacheDir, clientOpts...)

	log := cfg.logger
	if log == nil {
		log = logging.Default()
	}

	return &cultivator{
		config:   cfg,
		vintage:  vintage,
		election: election,
		log:      log,
		srcs: map[sources.ID]sources.Source{
			sources.VoteID:       sources.NewVote(client, vintage.Datasets.Vote.URL),
			sources.ConversionID: sources.NewConversion(client, vintage.Datasets.Conversion.URL),
			sources.CensusID:     sources.NewCensus(client, vintage.Datasets.Census.URL),
			sources.ShapefileID:  sources.NewShapefile(client, vintage.Datasets.Shapefile.URL),
		},
	}, nil
}

func (c *cultivator) Harvest(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.harvest(ctx)
}

// harvest fetches all sources once. Callers hold c.mu.
func (c *cultivator) harvest(ctx context.Context) error {
	if c.harvested {
		return nil
	}

	c.log.Info().
		Str("state", c.config.state).
		Int("year", c.config.year).
		Str("election", c.config.election).
		Msg("Harvesting datasets")

	ctx = logging.WithLogger(ctx, c.log)
	all := make([]sources.Source, 0, len(c.srcs))
	for _, id := range sources.IDs() {
		all = append(all, c.srcs[id])
	}
	if err := sources.Harvest(ctx, all...); err != nil {
		return err
	}
	c.harvested = true
	return nil
}

func (c *cultivator) Cleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make([]sources.Source, 0, len(c.srcs))
	for _, src := range c.srcs {
		all = append(all, src)
	}
	c.harvested = false
	return sources.Cleanup(all...)
}

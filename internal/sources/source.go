// Package sources defines the datasets the alignment pipeline harvests and
// the fetch machinery behind them. Each source knows how to download its
// dataset, unpack it when it arrives zipped, and hand back a local file path
// for the parsers.
package sources

import (
	"context"
	"slices"
)

// ID identifies a harvested dataset.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Dataset IDs.
const (
	// VoteID is the Statewide Database election results file, one row per
	// SR precinct with per-contest vote columns.
	VoteID ID = "vote"

	// ConversionID is the SR-precinct-to-census-block crosswalk with
	// registration weights.
	ConversionID ID = "conversion"

	// CensusID is the citizen voting age population file keyed by census
	// block GEOID.
	CensusID ID = "census"

	// ShapefileID is the TIGER/Line boundary shapefile for the target
	// geographic level.
	ShapefileID ID = "shapefile"
)

// IDs returns all dataset IDs in harvest order.
func IDs() []ID {
	return []ID{VoteID, ConversionID, CensusID, ShapefileID}
}

// IsValid returns true if the ID is one of the defined datasets.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Source represents one harvestable dataset.
type Source interface {
	// ID returns the dataset identifier
	ID() ID

	// Fetch downloads the dataset and unpacks it if necessary.
	// After a successful Fetch, Path returns the local file.
	Fetch(ctx context.Context) error

	// Path returns the local path of the fetched dataset file
	Path() string

	// Cleanup releases scratch space (called after the pipeline is done)
	Cleanup() error
}

package censusalign

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"

	"github.com/censusalign/censusalign/internal/sources"
	"github.com/censusalign/censusalign/pkg/constants"
	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/tiger"
)

// Output file names under the Store directory.
const (
	VoteFile       = "vote.csv"
	ConversionFile = "conversion.csv"
	CensusFile     = "census.csv"
	BoundariesFile = "boundaries.geojson"
)

// Store harvests the datasets and persists them into dir: the three tabular
// inputs as CSV and the boundary shapefile as GeoJSON.
func (c *cultivator) Store(ctx context.Context, dir string) error {
	if err := c.Harvest(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw := map[string]sources.ID{
		VoteFile:       sources.VoteID,
		ConversionFile: sources.ConversionID,
		CensusFile:     sources.CensusID,
	}
	for name, id := range raw {
		if err := copyFile(c.srcs[id].Path(), filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	shapefilePath := c.srcs[sources.ShapefileID].Path()
	if err := c.storeBoundaries(shapefilePath, filepath.Join(dir, BoundariesFile)); err != nil {
		return err
	}

	c.log.Info().Str("dir", dir).Msg("Stored harvested datasets")
	return nil
}

// storeBoundaries writes the raw (unprojected) boundary units as a GeoJSON
// feature collection.
func (c *cultivator) storeBoundaries(shapefilePath, target string) error {
	boundaries, err := tiger.ReadUnits(shapefilePath)
	if err != nil {
		return err
	}

	collection := geojson.NewFeatureCollection()
	for _, boundary := range boundaries {
		feature := geojson.NewFeature(boundary.Geometry)
		feature.Properties["GEOID20"] = boundary.GEOID.String()
		feature.Properties["FIPS"] = boundary.FIPS
		collection.Append(feature)
	}

	return writeTo(target, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(collection)
	})
}

func writeTo(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("open", src, err)
	}
	defer in.Close()

	return writeTo(dst, func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return errors.WrapIO("copy", dst, err)
		}
		return nil
	})
}

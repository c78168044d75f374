package sources

import (
	"context"
	"os"

	"github.com/censusalign/censusalign/internal/archive"
	"github.com/censusalign/censusalign/internal/transport"
)

// shapefileSource downloads a TIGER/Line zip and extracts the shapefile plus
// its sidecar files. Path returns the .shp member; the reader finds the .dbf
// next to it.
type shapefileSource struct {
	url    string
	client *transport.Client

	path    string
	workDir string
}

// NewShapefile returns the source for the TIGER/Line boundary shapefile.
func NewShapefile(client *transport.Client, url string) Source {
	return &shapefileSource{url: url, client: client}
}

func (s *shapefileSource) ID() ID {
	return ShapefileID
}

func (s *shapefileSource) Path() string {
	return s.path
}

func (s *shapefileSource) Fetch(ctx context.Context) error {
	fetched, err := s.client.Fetch(ctx, ShapefileID.String(), s.url)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "censusalign-shapefile-")
	if err != nil {
		return err
	}
	s.workDir = dir

	shpPath, err := archive.ExtractShapefile(fetched, dir)
	if err != nil {
		return err
	}
	s.path = shpPath
	return nil
}

func (s *shapefileSource) Cleanup() error {
	if s.workDir == "" {
		return nil
	}
	err := os.RemoveAll(s.workDir)
	s.workDir = ""
	return err
}

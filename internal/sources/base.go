package sources

import (
	"context"
	"os"

	"github.com/censusalign/censusalign/internal/archive"
	"github.com/censusalign/censusalign/internal/transport"
)

// fileSource is the shared download-then-unpack behavior behind the tabular
// sources. The Statewide Database serves some datasets as bare CSV and some
// as zip bundles, so the source sniffs the downloaded file rather than
// trusting the URL extension.
type fileSource struct {
	id       ID
	url      string
	client   *transport.Client
	suffixes []string

	path    string
	workDir string
}

func (s *fileSource) ID() ID {
	return s.id
}

func (s *fileSource) Path() string {
	return s.path
}

func (s *fileSource) Fetch(ctx context.Context) error {
	fetched, err := s.client.Fetch(ctx, s.id.String(), s.url)
	if err != nil {
		return err
	}

	if !archive.IsZip(fetched) {
		s.path = fetched
		return nil
	}

	dir, err := os.MkdirTemp("", "censusalign-"+s.id.String()+"-")
	if err != nil {
		return err
	}
	s.workDir = dir

	extracted, err := archive.ExtractFirst(fetched, dir, s.suffixes...)
	if err != nil {
		return err
	}
	s.path = extracted
	return nil
}

func (s *fileSource) Cleanup() error {
	if s.workDir == "" {
		return nil
	}
	err := os.RemoveAll(s.workDir)
	s.workDir = ""
	return err
}

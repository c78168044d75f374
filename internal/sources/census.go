package sources

import (
	"github.com/censusalign/censusalign/internal/transport"
)

// NewCensus returns the source for the citizen voting age population file.
func NewCensus(client *transport.Client, url string) Source {
	return &fileSource{
		id:       CensusID,
		url:      url,
		client:   client,
		suffixes: []string{".csv", ".txt"},
	}
}

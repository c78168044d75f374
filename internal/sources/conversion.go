package sources

import (
	"github.com/censusalign/censusalign/internal/transport"
)

// NewConversion returns the source for the precinct-to-block crosswalk.
func NewConversion(client *transport.Client, url string) Source {
	return &fileSource{
		id:       ConversionID,
		url:      url,
		client:   client,
		suffixes: []string{".csv", ".txt"},
	}
}

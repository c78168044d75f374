package sources

import (
	"github.com/censusalign/censusalign/internal/transport"
)

// NewVote returns the source for the statement-of-vote precinct results.
func NewVote(client *transport.Client, url string) Source {
	return &fileSource{
		id:       VoteID,
		url:      url,
		client:   client,
		suffixes: []string{".csv", ".txt"},
	}
}

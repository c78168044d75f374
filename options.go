package censusalign

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
)

// Option is a function that configures a Cultivator instance.
type Option func(*config) error

// config holds the settings options apply to.
type config struct {
	state       string
	year        int
	election    string
	level       geo.Level
	cacheDir    string
	httpClient  *http.Client
	logger      *zerolog.Logger
	customEdges [][2]geo.GEOID
}

func defaultConfig() *config {
	return &config{
		state:    "CA",
		year:     2022,
		election: "governor",
		level:    geo.LevelBlockGroup,
	}
}

// WithState configures the two-letter state code.
func WithState(state string) Option {
	return func(c *config) error {
		if state == "" {
			return errors.NewValidationError("state", state, "must not be empty")
		}
		c.state = state
		return nil
	}
}

// WithYear configures the dataset vintage year.
func WithYear(year int) Option {
	return func(c *config) error {
		if year < 2000 {
			return errors.NewValidationError("year", year, "must be 2000 or later")
		}
		c.year = year
		return nil
	}
}

// WithElection configures which contest's vote columns are disaggregated.
func WithElection(name string) Option {
	return func(c *config) error {
		if name == "" {
			return errors.NewValidationError("election", name, "must not be empty")
		}
		c.election = name
		return nil
	}
}

// WithLevel configures the census aggregation level of the output units.
func WithLevel(level geo.Level) Option {
	return func(c *config) error {
		if !level.IsValid() {
			return errors.NewValidationError("level", string(level), "unknown level")
		}
		c.level = level
		return nil
	}
}

// WithCacheDir configures where downloaded datasets are kept.
func WithCacheDir(dir string) Option {
	return func(c *config) error {
		c.cacheDir = dir
		return nil
	}
}

// WithHTTPClient configures the HTTP client used for dataset downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger configures the logger used by pipeline operations.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithCustomEdges adds GEOID pairs to connect after adjacency detection,
// on top of the pairs the vintage configuration carries.
func WithCustomEdges(edges [][2]geo.GEOID) Option {
	return func(c *config) error {
		c.customEdges = append(c.customEdges, edges...)
		return nil
	}
}

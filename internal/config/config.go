// Package config loads the per-vintage dataset configuration: where each of
// the four datasets lives, which vote columns belong to each contest, and
// the manual adjacency fixes for a state/year pair.
package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
)

// Config is one state/year vintage.
type Config struct {
	State    string   `yaml:"state"`
	Year     int      `yaml:"year"`
	Datasets Datasets `yaml:"datasets"`

	// Elections maps contest name to its vote-file columns.
	Elections map[string]Election `yaml:"elections"`

	// CustomEdges are GEOID pairs to connect after adjacency detection.
	CustomEdges [][]string `yaml:"custom_edges"`
}

// Datasets holds the remote locations of the four inputs.
type Datasets struct {
	Vote       Dataset       `yaml:"vote"`
	Conversion Dataset       `yaml:"conversion"`
	Census     CensusDataset `yaml:"census"`
	Shapefile  Dataset       `yaml:"shapefile"`
}

// Dataset is a remote file location.
type Dataset struct {
	URL string `yaml:"url"`
}

// CensusDataset is the CVAP file location plus its vintage-specific
// population column.
type CensusDataset struct {
	URL              string `yaml:"url"`
	PopulationColumn string `yaml:"population_column"`
}

// Election names the two vote-file columns of a contest.
type Election struct {
	Dem string `yaml:"dem"`
	Rep string `yaml:"rep"`
}

// Vintage identifies an available configuration.
type Vintage struct {
	State string
	Year  int
}

// String returns the vintage in "CA 2022" form.
func (v Vintage) String() string {
	return fmt.Sprintf("%s %d", v.State, v.Year)
}

// Load returns the configuration for a state/year pair.
func Load(state string, year int) (*Config, error) {
	name := fmt.Sprintf("vintages/%s_%d.yaml", strings.ToLower(state), year)
	data, err := vintageFS.ReadFile(name)
	if err != nil {
		return nil, errors.NewConfigError("vintages",
			fmt.Sprintf("no configuration for %s %d", strings.ToUpper(state), year),
			errors.ErrUnsupportedVintage)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError(name, "invalid vintage configuration", err)
	}
	return &cfg, nil
}

// List returns all embedded vintages, sorted by state then year.
func List() ([]Vintage, error) {
	entries, err := vintageFS.ReadDir("vintages")
	if err != nil {
		return nil, errors.WrapIO("read", "vintages", err)
	}

	var vintages []Vintage
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		state, yearStr, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			continue
		}
		vintages = append(vintages, Vintage{State: strings.ToUpper(state), Year: year})
	}
	sort.Slice(vintages, func(i, j int) bool {
		if vintages[i].State != vintages[j].State {
			return vintages[i].State < vintages[j].State
		}
		return vintages[i].Year < vintages[j].Year
	})
	return vintages, nil
}

// Validate checks the configuration is complete enough to harvest.
func (c *Config) Validate() error {
	if c.State == "" {
		return errors.NewValidationError("state", c.State, "must not be empty")
	}
	if c.Year == 0 {
		return errors.NewValidationError("year", c.Year, "must be set")
	}

	urls := map[string]string{
		"datasets.vote.url":       c.Datasets.Vote.URL,
		"datasets.conversion.url": c.Datasets.Conversion.URL,
		"datasets.census.url":     c.Datasets.Census.URL,
		"datasets.shapefile.url":  c.Datasets.Shapefile.URL,
	}
	for field, raw := range urls {
		if raw == "" {
			return errors.NewValidationError(field, raw, "must not be empty")
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.NewValidationError(field, raw, "must be an absolute URL")
		}
	}

	if c.Datasets.Census.PopulationColumn == "" {
		return errors.NewValidationError("datasets.census.population_column",
			"", "must name the CVAP count column")
	}

	if len(c.Elections) == 0 {
		return errors.NewValidationError("elections", nil, "must define at least one contest")
	}
	for name, election := range c.Elections {
		if election.Dem == "" || election.Rep == "" {
			return errors.NewValidationError("elections."+name, election,
				"must name both dem and rep columns")
		}
	}

	for i, pair := range c.CustomEdges {
		if len(pair) != 2 {
			return errors.NewValidationError(
				fmt.Sprintf("custom_edges[%d]", i), pair, "must be a GEOID pair")
		}
	}
	return nil
}

// Election returns the contest columns by name.
func (c *Config) Election(name string) (Election, error) {
	election, ok := c.Elections[name]
	if !ok {
		return Election{}, errors.NewNotFoundError("election", name)
	}
	return election, nil
}

// ElectionNames returns the configured contest names, sorted.
func (c *Config) ElectionNames() []string {
	names := make([]string, 0, len(c.Elections))
	for name := range c.Elections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edges returns the custom edges as GEOID pairs.
func (c *Config) Edges() [][2]geo.GEOID {
	edges := make([][2]geo.GEOID, 0, len(c.CustomEdges))
	for _, pair := range c.CustomEdges {
		if len(pair) != 2 {
			continue
		}
		edges = append(edges, [2]geo.GEOID{geo.GEOID(pair[0]), geo.GEOID(pair[1])})
	}
	return edges
}

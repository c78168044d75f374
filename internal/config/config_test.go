package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
)

func TestLoadCalifornia2022(t *testing.T) {
	cfg, err := Load("CA", 2022)
	require.NoError(t, err)

	assert.Equal(t, "CA", cfg.State)
	assert.Equal(t, 2022, cfg.Year)
	assert.Contains(t, cfg.Datasets.Vote.URL, "statewidedatabase.org")
	assert.Contains(t, cfg.Datasets.Shapefile.URL, "census.gov")
	assert.Equal(t, "CIT_22", cfg.Datasets.Census.PopulationColumn)

	governor, err := cfg.Election("governor")
	require.NoError(t, err)
	assert.Equal(t, "GOVDEM01", governor.Dem)
	assert.Equal(t, "GOVREP01", governor.Rep)

	assert.Contains(t, cfg.ElectionNames(), "senate")
	assert.NotEmpty(t, cfg.Edges())
}

func TestLoadIsCaseInsensitive(t *testing.T) {
	cfg, err := Load("ca", 2022)
	require.NoError(t, err)
	assert.Equal(t, "CA", cfg.State)
}

func TestLoadUnsupportedVintage(t *testing.T) {
	_, err := Load("CA", 1998)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedVintage)

	_, err = Load("TX", 2022)
	assert.ErrorIs(t, err, errors.ErrUnsupportedVintage)
}

func TestList(t *testing.T) {
	vintages, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, vintages)
	assert.Contains(t, vintages, Vintage{State: "CA", Year: 2022})
	assert.Equal(t, "CA 2022", Vintage{State: "CA", Year: 2022}.String())
}

func TestElectionNotFound(t *testing.T) {
	cfg, err := Load("CA", 2022)
	require.NoError(t, err)

	_, err = cfg.Election("president")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			State: "CA",
			Year:  2022,
			Datasets: Datasets{
				Vote:       Dataset{URL: "https://example.com/sov.zip"},
				Conversion: Dataset{URL: "https://example.com/blk_map.csv"},
				Census:     CensusDataset{URL: "https://example.com/cvap.csv", PopulationColumn: "CIT_22"},
				Shapefile:  Dataset{URL: "https://example.com/bg.zip"},
			},
			Elections: map[string]Election{
				"governor": {Dem: "GOVDEM01", Rep: "GOVREP01"},
			},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing state", func(c *Config) { c.State = "" }},
		{"missing year", func(c *Config) { c.Year = 0 }},
		{"missing vote url", func(c *Config) { c.Datasets.Vote.URL = "" }},
		{"relative url", func(c *Config) { c.Datasets.Census.URL = "cvap.csv" }},
		{"missing population column", func(c *Config) { c.Datasets.Census.PopulationColumn = "" }},
		{"no elections", func(c *Config) { c.Elections = nil }},
		{"half an election", func(c *Config) { c.Elections["governor"] = Election{Dem: "GOVDEM01"} }},
		{"odd edge", func(c *Config) { c.CustomEdges = [][]string{{"060750101011"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEdges(t *testing.T) {
	cfg := &Config{CustomEdges: [][]string{{"060759804011", "060750604002"}}}
	edges := cfg.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, [2]geo.GEOID{"060759804011", "060750604002"}, edges[0])
}

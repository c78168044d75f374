// Package geo provides census geographic identifiers and the planar
// projection used for geometry work.
//
// A GEOID is the hierarchical identifier the Census Bureau assigns to a
// tabulation unit. The digits nest: state (2) + county (3) + tract (6) +
// block group (1) + block (3). Truncating a block GEOID therefore yields the
// identifier of each enclosing unit.
//
// Statewide Database files drop the leading zero of California's state FIPS
// ("06"), so keys read from those files are normalized (left zero padded)
// before any truncation or join.
package geo

import (
	"strings"

	"github.com/censusalign/censusalign/pkg/errors"
)

// GEOID identifies a census tabulation unit.
type GEOID string

// String returns the string representation of the GEOID.
func (g GEOID) String() string {
	return string(g)
}

// Level is a census aggregation level.
type Level string

// Census aggregation levels, largest unit last.
const (
	LevelBlock      Level = "block"
	LevelBlockGroup Level = "blockgroup"
	LevelTract      Level = "tract"
	LevelCounty     Level = "county"
)

// Levels returns all supported aggregation levels.
func Levels() []Level {
	return []Level{LevelBlock, LevelBlockGroup, LevelTract, LevelCounty}
}

// Width returns the number of GEOID digits at this level.
func (l Level) Width() int {
	switch l {
	case LevelBlock:
		return 15
	case LevelBlockGroup:
		return 12
	case LevelTract:
		return 11
	case LevelCounty:
		return 5
	default:
		return 0
	}
}

// IsValid returns true if the level is one of the defined constants.
func (l Level) IsValid() bool {
	return l.Width() > 0
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", errors.NewValidationError("level", s,
			"must be one of 'block', 'blockgroup', 'tract', or 'county'")
	}
	return l, nil
}

// NormalizeBlock left zero pads a block key to full block width. Keys from
// Statewide Database files arrive without the leading state zero.
func NormalizeBlock(key string) (GEOID, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.NewValidationError("block_key", key, "must not be empty")
	}
	w := LevelBlock.Width()
	if len(key) > w {
		return "", errors.NewValidationError("block_key", key, "longer than a block GEOID")
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return "", errors.NewValidationError("block_key", key, "must be numeric")
		}
	}
	return GEOID(strings.Repeat("0", w-len(key)) + key), nil
}

// Truncate returns the GEOID of the enclosing unit at the given level.
// The receiver must already be normalized to at least that level's width.
func (g GEOID) Truncate(level Level) GEOID {
	w := level.Width()
	if w == 0 || len(g) < w {
		return g
	}
	return g[:w]
}

// County returns the state+county FIPS code of the unit.
func (g GEOID) County() string {
	return string(g.Truncate(LevelCounty))
}

// IsWaterBlockGroup reports whether the unit's block group is a water-only
// tabulation unit. The Census Bureau assigns block group number 0 to blocks
// that are entirely water; those carry no population or votes and are
// excluded from rollups.
func (g GEOID) IsWaterBlockGroup() bool {
	bg := g.Truncate(LevelBlockGroup)
	if len(bg) < LevelBlockGroup.Width() {
		return false
	}
	return bg[len(bg)-1] == '0'
}

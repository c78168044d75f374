// Package tiger decodes TIGER/Line block-group shapefiles into census units
// with orb geometries.
package tiger

import (
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/censusalign/censusalign/pkg/errors"
	"github.com/censusalign/censusalign/pkg/geo"
)

// TIGER/Line DBF attribute names for the 2020-vintage block group product.
const (
	AttrGEOID    = "GEOID20"
	AttrStateFP  = "STATEFP20"
	AttrCountyFP = "COUNTYFP20"
	AttrALand    = "ALAND20"
	AttrAWater   = "AWATER20"
)

// Unit is one census tabulation unit read from a shapefile: identifier,
// county FIPS and lon/lat geometry.
type Unit struct {
	GEOID    geo.GEOID
	FIPS     string
	Geometry orb.MultiPolygon
}

// ReadUnits decodes every polygon record of a block-group shapefile.
// Records without a GEOID attribute or without a usable ring are skipped;
// a shapefile yielding no units at all is an error.
func ReadUnits(path string) ([]Unit, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[strings.ToUpper(f.String())] = i
	}
	geoidIdx, ok := index[AttrGEOID]
	if !ok {
		return nil, errors.NewParseError("shapefile", path, "missing attribute "+AttrGEOID, nil)
	}

	var units []Unit
	for reader.Next() {
		n, shape := reader.Shape()
		polygon, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		geometry := toMultiPolygon(polygon)
		if len(geometry) == 0 {
			continue
		}

		geoid := attribute(reader, n, geoidIdx)
		if geoid == "" {
			continue
		}

		fips := attributeByName(reader, index, n, AttrStateFP) +
			attributeByName(reader, index, n, AttrCountyFP)

		units = append(units, Unit{
			GEOID:    geo.GEOID(geoid),
			FIPS:     fips,
			Geometry: geometry,
		})
	}

	if err := reader.Err(); err != nil {
		return nil, errors.WrapParse("shapefile", path, err)
	}
	if len(units) == 0 {
		return nil, errors.NewParseError("shapefile", path, "no polygon records", nil)
	}
	return units, nil
}

// toMultiPolygon converts shapefile rings to an orb geometry. Shapefile
// convention: clockwise rings are outer boundaries, counterclockwise rings
// are holes in the preceding outer ring. Degenerate rings are dropped.
func toMultiPolygon(p *shp.Polygon) orb.MultiPolygon {
	var mp orb.MultiPolygon

	for part := 0; part < len(p.Parts); part++ {
		start := int(p.Parts[part])
		end := len(p.Points)
		if part+1 < len(p.Parts) {
			end = int(p.Parts[part+1])
		}
		ring := toRing(p.Points[start:end])
		if ring == nil {
			continue
		}

		// orb orientation: CCW outer, CW holes, the reverse of shapefile.
		if isClockwise(ring) {
			ring.Reverse()
			mp = append(mp, orb.Polygon{ring})
		} else {
			if len(mp) == 0 {
				// Hole with no outer ring; treat as its own polygon.
				mp = append(mp, orb.Polygon{ring})
				continue
			}
			ring.Reverse()
			mp[len(mp)-1] = append(mp[len(mp)-1], ring)
		}
	}
	return mp
}

// toRing copies shapefile points into a closed orb ring, or nil when the
// ring is degenerate.
func toRing(points []shp.Point) orb.Ring {
	if len(points) < 3 {
		return nil
	}
	ring := make(orb.Ring, 0, len(points)+1)
	for _, pt := range points {
		ring = append(ring, orb.Point{pt.X, pt.Y})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	if len(ring) < 4 {
		return nil
	}
	return ring
}

// isClockwise reports ring orientation via the shoelace sum.
func isClockwise(ring orb.Ring) bool {
	var sum float64
	for i := 0; i < len(ring)-1; i++ {
		sum += (ring[i+1][0] - ring[i][0]) * (ring[i+1][1] + ring[i][1])
	}
	return sum > 0
}

func attribute(r *shp.Reader, row, field int) string {
	return strings.TrimSpace(strings.Trim(r.ReadAttribute(row, field), "\x00"))
}

func attributeByName(r *shp.Reader, index map[string]int, row int, name string) string {
	idx, ok := index[name]
	if !ok {
		return ""
	}
	return attribute(r, row, idx)
}

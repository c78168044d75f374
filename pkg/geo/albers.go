package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// NAD83 / California Albers (EPSG:3310) parameters on the GRS80 ellipsoid.
// Equal-area, so node areas survive the projection, which is what the
// downstream districting analysis cares about.
const (
	grs80A  = 6378137.0
	grs80E2 = 0.00669438002290

	albersLat1     = 34.0        // first standard parallel
	albersLat2     = 40.5        // second standard parallel
	albersLat0     = 0.0         // latitude of origin
	albersLon0     = -120.0      // central meridian
	albersFalseN   = -4000000.0  // false northing
	albersFalseE   = 0.0         // false easting
	degreesToRad   = math.Pi / 180.0
)

// Derived projection constants, computed once at init.
var albersN, albersC, albersRho0 float64

func init() {
	q1 := albersQ(albersLat1 * degreesToRad)
	q2 := albersQ(albersLat2 * degreesToRad)
	m1 := albersM(albersLat1 * degreesToRad)
	m2 := albersM(albersLat2 * degreesToRad)

	albersN = (m1*m1 - m2*m2) / (q2 - q1)
	albersC = m1*m1 + albersN*q1
	albersRho0 = grs80A * math.Sqrt(albersC-albersN*albersQ(albersLat0*degreesToRad)) / albersN
}

// CaliforniaAlbers projects a lon/lat point to EPSG:3310 planar meters.
// It satisfies orb.Projection so whole geometries project via
// project.Geometry.
var CaliforniaAlbers orb.Projection = func(p orb.Point) orb.Point {
	lon := p[0] * degreesToRad
	lat := p[1] * degreesToRad

	q := albersQ(lat)
	rho := grs80A * math.Sqrt(albersC-albersN*q) / albersN
	theta := albersN * (lon - albersLon0*degreesToRad)

	x := rho*math.Sin(theta) + albersFalseE
	y := albersRho0 - rho*math.Cos(theta) + albersFalseN
	return orb.Point{x, y}
}

// ProjectMultiPolygon returns the geometry in EPSG:3310 planar meters.
func ProjectMultiPolygon(mp orb.MultiPolygon) orb.MultiPolygon {
	projected := project.Geometry(mp.Clone(), CaliforniaAlbers)
	return projected.(orb.MultiPolygon)
}

// albersQ is Snyder's q: the authalic latitude helper for the ellipsoidal
// Albers equal-area conic.
func albersQ(lat float64) float64 {
	e := math.Sqrt(grs80E2)
	sin := math.Sin(lat)
	return (1 - grs80E2) * (sin/(1-grs80E2*sin*sin) -
		(1/(2*e))*math.Log((1-e*sin)/(1+e*sin)))
}

// albersM is Snyder's m: cos(lat) reduced for the ellipsoid.
func albersM(lat float64) float64 {
	sin := math.Sin(lat)
	return math.Cos(lat) / math.Sqrt(1-grs80E2*sin*sin)
}

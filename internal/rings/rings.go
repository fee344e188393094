// Package rings builds the concentric market-study circles around a project
// location and answers which ring a coordinate falls in. Geometry is
// delegated to orb; radii are validated here so degenerate input never
// reaches the spatial code.
package rings

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

const metersPerMile = 1609.344

var (
	ErrBadRadius = errors.New("radius must be a positive, finite number of miles")
	ErrBadCenter = errors.New("center must be a valid lng/lat coordinate")
	ErrNoRadii   = errors.New("at least one radius is required")
)

// Ring is one circle of the set: the radius it was built from and its closed
// polygon approximation.
type Ring struct {
	RadiusMiles float64
	Polygon     orb.Polygon
}

// Set holds the rings for one center, ordered smallest radius first. The
// ordering is what gives hit-testing its precedence: a point inside several
// concentric rings belongs to the smallest one.
type Set struct {
	Center orb.Point
	Rings  []Ring
}

// Build validates the center and radii and produces one polygon per radius.
// Radii are sorted ascending regardless of input order; segments below 3 are
// bumped to the default 64.
func Build(center orb.Point, radiiMiles []float64, segments int) (*Set, error) {
	if !validCenter(center) {
		return nil, ErrBadCenter
	}
	if len(radiiMiles) == 0 {
		return nil, ErrNoRadii
	}
	if segments < 3 {
		segments = 64
	}
	sorted := append([]float64(nil), radiiMiles...)
	sort.Float64s(sorted)
	s := &Set{Center: center, Rings: make([]Ring, 0, len(sorted))}
	for _, r := range sorted {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: %v", ErrBadRadius, r)
		}
		s.Rings = append(s.Rings, Ring{RadiusMiles: r, Polygon: circle(center, r, segments)})
	}
	return s, nil
}

// circle approximates a geodesic circle as a closed ring with the given
// vertex count.
func circle(center orb.Point, radiusMiles float64, segments int) orb.Polygon {
	meters := radiusMiles * metersPerMile
	ring := make(orb.Ring, 0, segments+1)
	for i := 0; i < segments; i++ {
		bearing := float64(i) * 360.0 / float64(segments)
		ring = append(ring, geo.PointAtBearingAndDistance(center, bearing, meters))
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// HitTest returns the smallest ring containing the point. ok is false when
// the point is outside every ring; callers fall back to their generic
// click handling in that case.
func (s *Set) HitTest(p orb.Point) (Ring, bool) {
	for _, r := range s.Rings {
		if planar.PolygonContains(r.Polygon, p) {
			return r, true
		}
	}
	return Ring{}, false
}

// FeatureCollection renders the set as GeoJSON for map overlay, one feature
// per ring with its radius in the properties.
func (s *Set) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range s.Rings {
		f := geojson.NewFeature(r.Polygon)
		f.Properties = geojson.Properties{"radius_miles": r.RadiusMiles}
		fc.Append(f)
	}
	return fc
}

func validCenter(p orb.Point) bool {
	lng, lat := p[0], p[1]
	if math.IsNaN(lng) || math.IsNaN(lat) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

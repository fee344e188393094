package blockgroup

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

const metersPerMile = 1609.344

// Index answers spatial queries against a snapshot. Candidate filtering is a
// bounding-box scan; exact containment is delegated to orb's planar tests.
type Index struct {
	snap *Snapshot
}

func NewIndex(snap *Snapshot) *Index { return &Index{snap: snap} }

// Len reports how many block groups the index covers.
func (ix *Index) Len() int {
	if ix.snap == nil {
		return 0
	}
	return len(ix.snap.Groups)
}

// Locate returns the block group containing the point, or false when no
// boundary contains it (water, out-of-coverage).
func (ix *Index) Locate(p orb.Point) (*BlockGroup, bool) {
	if ix.snap == nil {
		return nil, false
	}
	for i := range ix.snap.Groups {
		g := &ix.snap.Groups[i]
		if !g.bound.Contains(p) {
			continue
		}
		if planar.MultiPolygonContains(g.Geometry, p) {
			return g, true
		}
	}
	return nil, false
}

// WithinRadius returns every block group whose centroid lies within
// radiusMiles of center. Centroid distance is what the demographics
// aggregation keys on, so the same rule is used here.
func (ix *Index) WithinRadius(center orb.Point, radiusMiles float64) []*BlockGroup {
	if ix.snap == nil || radiusMiles <= 0 {
		return nil
	}
	maxMeters := radiusMiles * metersPerMile
	var out []*BlockGroup
	for i := range ix.snap.Groups {
		g := &ix.snap.Groups[i]
		if geo.Distance(center, g.Centroid) <= maxMeters {
			out = append(out, g)
		}
	}
	return out
}

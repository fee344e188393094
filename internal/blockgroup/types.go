// Package blockgroup holds the census block-group boundary snapshot and the
// spatial queries over it: containment (which block group is this point in)
// and radius selection (which block groups feed a demographics ring).
package blockgroup

import (
	"time"

	"github.com/paulmach/orb"
)

// BlockGroup is one census block group: identity, centroid, the demographic
// attributes the aggregation reads, and the boundary geometry for overlay and
// point containment. Rows are immutable once loaded.
type BlockGroup struct {
	GEOID  string
	State  string
	County string
	Tract  string

	Centroid     orb.Point
	LandAreaSqMi float64

	Population      int64
	Households      int64
	MedianHHIncome  float64
	MedianAge       float64
	MedianHomeValue float64
	MedianGrossRent float64
	OwnerOccupied   int64
	OccupiedUnits   int64

	Geometry orb.MultiPolygon
	bound    orb.Bound
}

// Snapshot is a read-only set of block groups shared by concurrent queries.
type Snapshot struct {
	Groups  []BlockGroup
	BuiltAt time.Time
}

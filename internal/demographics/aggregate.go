// Package demographics turns block-group statistics into per-ring summaries
// and serves them through a two-level cache (project snapshot in Postgres,
// optional hot cache in redis).
package demographics

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/Greggwolin/landscape-sub008/internal/blockgroup"
)

const metersPerMile = 1609.344

// RingDemographics is the aggregated statistics for one ring. Counts are
// sums; medians are household-weighted averages of the block-group medians,
// the same approximation the upstream census aggregation uses.
type RingDemographics struct {
	RadiusMiles      float64 `json:"radius_miles"`
	Population       int64   `json:"population"`
	Households       int64   `json:"households"`
	MedianHHIncome   float64 `json:"median_hh_income"`
	MedianAge        float64 `json:"median_age"`
	MedianHomeValue  float64 `json:"median_home_value"`
	MedianGrossRent  float64 `json:"median_gross_rent"`
	OwnerOccupiedPct float64 `json:"owner_occupied_pct"`
	BlockGroupCount  int     `json:"block_group_count"`
	LandAreaSqMi     float64 `json:"land_area_sq_mi"`
}

// Response is the full fetch result. Cached marks a snapshot or redis hit;
// Source names which level answered.
type Response struct {
	CenterLng float64            `json:"center_lng"`
	CenterLat float64            `json:"center_lat"`
	Rings     []RingDemographics `json:"rings"`
	FetchedAt time.Time          `json:"fetched_at"`
	Cached    bool               `json:"cached"`
	Source    string             `json:"source,omitempty"`
}

// Aggregate assigns each block group to every ring whose radius covers its
// centroid distance from center, so rings are cumulative: the 3-mile ring
// contains everything the 1-mile ring does. radii must be sorted ascending.
func Aggregate(groups []*blockgroup.BlockGroup, center orb.Point, radiiMiles []float64) []RingDemographics {
	type acc struct {
		pop, hh, owner, occupied int64
		land                     float64
		count                    int
		// weighted median numerators; denominator is hh
		income, age, homeValue, rent float64
	}
	accs := make([]acc, len(radiiMiles))
	for _, g := range groups {
		distMiles := geo.Distance(center, g.Centroid) / metersPerMile
		for i, r := range radiiMiles {
			if distMiles > r {
				continue
			}
			a := &accs[i]
			a.pop += g.Population
			a.hh += g.Households
			a.owner += g.OwnerOccupied
			a.occupied += g.OccupiedUnits
			a.land += g.LandAreaSqMi
			a.count++
			w := float64(g.Households)
			a.income += w * g.MedianHHIncome
			a.age += w * g.MedianAge
			a.homeValue += w * g.MedianHomeValue
			a.rent += w * g.MedianGrossRent
		}
	}
	out := make([]RingDemographics, len(radiiMiles))
	for i, a := range accs {
		d := RingDemographics{
			RadiusMiles:     radiiMiles[i],
			Population:      a.pop,
			Households:      a.hh,
			BlockGroupCount: a.count,
			LandAreaSqMi:    a.land,
		}
		if a.hh > 0 {
			w := float64(a.hh)
			d.MedianHHIncome = a.income / w
			d.MedianAge = a.age / w
			d.MedianHomeValue = a.homeValue / w
			d.MedianGrossRent = a.rent / w
		}
		if a.occupied > 0 {
			d.OwnerOccupiedPct = 100 * float64(a.owner) / float64(a.occupied)
		}
		out[i] = d
	}
	return out
}

package rings

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

var phoenix = orb.Point{-112.074, 33.448}

func TestBuildRejectsBadRadii(t *testing.T) {
	cases := []struct {
		name  string
		radii []float64
	}{
		{"zero", []float64{0}},
		{"negative", []float64{-1}},
		{"mixed", []float64{1, 3, -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Build(phoenix, tc.radii, 64); !errors.Is(err, ErrBadRadius) {
				t.Fatalf("radii %v: expected ErrBadRadius, got %v", tc.radii, err)
			}
		})
	}
}

func TestBuildRejectsEmptyRadii(t *testing.T) {
	if _, err := Build(phoenix, nil, 64); !errors.Is(err, ErrNoRadii) {
		t.Fatalf("expected ErrNoRadii, got %v", err)
	}
}

func TestBuildRejectsBadCenter(t *testing.T) {
	if _, err := Build(orb.Point{-200, 33}, []float64{1}, 64); !errors.Is(err, ErrBadCenter) {
		t.Fatalf("expected ErrBadCenter, got %v", err)
	}
}

func TestBuildProducesClosedPolygons(t *testing.T) {
	s, err := Build(phoenix, []float64{1, 3, 5}, 64)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(s.Rings) != 3 {
		t.Fatalf("expected 3 rings, got %d", len(s.Rings))
	}
	for _, r := range s.Rings {
		ring := r.Polygon[0]
		if len(ring) != 65 {
			t.Errorf("ring %v: expected 65 vertices (64 + closing), got %d", r.RadiusMiles, len(ring))
		}
		if ring[0] != ring[len(ring)-1] {
			t.Errorf("ring %v: not closed", r.RadiusMiles)
		}
	}
}

func TestBuildSortsRadiiAscending(t *testing.T) {
	s, err := Build(phoenix, []float64{5, 1, 3}, 64)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 1; i < len(s.Rings); i++ {
		if s.Rings[i-1].RadiusMiles >= s.Rings[i].RadiusMiles {
			t.Fatalf("rings not sorted: %v then %v", s.Rings[i-1].RadiusMiles, s.Rings[i].RadiusMiles)
		}
	}
}

// A point near the center is inside all three rings and must be attributed to
// the smallest one.
func TestHitTestSmallestRingWins(t *testing.T) {
	s, err := Build(phoenix, []float64{1, 3, 5}, 64)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r, ok := s.HitTest(orb.Point{phoenix[0] + 0.001, phoenix[1] + 0.001})
	if !ok {
		t.Fatal("expected a hit near center")
	}
	if r.RadiusMiles != 1 {
		t.Fatalf("expected 1-mile ring, got %v", r.RadiusMiles)
	}
}

func TestHitTestMiddleRing(t *testing.T) {
	s, err := Build(phoenix, []float64{1, 3, 5}, 64)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// ~2 miles east of center: outside the 1-mile ring, inside the 3-mile.
	// At 33.4N a degree of longitude is ~57.7 miles.
	r, ok := s.HitTest(orb.Point{phoenix[0] + 2.0/57.7, phoenix[1]})
	if !ok {
		t.Fatal("expected a hit at ~2 miles")
	}
	if r.RadiusMiles != 3 {
		t.Fatalf("expected 3-mile ring, got %v", r.RadiusMiles)
	}
}

func TestHitTestOutsideAllRings(t *testing.T) {
	s, err := Build(phoenix, []float64{1, 3, 5}, 64)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := s.HitTest(orb.Point{phoenix[0] + 1, phoenix[1]}); ok {
		t.Fatal("expected no hit a degree away")
	}
}

func TestFeatureCollection(t *testing.T) {
	s, err := Build(phoenix, []float64{1, 3}, 32)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	fc := s.FeatureCollection()
	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	if got := fc.Features[0].Properties["radius_miles"]; got != 1.0 {
		t.Fatalf("expected first feature radius 1, got %v", got)
	}
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Greggwolin/landscape-sub008/internal/blockgroup"
	"github.com/Greggwolin/landscape-sub008/internal/demographics"
	"github.com/Greggwolin/landscape-sub008/internal/geocode"
	"github.com/Greggwolin/landscape-sub008/internal/metrics"
	"github.com/Greggwolin/landscape-sub008/internal/rings"
	"github.com/Greggwolin/landscape-sub008/internal/store"
)

type DemographicsFetcher interface {
	Fetch(ctx context.Context, center orb.Point, projectID int64, refresh bool) (*demographics.Response, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocode.Result, error)
}

type BlockGroupIndex interface {
	WithinRadius(center orb.Point, radiusMiles float64) []*blockgroup.BlockGroup
}

type StatsStore interface {
	GetTotals(ctx context.Context) (*store.Totals, error)
	IncrStats(ctx context.Context)
}

// getRings returns the concentric radius rings around a center as GeoJSON.
// Radii default to the configured set; ?radii=1,3,5 overrides them.
func (s *Server) getRings(c echo.Context) error {
	center, err := queryCenter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	radii := s.Cfg.RingRadiiMiles
	if raw := c.QueryParam("radii"); raw != "" {
		radii, err = parseRadii(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
	}
	set, err := rings.Build(center, radii, s.Cfg.RingSegments)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return ok(c, http.StatusOK, set.FeatureCollection())
}

// ringHitTest reports the smallest ring containing a point. lat/lng locate
// the point; center_lat/center_lng place the rings.
func (s *Server) ringHitTest(c echo.Context) error {
	point, err := queryCenter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	centerLng, err1 := strconv.ParseFloat(c.QueryParam("center_lng"), 64)
	centerLat, err2 := strconv.ParseFloat(c.QueryParam("center_lat"), 64)
	if err1 != nil || err2 != nil {
		return fail(c, http.StatusBadRequest, "center_lng and center_lat are required")
	}
	radii := s.Cfg.RingRadiiMiles
	if raw := c.QueryParam("radii"); raw != "" {
		radii, err = parseRadii(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, err.Error())
		}
	}
	set, err := rings.Build(orb.Point{centerLng, centerLat}, radii, s.Cfg.RingSegments)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	ring, hit := set.HitTest(point)
	body := map[string]any{"hit": hit}
	if hit {
		body["radius_miles"] = ring.RadiusMiles
	}
	return ok(c, http.StatusOK, body)
}

// getDemographics serves the ring demographics panel. The center comes from
// lat/lng, or from the project record when only project_id is given.
func (s *Server) getDemographics(c echo.Context) error {
	ctx := c.Request().Context()
	var projectID int64
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return fail(c, http.StatusBadRequest, "invalid project_id")
		}
		projectID = id
	}

	center, err := queryCenter(c)
	if err != nil {
		if projectID == 0 {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		p, perr := s.Projects.GetProject(ctx, projectID)
		if perr != nil {
			return storeErr(c, perr)
		}
		if p.CenterLng == nil || p.CenterLat == nil {
			return fail(c, http.StatusBadRequest, "project has no center coordinate")
		}
		center = orb.Point{*p.CenterLng, *p.CenterLat}
	}

	refresh := c.QueryParam("refresh") == "true"
	resp, err := s.Demographics.Fetch(ctx, center, projectID, refresh)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "demographics lookup failed")
	}
	s.Stats.IncrStats(ctx)
	return ok(c, http.StatusOK, resp)
}

// getBlockGroups returns block-group boundaries near a point as a GeoJSON
// feature collection, for the map overlay.
func (s *Server) getBlockGroups(c echo.Context) error {
	center, err := queryCenter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	radius := 5.0
	if raw := c.QueryParam("radius_miles"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			return fail(c, http.StatusBadRequest, "invalid radius_miles")
		}
	}
	metrics.BlockGroupQueriesTotal.Inc()

	groups := s.BlockGroups.WithinRadius(center, radius)
	fc := geojson.NewFeatureCollection()
	for _, g := range groups {
		if err := c.Request().Context().Err(); err != nil {
			return err
		}
		f := geojson.NewFeature(g.Geometry)
		f.Properties = geojson.Properties{
			"geoid":            g.GEOID,
			"population":       g.Population,
			"households":       g.Households,
			"median_hh_income": g.MedianHHIncome,
		}
		fc.Append(f)
	}
	return ok(c, http.StatusOK, fc)
}

func (s *Server) getGeocode(c echo.Context) error {
	address := strings.TrimSpace(c.QueryParam("address"))
	if address == "" {
		return fail(c, http.StatusBadRequest, "address is required")
	}
	res, err := s.Geocoder.Geocode(c.Request().Context(), address)
	if errors.Is(err, geocode.ErrNoMatch) {
		return fail(c, http.StatusNotFound, "no match for address")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "geocoding failed")
	}
	return ok(c, http.StatusOK, res)
}

func (s *Server) getStats(c echo.Context) error {
	t, err := s.Stats.GetTotals(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "stats unavailable")
	}
	return ok(c, http.StatusOK, t)
}

// queryCenter parses the lat/lng query pair.
func queryCenter(c echo.Context) (orb.Point, error) {
	lng, err1 := strconv.ParseFloat(c.QueryParam("lng"), 64)
	lat, err2 := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err1 != nil || err2 != nil {
		return orb.Point{}, errors.New("lat and lng are required")
	}
	if !validLngLat(lng, lat) {
		return orb.Point{}, errors.New("coordinates out of range")
	}
	return orb.Point{lng, lat}, nil
}

func parseRadii(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.New("invalid radii list")
		}
		out = append(out, v)
	}
	return out, nil
}

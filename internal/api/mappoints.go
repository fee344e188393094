package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

type MapPointStore interface {
	ListMapPoints(ctx context.Context, projectID int64) ([]store.MapPoint, error)
	GetMapPoint(ctx context.Context, pointID string) (*store.MapPoint, error)
	CreateMapPoint(ctx context.Context, p *store.MapPoint) error
	UpdateMapPoint(ctx context.Context, p *store.MapPoint) error
	DeleteMapPoint(ctx context.Context, pointID string) error
}

func (s *Server) listMapPoints(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.MapPoints.ListMapPoints(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) createMapPoint(c echo.Context) error {
	projectID, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var in store.MapPoint
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.PointID = ""
	in.ProjectID = projectID
	if in.Label == "" {
		return fail(c, http.StatusBadRequest, "label is required")
	}
	if !s.validCategory(in.Category) {
		return fail(c, http.StatusBadRequest, "unknown map point category")
	}
	if !validLngLat(in.Lng, in.Lat) {
		return fail(c, http.StatusBadRequest, "coordinates out of range")
	}
	if err := s.MapPoints.CreateMapPoint(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, in)
}

func (s *Server) updateMapPoint(c echo.Context) error {
	pointID := c.Param("id")
	if pointID == "" {
		return fail(c, http.StatusBadRequest, "invalid point id")
	}
	cur, err := s.MapPoints.GetMapPoint(c.Request().Context(), pointID)
	if err != nil {
		return storeErr(c, err)
	}
	var in store.MapPoint
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.PointID = pointID
	in.ProjectID = cur.ProjectID
	if in.Label == "" {
		return fail(c, http.StatusBadRequest, "label is required")
	}
	if !s.validCategory(in.Category) {
		return fail(c, http.StatusBadRequest, "unknown map point category")
	}
	if !validLngLat(in.Lng, in.Lat) {
		return fail(c, http.StatusBadRequest, "coordinates out of range")
	}
	if err := s.MapPoints.UpdateMapPoint(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, in)
}

func (s *Server) deleteMapPoint(c echo.Context) error {
	pointID := c.Param("id")
	if pointID == "" {
		return fail(c, http.StatusBadRequest, "invalid point id")
	}
	if err := s.MapPoints.DeleteMapPoint(c.Request().Context(), pointID); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

func (s *Server) validCategory(cat string) bool {
	for _, allowed := range s.Cfg.MapPointCategories {
		if cat == allowed {
			return true
		}
	}
	return false
}

func validLngLat(lng, lat float64) bool {
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

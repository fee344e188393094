package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// AcquisitionStore is the acquisition-ledger slice of the data layer.
type AcquisitionStore interface {
	ListAcquisitionEvents(ctx context.Context, projectID int64) ([]store.AcquisitionEvent, error)
	GetAcquisitionEvent(ctx context.Context, id int64) (*store.AcquisitionEvent, error)
	CreateAcquisitionEvent(ctx context.Context, e *store.AcquisitionEvent) error
	UpdateAcquisitionEvent(ctx context.Context, e *store.AcquisitionEvent) error
	DeleteAcquisitionEvent(ctx context.Context, id int64) error
}

func (s *Server) listAcquisitions(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.Acquisitions.ListAcquisitionEvents(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) createAcquisition(c echo.Context) error {
	projectID, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var in store.AcquisitionEvent
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ProjectID = projectID
	if in.EventType == "" {
		return fail(c, http.StatusBadRequest, "event_type is required")
	}
	if in.EventDate.IsZero() {
		return fail(c, http.StatusBadRequest, "event_date is required")
	}
	if err := s.Acquisitions.CreateAcquisitionEvent(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, in)
}

func (s *Server) updateAcquisition(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	cur, err := s.Acquisitions.GetAcquisitionEvent(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	var in store.AcquisitionEvent
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.EventID = id
	in.ProjectID = cur.ProjectID
	if in.EventType == "" {
		return fail(c, http.StatusBadRequest, "event_type is required")
	}
	if err := s.Acquisitions.UpdateAcquisitionEvent(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, in)
}

func (s *Server) deleteAcquisition(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid event id")
	}
	if err := s.Acquisitions.DeleteAcquisitionEvent(c.Request().Context(), id); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// LeaseStore is the rent-roll slice of the data layer.
type LeaseStore interface {
	ListLeases(ctx context.Context, projectID int64) ([]store.Lease, error)
	GetLease(ctx context.Context, id int64) (*store.Lease, error)
	CreateLease(ctx context.Context, l *store.Lease) error
	UpdateLease(ctx context.Context, l *store.Lease) error
	DeleteLease(ctx context.Context, id int64) error
	LeaseExpirations(ctx context.Context, projectID int64) ([]store.ExpirationBucket, error)
}

func (s *Server) listLeases(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.Leases.ListLeases(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) createLease(c echo.Context) error {
	projectID, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var in store.Lease
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ProjectID = projectID
	if in.UnitLabel == "" {
		return fail(c, http.StatusBadRequest, "unit_label is required")
	}
	if in.LeaseStart != nil && in.LeaseEnd != nil && in.LeaseEnd.Before(*in.LeaseStart) {
		return fail(c, http.StatusBadRequest, "lease_end precedes lease_start")
	}
	if err := s.Leases.CreateLease(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, in)
}

func (s *Server) updateLease(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid lease id")
	}
	cur, err := s.Leases.GetLease(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	var in store.Lease
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.LeaseID = id
	in.ProjectID = cur.ProjectID
	if in.UnitLabel == "" {
		return fail(c, http.StatusBadRequest, "unit_label is required")
	}
	if in.LeaseStart != nil && in.LeaseEnd != nil && in.LeaseEnd.Before(*in.LeaseStart) {
		return fail(c, http.StatusBadRequest, "lease_end precedes lease_start")
	}
	if err := s.Leases.UpdateLease(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, in)
}

func (s *Server) deleteLease(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid lease id")
	}
	if err := s.Leases.DeleteLease(c.Request().Context(), id); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

// leaseExpirations returns the month-bucketed expirations report.
func (s *Server) leaseExpirations(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.Leases.LeaseExpirations(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

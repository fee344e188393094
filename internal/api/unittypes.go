package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// UnitTypeStore is the unit-mix slice of the data layer.
type UnitTypeStore interface {
	ListUnitTypes(ctx context.Context, projectID int64) ([]store.UnitType, error)
	CreateUnitType(ctx context.Context, u *store.UnitType) error
	DeleteUnitType(ctx context.Context, id int64) error
}

func (s *Server) listUnitTypes(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.UnitTypes.ListUnitTypes(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

// createUnitType rejects a duplicate code within the project with 409; the
// uniqueness lives in the database index so concurrent creates cannot race
// past the check.
func (s *Server) createUnitType(c echo.Context) error {
	projectID, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var in store.UnitType
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ProjectID = projectID
	if in.Code == "" {
		return fail(c, http.StatusBadRequest, "code is required")
	}
	if err := s.UnitTypes.CreateUnitType(c.Request().Context(), &in); err != nil {
		if store.IsUniqueViolation(err) {
			return fail(c, http.StatusConflict, "unit type code already exists in this project")
		}
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, in)
}

func (s *Server) deleteUnitType(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid unit type id")
	}
	if err := s.UnitTypes.DeleteUnitType(c.Request().Context(), id); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

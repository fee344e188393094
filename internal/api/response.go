// Package api registers the REST controllers on an echo group. Handlers
// depend on narrow per-resource interfaces so they can be exercised with
// stubs; the live wiring passes *store.Store for all of them.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// envelope is the uniform response shape: {success, data} on the happy path,
// {success:false, error} otherwise.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Error: msg})
}

// storeErr maps data-layer errors onto the conventional status codes:
// 404 missing row, 409 unique/FK conflicts, 500 anything else.
func storeErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fail(c, http.StatusNotFound, "not found")
	case store.IsUniqueViolation(err):
		return fail(c, http.StatusConflict, "duplicate value violates a uniqueness rule")
	case store.IsForeignKeyViolation(err):
		return fail(c, http.StatusConflict, "operation violates referential integrity")
	default:
		return fail(c, http.StatusInternalServerError, err.Error())
	}
}

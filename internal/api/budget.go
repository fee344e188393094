package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// BudgetStore is the budget-grid slice of the data layer.
type BudgetStore interface {
	ListBudgetItems(ctx context.Context, projectID int64) ([]store.BudgetItem, error)
	GetBudgetItem(ctx context.Context, id int64) (*store.BudgetItem, error)
	CreateBudgetItem(ctx context.Context, b *store.BudgetItem) error
	UpdateBudgetItem(ctx context.Context, b *store.BudgetItem) error
	DeleteBudgetItem(ctx context.Context, id int64) error
}

func (s *Server) listBudgetItems(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.Budget.ListBudgetItems(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) createBudgetItem(c echo.Context) error {
	projectID, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var in store.BudgetItem
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ProjectID = projectID
	if in.Category == "" {
		return fail(c, http.StatusBadRequest, "category is required")
	}
	if err := s.Budget.CreateBudgetItem(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, in)
}

func (s *Server) updateBudgetItem(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid item id")
	}
	cur, err := s.Budget.GetBudgetItem(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	var in store.BudgetItem
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ItemID = id
	in.ProjectID = cur.ProjectID
	if in.Category == "" {
		return fail(c, http.StatusBadRequest, "category is required")
	}
	if err := s.Budget.UpdateBudgetItem(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, in)
}

func (s *Server) deleteBudgetItem(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid item id")
	}
	if err := s.Budget.DeleteBudgetItem(c.Request().Context(), id); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

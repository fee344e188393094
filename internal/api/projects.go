package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// ProjectStore is the project slice of the data layer.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]store.Project, error)
	GetProject(ctx context.Context, id int64) (*store.Project, error)
	CreateProject(ctx context.Context, p *store.Project) error
	UpdateProject(ctx context.Context, p *store.Project) error
	DeleteProject(ctx context.Context, id int64) error
}

func (s *Server) listProjects(c echo.Context) error {
	out, err := s.Projects.ListProjects(c.Request().Context())
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) getProject(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	p, err := s.Projects.GetProject(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, p)
}

func (s *Server) createProject(c echo.Context) error {
	var p store.Project
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if p.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}
	if err := s.Projects.CreateProject(c.Request().Context(), &p); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, p)
}

func (s *Server) updateProject(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var p store.Project
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	p.ProjectID = id
	if p.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}
	if err := s.Projects.UpdateProject(c.Request().Context(), &p); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, p)
}

func (s *Server) deleteProject(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	if err := s.Projects.DeleteProject(c.Request().Context(), id); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// ContainerStore is the planning-hierarchy slice of the data layer.
type ContainerStore interface {
	ListContainers(ctx context.Context, projectID int64) ([]store.Container, error)
	GetContainer(ctx context.Context, id int64) (*store.Container, error)
	CreateContainer(ctx context.Context, c *store.Container) error
	UpdateContainer(ctx context.Context, c *store.Container) error
	DeleteContainer(ctx context.Context, id int64) error
}

func (s *Server) listContainers(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.Containers.ListContainers(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) createContainer(c echo.Context) error {
	projectID, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var in store.Container
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ProjectID = projectID
	if in.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}
	if !store.ValidContainerType(in.ContainerType) {
		return fail(c, http.StatusBadRequest, "container_type must be area, phase, parcel or subparcel")
	}
	if err := s.Containers.CreateContainer(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, in)
}

func (s *Server) updateContainer(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid container id")
	}
	cur, err := s.Containers.GetContainer(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	var in store.Container
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ContainerID = id
	in.ProjectID = cur.ProjectID
	if !store.ValidContainerType(in.ContainerType) {
		return fail(c, http.StatusBadRequest, "container_type must be area, phase, parcel or subparcel")
	}
	// A container cannot parent itself.
	if in.ParentID != nil && *in.ParentID == id {
		return fail(c, http.StatusBadRequest, "container cannot be its own parent")
	}
	if err := s.Containers.UpdateContainer(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, in)
}

func (s *Server) deleteContainer(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid container id")
	}
	// Children or referencing rows surface as an FK violation -> 409.
	if err := s.Containers.DeleteContainer(c.Request().Context(), id); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

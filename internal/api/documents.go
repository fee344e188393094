package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Greggwolin/landscape-sub008/internal/store"
)

// DocumentStore is the document-metadata slice of the data layer.
type DocumentStore interface {
	ListDocuments(ctx context.Context, projectID int64) ([]store.Document, error)
	GetDocument(ctx context.Context, docID string) (*store.Document, error)
	CreateDocument(ctx context.Context, d *store.Document) error
	AdvanceDocumentStatus(ctx context.Context, docID, to string) (*store.Document, error)
	DeleteDocument(ctx context.Context, docID string) error
}

func (s *Server) listDocuments(c echo.Context) error {
	id, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	out, err := s.Documents.ListDocuments(c.Request().Context(), id)
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (s *Server) getDocument(c echo.Context) error {
	d, err := s.Documents.GetDocument(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, d)
}

func (s *Server) createDocument(c echo.Context) error {
	projectID, valid := pathID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid project id")
	}
	var in store.Document
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	in.ProjectID = projectID
	if in.Name == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}
	if err := s.Documents.CreateDocument(c.Request().Context(), &in); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusCreated, in)
}

// advanceDocumentStatus moves a document along uploaded → extracted →
// reconciled; any other jump is a conflict.
func (s *Server) advanceDocumentStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return fail(c, http.StatusBadRequest, "status is required")
	}
	d, err := s.Documents.AdvanceDocumentStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		if errors.Is(err, store.ErrBadTransition) {
			return fail(c, http.StatusConflict, err.Error())
		}
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, d)
}

func (s *Server) deleteDocument(c echo.Context) error {
	if err := s.Documents.DeleteDocument(c.Request().Context(), c.Param("id")); err != nil {
		return storeErr(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

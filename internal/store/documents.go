package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document is file metadata only; bytes live in object storage behind
// StorageURI. Status walks uploaded → extracted → reconciled as the external
// extraction pipeline reports back.
type Document struct {
	DocID      string    `json:"doc_id"`
	ProjectID  int64     `json:"project_id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	StorageURI string    `json:"storage_uri"`
	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ErrBadTransition marks a document status change that skips or reverses a
// lifecycle step; the API maps it to 409.
var ErrBadTransition = errors.New("invalid status transition")

// Status transitions move forward only.
var nextDocStatus = map[string]string{
	"uploaded":  "extracted",
	"extracted": "reconciled",
}

func canAdvance(from, to string) bool { return to != "" && nextDocStatus[from] == to }

func (s *Store) ListDocuments(ctx context.Context, projectID int64) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_id, project_id, name, mime_type, size_bytes, storage_uri, status, uploaded_at
        FROM landscape.documents WHERE project_id=$1 ORDER BY uploaded_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.DocID, &d.ProjectID, &d.Name, &d.MimeType, &d.SizeBytes, &d.StorageURI, &d.Status, &d.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDocument(ctx context.Context, docID string) (*Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx, `SELECT doc_id, project_id, name, mime_type, size_bytes, storage_uri, status, uploaded_at
        FROM landscape.documents WHERE doc_id=$1`, docID).
		Scan(&d.DocID, &d.ProjectID, &d.Name, &d.MimeType, &d.SizeBytes, &d.StorageURI, &d.Status, &d.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) CreateDocument(ctx context.Context, d *Document) error {
	if d.DocID == "" {
		d.DocID = uuid.NewString()
	}
	d.Status = "uploaded"
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.documents(doc_id, project_id, name, mime_type, size_bytes, storage_uri, status)
        VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING uploaded_at`,
		d.DocID, d.ProjectID, d.Name, d.MimeType, d.SizeBytes, d.StorageURI, d.Status).
		Scan(&d.UploadedAt)
}

// AdvanceDocumentStatus moves a document one step forward in its lifecycle.
// A document already at the requested status, or a backwards/skipping move,
// is a conflict.
func (s *Store) AdvanceDocumentStatus(ctx context.Context, docID, to string) (*Document, error) {
	d, err := s.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !canAdvance(d.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, d.Status, to)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE landscape.documents SET status=$2 WHERE doc_id=$1`, docID, to); err != nil {
		return nil, err
	}
	d.Status = to
	return d, nil
}

func (s *Store) DeleteDocument(ctx context.Context, docID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.documents WHERE doc_id=$1`, docID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// MapPoint is a user-added marker on the location map. These were lost on
// page reload in the old client; they are persisted per project now.
type MapPoint struct {
	PointID   string    `json:"point_id"`
	ProjectID int64     `json:"project_id"`
	Label     string    `json:"label"`
	Category  string    `json:"category"`
	Lng       float64   `json:"lng"`
	Lat       float64   `json:"lat"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) ListMapPoints(ctx context.Context, projectID int64) ([]MapPoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT point_id, project_id, label, category, lng, lat, notes, created_at
        FROM landscape.map_points WHERE project_id=$1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []MapPoint{}
	for rows.Next() {
		var p MapPoint
		if err := rows.Scan(&p.PointID, &p.ProjectID, &p.Label, &p.Category, &p.Lng, &p.Lat, &p.Notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateMapPoint(ctx context.Context, p *MapPoint) error {
	if p.PointID == "" {
		p.PointID = uuid.NewString()
	}
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.map_points(point_id, project_id, label, category, lng, lat, notes)
        VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING created_at`,
		p.PointID, p.ProjectID, p.Label, p.Category, p.Lng, p.Lat, p.Notes).
		Scan(&p.CreatedAt)
}

func (s *Store) UpdateMapPoint(ctx context.Context, p *MapPoint) error {
	res, err := s.db.ExecContext(ctx, `UPDATE landscape.map_points
        SET label=$2, category=$3, lng=$4, lat=$5, notes=$6 WHERE point_id=$1`,
		p.PointID, p.Label, p.Category, p.Lng, p.Lat, p.Notes)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetMapPoint(ctx context.Context, pointID string) (*MapPoint, error) {
	var p MapPoint
	err := s.db.QueryRowContext(ctx, `SELECT point_id, project_id, label, category, lng, lat, notes, created_at
        FROM landscape.map_points WHERE point_id=$1`, pointID).
		Scan(&p.PointID, &p.ProjectID, &p.Label, &p.Category, &p.Lng, &p.Lat, &p.Notes, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) DeleteMapPoint(ctx context.Context, pointID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.map_points WHERE point_id=$1`, pointID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

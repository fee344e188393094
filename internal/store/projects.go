package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Project is a development/investment project; the center coordinate anchors
// the location-intelligence panels.
type Project struct {
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CenterLng *float64  `json:"center_lng"`
	CenterLat *float64  `json:"center_lat"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT project_id, name, status, center_lng, center_lat, created_at
        FROM landscape.projects ORDER BY project_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ProjectID, &p.Name, &p.Status, &p.CenterLng, &p.CenterLat, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id int64) (*Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx, `SELECT project_id, name, status, center_lng, center_lat, created_at
        FROM landscape.projects WHERE project_id=$1`, id).
		Scan(&p.ProjectID, &p.Name, &p.Status, &p.CenterLng, &p.CenterLat, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *Project) error {
	if p.Status == "" {
		p.Status = "active"
	}
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.projects(name, status, center_lng, center_lat)
        VALUES($1,$2,$3,$4) RETURNING project_id, created_at`,
		p.Name, p.Status, p.CenterLng, p.CenterLat).
		Scan(&p.ProjectID, &p.CreatedAt)
}

func (s *Store) UpdateProject(ctx context.Context, p *Project) error {
	res, err := s.db.ExecContext(ctx, `UPDATE landscape.projects
        SET name=$2, status=$3, center_lng=$4, center_lat=$5 WHERE project_id=$1`,
		p.ProjectID, p.Name, p.Status, p.CenterLng, p.CenterLat)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.projects WHERE project_id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

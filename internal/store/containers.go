package store

import (
	"context"
	"database/sql"
	"errors"
)

// Container is a hierarchical planning unit: area, phase, parcel or
// sub-parcel. ParentID is nil for roots; deletes are restricted by the
// self-referential foreign key.
type Container struct {
	ContainerID   int64  `json:"container_id"`
	ProjectID     int64  `json:"project_id"`
	ParentID      *int64 `json:"parent_id"`
	ContainerType string `json:"container_type"`
	Name          string `json:"name"`
	SortOrder     int    `json:"sort_order"`
}

var containerTypes = map[string]bool{
	"area": true, "phase": true, "parcel": true, "subparcel": true,
}

// ValidContainerType reports whether t is a known level of the hierarchy.
func ValidContainerType(t string) bool { return containerTypes[t] }

// ListContainers returns a project's containers parent-first (parents sort
// before their children by id since rows are created top-down).
func (s *Store) ListContainers(ctx context.Context, projectID int64) ([]Container, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT container_id, project_id, parent_id, container_type, name, sort_order
        FROM landscape.containers WHERE project_id=$1 ORDER BY sort_order, container_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Container{}
	for rows.Next() {
		var c Container
		if err := rows.Scan(&c.ContainerID, &c.ProjectID, &c.ParentID, &c.ContainerType, &c.Name, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetContainer(ctx context.Context, id int64) (*Container, error) {
	var c Container
	err := s.db.QueryRowContext(ctx, `SELECT container_id, project_id, parent_id, container_type, name, sort_order
        FROM landscape.containers WHERE container_id=$1`, id).
		Scan(&c.ContainerID, &c.ProjectID, &c.ParentID, &c.ContainerType, &c.Name, &c.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateContainer(ctx context.Context, c *Container) error {
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.containers(project_id, parent_id, container_type, name, sort_order)
        VALUES($1,$2,$3,$4,$5) RETURNING container_id`,
		c.ProjectID, c.ParentID, c.ContainerType, c.Name, c.SortOrder).
		Scan(&c.ContainerID)
}

func (s *Store) UpdateContainer(ctx context.Context, c *Container) error {
	res, err := s.db.ExecContext(ctx, `UPDATE landscape.containers
        SET parent_id=$2, container_type=$3, name=$4, sort_order=$5 WHERE container_id=$1`,
		c.ContainerID, c.ParentID, c.ContainerType, c.Name, c.SortOrder)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContainer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.containers WHERE container_id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

package store

import "context"

// UnitType is a residential unit mix entry; code is unique within a project
// (enforced by uniq_unit_type_code, surfaced as 409).
type UnitType struct {
	UnitTypeID int64  `json:"unit_type_id"`
	ProjectID  int64  `json:"project_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
}

func (s *Store) ListUnitTypes(ctx context.Context, projectID int64) ([]UnitType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT unit_type_id, project_id, code, name
        FROM landscape.unit_types WHERE project_id=$1 ORDER BY code`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []UnitType{}
	for rows.Next() {
		var u UnitType
		if err := rows.Scan(&u.UnitTypeID, &u.ProjectID, &u.Code, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateUnitType inserts the row; a duplicate code within the project comes
// back as a unique violation for the handler to turn into 409.
func (s *Store) CreateUnitType(ctx context.Context, u *UnitType) error {
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.unit_types(project_id, code, name)
        VALUES($1,$2,$3) RETURNING unit_type_id`,
		u.ProjectID, u.Code, u.Name).
		Scan(&u.UnitTypeID)
}

func (s *Store) DeleteUnitType(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.unit_types WHERE unit_type_id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

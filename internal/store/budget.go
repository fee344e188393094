package store

import (
	"context"
	"database/sql"
	"errors"
)

// BudgetItem is one row of the budget grid. Amounts are scanned as float64;
// the database column is NUMERIC(14,2) so precision loss stays below a cent
// at realistic magnitudes.
type BudgetItem struct {
	ItemID      int64   `json:"item_id"`
	ProjectID   int64   `json:"project_id"`
	ContainerID *int64  `json:"container_id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Budgeted    float64 `json:"budgeted"`
	Committed   float64 `json:"committed"`
	Actual      float64 `json:"actual"`
}

func (s *Store) ListBudgetItems(ctx context.Context, projectID int64) ([]BudgetItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id, project_id, container_id, category, description, budgeted, committed, actual
        FROM landscape.budget_items WHERE project_id=$1 ORDER BY category, item_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BudgetItem{}
	for rows.Next() {
		var b BudgetItem
		if err := rows.Scan(&b.ItemID, &b.ProjectID, &b.ContainerID, &b.Category, &b.Description, &b.Budgeted, &b.Committed, &b.Actual); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CreateBudgetItem(ctx context.Context, b *BudgetItem) error {
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.budget_items(project_id, container_id, category, description, budgeted, committed, actual)
        VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING item_id`,
		b.ProjectID, b.ContainerID, b.Category, b.Description, b.Budgeted, b.Committed, b.Actual).
		Scan(&b.ItemID)
}

func (s *Store) UpdateBudgetItem(ctx context.Context, b *BudgetItem) error {
	res, err := s.db.ExecContext(ctx, `UPDATE landscape.budget_items
        SET container_id=$2, category=$3, description=$4, budgeted=$5, committed=$6, actual=$7
        WHERE item_id=$1`,
		b.ItemID, b.ContainerID, b.Category, b.Description, b.Budgeted, b.Committed, b.Actual)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBudgetItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.budget_items WHERE item_id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBudgetItem exists for handler 404 checks before updates.
func (s *Store) GetBudgetItem(ctx context.Context, id int64) (*BudgetItem, error) {
	var b BudgetItem
	err := s.db.QueryRowContext(ctx, `SELECT item_id, project_id, container_id, category, description, budgeted, committed, actual
        FROM landscape.budget_items WHERE item_id=$1`, id).
		Scan(&b.ItemID, &b.ProjectID, &b.ContainerID, &b.Category, &b.Description, &b.Budgeted, &b.Committed, &b.Actual)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

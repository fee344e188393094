package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// AcquisitionEvent is one ledger entry: an offer, contract, closing, escrow
// deposit and so on, against the project or a specific container.
type AcquisitionEvent struct {
	EventID      int64     `json:"event_id"`
	ProjectID    int64     `json:"project_id"`
	ContainerID  *int64    `json:"container_id"`
	EventDate    time.Time `json:"event_date"`
	EventType    string    `json:"event_type"`
	Amount       float64   `json:"amount"`
	Counterparty string    `json:"counterparty"`
	Notes        string    `json:"notes"`
}

// ListAcquisitionEvents returns the ledger in date order, oldest first.
func (s *Store) ListAcquisitionEvents(ctx context.Context, projectID int64) ([]AcquisitionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT event_id, project_id, container_id, event_date, event_type, amount, counterparty, notes
        FROM landscape.acquisition_events WHERE project_id=$1 ORDER BY event_date, event_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AcquisitionEvent{}
	for rows.Next() {
		var e AcquisitionEvent
		if err := rows.Scan(&e.EventID, &e.ProjectID, &e.ContainerID, &e.EventDate, &e.EventType, &e.Amount, &e.Counterparty, &e.Notes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) CreateAcquisitionEvent(ctx context.Context, e *AcquisitionEvent) error {
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.acquisition_events(project_id, container_id, event_date, event_type, amount, counterparty, notes)
        VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING event_id`,
		e.ProjectID, e.ContainerID, e.EventDate, e.EventType, e.Amount, e.Counterparty, e.Notes).
		Scan(&e.EventID)
}

func (s *Store) GetAcquisitionEvent(ctx context.Context, id int64) (*AcquisitionEvent, error) {
	var e AcquisitionEvent
	err := s.db.QueryRowContext(ctx, `SELECT event_id, project_id, container_id, event_date, event_type, amount, counterparty, notes
        FROM landscape.acquisition_events WHERE event_id=$1`, id).
		Scan(&e.EventID, &e.ProjectID, &e.ContainerID, &e.EventDate, &e.EventType, &e.Amount, &e.Counterparty, &e.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) UpdateAcquisitionEvent(ctx context.Context, e *AcquisitionEvent) error {
	res, err := s.db.ExecContext(ctx, `UPDATE landscape.acquisition_events
        SET container_id=$2, event_date=$3, event_type=$4, amount=$5, counterparty=$6, notes=$7
        WHERE event_id=$1`,
		e.EventID, e.ContainerID, e.EventDate, e.EventType, e.Amount, e.Counterparty, e.Notes)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAcquisitionEvent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.acquisition_events WHERE event_id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

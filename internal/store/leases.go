package store

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"
)

// Lease is one tenant lease; lease dates are nullable for month-to-month or
// draft rows.
type Lease struct {
	LeaseID     int64      `json:"lease_id"`
	ProjectID   int64      `json:"project_id"`
	UnitLabel   string     `json:"unit_label"`
	Tenant      string     `json:"tenant"`
	LeaseStart  *time.Time `json:"lease_start"`
	LeaseEnd    *time.Time `json:"lease_end"`
	MonthlyRent float64    `json:"monthly_rent"`
}

// ExpirationBucket is one month of the expirations report.
type ExpirationBucket struct {
	Month       string  `json:"month"` // YYYY-MM
	Count       int     `json:"count"`
	MonthlyRent float64 `json:"monthly_rent"`
}

func (s *Store) ListLeases(ctx context.Context, projectID int64) ([]Lease, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT lease_id, project_id, unit_label, tenant, lease_start, lease_end, monthly_rent
        FROM landscape.leases WHERE project_id=$1 ORDER BY unit_label, lease_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Lease{}
	for rows.Next() {
		var l Lease
		if err := rows.Scan(&l.LeaseID, &l.ProjectID, &l.UnitLabel, &l.Tenant, &l.LeaseStart, &l.LeaseEnd, &l.MonthlyRent); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) CreateLease(ctx context.Context, l *Lease) error {
	return s.db.QueryRowContext(ctx, `INSERT INTO landscape.leases(project_id, unit_label, tenant, lease_start, lease_end, monthly_rent)
        VALUES($1,$2,$3,$4,$5,$6) RETURNING lease_id`,
		l.ProjectID, l.UnitLabel, l.Tenant, l.LeaseStart, l.LeaseEnd, l.MonthlyRent).
		Scan(&l.LeaseID)
}

func (s *Store) UpdateLease(ctx context.Context, l *Lease) error {
	res, err := s.db.ExecContext(ctx, `UPDATE landscape.leases
        SET unit_label=$2, tenant=$3, lease_start=$4, lease_end=$5, monthly_rent=$6 WHERE lease_id=$1`,
		l.LeaseID, l.UnitLabel, l.Tenant, l.LeaseStart, l.LeaseEnd, l.MonthlyRent)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLease(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM landscape.leases WHERE lease_id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetLease(ctx context.Context, id int64) (*Lease, error) {
	var l Lease
	err := s.db.QueryRowContext(ctx, `SELECT lease_id, project_id, unit_label, tenant, lease_start, lease_end, monthly_rent
        FROM landscape.leases WHERE lease_id=$1`, id).
		Scan(&l.LeaseID, &l.ProjectID, &l.UnitLabel, &l.Tenant, &l.LeaseStart, &l.LeaseEnd, &l.MonthlyRent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// LeaseExpirations builds the expirations report for a project.
func (s *Store) LeaseExpirations(ctx context.Context, projectID int64) ([]ExpirationBucket, error) {
	leases, err := s.ListLeases(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return GroupExpirations(leases), nil
}

// GroupExpirations buckets leases strictly by the YYYY-MM of lease_end_date,
// in calendar order. Leases without an end date are excluded; that is the
// month-to-month bucket the report intentionally omits.
func GroupExpirations(leases []Lease) []ExpirationBucket {
	byMonth := map[string]*ExpirationBucket{}
	for _, l := range leases {
		if l.LeaseEnd == nil {
			continue
		}
		m := l.LeaseEnd.Format("2006-01")
		b, ok := byMonth[m]
		if !ok {
			b = &ExpirationBucket{Month: m}
			byMonth[m] = b
		}
		b.Count++
		b.MonthlyRent += l.MonthlyRent
	}
	out := make([]ExpirationBucket, 0, len(byMonth))
	for _, b := range byMonth {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Package store is the data access layer: direct SQL against the landscape
// schema through database/sql and lib/pq. No ORM; every query is written out.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Greggwolin/landscape-sub008/internal/logger"
)

// ErrNotFound is returned for lookups of rows that do not exist; the API
// layer maps it to 404.
var ErrNotFound = errors.New("not found")

// Store holds the connection pool and provides per-resource query methods.
type Store struct {
	db *sql.DB
}

// AttachDB wraps an already-open pool (the entrypoint owns open/close).
func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Open opens a pool with the given DSN and default limits.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (duplicate key), mapped to 409 at the API boundary.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation reports a referential-integrity failure, also a 409.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// IncrStats bumps the total and daily demographics-query counters. Failures
// are swallowed; stats never break a query.
func (s *Store) IncrStats(ctx context.Context) {
	_, _ = s.db.ExecContext(ctx, "UPDATE landscape.query_stats_total SET total_queries=total_queries+1 WHERE id=1")
	_, _ = s.db.ExecContext(ctx, `INSERT INTO landscape.query_stats_daily(day, queries) VALUES(current_date, 1)
        ON CONFLICT (day) DO UPDATE SET queries=landscape.query_stats_daily.queries+1`)
}

// Totals is the running counter pair for the stats endpoint.
type Totals struct {
	Total int64 `json:"total"`
	Today int64 `json:"today"`
}

func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	err := s.db.QueryRowContext(ctx, "SELECT total_queries FROM landscape.query_stats_total WHERE id=1").Scan(&t.Total)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.L().Error("stats_total_scan_error", "err", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT queries FROM landscape.query_stats_daily WHERE day=current_date").Scan(&t.Today)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.L().Error("stats_daily_scan_error", "err", err)
	}
	logger.L().Debug("stats_totals", "total", t.Total, "today", t.Today)
	return &t, nil
}

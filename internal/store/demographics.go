package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Greggwolin/landscape-sub008/internal/demographics"
)

// GetDemographicsSnapshot reads the one cached demographics response a
// project carries. The bool result is false on a clean miss.
func (s *Store) GetDemographicsSnapshot(ctx context.Context, projectID int64) (*demographics.Response, bool, error) {
	var payload []byte
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT payload, fetched_at
        FROM landscape.demographics_snapshots WHERE project_id=$1`, projectID).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp demographics.Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		// A corrupt payload is treated as a miss; the next save replaces it.
		return nil, false, nil
	}
	resp.FetchedAt = fetchedAt
	return &resp, true, nil
}

// SaveDemographicsSnapshot upserts the project snapshot; last write wins.
func (s *Store) SaveDemographicsSnapshot(ctx context.Context, projectID int64, resp *demographics.Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO landscape.demographics_snapshots(project_id, center_lng, center_lat, payload, fetched_at)
        VALUES($1,$2,$3,$4,$5)
        ON CONFLICT (project_id) DO UPDATE
        SET center_lng=EXCLUDED.center_lng, center_lat=EXCLUDED.center_lat,
            payload=EXCLUDED.payload, fetched_at=EXCLUDED.fetched_at`,
		projectID, resp.CenterLng, resp.CenterLat, payload, resp.FetchedAt)
	return err
}

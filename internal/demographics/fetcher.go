package demographics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"

	"github.com/Greggwolin/landscape-sub008/internal/blockgroup"
	"github.com/Greggwolin/landscape-sub008/internal/logger"
	"github.com/Greggwolin/landscape-sub008/internal/metrics"
)

// SnapshotStore persists one cached demographics response per project.
type SnapshotStore interface {
	GetDemographicsSnapshot(ctx context.Context, projectID int64) (*Response, bool, error)
	SaveDemographicsSnapshot(ctx context.Context, projectID int64, resp *Response) error
}

// GroupSource selects the block groups feeding an aggregation; the live
// implementation is the blockgroup index.
type GroupSource interface {
	WithinRadius(center orb.Point, radiusMiles float64) []*blockgroup.BlockGroup
}

// Fetcher resolves ring demographics for a center coordinate. Lookup order:
// project snapshot (when a project is given), redis hot cache, fresh
// aggregation. A fresh result is written back to the project snapshot
// asynchronously; that write failing is logged, never surfaced (spec: the
// caller already has the data).
type Fetcher struct {
	snapshots SnapshotStore
	rc        *redis.Client
	source    GroupSource
	radii     []float64
	ttl       time.Duration
}

// New wires a fetcher. rc may be nil to disable the redis layer. radii must
// be sorted ascending; an empty list falls back to the standard 1/3/5 set.
func New(snapshots SnapshotStore, rc *redis.Client, source GroupSource, radiiMiles []float64, ttlSeconds int) *Fetcher {
	if ttlSeconds <= 0 {
		ttlSeconds = 3600
	}
	if len(radiiMiles) == 0 {
		radiiMiles = []float64{1, 3, 5}
	}
	return &Fetcher{
		snapshots: snapshots,
		rc:        rc,
		source:    source,
		radii:     radiiMiles,
		ttl:       time.Duration(ttlSeconds) * time.Second,
	}
}

// Fetch implements the cache-then-aggregate flow. projectID 0 means no
// project context; refresh bypasses both cache levels.
func (f *Fetcher) Fetch(ctx context.Context, center orb.Point, projectID int64, refresh bool) (*Response, error) {
	t0 := time.Now()
	metrics.DemographicsRequestsTotal.Inc()
	defer func() {
		metrics.DemographicsDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}()

	if projectID > 0 && !refresh {
		snap, ok, err := f.snapshots.GetDemographicsSnapshot(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if ok {
			metrics.SnapshotHitsTotal.Inc()
			snap.Cached = true
			snap.Source = "snapshot"
			return snap, nil
		}
		metrics.SnapshotMissesTotal.Inc()
	}

	key := cacheKey(center)
	if f.rc != nil && !refresh {
		if s, _ := f.rc.Get(ctx, key).Result(); s != "" {
			var resp Response
			if err := json.Unmarshal([]byte(s), &resp); err == nil {
				metrics.RedisHitsTotal.Inc()
				resp.Cached = true
				resp.Source = "redis"
				f.persistAsync(projectID, &resp)
				return &resp, nil
			}
		}
		metrics.RedisMissesTotal.Inc()
	}

	resp := &Response{
		CenterLng: center[0],
		CenterLat: center[1],
		FetchedAt: time.Now().UTC(),
	}
	maxRadius := f.radii[len(f.radii)-1]
	groups := f.source.WithinRadius(center, maxRadius)
	resp.Rings = Aggregate(groups, center, f.radii)
	logger.L().Debug("demographics_fresh",
		"lng", center[0], "lat", center[1],
		"groups", len(groups), "rings", len(resp.Rings))

	if f.rc != nil {
		if b, err := json.Marshal(resp); err == nil {
			_ = f.rc.Set(ctx, key, string(b), f.ttl).Err()
		}
	}
	f.persistAsync(projectID, resp)
	return resp, nil
}

// persistAsync saves the response as the project snapshot without blocking
// or failing the request.
func (f *Fetcher) persistAsync(projectID int64, resp *Response) {
	if projectID <= 0 {
		return
	}
	saved := *resp
	saved.Cached = false
	saved.Source = ""
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := f.snapshots.SaveDemographicsSnapshot(ctx, projectID, &saved); err != nil {
			logger.L().Error("snapshot_save_error", "project_id", projectID, "err", err)
			return
		}
		logger.L().Debug("snapshot_saved", "project_id", projectID)
	}()
}

// Keys round to 3 decimal places (~100m) so nearby refetches share entries.
func cacheKey(center orb.Point) string {
	return fmt.Sprintf("demo:%.3f:%.3f", center[0], center[1])
}

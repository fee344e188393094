// Package config reads service configuration from the environment, with an
// optional landscape.yaml for the pieces that are awkward as flat env vars
// (ring radii, map-point categories).
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Greggwolin/landscape-sub008/internal/logger"
)

// Defaults used when no landscape.yaml is present. The 1/3/5 mile rings are
// the standard market-study radii.
var defaultRadii = []float64{1, 3, 5}

var defaultCategories = []string{"competitor", "amenity", "poi", "custom"}

// Config carries the file-backed settings. Env-only settings (DSNs, ports,
// rate limits) are read where they are used, same as the rest of the service.
type Config struct {
	// RingRadiiMiles is the ordered list of ring radii, smallest first.
	RingRadiiMiles []float64 `yaml:"ring_radii_miles"`

	// RingSegments is the vertex count of each ring polygon (default 64).
	RingSegments int `yaml:"ring_segments"`

	// MapPointCategories are the accepted user map-point categories.
	MapPointCategories []string `yaml:"map_point_categories"`

	// SnapshotTTLSeconds bounds the redis-layer demographics cache.
	SnapshotTTLSeconds int `yaml:"snapshot_ttl_seconds"`
}

// Load reads landscape.yaml from path when it exists, falling back to
// defaults for anything unset. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		path = "landscape.yaml"
	}
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
		logger.L().Info("config_file_loaded", "path", path)
	}
	if len(cfg.RingRadiiMiles) == 0 {
		cfg.RingRadiiMiles = defaultRadii
	}
	if cfg.RingSegments <= 0 {
		cfg.RingSegments = 64
	}
	if len(cfg.MapPointCategories) == 0 {
		cfg.MapPointCategories = defaultCategories
	}
	if cfg.SnapshotTTLSeconds <= 0 {
		cfg.SnapshotTTLSeconds = 3600
	}
	return cfg, nil
}

// PostgresDSN assembles a connection string from PG_* env vars with local
// defaults, matching the docker-compose development setup.
func PostgresDSN() string {
	host := envOr("PG_HOST", "localhost")
	port := envOr("PG_PORT", "5432")
	user := envOr("PG_USER", "postgres")
	pass := os.Getenv("PG_PASSWORD")
	db := envOr("PG_DB", "landscape")
	ssl := envOr("PG_SSLMODE", "disable")
	dsn := "postgres://" + user
	if pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + host + ":" + port + "/" + db + "?sslmode=" + ssl
	return dsn
}

// PoolLimits returns max open/idle connections from env, defaulting to 50/25.
func PoolLimits() (int, int) {
	maxOpen := 50
	maxIdle := 25
	if v := os.Getenv("PG_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxOpen = n
		}
	}
	if v := os.Getenv("PG_MAX_IDLE_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxIdle = n
		}
	}
	return maxOpen, maxIdle
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

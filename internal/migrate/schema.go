// Package migrate creates the landscape schema on boot. IF NOT EXISTS
// everywhere so a restart against an existing database is a no-op.
package migrate

import (
	"database/sql"

	"github.com/Greggwolin/landscape-sub008/internal/logger"
)

func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS landscape`,
		`CREATE TABLE IF NOT EXISTS landscape.projects (
            project_id  BIGSERIAL PRIMARY KEY,
            name        TEXT NOT NULL,
            status      TEXT NOT NULL DEFAULT 'active',
            center_lng  DOUBLE PRECISION,
            center_lat  DOUBLE PRECISION,
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS landscape.containers (
            container_id   BIGSERIAL PRIMARY KEY,
            project_id     BIGINT NOT NULL REFERENCES landscape.projects(project_id),
            parent_id      BIGINT REFERENCES landscape.containers(container_id),
            container_type TEXT NOT NULL CHECK (container_type IN ('area','phase','parcel','subparcel')),
            name           TEXT NOT NULL,
            sort_order     INT NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_containers_project ON landscape.containers(project_id)`,
		`CREATE TABLE IF NOT EXISTS landscape.budget_items (
            item_id      BIGSERIAL PRIMARY KEY,
            project_id   BIGINT NOT NULL REFERENCES landscape.projects(project_id),
            container_id BIGINT REFERENCES landscape.containers(container_id),
            category     TEXT NOT NULL,
            description  TEXT NOT NULL DEFAULT '',
            budgeted     NUMERIC(14,2) NOT NULL DEFAULT 0,
            committed    NUMERIC(14,2) NOT NULL DEFAULT 0,
            actual       NUMERIC(14,2) NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_budget_project ON landscape.budget_items(project_id)`,
		`CREATE TABLE IF NOT EXISTS landscape.acquisition_events (
            event_id     BIGSERIAL PRIMARY KEY,
            project_id   BIGINT NOT NULL REFERENCES landscape.projects(project_id),
            container_id BIGINT REFERENCES landscape.containers(container_id),
            event_date   DATE NOT NULL,
            event_type   TEXT NOT NULL,
            amount       NUMERIC(14,2) NOT NULL DEFAULT 0,
            counterparty TEXT NOT NULL DEFAULT '',
            notes        TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE INDEX IF NOT EXISTS idx_acq_project_date ON landscape.acquisition_events(project_id, event_date)`,
		`CREATE TABLE IF NOT EXISTS landscape.documents (
            doc_id      UUID PRIMARY KEY,
            project_id  BIGINT NOT NULL REFERENCES landscape.projects(project_id),
            name        TEXT NOT NULL,
            mime_type   TEXT NOT NULL DEFAULT '',
            size_bytes  BIGINT NOT NULL DEFAULT 0,
            storage_uri TEXT NOT NULL DEFAULT '',
            status      TEXT NOT NULL DEFAULT 'uploaded' CHECK (status IN ('uploaded','extracted','reconciled')),
            uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS landscape.unit_types (
            unit_type_id BIGSERIAL PRIMARY KEY,
            project_id   BIGINT NOT NULL REFERENCES landscape.projects(project_id),
            code         TEXT NOT NULL,
            name         TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_unit_type_code ON landscape.unit_types(project_id, code)`,
		`CREATE TABLE IF NOT EXISTS landscape.leases (
            lease_id     BIGSERIAL PRIMARY KEY,
            project_id   BIGINT NOT NULL REFERENCES landscape.projects(project_id),
            unit_label   TEXT NOT NULL,
            tenant       TEXT NOT NULL DEFAULT '',
            lease_start  DATE,
            lease_end    DATE,
            monthly_rent NUMERIC(12,2) NOT NULL DEFAULT 0
        )`,
		`CREATE INDEX IF NOT EXISTS idx_leases_project_end ON landscape.leases(project_id, lease_end)`,
		`CREATE TABLE IF NOT EXISTS landscape.map_points (
            point_id   UUID PRIMARY KEY,
            project_id BIGINT NOT NULL REFERENCES landscape.projects(project_id),
            label      TEXT NOT NULL,
            category   TEXT NOT NULL DEFAULT 'custom',
            lng        DOUBLE PRECISION NOT NULL,
            lat        DOUBLE PRECISION NOT NULL,
            notes      TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS landscape.block_groups (
            geoid             TEXT PRIMARY KEY,
            state_fp          TEXT NOT NULL DEFAULT '',
            county_fp         TEXT NOT NULL DEFAULT '',
            tract_ce          TEXT NOT NULL DEFAULT '',
            centroid_lng      DOUBLE PRECISION NOT NULL,
            centroid_lat      DOUBLE PRECISION NOT NULL,
            land_area_sqmi    DOUBLE PRECISION NOT NULL DEFAULT 0,
            population        BIGINT NOT NULL DEFAULT 0,
            households        BIGINT NOT NULL DEFAULT 0,
            median_hh_income  DOUBLE PRECISION NOT NULL DEFAULT 0,
            median_age        DOUBLE PRECISION NOT NULL DEFAULT 0,
            median_home_value DOUBLE PRECISION NOT NULL DEFAULT 0,
            median_gross_rent DOUBLE PRECISION NOT NULL DEFAULT 0,
            owner_occupied    BIGINT NOT NULL DEFAULT 0,
            occupied_units    BIGINT NOT NULL DEFAULT 0,
            geom_geojson      JSONB NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS landscape.demographics_snapshots (
            project_id BIGINT PRIMARY KEY REFERENCES landscape.projects(project_id),
            center_lng DOUBLE PRECISION NOT NULL,
            center_lat DOUBLE PRECISION NOT NULL,
            payload    JSONB NOT NULL,
            fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS landscape.query_stats_total (
            id             INT PRIMARY KEY,
            total_queries  BIGINT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS landscape.query_stats_daily (
            day     DATE PRIMARY KEY,
            queries BIGINT NOT NULL DEFAULT 0
        )`,
		`INSERT INTO landscape.query_stats_total(id, total_queries)
         VALUES(1, 0)
         ON CONFLICT (id) DO NOTHING`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}

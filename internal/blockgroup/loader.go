package blockgroup

import (
	"context"
	"database/sql"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Greggwolin/landscape-sub008/internal/logger"
)

// Load reads the block-group table into a snapshot. Geometry is stored as
// GeoJSON text by the ingest tool; rows with unparseable geometry are skipped
// and logged rather than failing the whole load.
func Load(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	rows, err := db.QueryContext(ctx, `
        SELECT geoid, state_fp, county_fp, tract_ce,
               centroid_lng, centroid_lat, land_area_sqmi,
               population, households,
               median_hh_income, median_age, median_home_value, median_gross_rent,
               owner_occupied, occupied_units,
               geom_geojson
        FROM landscape.block_groups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snap := &Snapshot{BuiltAt: time.Now()}
	skipped := 0
	for rows.Next() {
		var g BlockGroup
		var lng, lat float64
		var geomJSON []byte
		if err := rows.Scan(&g.GEOID, &g.State, &g.County, &g.Tract,
			&lng, &lat, &g.LandAreaSqMi,
			&g.Population, &g.Households,
			&g.MedianHHIncome, &g.MedianAge, &g.MedianHomeValue, &g.MedianGrossRent,
			&g.OwnerOccupied, &g.OccupiedUnits,
			&geomJSON); err != nil {
			return nil, err
		}
		g.Centroid = orb.Point{lng, lat}
		geom, err := geojson.UnmarshalGeometry(geomJSON)
		if err != nil {
			skipped++
			logger.L().Warn("blockgroup_geom_skip", "geoid", g.GEOID, "err", err)
			continue
		}
		switch v := geom.Geometry().(type) {
		case orb.Polygon:
			g.Geometry = orb.MultiPolygon{v}
		case orb.MultiPolygon:
			g.Geometry = v
		default:
			skipped++
			logger.L().Warn("blockgroup_geom_skip", "geoid", g.GEOID, "type", geom.Type)
			continue
		}
		g.bound = g.Geometry.Bound()
		snap.Groups = append(snap.Groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Info("blockgroup_load_done", "groups", len(snap.Groups), "skipped", skipped)
	return snap, nil
}

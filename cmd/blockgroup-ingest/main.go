// blockgroup-ingest loads TIGER/Line block-group shapefiles into the
// landscape.block_groups table, optionally merging ACS demographic values
// from a CSV keyed by GEOID. Re-running upserts, so refreshed vintages can be
// loaded in place.
//
// Usage:
//
//	blockgroup-ingest -shp data/tiger/tl_2023_04_bg.shp [-csv data/acs/acs_bg.csv]
package main

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	shp "github.com/jonas-p/go-shp"
	_ "github.com/lib/pq"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/Greggwolin/landscape-sub008/internal/config"
	"github.com/Greggwolin/landscape-sub008/internal/logger"
	"github.com/Greggwolin/landscape-sub008/internal/migrate"
)

const sqMetersPerSqMile = 2589988.110336

// acsRow carries the demographic columns merged from the ACS CSV.
type acsRow struct {
	Population      int64
	Households      int64
	MedianHHIncome  float64
	MedianAge       float64
	MedianHomeValue float64
	MedianGrossRent float64
	OwnerOccupied   int64
	OccupiedUnits   int64
}

func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()

	shpPath := flag.String("shp", "", "TIGER block-group shapefile (.shp)")
	csvPath := flag.String("csv", "", "optional ACS demographics CSV keyed by geoid")
	flag.Parse()
	if *shpPath == "" {
		fmt.Fprintln(os.Stderr, "usage: blockgroup-ingest -shp <file.shp> [-csv <file.csv>]")
		os.Exit(2)
	}

	db, err := sql.Open("postgres", config.PostgresDSN())
	if err != nil {
		l.Error("db_open_error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := migrate.EnsureSchema(db); err != nil {
		l.Error("schema_error", "err", err)
		os.Exit(1)
	}

	acs := map[string]acsRow{}
	if *csvPath != "" {
		acs, err = loadACS(*csvPath)
		if err != nil {
			l.Error("acs_load_error", "path", *csvPath, "err", err)
			os.Exit(1)
		}
		l.Info("acs_loaded", "rows", len(acs))
	}

	n, skipped, err := ingest(db, *shpPath, acs)
	if err != nil {
		l.Error("ingest_error", "err", err)
		os.Exit(1)
	}
	l.Info("ingest_complete", "upserted", n, "skipped", skipped)
}

func ingest(db *sql.DB, path string, acs map[string]acsRow) (int, int, error) {
	r, err := shp.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	fields := r.Fields()
	fieldIdx := map[string]int{}
	for i, f := range fields {
		fieldIdx[f.String()] = i
	}
	for _, required := range []string{"GEOID", "ALAND"} {
		if _, ok := fieldIdx[required]; !ok {
			return 0, 0, fmt.Errorf("shapefile missing %s attribute", required)
		}
	}

	stmt, err := db.Prepare(`INSERT INTO landscape.block_groups(
            geoid, state_fp, county_fp, tract_ce,
            centroid_lng, centroid_lat, land_area_sqmi,
            population, households,
            median_hh_income, median_age, median_home_value, median_gross_rent,
            owner_occupied, occupied_units, geom_geojson)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        ON CONFLICT (geoid) DO UPDATE SET
            state_fp=EXCLUDED.state_fp, county_fp=EXCLUDED.county_fp, tract_ce=EXCLUDED.tract_ce,
            centroid_lng=EXCLUDED.centroid_lng, centroid_lat=EXCLUDED.centroid_lat,
            land_area_sqmi=EXCLUDED.land_area_sqmi,
            population=EXCLUDED.population, households=EXCLUDED.households,
            median_hh_income=EXCLUDED.median_hh_income, median_age=EXCLUDED.median_age,
            median_home_value=EXCLUDED.median_home_value, median_gross_rent=EXCLUDED.median_gross_rent,
            owner_occupied=EXCLUDED.owner_occupied, occupied_units=EXCLUDED.occupied_units,
            geom_geojson=EXCLUDED.geom_geojson`)
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	upserted, skipped := 0, 0
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		geom := toMultiPolygon(poly)
		if len(geom) == 0 {
			skipped++
			continue
		}

		attr := func(name string) string {
			i, ok := fieldIdx[name]
			if !ok {
				return ""
			}
			return r.ReadAttribute(idx, i)
		}
		geoid := attr("GEOID")
		if geoid == "" {
			skipped++
			continue
		}
		landMeters, _ := strconv.ParseFloat(attr("ALAND"), 64)

		centroid, _ := planar.CentroidArea(geom)
		geomJSON, err := json.Marshal(geojson.NewGeometry(geom))
		if err != nil {
			return upserted, skipped, err
		}

		demo := acs[geoid]
		if _, err := stmt.Exec(
			geoid, attr("STATEFP"), attr("COUNTYFP"), attr("TRACTCE"),
			centroid[0], centroid[1], landMeters/sqMetersPerSqMile,
			demo.Population, demo.Households,
			demo.MedianHHIncome, demo.MedianAge, demo.MedianHomeValue, demo.MedianGrossRent,
			demo.OwnerOccupied, demo.OccupiedUnits, geomJSON,
		); err != nil {
			return upserted, skipped, fmt.Errorf("upsert %s: %w", geoid, err)
		}
		upserted++
	}
	return upserted, skipped, nil
}

// toMultiPolygon splits the shapefile's flat point list on part offsets.
// TIGER block groups are single polygons but island parts do occur.
func toMultiPolygon(poly *shp.Polygon) orb.MultiPolygon {
	numParts := len(poly.Parts)
	var out orb.MultiPolygon
	for p := 0; p < numParts; p++ {
		start := poly.Parts[p]
		end := int32(len(poly.Points))
		if p+1 < numParts {
			end = poly.Parts[p+1]
		}
		if end-start < 4 {
			continue
		}
		ring := make(orb.Ring, 0, end-start)
		for i := start; i < end; i++ {
			pt := poly.Points[i]
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		out = append(out, orb.Polygon{ring})
	}
	return out
}

// loadACS reads a CSV with a header row; the geoid column is required and
// the demographic columns are matched by name when present.
func loadACS(path string) (map[string]acsRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[h] = i
	}
	geoidCol, ok := col["geoid"]
	if !ok {
		return nil, fmt.Errorf("csv missing geoid column")
	}

	get := func(rec []string, name string) float64 {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return 0
		}
		v, _ := strconv.ParseFloat(rec[i], 64)
		return v
	}

	out := map[string]acsRow{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		geoid := rec[geoidCol]
		if geoid == "" {
			continue
		}
		out[geoid] = acsRow{
			Population:      int64(get(rec, "population")),
			Households:      int64(get(rec, "households")),
			MedianHHIncome:  get(rec, "median_hh_income"),
			MedianAge:       get(rec, "median_age"),
			MedianHomeValue: get(rec, "median_home_value"),
			MedianGrossRent: get(rec, "median_gross_rent"),
			OwnerOccupied:   int64(get(rec, "owner_occupied")),
			OccupiedUnits:   int64(get(rec, "occupied_units")),
		}
	}
	return out, nil
}

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mmcloughlin/geohash"

	"propalyze-cleaner/metrics"
	"propalyze-cleaner/models"
	"propalyze-cleaner/utils"
)

// ErrDuplicateProperty is returned when a property_id is already stored or
// appears twice in the same load. Loads never overwrite.
var ErrDuplicateProperty = errors.New("duplicate property_id")

const (
	batchSize        = 50
	geohashPrecision = 9
	uniqueViolation  = "23505"
)

// PostgresWriter bulk-loads cleaned properties into PostgreSQL.
type PostgresWriter struct {
	db      *sql.DB
	logger  *utils.Logger
	metrics *metrics.Registry
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter. reg may be nil.
func NewPostgresWriter(dsn string, retry *utils.RetryConfig, logger *utils.Logger, reg *metrics.Registry) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, logger: logger, metrics: reg}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			property_id         TEXT PRIMARY KEY,
			name                TEXT,
			bhk                 INTEGER,
			property_type       TEXT,
			developer           TEXT,
			project             TEXT,
			floor_current       INTEGER,
			floor_total         INTEGER,
			transaction_type    TEXT,
			facing              TEXT,
			furnished_status    TEXT,
			ownership_type      TEXT,
			description         TEXT,
			latitude            DOUBLE PRECISION,
			longitude           DOUBLE PRECISION,
			geohash             VARCHAR(12),
			locality            TEXT,
			region              TEXT,
			property_url        TEXT,
			super_built_up_area DOUBLE PRECISION,
			total_area_sqft     DOUBLE PRECISION,
			carpet_area_sqft    DOUBLE PRECISION,
			price_per_sqft      DOUBLE PRECISION,
			price_in_inr        DOUBLE PRECISION,
			property_yield      DOUBLE PRECISION,
			lifts               INTEGER,
			status              TEXT,
			parking_count       INTEGER,
			parking_type        TEXT,
			raw                 JSONB,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS historical_prices (
			id          SERIAL PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			month       TEXT NOT NULL,
			price       DOUBLE PRECISION
		);

		CREATE TABLE IF NOT EXISTS locality_ratings (
			id               SERIAL PRIMARY KEY,
			property_id      TEXT UNIQUE NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			connectivity     DOUBLE PRECISION,
			safety           DOUBLE PRECISION,
			traffic          DOUBLE PRECISION,
			environment      DOUBLE PRECISION,
			market           DOUBLE PRECISION,
			area_description TEXT
		);

		CREATE TABLE IF NOT EXISTS property_photos (
			id          SERIAL PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			url         TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS locality_photos (
			id          SERIAL PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(property_id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			url         TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_properties_locality ON properties(locality);
		CREATE INDEX IF NOT EXISTS idx_properties_price    ON properties(price_in_inr);
		CREATE INDEX IF NOT EXISTS idx_properties_geohash  ON properties(geohash);
		CREATE INDEX IF NOT EXISTS idx_history_property    ON historical_prices(property_id);
		CREATE INDEX IF NOT EXISTS idx_photos_property     ON property_photos(property_id);
		CREATE INDEX IF NOT EXISTS idx_loc_photos_property ON locality_photos(property_id);
	`)
	return err
}

// Write inserts every property with a resolved property_id, together with
// its history, ratings and photos, in one transaction. Properties without
// an id are skipped. Any duplicate id aborts the whole load.
func (pw *PostgresWriter) Write(properties []*models.Property) error {
	load, skipped, err := partition(properties)
	if err != nil {
		return err
	}
	for _, p := range skipped {
		pw.logger.Warn("[postgres] Skipping property without property_id (name: %s)", derefOr(p.Name, "-"))
	}
	if pw.metrics != nil {
		pw.metrics.Skipped.Add(float64(len(skipped)))
	}
	if len(load) == 0 {
		return nil
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range loadTables {
		rows := make([][]any, 0, len(load))
		for _, p := range load {
			rows = append(rows, table.rows(p)...)
		}
		if err := insertRows(tx, table.name, table.columns, rows); err != nil {
			return classify(table.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit", err)
	}

	if pw.metrics != nil {
		pw.metrics.Inserted.Add(float64(len(load)))
	}
	pw.logger.Info("[postgres] Inserted %d properties (%d skipped)", len(load), len(skipped))
	return nil
}

// partition splits properties into those that can be loaded and those
// without an id. A repeated id is reported before anything touches the
// database.
func partition(properties []*models.Property) (load, skipped []*models.Property, err error) {
	seen := utils.NewURLSet()
	for _, p := range properties {
		if p.PropertyID == nil {
			skipped = append(skipped, p)
			continue
		}
		if !seen.Add(*p.PropertyID) {
			return nil, nil, fmt.Errorf("%w: %q repeated in input", ErrDuplicateProperty, *p.PropertyID)
		}
		load = append(load, p)
	}
	return load, skipped, nil
}

func classify(step string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateProperty, pqErr.Detail)
	}
	return fmt.Errorf("postgres: insert %s: %w", step, err)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// insertRows writes rows in batches of multi-row INSERT statements.
func insertRows(db execer, table string, columns []string, rows [][]any) error {
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		query, args := insertStatement(table, columns, rows[i:end])
		if _, err := db.Exec(query, args...); err != nil {
			return err
		}
	}
	return nil
}

// insertStatement builds a plain multi-row INSERT with numbered
// placeholders. There is deliberately no ON CONFLICT clause.
func insertStatement(table string, columns []string, rows [][]any) (string, []any) {
	valueStrings := make([]string, 0, len(rows))
	valueArgs := make([]any, 0, len(rows)*len(columns))

	placeholders := make([]string, len(columns))
	for idx, row := range rows {
		base := idx * len(columns)
		for c := range columns {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, row...)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(columns, ", "), strings.Join(valueStrings, ","))
	return query, valueArgs
}

type loadTable struct {
	name    string
	columns []string
	rows    func(p *models.Property) [][]any
}

// loadTables lists the tables in insert order; children follow properties.
var loadTables = []loadTable{
	{
		name: "properties",
		columns: []string{
			"property_id", "name", "bhk", "property_type", "developer", "project",
			"floor_current", "floor_total", "transaction_type", "facing",
			"furnished_status", "ownership_type", "description", "latitude", "longitude",
			"geohash", "locality", "region", "property_url", "super_built_up_area",
			"total_area_sqft", "carpet_area_sqft", "price_per_sqft", "price_in_inr",
			"property_yield", "lifts", "status", "parking_count", "parking_type", "raw",
		},
		rows: func(p *models.Property) [][]any {
			raw, err := p.Raw.MarshalJSON()
			if err != nil {
				raw = []byte("null")
			}
			return [][]any{{
				*p.PropertyID, p.Name, p.BHK, p.PropertyType, p.Developer, p.Project,
				p.FloorCurrent, p.FloorTotal, p.TransactionType, p.Facing,
				p.FurnishedStatus, p.OwnershipType, p.Description, p.Latitude, p.Longitude,
				locationHash(p.Latitude, p.Longitude), p.Locality, p.Region, p.PropertyURL, p.SuperBuiltUpArea,
				p.TotalAreaSqft, p.CarpetAreaSqft, p.PricePerSqft, p.PriceInINR,
				p.PropertyYield, p.Lifts, p.Status, p.ParkingCount, p.ParkingType, string(raw),
			}}
		},
	},
	{
		name:    "historical_prices",
		columns: []string{"property_id", "position", "month", "price"},
		rows: func(p *models.Property) [][]any {
			rows := make([][]any, 0, len(p.HistoricalPriceLocality))
			for i, point := range p.HistoricalPriceLocality {
				rows = append(rows, []any{*p.PropertyID, i, point.Month, point.Price})
			}
			return rows
		},
	},
	{
		name: "locality_ratings",
		columns: []string{
			"property_id", "connectivity", "safety", "traffic", "environment", "market", "area_description",
		},
		rows: func(p *models.Property) [][]any {
			r := p.LocalityRatings
			return [][]any{{
				*p.PropertyID, r.Connectivity, r.Safety, r.Traffic, r.Environment, r.Market, r.AreaDescription,
			}}
		},
	},
	{
		name:    "property_photos",
		columns: []string{"property_id", "position", "url"},
		rows: func(p *models.Property) [][]any {
			return photoRows(*p.PropertyID, p.Photos)
		},
	},
	{
		name:    "locality_photos",
		columns: []string{"property_id", "position", "url"},
		rows: func(p *models.Property) [][]any {
			return photoRows(*p.PropertyID, p.LocalityPhotos)
		},
	},
}

func photoRows(id string, urls []string) [][]any {
	rows := make([][]any, 0, len(urls))
	for i, u := range urls {
		rows = append(rows, []any{id, i, u})
	}
	return rows
}

// locationHash returns the geohash cell of a coordinate pair, or nil when
// either side is missing or out of range.
func locationHash(lat, lon *float64) *string {
	if lat == nil || lon == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return nil
	}
	h := geohash.EncodeWithPrecision(*lat, *lon, geohashPrecision)
	return &h
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves the stored properties with their scalar columns; used
// by the insight service.
func (pw *PostgresWriter) FetchAll() ([]*models.Property, error) {
	rows, err := pw.db.Query(`
		SELECT property_id, name, bhk, property_type, locality, region,
		       total_area_sqft, price_per_sqft, price_in_inr, property_yield, status
		FROM properties
		ORDER BY created_at, property_id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p := &models.Property{}
		if err := rows.Scan(
			&p.PropertyID, &p.Name, &p.BHK, &p.PropertyType, &p.Locality, &p.Region,
			&p.TotalAreaSqft, &p.PricePerSqft, &p.PriceInINR, &p.PropertyYield, &p.Status,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

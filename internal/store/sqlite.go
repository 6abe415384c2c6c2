// Package store persists enrichment output: a SQLite database for queryable
// archives and JSON/CSV files for interchange with the research tooling.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chpollin/km/internal/model"
)

// SQLiteStore keeps enriched records in a single-file database, keyed by
// identifier so re-enrichment runs upsert instead of duplicating.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database with WAL enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS records (
	identifier TEXT PRIMARY KEY,
	container TEXT,
	pid TEXT,
	model TEXT,
	title TEXT,
	created_date TEXT,
	description TEXT,
	fulltext TEXT,
	historical_year INTEGER,
	date_source TEXT,
	date_range TEXT,
	object_class TEXT NOT NULL,
	crime_types TEXT,
	locations TEXT,
	persons TEXT,
	extraction_quality REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_year ON records(historical_year);
CREATE INDEX IF NOT EXISTS idx_records_class ON records(object_class);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save upserts the batch in one transaction. List-valued fields are stored
// as JSON text; SQLite has no native arrays and the lists are only ever read
// back whole.
func (s *SQLiteStore) Save(ctx context.Context, records []model.EnrichedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (
	identifier, container, pid, model, title, created_date, description,
	fulltext, historical_year, date_source, date_range, object_class,
	crime_types, locations, persons, extraction_quality
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(identifier) DO UPDATE SET
	container = excluded.container,
	pid = excluded.pid,
	model = excluded.model,
	title = excluded.title,
	created_date = excluded.created_date,
	description = excluded.description,
	fulltext = excluded.fulltext,
	historical_year = excluded.historical_year,
	date_source = excluded.date_source,
	date_range = excluded.date_range,
	object_class = excluded.object_class,
	crime_types = excluded.crime_types,
	locations = excluded.locations,
	persons = excluded.persons,
	extraction_quality = excluded.extraction_quality`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		dateRange, err := marshalList(rec.DateRange)
		if err != nil {
			return err
		}
		crimes, err := marshalList(rec.CrimeTypes)
		if err != nil {
			return err
		}
		locations, err := marshalList(rec.Locations)
		if err != nil {
			return err
		}
		persons, err := marshalList(rec.Persons)
		if err != nil {
			return err
		}

		if _, err := stmt.ExecContext(ctx,
			rec.Identifier, rec.Container, rec.PID, rec.Model, rec.Title,
			rec.CreatedDate, rec.Description, rec.Fulltext,
			rec.HistoricalYear, string(rec.DateSource), dateRange,
			rec.ObjectClass, crimes, locations, persons,
			rec.ExtractionQuality,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", rec.Identifier, err)
		}
	}
	return tx.Commit()
}

// Load reads all records ordered by year (exact and estimated ascending,
// undated last) then identifier.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.EnrichedRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT identifier, container, pid, model, title, created_date, description,
	fulltext, historical_year, date_source, date_range, object_class,
	crime_types, locations, persons, extraction_quality
FROM records
ORDER BY CASE WHEN historical_year = 0 THEN 1 ELSE 0 END, historical_year, identifier`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.EnrichedRecord
	for rows.Next() {
		var rec model.EnrichedRecord
		var source, dateRange, crimes, locations, persons string
		if err := rows.Scan(
			&rec.Identifier, &rec.Container, &rec.PID, &rec.Model, &rec.Title,
			&rec.CreatedDate, &rec.Description, &rec.Fulltext,
			&rec.HistoricalYear, &source, &dateRange, &rec.ObjectClass,
			&crimes, &locations, &persons, &rec.ExtractionQuality,
		); err != nil {
			return nil, err
		}
		rec.DateSource = model.DateSource(source)
		if err := unmarshalList(dateRange, &rec.DateRange); err != nil {
			return nil, err
		}
		if err := unmarshalList(crimes, &rec.CrimeTypes); err != nil {
			return nil, err
		}
		if err := unmarshalList(locations, &rec.Locations); err != nil {
			return nil, err
		}
		if err := unmarshalList(persons, &rec.Persons); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

func marshalList(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalList(raw string, v any) error {
	if raw == "" || raw == "null" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

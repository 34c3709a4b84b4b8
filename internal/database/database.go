package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"listingscraper/internal/vin"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when no row exists for the requested key
var ErrNotFound = errors.New("not found")

// DefaultPinConfidence is stored when a pin does not carry its own confidence
const DefaultPinConfidence = 100

type Database struct {
	db *sql.DB
}

// PinnedVIN is one stored VIN override
type PinnedVIN struct {
	VIN        string         `json:"vin"`
	Enrichment vin.Enrichment `json:"enrichment"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// NewDatabase creates a new database connection
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	database := &Database{db: db}
	if err := database.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initializeSchema() error {
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// PinVIN stores or replaces the attribute set for code. A zero confidence is
// stored as DefaultPinConfidence.
func (d *Database) PinVIN(ctx context.Context, code string, e vin.Enrichment) error {
	return pinWith(ctx, d.db, code, e)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func pinWith(ctx context.Context, db execer, code string, e vin.Enrichment) error {
	if !vin.Validate(code) {
		return fmt.Errorf("pin %q: %w", code, vin.ErrInvalidVIN)
	}
	if e.Confidence == 0 {
		e.Confidence = DefaultPinConfidence
	}
	if e.Confidence < 0 || e.Confidence > 100 {
		return fmt.Errorf("pin %q: confidence %d outside 0-100", code, e.Confidence)
	}

	query := `
		INSERT INTO pinned_vins (vin, year, make, model, trim, engine, transmission, drivetrain,
		                         body_style, fuel_type, cylinders, displacement, market_price,
		                         typical_mileage, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(vin) DO UPDATE SET
			year = excluded.year, make = excluded.make, model = excluded.model,
			trim = excluded.trim, engine = excluded.engine, transmission = excluded.transmission,
			drivetrain = excluded.drivetrain, body_style = excluded.body_style,
			fuel_type = excluded.fuel_type, cylinders = excluded.cylinders,
			displacement = excluded.displacement, market_price = excluded.market_price,
			typical_mileage = excluded.typical_mileage, confidence = excluded.confidence,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := db.ExecContext(ctx, query, strings.ToUpper(code), e.Year, e.Make, e.Model, e.Trim,
		e.Engine, e.Transmission, e.Drivetrain, e.BodyStyle, e.FuelType, e.Cylinders,
		e.Displacement, e.MarketPrice, e.TypicalMileage, e.Confidence)
	if err != nil {
		return fmt.Errorf("failed to pin vin: %w", err)
	}
	return nil
}

const pinnedColumns = `vin, year, make, model, trim, engine, transmission, drivetrain, body_style,
	fuel_type, cylinders, displacement, market_price, typical_mileage, confidence, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanPinned(row scanner) (PinnedVIN, error) {
	var p PinnedVIN
	e := &p.Enrichment
	err := row.Scan(&p.VIN, &e.Year, &e.Make, &e.Model, &e.Trim, &e.Engine, &e.Transmission,
		&e.Drivetrain, &e.BodyStyle, &e.FuelType, &e.Cylinders, &e.Displacement,
		&e.MarketPrice, &e.TypicalMileage, &e.Confidence, &p.UpdatedAt)
	e.Validated = true
	return p, err
}

// LookupVIN returns the pinned attribute set for code, or ErrNotFound
func (d *Database) LookupVIN(ctx context.Context, code string) (vin.Enrichment, error) {
	query := `SELECT ` + pinnedColumns + ` FROM pinned_vins WHERE vin = ?`
	p, err := scanPinned(d.db.QueryRowContext(ctx, query, strings.ToUpper(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return vin.Enrichment{}, fmt.Errorf("vin %s: %w", code, ErrNotFound)
		}
		return vin.Enrichment{}, fmt.Errorf("failed to get pinned vin: %w", err)
	}
	return p.Enrichment, nil
}

// ListPinnedVINs returns every pin, most recently updated first
func (d *Database) ListPinnedVINs(ctx context.Context) ([]PinnedVIN, error) {
	query := `SELECT ` + pinnedColumns + ` FROM pinned_vins ORDER BY updated_at DESC, vin ASC`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pinned vins: %w", err)
	}
	defer rows.Close()

	pins := []PinnedVIN{}
	for rows.Next() {
		p, err := scanPinned(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		pins = append(pins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pinned vins: %w", err)
	}
	return pins, nil
}

// UnpinVIN removes a pin. Removing a missing pin returns ErrNotFound.
func (d *Database) UnpinVIN(ctx context.Context, code string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM pinned_vins WHERE vin = ?`, strings.ToUpper(code))
	if err != nil {
		return fmt.Errorf("failed to unpin vin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to unpin vin: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vin %s: %w", code, ErrNotFound)
	}
	return nil
}

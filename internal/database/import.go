package database

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"listingscraper/internal/vin"
)

// PinFile is the JSON layout accepted by ImportPins
type PinFile struct {
	Pins []struct {
		VIN string `json:"vin"`
		vin.Enrichment
	} `json:"pins"`
}

// ImportPins loads pins from a JSON document. Every entry is validated before
// anything is written; the import is applied in one transaction.
func (d *Database) ImportPins(ctx context.Context, r io.Reader) (int, error) {
	var file PinFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return 0, fmt.Errorf("failed to parse pin file: %w", err)
	}
	for i, p := range file.Pins {
		if !vin.Validate(p.VIN) {
			return 0, fmt.Errorf("pin %d (%q): %w", i, p.VIN, vin.ErrInvalidVIN)
		}
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range file.Pins {
		if err := pinWith(ctx, tx, p.VIN, p.Enrichment); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit pins: %w", err)
	}
	return len(file.Pins), nil
}

// ImportPinsFromFile opens path and imports it
func (d *Database) ImportPinsFromFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open pin file: %w", err)
	}
	defer f.Close()
	return d.ImportPins(ctx, f)
}

package database

import (
	"context"
	"errors"
	"fmt"

	"listingscraper/internal/vin"
)

// Registry decodes VINs from pinned rows first and the fallback decoder
// otherwise. It satisfies vin.Decoder.
type Registry struct {
	db       *Database
	fallback vin.Decoder
}

// NewRegistry layers db over fallback. A nil fallback uses the built-in table.
func NewRegistry(db *Database, fallback vin.Decoder) *Registry {
	if fallback == nil {
		fallback = vin.Default()
	}
	return &Registry{db: db, fallback: fallback}
}

func (r *Registry) Decode(ctx context.Context, code string) (vin.Enrichment, error) {
	base, err := r.fallback.Decode(ctx, code)
	if err != nil || base.Empty() {
		return base, err
	}

	pinned, err := r.db.LookupVIN(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("registry lookup: %w", err)
	}

	out := base.Overlay(pinned)
	out.Confidence = pinned.Confidence
	out.Validated = true
	return out, nil
}

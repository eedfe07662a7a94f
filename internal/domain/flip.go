package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Flip represents a single completed round-trip trade in the domain layer.
// A flip is created exclusively by a parser or the manual-entry path and is
// never mutated afterwards; the only removal path is a full reset of the
// owning collection.
type Flip struct {
	ID        uuid.UUID
	Item      string  // case-sensitive identity key for aggregation
	Qty       int64   // units traded, must be positive
	BuyPrice  float64 // per-unit price paid
	SellPrice float64 // per-unit price received, net of tax
	Ts        time.Time
}

// Validate ensures the flip adheres to domain rules.
// Returns an error if validation fails.
func (f *Flip) Validate() error {
	if f.Item == "" {
		return errors.New("flip item name cannot be empty")
	}

	if f.Qty <= 0 {
		return errors.New("flip quantity must be positive")
	}

	return nil
}

// Profit returns the rounded gross profit of the flip:
// round((sellPrice - buyPrice) * qty).
// This is the single source of truth for profit; the daily and leaderboard
// aggregators both use it, so their grand totals always agree.
// A NaN price (tolerated by the generic importer) yields 0 rather than an
// undefined integer conversion.
func (f *Flip) Profit() int64 {
	gross := (f.SellPrice - f.BuyPrice) * float64(f.Qty)
	if math.IsNaN(gross) || math.IsInf(gross, 0) {
		return 0
	}
	return int64(math.Round(gross))
}

// Cost returns the total buy-side cost of the flip (buyPrice * qty).
func (f *Flip) Cost() float64 {
	return f.BuyPrice * float64(f.Qty)
}

// Day returns the UTC calendar date bucket of the flip in YYYY-MM-DD form.
func (f *Flip) Day() string {
	return f.Ts.UTC().Format("2006-01-02")
}

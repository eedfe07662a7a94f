package parser

import (
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

// ParseDelimited parses the generic paste format: one record per line,
// comma-separated fields item,qty,buyPrice,sellPrice[,ts] with ts in epoch
// milliseconds. A row with a missing required field fails the whole import
// with its 1-based row number; nothing is emitted on failure.
//
// Numeric garbage in a price field becomes NaN and propagates silently;
// it is an accepted leniency, not validated here. An unparseable quantity
// becomes 0 (the model keeps quantities integral, so there is no NaN to
// carry). An unparseable or absent timestamp defaults to the current time.
func ParseDelimited(raw string) ([]domain.Flip, error) {
	lines := splitLines(raw)

	flips := make([]domain.Flip, 0, len(lines))
	for i, line := range lines {
		fields := splitFields(line, ",")

		item := cell(fields, 0)
		qtyRaw := cell(fields, 1)
		buyRaw := cell(fields, 2)
		sellRaw := cell(fields, 3)
		if item == "" || qtyRaw == "" || buyRaw == "" || sellRaw == "" {
			return nil, &RowError{Row: i + 1, Msg: "missing fields"}
		}

		ts := time.Now().UTC()
		if ms, err := strconv.ParseInt(cell(fields, 4), 10, 64); err == nil {
			ts = time.UnixMilli(ms).UTC()
		}

		flips = append(flips, domain.Flip{
			ID:        uuid.New(),
			Item:      item,
			Qty:       int64(parseNumber(qtyRaw)),
			BuyPrice:  parseLenientPrice(buyRaw),
			SellPrice: parseLenientPrice(sellRaw),
			Ts:        ts,
		})
	}

	return flips, nil
}

// parseLenientPrice parses a price field, letting garbage through as NaN.
func parseLenientPrice(s string) float64 {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

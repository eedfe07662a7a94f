package parser

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

// detectSummaryReport recognizes the flip summary export: it must carry a
// literal "first buy time" column and some column containing
// "avg. buy price". This is what distinguishes it from the offer log.
func detectSummaryReport(header []string) bool {
	return indexExact(header, "first buy time") >= 0 &&
		indexContains(header, "avg. buy price") >= 0
}

// summaryColumns holds the resolved column positions of a summary report.
type summaryColumns struct {
	item, bought, sold, avgBuy, avgSell, tax, lastSell int
}

func resolveSummaryColumns(header []string) (summaryColumns, bool) {
	cols := summaryColumns{
		item:     indexExact(header, "item"),
		bought:   indexExact(header, "bought"),
		sold:     indexExact(header, "sold"),
		avgBuy:   indexContains(header, "avg. buy"),
		avgSell:  indexContains(header, "avg. sell"),
		tax:      indexExact(header, "tax"),
		lastSell: indexContains(header, "last sell"),
	}
	ok := cols.item >= 0 && cols.bought >= 0 && cols.sold >= 0 &&
		cols.avgBuy >= 0 && cols.avgSell >= 0 && cols.tax >= 0 && cols.lastSell >= 0
	return cols, ok
}

// parseSummaryReport converts summary rows to flips. Each row already
// represents a completed position, so tax comes from the row's reported
// total rather than the configured rate. Rows missing an item, quantity or
// either average price are expected in partial exports and skipped
// silently.
func parseSummaryReport(header []string, rows [][]string, _ float64) ([]domain.Flip, error) {
	cols, ok := resolveSummaryColumns(header)
	if !ok {
		return nil, fmt.Errorf("%w: summary report header is missing required columns", ErrUnrecognizedFormat)
	}

	flips := make([]domain.Flip, 0, len(rows))
	for _, row := range rows {
		item := cell(row, cols.item)
		sold := parseNumber(cell(row, cols.sold))
		bought := parseNumber(cell(row, cols.bought))

		// Quantity is the matched portion of the position; a one-sided
		// row (only buys or only sells filled) falls back to whichever
		// side is nonzero.
		qty := math.Min(sold, bought)
		if qty == 0 {
			if sold != 0 {
				qty = sold
			} else {
				qty = bought
			}
		}

		avgBuy := parseNumber(cell(row, cols.avgBuy))
		avgSell := parseNumber(cell(row, cols.avgSell))
		totalTax := parseNumber(cell(row, cols.tax))

		ts, ok := parseTimestamp(cell(row, cols.lastSell))
		if !ok {
			ts = time.Now().UTC()
		}

		if item == "" || qty == 0 || avgBuy == 0 || avgSell == 0 {
			continue
		}

		// Tax is spread per unit and may never push the effective sell
		// price below zero.
		perUnitTax := totalTax / qty
		netSell := math.Max(0, avgSell-perUnitTax)

		flips = append(flips, domain.Flip{
			ID:        uuid.New(),
			Item:      item,
			Qty:       int64(qty),
			BuyPrice:  avgBuy,
			SellPrice: netSell,
			Ts:        ts,
		})
	}

	return flips, nil
}

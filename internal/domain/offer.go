package domain

import (
	"strings"
	"time"
)

// OfferType represents the side of a one-sided exchange event
type OfferType string

const (
	OfferTypeBuy  OfferType = "BUY"
	OfferTypeSell OfferType = "SELL"
)

// ParseOfferType normalizes raw offer-type text from an exported log.
// Anything containing "BUY" or "BOUGHT" is a buy; every other value,
// including "SELL" and "SOLD", normalizes to a sell.
func ParseOfferType(raw string) OfferType {
	upper := strings.ToUpper(raw)
	if strings.Contains(upper, "BUY") || strings.Contains(upper, "BOUGHT") {
		return OfferTypeBuy
	}
	return OfferTypeSell
}

// Offer represents a one-sided buy or sell event from an exchange log.
// Offers exist only during one import; matching pairs them into flips.
type Offer struct {
	Ts    time.Time
	Item  string
	Type  OfferType
	Qty   int64
	Price float64 // gross per-unit price, pre-tax
}

// Lot represents an open inventory position awaiting a matching sale.
// Lots are owned exclusively by the matching engine for the duration of one
// parse call and discarded after.
type Lot struct {
	Qty   int64
	Price float64
}

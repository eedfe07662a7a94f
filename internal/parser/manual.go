package parser

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

// ManualEntry is the input for the manual single-flip path.
type ManualEntry struct {
	Item      string
	Qty       int64
	BuyPrice  float64
	SellPrice float64
}

// ParseManual builds exactly one flip from a manual entry, stamped with the
// current time. Only the item name is required; numeric fields are taken
// as given, zero included.
func ParseManual(entry ManualEntry) (domain.Flip, error) {
	item := strings.TrimSpace(entry.Item)
	if item == "" {
		return domain.Flip{}, ErrMissingItem
	}

	return domain.Flip{
		ID:        uuid.New(),
		Item:      item,
		Qty:       entry.Qty,
		BuyPrice:  entry.BuyPrice,
		SellPrice: entry.SellPrice,
		Ts:        time.Now().UTC(),
	}, nil
}

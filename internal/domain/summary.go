package domain

import (
	"github.com/shopspring/decimal"
)

// DailySummary represents the aggregate of one UTC calendar day of flips.
// Summaries form an ordered sequence, most recent date first; each entry's
// NetWorth is a running prefix sum over all strictly-older entries, so the
// sequence is always recomputed as a whole from the flip collection.
type DailySummary struct {
	Date        string // YYYY-MM-DD, UTC
	Flips       int
	Items       int // distinct item names within the day
	Profit      int64
	NetWorth    int64           // cumulative, seeded by the starting balance
	GrowthPct   decimal.Decimal // relative change vs. the previous bucket's net worth
	ProgressPct decimal.Decimal // net worth / target ceiling, unclamped
}

// LeaderboardRow represents the all-time aggregate for one item.
type LeaderboardRow struct {
	Item   string
	Flips  int
	Profit int64
	RoiPct decimal.Decimal // profit / total buy-side cost; 0 when cost is 0
}

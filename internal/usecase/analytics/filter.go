package analytics

import (
	"sort"
	"strings"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

// Leaderboard sort orders.
const (
	SortByProfit = "profit"
	SortByROI    = "roi"
)

// LeaderboardFilter carries the presentation-layer options applied over the
// pure leaderboard aggregate.
type LeaderboardFilter struct {
	WinnersOnly bool
	Search      string // case-insensitive substring match on the item name
	SortBy      string // SortByProfit (default) or SortByROI, descending
}

// ApplyLeaderboardFilter filters and orders leaderboard rows for display.
// The input slice is not modified.
func ApplyLeaderboardFilter(rows []domain.LeaderboardRow, filter LeaderboardFilter) []domain.LeaderboardRow {
	query := strings.ToLower(filter.Search)

	out := make([]domain.LeaderboardRow, 0, len(rows))
	for _, r := range rows {
		if filter.WinnersOnly && r.Profit <= 0 {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Item), query) {
			continue
		}
		out = append(out, r)
	}

	switch filter.SortBy {
	case SortByROI:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RoiPct.GreaterThan(out[j].RoiPct)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Profit > out[j].Profit
		})
	}

	return out
}

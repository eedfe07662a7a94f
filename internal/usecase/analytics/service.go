package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

// Service derives read-only views from a flip collection.
// Every method recomputes from scratch on each call and never mutates its
// input; callers needing caching should memoize keyed by the collection
// identity, not by reaching into this service.
type Service struct {
	StartingBalance int64 // fixed seed for the net-worth prefix sum
	TargetCeiling   int64 // cash ceiling the challenge runs toward
}

// NewService creates a new analytics Service instance.
func NewService(startingBalance, targetCeiling int64) *Service {
	return &Service{
		StartingBalance: startingBalance,
		TargetCeiling:   targetCeiling,
	}
}

// DailySummaries folds an unordered flip collection into per-day summaries,
// ordered most recent date first.
// Logic:
//  1. Group flips by UTC calendar date
//  2. Walk the dates oldest to newest, carrying a running net worth seeded
//     by the starting balance
//  3. Growth for the oldest bucket is relative to the starting balance; for
//     every other bucket, relative to the prior bucket's net worth (a zero
//     prior value yields 0% rather than an undefined ratio)
//  4. Present the result newest first
func (s *Service) DailySummaries(flips []domain.Flip) []domain.DailySummary {
	byDay := make(map[string][]domain.Flip)
	for _, f := range flips {
		key := f.Day()
		byDay[key] = append(byDay[key], f)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	running := s.StartingBalance
	out := make([]domain.DailySummary, 0, len(days))
	for _, day := range days {
		group := byDay[day]

		var profit int64
		items := make(map[string]struct{}, len(group))
		for _, f := range group {
			profit += f.Profit()
			items[f.Item] = struct{}{}
		}

		prev := running
		running += profit

		growth := decimal.Zero
		if prev != 0 {
			growth = decimal.NewFromInt(running - prev).Div(decimal.NewFromInt(prev))
		}

		progress := decimal.Zero
		if s.TargetCeiling != 0 {
			progress = decimal.NewFromInt(running).Div(decimal.NewFromInt(s.TargetCeiling))
		}

		out = append(out, domain.DailySummary{
			Date:        day,
			Flips:       len(group),
			Items:       len(items),
			Profit:      profit,
			NetWorth:    running,
			GrowthPct:   growth,
			ProgressPct: progress,
		})
	}

	// Reverse into newest-first presentation order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// Leaderboard folds all flips into per-item aggregates. Item names are
// case-sensitive identity keys. Rows come back sorted by item name for
// consistent output; winners-only, search and profit/ROI ordering are a
// presentation concern layered on top (see ApplyLeaderboardFilter).
func (s *Service) Leaderboard(flips []domain.Flip) []domain.LeaderboardRow {
	type accum struct {
		profit int64
		cost   float64
		flips  int
	}

	byItem := make(map[string]*accum)
	for _, f := range flips {
		a, ok := byItem[f.Item]
		if !ok {
			a = &accum{}
			byItem[f.Item] = a
		}
		a.profit += f.Profit()
		a.cost += f.Cost()
		a.flips++
	}

	rows := make([]domain.LeaderboardRow, 0, len(byItem))
	for item, a := range byItem {
		rows = append(rows, domain.LeaderboardRow{
			Item:   item,
			Flips:  a.flips,
			Profit: a.profit,
			RoiPct: roiPct(a.profit, a.cost),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Item < rows[j].Item
	})

	return rows
}

// roiPct computes profit / cost. Zero cost means ROI 0, never an undefined
// ratio; a NaN cost (possible via tolerated price garbage) is treated the
// same way.
func roiPct(profit int64, cost float64) decimal.Decimal {
	if cost == 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		return decimal.Zero
	}
	return decimal.NewFromInt(profit).Div(decimal.NewFromFloat(cost))
}

// ProjectionHorizon estimates how many days remain until the target ceiling
// is reached, given the newest-first daily summaries.
// Logic:
//  1. Fewer than two days of history: no estimate
//  2. Average the profit of up to the 3 most recent completed days,
//     excluding the newest (in-progress) day
//  3. A zero or negative average: no estimate
//  4. Otherwise horizon = ceil((targetCeiling - currentNetWorth) / average)
//
// The second return value reports whether an estimate exists.
func (s *Service) ProjectionHorizon(daily []domain.DailySummary) (int64, bool) {
	if len(daily) < 2 {
		return 0, false
	}

	end := len(daily)
	if end > 4 {
		end = 4
	}
	window := daily[1:end]

	var sum int64
	for _, d := range window {
		sum += d.Profit
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(window))))
	if !avg.IsPositive() {
		return 0, false
	}

	remaining := decimal.NewFromInt(s.TargetCeiling - daily[0].NetWorth)
	return remaining.Div(avg).Ceil().IntPart(), true
}

package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryHeader = "Item\tBought\tSold\tAvg. buy price\tAvg. sell price\tTax\tFirst buy time\tLast sell time"

func TestParseRuneLite_SummaryReport(t *testing.T) {
	t.Run("Rows convert with per-unit tax deducted from the sell price", func(t *testing.T) {
		raw := summaryHeader + "\n" +
			"Rune arrow\t5000\t5000\t41\t42\t500\t2024-01-01 10:00:00\t2024-01-02 12:00:00\n"

		flips, err := ParseRuneLite(raw, 0.02)
		require.NoError(t, err)
		require.Len(t, flips, 1)

		f := flips[0]
		assert.Equal(t, "Rune arrow", f.Item)
		assert.Equal(t, int64(5000), f.Qty)
		assert.Equal(t, 41.0, f.BuyPrice)
		// 500 tax over 5000 units = 0.1/unit; the configured rate is
		// ignored for this format.
		assert.InDelta(t, 41.9, f.SellPrice, 1e-9)
		assert.Equal(t, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC), f.Ts)
	})

	t.Run("Quantity is the matched side, falling back on one-sided rows", func(t *testing.T) {
		raw := summaryHeader + "\n" +
			"Cannonball\t4000\t3000\t176\t177\t0\t2024-01-01 10:00:00\t2024-01-01 11:00:00\n" +
			"Soul rune\t0\t2000\t132\t133\t0\t2024-01-01 10:00:00\t2024-01-01 11:00:00\n" +
			"Chaos rune\t6000\t0\t79\t80\t0\t2024-01-01 10:00:00\t2024-01-01 11:00:00\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 3)
		assert.Equal(t, int64(3000), flips[0].Qty) // min(4000, 3000)
		assert.Equal(t, int64(2000), flips[1].Qty) // only sells filled
		assert.Equal(t, int64(6000), flips[2].Qty) // only buys filled
	})

	t.Run("Tax never drives the sell price negative", func(t *testing.T) {
		raw := summaryHeader + "\n" +
			"Zulrah's scales\t10\t10\t110\t5\t1000\t2024-01-01 10:00:00\t2024-01-01 11:00:00\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, 0.0, flips[0].SellPrice)
	})

	t.Run("Incomplete rows are skipped, not errors", func(t *testing.T) {
		raw := summaryHeader + "\n" +
			"\t100\t100\t10\t11\t0\tx\ty\n" + // no item
			"Rune arrow\t0\t0\t10\t11\t0\tx\ty\n" + // no quantity
			"Cannonball\t100\t100\t0\t11\t0\tx\ty\n" + // no avg buy
			"Soul rune\t100\t100\t10\t0\t0\tx\ty\n" + // no avg sell
			"Chaos rune\t100\t100\t79\t80\t0\t2024-01-01 10:00:00\t2024-01-01 11:00:00\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, "Chaos rune", flips[0].Item)
	})

	t.Run("Unparseable last sell time falls back to now", func(t *testing.T) {
		before := time.Now().UTC()
		raw := summaryHeader + "\n" +
			"Rune arrow\t100\t100\t41\t42\t0\twhenever\tlast week\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.False(t, flips[0].Ts.Before(before))
	})

	t.Run("Header lacking an avg. sell column is an unrecognized format", func(t *testing.T) {
		raw := "Item\tBought\tSold\tAvg. buy price\tTax\tFirst buy time\tLast sell time\n" +
			"Rune arrow\t100\t100\t41\t0\tx\ty\n"

		flips, err := ParseRuneLite(raw, 0)
		assert.Nil(t, flips)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnrecognizedFormat)
	})

	t.Run("Comma-delimited summaries are accepted too", func(t *testing.T) {
		raw := "Item,Bought,Sold,Avg. buy price,Avg. sell price,Tax,First buy time,Last sell time\n" +
			"Rune arrow,100,100,41,42,0,2024-01-01 10:00:00,2024-01-01 11:00:00\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		assert.Len(t, flips, 1)
	})
}

func TestParseRuneLite_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "\n\n", "just a header"} {
		_, err := ParseRuneLite(raw, 0.02)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
}

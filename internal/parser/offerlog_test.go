package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

const offerHeader = "Time,Type,Item,Price,Quantity"

func TestParseRuneLite_OfferLog(t *testing.T) {
	t.Run("FIFO matching splits a sell across buy lots in arrival order", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"1000,BUY,X,100,10\n" +
			"2000,BUY,X,200,10\n" +
			"3000,SELL,X,300,15\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 2)

		assert.Equal(t, int64(10), flips[0].Qty)
		assert.Equal(t, 100.0, flips[0].BuyPrice)
		assert.Equal(t, 300.0, flips[0].SellPrice)
		assert.Equal(t, time.UnixMilli(3000).UTC(), flips[0].Ts)

		assert.Equal(t, int64(5), flips[1].Qty)
		assert.Equal(t, 200.0, flips[1].BuyPrice)
		assert.Equal(t, 300.0, flips[1].SellPrice)
	})

	t.Run("Tax rate is applied to every sell", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"1000,BUY,X,90,10\n" +
			"2000,SELL,X,100,10\n"

		flips, err := ParseRuneLite(raw, 0.02)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.InDelta(t, 98.0, flips[0].SellPrice, 1e-9)
	})

	t.Run("Offers are matched in chronological order regardless of file order", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"3000,SELL,X,300,5\n" +
			"1000,BUY,X,100,5\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, 100.0, flips[0].BuyPrice)
	})

	t.Run("Unmatched sell quantity is dropped silently", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"1000,BUY,X,100,5\n" +
			"2000,SELL,X,300,20\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, int64(5), flips[0].Qty)
	})

	t.Run("A sell with no prior buys emits nothing", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"1000,SELL,X,300,20\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		assert.Empty(t, flips)
	})

	t.Run("Queues are independent per item", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"1000,BUY,X,100,10\n" +
			"2000,BUY,Y,50,10\n" +
			"3000,SELL,Y,60,10\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, "Y", flips[0].Item)
		assert.Equal(t, 50.0, flips[0].BuyPrice)
	})

	t.Run("Bought and Sold type text normalizes like buy and sell", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"1000,Bought,X,100,10\n" +
			"2000,Sold,X,120,10\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, int64(200), flips[0].Profit())
	})

	t.Run("Rows without item, quantity or price are discarded before matching", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"1000,BUY,,100,10\n" +
			"2000,BUY,X,0,10\n" +
			"3000,BUY,X,100,0\n" +
			"4000,BUY,X,100,10\n" +
			"5000,SELL,X,200,10\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, 100.0, flips[0].BuyPrice)
	})

	t.Run("Missing required column is an unrecognized format", func(t *testing.T) {
		raw := "Time,Type,Item,Quantity\n" +
			"1000,BUY,X,10\n"

		flips, err := ParseRuneLite(raw, 0)
		assert.Nil(t, flips)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnrecognizedFormat)
	})

	t.Run("Date-string times parse as well as epoch milliseconds", func(t *testing.T) {
		raw := offerHeader + "\n" +
			"2024-01-01 10:00:00,BUY,X,100,5\n" +
			"2024-01-01 11:00:00,SELL,X,120,5\n"

		flips, err := ParseRuneLite(raw, 0)
		require.NoError(t, err)
		require.Len(t, flips, 1)
		assert.Equal(t, time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC), flips[0].Ts)
	})
}

func TestParseManual(t *testing.T) {
	t.Run("Builds exactly one flip stamped with the current time", func(t *testing.T) {
		before := time.Now().UTC()
		flip, err := ParseManual(ManualEntry{Item: "Rune arrow", Qty: 1000, BuyPrice: 10, SellPrice: 10.2})
		require.NoError(t, err)

		assert.Equal(t, "Rune arrow", flip.Item)
		assert.Equal(t, int64(1000), flip.Qty)
		assert.False(t, flip.Ts.Before(before))
		assert.NoError(t, flip.Validate())
	})

	t.Run("Empty item is rejected", func(t *testing.T) {
		_, err := ParseManual(ManualEntry{Item: "   "})
		assert.ErrorIs(t, err, ErrMissingItem)
	})

	t.Run("Zero numeric fields are accepted as-is", func(t *testing.T) {
		flip, err := ParseManual(ManualEntry{Item: "Cannonball"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), flip.Qty)
		assert.Equal(t, domain.Flip{}.BuyPrice, flip.BuyPrice)
	})
}

package csvfile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

func TestFlipRepository(t *testing.T) {
	ctx := context.Background()

	sample := []domain.Flip{
		{
			ID:        uuid.New(),
			Item:      "Rune arrow",
			Qty:       5000,
			BuyPrice:  41,
			SellPrice: 41.9,
			Ts:        time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        uuid.New(),
			Item:      "Cannonball",
			Qty:       4000,
			BuyPrice:  176,
			SellPrice: 176.9,
			Ts:        time.Date(2024, 1, 2, 11, 30, 0, 0, time.UTC),
		},
	}

	t.Run("Appended flips survive a reopen", func(t *testing.T) {
		dir := t.TempDir()

		repo, err := NewFlipRepository(dir)
		require.NoError(t, err)
		require.NoError(t, repo.AppendBatch(ctx, sample))

		reopened, err := NewFlipRepository(dir)
		require.NoError(t, err)

		flips, err := reopened.List(ctx)
		require.NoError(t, err)
		require.Len(t, flips, 2)
		assert.Equal(t, sample[0].ID, flips[0].ID)
		assert.Equal(t, "Rune arrow", flips[0].Item)
		assert.Equal(t, int64(5000), flips[0].Qty)
		assert.Equal(t, 41.9, flips[0].SellPrice)
		assert.True(t, flips[0].Ts.Equal(sample[0].Ts))
	})

	t.Run("Reset empties the store durably", func(t *testing.T) {
		dir := t.TempDir()

		repo, err := NewFlipRepository(dir)
		require.NoError(t, err)
		require.NoError(t, repo.AppendBatch(ctx, sample))
		require.NoError(t, repo.Reset(ctx))

		reopened, err := NewFlipRepository(dir)
		require.NoError(t, err)
		flips, err := reopened.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, flips)
	})

	t.Run("List returns a copy the caller cannot corrupt", func(t *testing.T) {
		repo, err := NewFlipRepository(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, repo.AppendBatch(ctx, sample))

		flips, _ := repo.List(ctx)
		flips[0].Item = "tampered"

		again, _ := repo.List(ctx)
		assert.Equal(t, "Rune arrow", again[0].Item)
	})
}

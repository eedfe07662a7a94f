package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

// flipRepository implements domain.FlipRepository
type flipRepository struct {
	db *DB
}

// NewFlipRepository creates a new flip repository
func NewFlipRepository(db *DB) domain.FlipRepository {
	return &flipRepository{db: db}
}

// AppendBatch inserts all flips inside a single database transaction so a
// failed import never leaves a partial batch behind
func (r *flipRepository) AppendBatch(ctx context.Context, flips []domain.Flip) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertQuery := `
		INSERT INTO flips (id, item, qty, buy_price, sell_price, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, f := range flips {
		_, err = dbTx.ExecContext(ctx, insertQuery,
			f.ID,
			f.Item,
			f.Qty,
			f.BuyPrice,
			f.SellPrice,
			f.Ts.UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert flip: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List retrieves the full flip collection
func (r *flipRepository) List(ctx context.Context) ([]domain.Flip, error) {
	query := `
		SELECT id, item, qty, buy_price, sell_price, ts
		FROM flips
		ORDER BY ts
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query flips: %w", err)
	}
	defer rows.Close()

	var flips []domain.Flip
	for rows.Next() {
		var (
			id uuid.UUID
			f  domain.Flip
			ts time.Time
		)
		if err := rows.Scan(&id, &f.Item, &f.Qty, &f.BuyPrice, &f.SellPrice, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan flip: %w", err)
		}
		f.ID = id
		f.Ts = ts.UTC()
		flips = append(flips, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flips: %w", err)
	}

	return flips, nil
}

// Reset removes every flip in the collection
func (r *flipRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM flips`); err != nil {
		return fmt.Errorf("failed to reset flips: %w", err)
	}
	return nil
}

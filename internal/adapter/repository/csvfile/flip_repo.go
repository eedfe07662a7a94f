// Package csvfile provides a flip repository backed by a single CSV file.
// It keeps an in-memory copy and rewrites the whole file atomically after
// each mutation, which is plenty for a personal flip log and keeps the
// file safe against partial writes.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/fliptrack-backend/internal/domain"
)

const fileName = "flips.csv"

var header = []string{"id", "item", "qty", "buy_price", "sell_price", "ts_ms"}

// flipRepository implements domain.FlipRepository over flips.csv.
type flipRepository struct {
	path string

	mu    sync.RWMutex
	flips []domain.Flip
}

// NewFlipRepository opens (or creates) the flip store under dir.
func NewFlipRepository(dir string) (domain.FlipRepository, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	r := &flipRepository{path: filepath.Join(dir, fileName)}
	if err := r.ensureFile(); err != nil {
		return nil, err
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *flipRepository) ensureFile() error {
	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return atomicWriteCSV(r.path, [][]string{header})
	}
	return nil
}

func (r *flipRepository) load() error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", r.path, err)
	}
	if len(rows) <= 1 {
		return nil
	}

	for _, row := range rows[1:] {
		if len(row) < 6 {
			continue
		}
		id, err := uuid.Parse(row[0])
		if err != nil {
			continue
		}
		qty, _ := strconv.ParseInt(row[2], 10, 64)
		buy, _ := strconv.ParseFloat(row[3], 64)
		sell, _ := strconv.ParseFloat(row[4], 64)
		ms, _ := strconv.ParseInt(row[5], 10, 64)

		r.flips = append(r.flips, domain.Flip{
			ID:        id,
			Item:      row[1],
			Qty:       qty,
			BuyPrice:  buy,
			SellPrice: sell,
			Ts:        time.UnixMilli(ms).UTC(),
		})
	}
	return nil
}

func (r *flipRepository) saveLocked() error {
	rows := make([][]string, 0, len(r.flips)+1)
	rows = append(rows, header)
	for _, f := range r.flips {
		rows = append(rows, []string{
			f.ID.String(),
			f.Item,
			strconv.FormatInt(f.Qty, 10),
			strconv.FormatFloat(f.BuyPrice, 'f', -1, 64),
			strconv.FormatFloat(f.SellPrice, 'f', -1, 64),
			strconv.FormatInt(f.Ts.UnixMilli(), 10),
		})
	}
	return atomicWriteCSV(r.path, rows)
}

// AppendBatch appends the flips and rewrites the file once.
func (r *flipRepository) AppendBatch(_ context.Context, flips []domain.Flip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flips = append(r.flips, flips...)
	return r.saveLocked()
}

// List returns a snapshot copy of the collection.
func (r *flipRepository) List(_ context.Context) ([]domain.Flip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Flip, len(r.flips))
	copy(out, r.flips)
	return out, nil
}

// Reset removes every flip and truncates the file back to its header.
func (r *flipRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flips = nil
	return r.saveLocked()
}

func atomicWriteCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*.csv")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

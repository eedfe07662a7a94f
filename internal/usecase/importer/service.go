package importer

import (
	"context"
	"fmt"

	"github.com/simaogato/fliptrack-backend/internal/domain"
	"github.com/simaogato/fliptrack-backend/internal/parser"
)

// Source identifies which import path handles the raw text.
type Source string

const (
	// SourceDelimited is the generic item,qty,buyPrice,sellPrice[,ts]
	// paste format.
	SourceDelimited Source = "csv"
	// SourceRuneLite is a RuneLite GE export; summary report and offer
	// log shapes are auto-detected from the header.
	SourceRuneLite Source = "runelite"
)

// ErrUnknownSource is returned for an unrecognized Source value.
var ErrUnknownSource = fmt.Errorf("unknown import source")

// Service handles flip ingestion. Imports are atomic per call: the whole
// input is parsed before anything reaches the repository, so a failed
// import never corrupts the accumulated collection.
type Service struct {
	FlipRepo       domain.FlipRepository
	DefaultTaxRate float64 // exchange tax fraction applied to offer-log sells
}

// NewService creates a new importer Service instance.
func NewService(flipRepo domain.FlipRepository, defaultTaxRate float64) *Service {
	return &Service{
		FlipRepo:       flipRepo,
		DefaultTaxRate: defaultTaxRate,
	}
}

// ImportInput is the input for a bulk import.
type ImportInput struct {
	Source Source
	Raw    string
	// TaxPct overrides the configured exchange tax for this import,
	// as a percentage (2 means 2%). Nil keeps the default.
	TaxPct *float64
}

// Import parses raw text from the given source and appends the resulting
// flips to the collection. Returns the appended flips.
func (s *Service) Import(ctx context.Context, input ImportInput) ([]domain.Flip, error) {
	taxRate := s.DefaultTaxRate
	if input.TaxPct != nil {
		taxRate = *input.TaxPct / 100
	}

	var (
		flips []domain.Flip
		err   error
	)
	switch input.Source {
	case SourceDelimited:
		flips, err = parser.ParseDelimited(input.Raw)
	case SourceRuneLite:
		flips, err = parser.ParseRuneLite(input.Raw, taxRate)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, input.Source)
	}
	if err != nil {
		return nil, err
	}

	if len(flips) == 0 {
		return []domain.Flip{}, nil
	}

	if err := s.FlipRepo.AppendBatch(ctx, flips); err != nil {
		return nil, fmt.Errorf("append imported flips: %w", err)
	}

	return flips, nil
}

// AddManual records a single manually entered flip.
func (s *Service) AddManual(ctx context.Context, entry parser.ManualEntry) (domain.Flip, error) {
	flip, err := parser.ParseManual(entry)
	if err != nil {
		return domain.Flip{}, err
	}

	if err := s.FlipRepo.AppendBatch(ctx, []domain.Flip{flip}); err != nil {
		return domain.Flip{}, fmt.Errorf("append manual flip: %w", err)
	}

	return flip, nil
}

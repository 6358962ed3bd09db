package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/example/wealthdesk/internal/ports/secondary"
)

// PositionValuationProvider values the positions assigned to a theme in the base currency.
type PositionValuationProvider struct {
	positionRepo secondary.PositionRepository
	rateRepo     secondary.ExchangeRateRepository
	baseCurrency string
	now          func() time.Time
	log          zerolog.Logger
}

// NewPositionValuationProvider creates a valuation provider over the position and FX repositories.
func NewPositionValuationProvider(
	positionRepo secondary.PositionRepository,
	rateRepo secondary.ExchangeRateRepository,
	baseCurrency string,
	log zerolog.Logger,
) *PositionValuationProvider {
	return &PositionValuationProvider{
		positionRepo: positionRepo,
		rateRepo:     rateRepo,
		baseCurrency: baseCurrency,
		now:          time.Now,
		log:          log.With().Str("service", "valuation").Logger(),
	}
}

// Snapshot values the positions of one theme. Positions without an FX rate are counted as excluded.
func (p *PositionValuationProvider) Snapshot(ctx context.Context, themeID int64) (*secondary.ValuationSnapshot, error) {
	positions, err := p.positionRepo.ListByTheme(ctx, themeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions for theme %d: %w", themeID, err)
	}

	rates := newRateCache(ctx, p.rateRepo, p.baseCurrency, p.now())
	total := decimal.Zero
	snapshot := &secondary.ValuationSnapshot{ThemeID: themeID}

	for _, pos := range positions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rate, ok := rates.Lookup(pos.Currency)
		if rates.err != nil {
			return nil, fmt.Errorf("failed to load exchange rate for %s: %w", pos.Currency, rates.err)
		}
		if !ok {
			snapshot.ExcludedPositions++
			p.log.Warn().
				Int64("theme_id", themeID).
				Str("position", pos.Label).
				Str("currency", pos.Currency).
				Msg("position excluded from valuation: missing exchange rate")
			continue
		}

		value := decimal.NewFromFloat(pos.Quantity).
			Mul(decimal.NewFromFloat(pos.CurrentPrice)).
			Mul(decimal.NewFromFloat(rate))
		total = total.Add(value)
		snapshot.IncludedPositions++
	}

	snapshot.IncludedTotalValueBase = total.InexactFloat64()
	return snapshot, nil
}

// Ensure PositionValuationProvider implements the interface
var _ secondary.ValuationProvider = (*PositionValuationProvider)(nil)

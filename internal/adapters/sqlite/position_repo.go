package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/wealthdesk/internal/ports/secondary"
)

// PositionRepository implements secondary.PositionRepository with SQLite.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new SQLite position repository.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

const positionColumns = "id, label, theme_id, sub_class_name, quantity, current_price, currency"

// ListPositionReports retrieves every position.
func (r *PositionRepository) ListPositionReports(ctx context.Context) ([]*secondary.PositionReportRecord, error) {
	return r.query(ctx, "SELECT "+positionColumns+" FROM positions ORDER BY id")
}

// ListByTheme retrieves the positions assigned to a theme.
func (r *PositionRepository) ListByTheme(ctx context.Context, themeID int64) ([]*secondary.PositionReportRecord, error) {
	return r.query(ctx, "SELECT "+positionColumns+" FROM positions WHERE theme_id = ? ORDER BY id", themeID)
}

func (r *PositionRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.PositionReportRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []*secondary.PositionReportRecord
	for rows.Next() {
		var (
			p       secondary.PositionReportRecord
			themeID sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Label, &themeID, &p.SubClassName, &p.Quantity, &p.CurrentPrice, &p.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		if themeID.Valid {
			p.ThemeID = &themeID.Int64
		}
		positions = append(positions, &p)
	}

	return positions, rows.Err()
}

// ExchangeRateRepository implements secondary.ExchangeRateRepository with SQLite.
type ExchangeRateRepository struct {
	db *sql.DB
}

// NewExchangeRateRepository creates a new SQLite exchange rate repository.
func NewExchangeRateRepository(db *sql.DB) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db}
}

// LatestRate returns the most recent rate on or before upTo.
func (r *ExchangeRateRepository) LatestRate(ctx context.Context, currency string, upTo time.Time) (float64, bool, error) {
	var rate float64
	err := r.db.QueryRowContext(ctx,
		"SELECT rate_to_base FROM exchange_rates WHERE currency_code = ? AND rate_date <= ? ORDER BY rate_date DESC LIMIT 1",
		strings.ToUpper(currency), upTo.Format("2006-01-02"),
	).Scan(&rate)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch exchange rate for %s: %w", currency, err)
	}
	return rate, true, nil
}

// Ensure repositories implement their interfaces
var (
	_ secondary.PositionRepository     = (*PositionRepository)(nil)
	_ secondary.ExchangeRateRepository = (*ExchangeRateRepository)(nil)
)

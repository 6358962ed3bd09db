package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/ports/secondary"
)

// AllocationRepository implements secondary.AllocationRepository with SQLite.
type AllocationRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewAllocationRepository creates a new SQLite allocation repository.
func NewAllocationRepository(db *sql.DB, log zerolog.Logger) *AllocationRepository {
	return &AllocationRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio_targets").Logger(),
	}
}

// ListAssetClasses retrieves all classes in display order.
func (r *AllocationRepository) ListAssetClasses(ctx context.Context) ([]*secondary.AssetClassRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM asset_classes ORDER BY sort_order, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list asset classes: %w", err)
	}
	defer rows.Close()

	var classes []*secondary.AssetClassRecord
	for rows.Next() {
		var c secondary.AssetClassRecord
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan asset class: %w", err)
		}
		classes = append(classes, &c)
	}

	return classes, rows.Err()
}

// ListSubClasses retrieves the sub-classes of one class in display order.
func (r *AllocationRepository) ListSubClasses(ctx context.Context, classID int64) ([]*secondary.SubClassRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, class_id, name FROM asset_sub_classes WHERE class_id = ? ORDER BY sort_order, name",
		classID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-classes: %w", err)
	}
	defer rows.Close()

	var subs []*secondary.SubClassRecord
	for rows.Next() {
		var s secondary.SubClassRecord
		if err := rows.Scan(&s.ID, &s.ClassID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan sub-class: %w", err)
		}
		subs = append(subs, &s)
	}

	return subs, rows.Err()
}

// ListTargets retrieves all target rows of a portfolio.
func (r *AllocationRepository) ListTargets(ctx context.Context, portfolioID int64) ([]*secondary.TargetRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT class_id, sub_class_id, percent, amount_chf FROM portfolio_targets WHERE portfolio_id = ?",
		portfolioID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []*secondary.TargetRecord
	for rows.Next() {
		var (
			classID, subClassID sql.NullInt64
			amount              sql.NullFloat64
			t                   secondary.TargetRecord
		)
		if err := rows.Scan(&classID, &subClassID, &t.Percent, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		if classID.Valid {
			t.ClassID = &classID.Int64
		}
		if subClassID.Valid {
			t.SubClassID = &subClassID.Int64
		}
		if amount.Valid {
			t.AmountChf = &amount.Float64
		}
		targets = append(targets, &t)
	}

	return targets, rows.Err()
}

// UpsertClassTarget writes the target of one class.
func (r *AllocationRepository) UpsertClassTarget(ctx context.Context, portfolioID, classID int64, percent, amountChf float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolio_targets (portfolio_id, class_id, percent, amount_chf, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(portfolio_id, class_id) DO UPDATE SET
			percent = excluded.percent,
			amount_chf = excluded.amount_chf,
			updated_at = excluded.updated_at`,
		portfolioID, classID, percent, amountChf,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert class target: %w", err)
	}

	r.log.Debug().
		Int64("portfolio_id", portfolioID).
		Int64("class_id", classID).
		Float64("percent", percent).
		Float64("amount_chf", amountChf).
		Msg("Class target upserted")

	return nil
}

// UpsertSubClassTarget writes the target of one sub-class.
func (r *AllocationRepository) UpsertSubClassTarget(ctx context.Context, portfolioID, subClassID int64, percent, amountChf float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolio_targets (portfolio_id, sub_class_id, percent, amount_chf, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(portfolio_id, sub_class_id) DO UPDATE SET
			percent = excluded.percent,
			amount_chf = excluded.amount_chf,
			updated_at = excluded.updated_at`,
		portfolioID, subClassID, percent, amountChf,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sub-class target: %w", err)
	}

	r.log.Debug().
		Int64("portfolio_id", portfolioID).
		Int64("sub_class_id", subClassID).
		Float64("percent", percent).
		Float64("amount_chf", amountChf).
		Msg("Sub-class target upserted")

	return nil
}

// Ensure AllocationRepository implements the interface
var _ secondary.AllocationRepository = (*AllocationRepository)(nil)

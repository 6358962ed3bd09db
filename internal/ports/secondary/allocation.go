package secondary

import (
	"context"
	"time"
)

// AllocationRepository defines the secondary port for the asset class hierarchy and targets.
type AllocationRepository interface {
	// ListAssetClasses retrieves all classes in display order.
	ListAssetClasses(ctx context.Context) ([]*AssetClassRecord, error)

	// ListSubClasses retrieves the sub-classes of one class in display order.
	ListSubClasses(ctx context.Context, classID int64) ([]*SubClassRecord, error)

	// ListTargets retrieves all target rows of a portfolio.
	ListTargets(ctx context.Context, portfolioID int64) ([]*TargetRecord, error)

	// UpsertClassTarget writes the target of one class.
	UpsertClassTarget(ctx context.Context, portfolioID, classID int64, percent, amountChf float64) error

	// UpsertSubClassTarget writes the target of one sub-class.
	UpsertSubClassTarget(ctx context.Context, portfolioID, subClassID int64, percent, amountChf float64) error
}

// AssetClassRecord represents an asset class.
type AssetClassRecord struct {
	ID   int64
	Name string
}

// SubClassRecord represents a sub-class of ClassID.
type SubClassRecord struct {
	ID      int64
	ClassID int64
	Name    string
}

// TargetRecord represents one persisted target row.
// Exactly one of ClassID / SubClassID is set; AmountChf is nil when no CHF target was stored.
type TargetRecord struct {
	ClassID    *int64
	SubClassID *int64
	Percent    float64
	AmountChf  *float64
}

// PositionRepository defines the secondary port for position reports.
type PositionRepository interface {
	// ListPositionReports retrieves every position.
	ListPositionReports(ctx context.Context) ([]*PositionReportRecord, error)

	// ListByTheme retrieves the positions assigned to a theme.
	ListByTheme(ctx context.Context, themeID int64) ([]*PositionReportRecord, error)
}

// PositionReportRecord represents one position report row.
type PositionReportRecord struct {
	ID           int64
	Label        string
	ThemeID      *int64
	SubClassName string
	Quantity     float64
	CurrentPrice float64
	Currency     string
}

// ExchangeRateRepository defines the secondary port for FX rates.
type ExchangeRateRepository interface {
	// LatestRate returns the most recent rate on or before upTo converting one unit
	// of currency into the base currency. found is false when no rate exists.
	LatestRate(ctx context.Context, currency string, upTo time.Time) (rate float64, found bool, err error)
}

// ValuationProvider computes per-theme valuations for the checklist overview.
type ValuationProvider interface {
	// Snapshot values the positions of one theme in the base currency.
	Snapshot(ctx context.Context, themeID int64) (*ValuationSnapshot, error)
}

// ValuationSnapshot is the valuation of one theme.
type ValuationSnapshot struct {
	ThemeID                int64
	IncludedTotalValueBase float64
	IncludedPositions      int
	ExcludedPositions      int
}

// AllocationModeStore persists the per-node entry mode outside the portfolio database.
type AllocationModeStore interface {
	// LoadModes returns node id -> mode for every stored preference.
	LoadModes(ctx context.Context) (map[string]string, error)

	// SaveMode stores the mode of one node.
	SaveMode(ctx context.Context, nodeID, mode string) error
}

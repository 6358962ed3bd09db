package primary

import (
	"context"
	"time"

	"github.com/example/wealthdesk/internal/core/schedule"
)

// OverviewService defines the primary port for the cross-theme checklist overview.
type OverviewService interface {
	// Load cancels any in-flight valuation, rebuilds all summaries and starts
	// a new valuation pass in the background. The returned overview has no valuations yet.
	Load(ctx context.Context) (*Overview, error)

	// Current returns a copy of the latest overview including valuations applied so far.
	Current() *Overview

	// Subscribe delivers one update per applied valuation until unsubscribed.
	Subscribe() (<-chan OverviewUpdate, func())

	// WaitValuations blocks until the current valuation pass finishes or ctx ends.
	WaitValuations(ctx context.Context) error

	// Watch reloads the overview on every checklist or theme event until ctx ends.
	Watch(ctx context.Context) error

	// NextReminder returns the next configured reminder time after t.
	NextReminder(t time.Time) (time.Time, error)
}

// Overview is the sorted list of theme summaries for one week.
type Overview struct {
	Generation uint64
	WeekStart  time.Time
	WeekKey    string
	WeekLabel  string
	Summaries  []*WeeklyChecklistSummary
	Counts     schedule.Counts
}

// WeeklyChecklistSummary is the derived checklist state of one theme.
type WeeklyChecklistSummary struct {
	Theme            *Theme
	Category         schedule.Category
	CurrentEntry     *ChecklistEntry
	LastCompleted    *ChecklistEntry
	NextDueWeekStart *time.Time
	CountedValueBase *float64 // nil until valued
}

// OverviewUpdate reports one applied valuation.
type OverviewUpdate struct {
	Generation       uint64
	ThemeID          int64
	CountedValueBase float64
}

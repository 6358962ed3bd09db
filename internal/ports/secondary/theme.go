// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// ThemeRepository defines the secondary port for portfolio theme configuration.
type ThemeRepository interface {
	// List retrieves themes ordered by name.
	List(ctx context.Context, filters ThemeFilters) ([]*ThemeRecord, error)

	// GetByID retrieves a theme by its ID.
	GetByID(ctx context.Context, id int64) (*ThemeRecord, error)

	// SetWeeklyChecklistEnabled toggles the weekly checklist for a theme.
	SetWeeklyChecklistEnabled(ctx context.Context, id int64, enabled bool) error

	// SetWeeklyChecklistHighPriority toggles the overview priority flag.
	SetWeeklyChecklistHighPriority(ctx context.Context, id int64, highPriority bool) error
}

// ThemeRecord represents a portfolio theme as stored in persistence.
type ThemeRecord struct {
	ID                          int64
	Name                        string
	WeeklyChecklistEnabled      bool
	WeeklyChecklistHighPriority bool
	Archived                    bool
	SoftDeleted                 bool
}

// ThemeFilters contains filter options for querying themes.
type ThemeFilters struct {
	IncludeArchived    bool
	IncludeSoftDeleted bool
}

// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI drives the services.
package primary

import "context"

// ThemeService defines the primary port for portfolio theme settings.
type ThemeService interface {
	// ListThemes lists themes, optionally including archived and soft-deleted ones.
	ListThemes(ctx context.Context, includeArchived, includeSoftDeleted bool) ([]*Theme, error)

	// GetTheme retrieves a theme by ID.
	GetTheme(ctx context.Context, themeID int64) (*Theme, error)

	// FindTheme resolves a theme by numeric ID or case-insensitive name.
	FindTheme(ctx context.Context, ref string) (*Theme, error)

	// SetWeeklyChecklistEnabled enables or disables the weekly checklist.
	SetWeeklyChecklistEnabled(ctx context.Context, themeID int64, enabled bool) error

	// SetHighPriority marks a theme as high priority in the overview.
	SetHighPriority(ctx context.Context, themeID int64, highPriority bool) error
}

// Theme represents a portfolio theme.
type Theme struct {
	ID                          int64
	Name                        string
	WeeklyChecklistEnabled      bool
	WeeklyChecklistHighPriority bool
	Archived                    bool
	SoftDeleted                 bool
}

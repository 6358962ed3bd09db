// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/wealthdesk/internal/ports/secondary"
)

// ThemeRepository implements secondary.ThemeRepository with SQLite.
type ThemeRepository struct {
	db *sql.DB
}

// NewThemeRepository creates a new SQLite theme repository.
func NewThemeRepository(db *sql.DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

const themeColumns = `id, name, weekly_checklist_enabled, weekly_checklist_high_priority,
	archived_at IS NOT NULL, soft_deleted_at IS NOT NULL`

// List retrieves themes ordered by name.
func (r *ThemeRepository) List(ctx context.Context, filters secondary.ThemeFilters) ([]*secondary.ThemeRecord, error) {
	query := "SELECT " + themeColumns + " FROM portfolio_themes"
	var where []string
	if !filters.IncludeArchived {
		where = append(where, "archived_at IS NULL")
	}
	if !filters.IncludeSoftDeleted {
		where = append(where, "soft_deleted_at IS NULL")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name COLLATE NOCASE"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	defer rows.Close()

	var themes []*secondary.ThemeRecord
	for rows.Next() {
		theme, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, theme)
	}

	return themes, rows.Err()
}

// GetByID retrieves a theme by its ID.
func (r *ThemeRepository) GetByID(ctx context.Context, id int64) (*secondary.ThemeRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+themeColumns+" FROM portfolio_themes WHERE id = ?", id)
	theme, err := scanTheme(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("theme %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get theme: %w", err)
	}
	return theme, nil
}

// SetWeeklyChecklistEnabled toggles the weekly checklist for a theme.
func (r *ThemeRepository) SetWeeklyChecklistEnabled(ctx context.Context, id int64, enabled bool) error {
	return r.setFlag(ctx, id, "weekly_checklist_enabled", enabled)
}

// SetWeeklyChecklistHighPriority toggles the overview priority flag.
func (r *ThemeRepository) SetWeeklyChecklistHighPriority(ctx context.Context, id int64, highPriority bool) error {
	return r.setFlag(ctx, id, "weekly_checklist_high_priority", highPriority)
}

func (r *ThemeRepository) setFlag(ctx context.Context, id int64, column string, value bool) error {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE portfolio_themes SET %s = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", column),
		value, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("theme %d not found", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTheme(row rowScanner) (*secondary.ThemeRecord, error) {
	var t secondary.ThemeRecord
	if err := row.Scan(&t.ID, &t.Name, &t.WeeklyChecklistEnabled, &t.WeeklyChecklistHighPriority, &t.Archived, &t.SoftDeleted); err != nil {
		return nil, err
	}
	return &t, nil
}

// Ensure ThemeRepository implements the interface
var _ secondary.ThemeRepository = (*ThemeRepository)(nil)

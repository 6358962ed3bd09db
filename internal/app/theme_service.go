package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/events"
	"github.com/example/wealthdesk/internal/ports/primary"
	"github.com/example/wealthdesk/internal/ports/secondary"
)

// ThemeServiceImpl implements the ThemeService interface.
type ThemeServiceImpl struct {
	themeRepo secondary.ThemeRepository
	bus       *events.Bus
	log       zerolog.Logger
}

// NewThemeService creates a new ThemeService with injected dependencies.
func NewThemeService(themeRepo secondary.ThemeRepository, bus *events.Bus, log zerolog.Logger) *ThemeServiceImpl {
	return &ThemeServiceImpl{
		themeRepo: themeRepo,
		bus:       bus,
		log:       log.With().Str("service", "themes").Logger(),
	}
}

// ListThemes lists themes, optionally including archived and soft-deleted ones.
func (s *ThemeServiceImpl) ListThemes(ctx context.Context, includeArchived, includeSoftDeleted bool) ([]*primary.Theme, error) {
	records, err := s.themeRepo.List(ctx, secondary.ThemeFilters{
		IncludeArchived:    includeArchived,
		IncludeSoftDeleted: includeSoftDeleted,
	})
	if err != nil {
		return nil, err
	}

	themes := make([]*primary.Theme, len(records))
	for i, r := range records {
		themes[i] = recordToTheme(r)
	}
	return themes, nil
}

// GetTheme retrieves a theme by ID.
func (s *ThemeServiceImpl) GetTheme(ctx context.Context, themeID int64) (*primary.Theme, error) {
	record, err := s.themeRepo.GetByID(ctx, themeID)
	if err != nil {
		return nil, err
	}
	return recordToTheme(record), nil
}

// FindTheme resolves a theme by numeric ID or case-insensitive name.
func (s *ThemeServiceImpl) FindTheme(ctx context.Context, ref string) (*primary.Theme, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.GetTheme(ctx, id)
	}

	themes, err := s.ListThemes(ctx, true, false)
	if err != nil {
		return nil, err
	}
	for _, t := range themes {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("theme %q not found", ref)
}

// SetWeeklyChecklistEnabled enables or disables the weekly checklist.
func (s *ThemeServiceImpl) SetWeeklyChecklistEnabled(ctx context.Context, themeID int64, enabled bool) error {
	if err := s.themeRepo.SetWeeklyChecklistEnabled(ctx, themeID, enabled); err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	return s.publishSettings(ctx, themeID)
}

// SetHighPriority marks a theme as high priority in the overview.
func (s *ThemeServiceImpl) SetHighPriority(ctx context.Context, themeID int64, highPriority bool) error {
	if err := s.themeRepo.SetWeeklyChecklistHighPriority(ctx, themeID, highPriority); err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	return s.publishSettings(ctx, themeID)
}

func (s *ThemeServiceImpl) publishSettings(ctx context.Context, themeID int64) error {
	record, err := s.themeRepo.GetByID(ctx, themeID)
	if err != nil {
		return fmt.Errorf("failed to reload theme: %w", err)
	}
	s.bus.Publish("themes", &events.ThemeSettingsChangedData{
		ThemeID:      record.ID,
		Enabled:      record.WeeklyChecklistEnabled,
		HighPriority: record.WeeklyChecklistHighPriority,
	})
	return nil
}

func recordToTheme(r *secondary.ThemeRecord) *primary.Theme {
	return &primary.Theme{
		ID:                          r.ID,
		Name:                        r.Name,
		WeeklyChecklistEnabled:      r.WeeklyChecklistEnabled,
		WeeklyChecklistHighPriority: r.WeeklyChecklistHighPriority,
		Archived:                    r.Archived,
		SoftDeleted:                 r.SoftDeleted,
	}
}

// Ensure ThemeServiceImpl implements the interface
var _ primary.ThemeService = (*ThemeServiceImpl)(nil)

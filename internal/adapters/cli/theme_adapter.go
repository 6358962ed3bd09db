package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/wealthdesk/internal/ports/primary"
)

// ThemeAdapter translates CLI operations to ThemeService calls.
type ThemeAdapter struct {
	service primary.ThemeService
	out     io.Writer
}

// NewThemeAdapter creates a new ThemeAdapter with the given service.
func NewThemeAdapter(service primary.ThemeService, out io.Writer) *ThemeAdapter {
	return &ThemeAdapter{
		service: service,
		out:     out,
	}
}

// List lists themes with their checklist flags.
func (a *ThemeAdapter) List(ctx context.Context, includeArchived bool) error {
	themes, err := a.service.ListThemes(ctx, includeArchived, false)
	if err != nil {
		return fmt.Errorf("failed to list themes: %w", err)
	}

	if len(themes) == 0 {
		fmt.Fprintln(a.out, "No themes found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-5s %-28s %-10s %-9s %s\n", "ID", "NAME", "CHECKLIST", "PRIORITY", "STATE")
	fmt.Fprintln(a.out, rule)
	for _, t := range themes {
		checklistFlag := "off"
		if t.WeeklyChecklistEnabled {
			checklistFlag = "on"
		}
		priority := ""
		if t.WeeklyChecklistHighPriority {
			priority = "high"
		}
		state := "active"
		if t.Archived {
			state = "archived"
		}
		fmt.Fprintf(a.out, "%-5d %-28s %-10s %-9s %s\n", t.ID, t.Name, checklistFlag, priority, state)
	}
	fmt.Fprintln(a.out)

	return nil
}

// SetEnabled enables or disables the weekly checklist of a theme.
func (a *ThemeAdapter) SetEnabled(ctx context.Context, ref string, enabled bool) error {
	theme, err := a.service.FindTheme(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.service.SetWeeklyChecklistEnabled(ctx, theme.ID, enabled); err != nil {
		return err
	}

	verb := "disabled"
	if enabled {
		verb = "enabled"
	}
	fmt.Fprintf(a.out, "✓ Weekly checklist %s for %s\n", verb, theme.Name)
	return nil
}

// SetPriority toggles the high-priority flag of a theme.
func (a *ThemeAdapter) SetPriority(ctx context.Context, ref string, high bool) error {
	theme, err := a.service.FindTheme(ctx, ref)
	if err != nil {
		return err
	}
	if err := a.service.SetHighPriority(ctx, theme.ID, high); err != nil {
		return err
	}

	if high {
		fmt.Fprintf(a.out, "✓ %s marked high priority\n", theme.Name)
	} else {
		fmt.Fprintf(a.out, "✓ %s priority cleared\n", theme.Name)
	}
	return nil
}

// Package schedule contains the pure business logic for the weekly checklist overview.
// All inputs are pre-fetched by the caller - no I/O in the planner.
package schedule

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/core/week"
)

// Category classifies a theme for sorting and counting in the overview.
type Category string

const (
	CategoryDue       Category = "due"
	CategorySkipped   Category = "skipped"
	CategoryCompleted Category = "completed"
	CategoryDisabled  Category = "disabled"
)

// Rank orders categories due-first.
func (c Category) Rank() int {
	switch c {
	case CategoryDue:
		return 0
	case CategorySkipped:
		return 1
	case CategoryCompleted:
		return 2
	default:
		return 3
	}
}

// Categorize derives the overview category.
// Rules:
// - disabled themes are "disabled" regardless of entries
// - no entry or a draft entry is "due"
// - otherwise the category mirrors the entry status
func Categorize(enabled bool, current *checklist.Status) Category {
	if !enabled {
		return CategoryDisabled
	}
	if current == nil {
		return CategoryDue
	}
	switch *current {
	case checklist.StatusCompleted:
		return CategoryCompleted
	case checklist.StatusSkipped:
		return CategorySkipped
	default:
		return CategoryDue
	}
}

// NextDue returns the start of the week in which the next review is due.
// Returns nil for disabled themes.
func NextDue(enabled bool, current *checklist.Status, now time.Time, cal week.Calendar) *time.Time {
	if !enabled {
		return nil
	}
	due := cal.WeekStart(now)
	if current != nil && (*current == checklist.StatusCompleted || *current == checklist.StatusSkipped) {
		due = cal.Next(now)
	}
	return &due
}

// SortKey holds the fields the overview is ordered by.
type SortKey struct {
	Category     Category
	HighPriority bool
	Name         string
}

// Compare orders by category rank, then high priority first, then
// case-insensitive name.
func Compare(a, b SortKey) int {
	if c := cmp.Compare(a.Category.Rank(), b.Category.Rank()); c != 0 {
		return c
	}
	if a.HighPriority != b.HighPriority {
		if a.HighPriority {
			return -1
		}
		return 1
	}
	return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// Sort orders items in place using Compare on the extracted keys.
func Sort[T any](items []T, key func(T) SortKey) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(key(a), key(b))
	})
}

// Counts aggregates categories across themes. Disabled themes only count as disabled.
type Counts struct {
	Due       int
	Skipped   int
	Completed int
	Disabled  int
}

// Count tallies categories.
func Count(categories []Category) Counts {
	var c Counts
	for _, cat := range categories {
		switch cat {
		case CategoryDue:
			c.Due++
		case CategorySkipped:
			c.Skipped++
		case CategoryCompleted:
			c.Completed++
		case CategoryDisabled:
			c.Disabled++
		}
	}
	return c
}

package secondary

import (
	"context"
	"time"

	"github.com/example/wealthdesk/internal/core/checklist"
)

// ChecklistRepository defines the secondary port for weekly checklist entries.
// Week starts are passed in their persisted "2006-01-02" form.
type ChecklistRepository interface {
	// FetchEntry retrieves the entry for a theme and week. Returns nil, nil when absent.
	FetchEntry(ctx context.Context, themeID int64, weekStart string) (*ChecklistEntryRecord, error)

	// FetchLast retrieves the most recent entry with the given status. Returns nil, nil when absent.
	FetchLast(ctx context.Context, themeID int64, status string) (*ChecklistEntryRecord, error)

	// List retrieves entries by week start descending. limit <= 0 returns all.
	List(ctx context.Context, themeID int64, limit int) ([]*ChecklistEntryRecord, error)

	// Upsert replaces the row for (ThemeID, WeekStart), bumping revision and
	// last_edited_at in the same statement. An error means nothing changed.
	Upsert(ctx context.Context, entry *ChecklistUpsert) error
}

// ChecklistEntryRecord represents a weekly checklist entry as stored in persistence.
type ChecklistEntryRecord struct {
	ThemeID      int64
	WeekStart    string
	Status       string
	Answers      *checklist.Answers // nil when the row carries no answers
	SkipComment  string
	CompletedAt  *time.Time
	SkippedAt    *time.Time
	Revision     int64
	LastEditedAt time.Time
}

// ChecklistUpsert carries the full replacement state of one entry.
type ChecklistUpsert struct {
	ThemeID     int64
	WeekStart   string
	Status      string
	Answers     checklist.Answers
	SkipComment string
	CompletedAt *time.Time
	SkippedAt   *time.Time
	EditedAt    time.Time
}

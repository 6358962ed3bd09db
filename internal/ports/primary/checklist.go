package primary

import (
	"context"
	"time"

	"github.com/example/wealthdesk/internal/core/checklist"
)

// ChecklistService defines the primary port for the weekly checklist workflow.
type ChecklistService interface {
	// OpenWeek starts an editing session for the week containing date.
	OpenWeek(ctx context.Context, themeID int64, date time.Time) (ChecklistSession, error)

	// GetEntry retrieves the entry for the week containing date. Returns nil, nil when absent.
	GetEntry(ctx context.Context, themeID int64, date time.Time) (*ChecklistEntry, error)

	// History lists entries by week start descending. limit <= 0 returns all.
	History(ctx context.Context, themeID int64, limit int) ([]*ChecklistEntry, error)
}

// ChecklistSession is one theme-week being edited.
// Edits stay in memory until Save, MarkComplete or Skip succeeds.
type ChecklistSession interface {
	Theme() *Theme
	WeekStart() time.Time
	WeekKey() string
	WeekLabel() string

	// Entry is the persisted entry, nil when the week has not been touched.
	Entry() *ChecklistEntry

	// Answers returns a copy of the working answers.
	Answers() checklist.Answers

	// SetAnswers replaces the working answers.
	SetAnswers(answers checklist.Answers)

	// HasUnsavedChanges compares the working answers to the last saved baseline.
	HasUnsavedChanges() bool

	// SaveLabel is "Save Draft" for draft or untouched weeks, "Save Changes" otherwise.
	SaveLabel() string

	// CanMarkComplete evaluates the completeness gate on the working answers.
	CanMarkComplete() checklist.GuardResult

	// Save persists the working answers keeping the current status.
	Save(ctx context.Context) error

	// MarkComplete persists the answers as completed when the completeness gate allows it.
	MarkComplete(ctx context.Context) error

	// Skip persists the week as skipped with a required comment.
	Skip(ctx context.Context, comment string) error
}

// ChecklistEntry represents one persisted theme-week.
type ChecklistEntry struct {
	ThemeID      int64
	WeekStart    time.Time
	WeekKey      string
	Status       checklist.Status
	Answers      *checklist.Answers
	SkipComment  string
	CompletedAt  *time.Time
	SkippedAt    *time.Time
	Revision     int64
	LastEditedAt time.Time
}

package checklist

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a weekly checklist entry.
// "No entry yet" is modelled as a nil entry, never as a status value.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
)

// ParseStatus validates a persisted status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusCompleted, StatusSkipped:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown checklist status %q", s)
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as a *ValidationError if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &ValidationError{Reason: r.Reason}
}

// ValidationError is a user-correctable rejection. No state was changed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// CompleteContext provides context for the mark-complete guard.
type CompleteContext struct {
	ThemeID int64
	Answers Answers
}

// SkipContext provides context for the skip-week guard.
type SkipContext struct {
	ThemeID int64
	Comment string
}

// CanMarkComplete evaluates whether a week may transition to completed.
// Rules:
// - At least one thesis must be present
// - Every thesis needs position, original thesis, all three scores, an action tag and a change log
func CanMarkComplete(ctx CompleteContext) GuardResult {
	if len(ctx.Answers.ThesisChecks) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  "cannot mark complete: add at least one thesis",
		}
	}

	if incomplete := ctx.Answers.IncompleteTheses(); len(incomplete) > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot mark complete: %s", strings.Join(incomplete, "; ")),
		}
	}

	return GuardResult{Allowed: true}
}

// CanSkipWeek evaluates whether a week may transition to skipped.
// Rule: a non-blank comment is required.
func CanSkipWeek(ctx SkipContext) GuardResult {
	if strings.TrimSpace(ctx.Comment) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "cannot skip week: a comment explaining the skip is required",
		}
	}
	return GuardResult{Allowed: true}
}

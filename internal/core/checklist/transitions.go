package checklist

import (
	"strings"
	"time"
)

// Action is a user command on a week's checklist.
type Action string

const (
	ActionSave     Action = "save"
	ActionComplete Action = "complete"
	ActionSkip     Action = "skip"
)

// EntryState is the persisted state a transition starts from.
// A nil *EntryState means no entry exists for the week.
type EntryState struct {
	Status      Status
	SkipComment string
	CompletedAt *time.Time
	SkippedAt   *time.Time
}

// TransitionResult captures the new status and the timestamp side effects
// to persist with the upsert.
type TransitionResult struct {
	NewStatus   Status
	SkipComment string
	CompletedAt *time.Time
	SkippedAt   *time.Time
}

// ApplyTransition applies an already-guarded action and returns the result.
// Rules:
// - save keeps the current status (draft when there is no entry) and its timestamps
// - complete sets CompletedAt to now and clears SkippedAt and SkipComment
// - skip sets SkippedAt to now, stores the trimmed comment and clears CompletedAt
// The caller passes the current time to enable testing.
func ApplyTransition(action Action, current *EntryState, comment string, now time.Time) TransitionResult {
	switch action {
	case ActionComplete:
		return TransitionResult{
			NewStatus:   StatusCompleted,
			CompletedAt: &now,
		}
	case ActionSkip:
		return TransitionResult{
			NewStatus:   StatusSkipped,
			SkipComment: strings.TrimSpace(comment),
			SkippedAt:   &now,
		}
	}

	if current == nil {
		return TransitionResult{NewStatus: InitialStatus()}
	}
	return TransitionResult{
		NewStatus:   current.Status,
		SkipComment: current.SkipComment,
		CompletedAt: current.CompletedAt,
		SkippedAt:   current.SkippedAt,
	}
}

// InitialStatus returns the status of a week's first save.
func InitialStatus() Status {
	return StatusDraft
}

// SaveLabel returns the label of the plain save action for the given status.
// A nil status means no entry exists yet.
func SaveLabel(status *Status) string {
	if status == nil || *status == StatusDraft {
		return "Save Draft"
	}
	return "Save Changes"
}

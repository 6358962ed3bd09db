// Package checklist contains the pure business logic for weekly checklist reviews.
// This is part of the Functional Core - no I/O, only pure functions.
package checklist

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Delta is the direction a score moved since the previous review.
type Delta string

const (
	DeltaUp   Delta = "up"
	DeltaFlat Delta = "flat"
	DeltaDown Delta = "down"
)

// ActionTag is the action decided for a thesis this week.
type ActionTag string

const (
	TagNone  ActionTag = "none"
	TagWatch ActionTag = "watch"
	TagAdd   ActionTag = "add"
	TagTrim  ActionTag = "trim"
	TagExit  ActionTag = "exit"
)

// RiskLevel distinguishes thesis breakers from warnings.
type RiskLevel string

const (
	RiskBreaker RiskLevel = "breaker"
	RiskWarn    RiskLevel = "warn"
)

// Triggered records whether a risk rule fired this week.
type Triggered string

const (
	TriggeredYes Triggered = "yes"
	TriggeredNo  Triggered = "no"
)

const (
	MinScore = 1
	MaxScore = 10
)

// ThesisRisk is a rule attached to a thesis. It has no lifecycle of its own.
type ThesisRisk struct {
	Level     RiskLevel `json:"level" yaml:"level"`
	Rule      string    `json:"rule" yaml:"rule"`
	Trigger   string    `json:"trigger" yaml:"trigger"`
	Triggered Triggered `json:"triggered" yaml:"triggered"`
}

// ThesisCheck is one investment thesis reviewed in a week's checklist.
type ThesisCheck struct {
	ID             string       `json:"id" yaml:"id,omitempty"`
	Position       string       `json:"position" yaml:"position"`
	OriginalThesis string       `json:"original_thesis" yaml:"original_thesis"`
	MacroScore     *int         `json:"macro_score,omitempty" yaml:"macro_score,omitempty"`
	EdgeScore      *int         `json:"edge_score,omitempty" yaml:"edge_score,omitempty"`
	GrowthScore    *int         `json:"growth_score,omitempty" yaml:"growth_score,omitempty"`
	MacroDelta     *Delta       `json:"macro_delta,omitempty" yaml:"macro_delta,omitempty"`
	EdgeDelta      *Delta       `json:"edge_delta,omitempty" yaml:"edge_delta,omitempty"`
	GrowthDelta    *Delta       `json:"growth_delta,omitempty" yaml:"growth_delta,omitempty"`
	MacroNote      string       `json:"macro_note" yaml:"macro_note,omitempty"`
	EdgeNote       string       `json:"edge_note" yaml:"edge_note,omitempty"`
	GrowthNote     string       `json:"growth_note" yaml:"growth_note,omitempty"`
	ActionTag      *ActionTag   `json:"action_tag,omitempty" yaml:"action_tag,omitempty"`
	ChangeLog      string       `json:"change_log" yaml:"change_log,omitempty"`
	Risks          []ThesisRisk `json:"risks" yaml:"risks,omitempty"`
}

// Answers is the structured payload of one week's review.
type Answers struct {
	ThesisChecks []ThesisCheck `json:"thesis_checks" yaml:"thesis_checks"`
}

// NewThesisCheck returns an empty thesis with a fresh local id.
func NewThesisCheck(position string) ThesisCheck {
	return ThesisCheck{ID: uuid.NewString(), Position: position}
}

// NetScore is the mean of the three scores, present only when all three are set.
func (t ThesisCheck) NetScore() (float64, bool) {
	if t.MacroScore == nil || t.EdgeScore == nil || t.GrowthScore == nil {
		return 0, false
	}
	return float64(*t.MacroScore+*t.EdgeScore+*t.GrowthScore) / 3, true
}

// TriggeredBreakers counts breaker risks that fired.
func (t ThesisCheck) TriggeredBreakers() int {
	n := 0
	for _, r := range t.Risks {
		if r.Level == RiskBreaker && r.Triggered == TriggeredYes {
			n++
		}
	}
	return n
}

// MissingFields lists the required fields that are not filled in.
func (t ThesisCheck) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(t.Position) == "" {
		missing = append(missing, "position")
	}
	if strings.TrimSpace(t.OriginalThesis) == "" {
		missing = append(missing, "original thesis")
	}
	if t.MacroScore == nil {
		missing = append(missing, "macro score")
	}
	if t.EdgeScore == nil {
		missing = append(missing, "edge score")
	}
	if t.GrowthScore == nil {
		missing = append(missing, "growth score")
	}
	if t.ActionTag == nil {
		missing = append(missing, "action tag")
	}
	if strings.TrimSpace(t.ChangeLog) == "" {
		missing = append(missing, "change log")
	}
	return missing
}

// IsComplete reports whether the thesis satisfies the completeness predicate.
func (t ThesisCheck) IsComplete() bool {
	return len(t.MissingFields()) == 0
}

// IsComplete reports whether the answers may be marked complete.
// An empty thesis list is never complete.
func (a Answers) IsComplete() bool {
	if len(a.ThesisChecks) == 0 {
		return false
	}
	for _, t := range a.ThesisChecks {
		if !t.IsComplete() {
			return false
		}
	}
	return true
}

// IncompleteTheses returns a description per incomplete thesis, in display order.
func (a Answers) IncompleteTheses() []string {
	var out []string
	for i, t := range a.ThesisChecks {
		missing := t.MissingFields()
		if len(missing) == 0 {
			continue
		}
		label := strings.TrimSpace(t.Position)
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		out = append(out, fmt.Sprintf("%s: missing %s", label, strings.Join(missing, ", ")))
	}
	return out
}

// EnsureIDs assigns a local id to every thesis that has none.
func (a *Answers) EnsureIDs() {
	for i := range a.ThesisChecks {
		if a.ThesisChecks[i].ID == "" {
			a.ThesisChecks[i].ID = uuid.NewString()
		}
	}
}

// Clone returns a deep copy, used for baseline snapshots.
func (a Answers) Clone() Answers {
	out := Answers{ThesisChecks: make([]ThesisCheck, len(a.ThesisChecks))}
	for i, t := range a.ThesisChecks {
		c := t
		c.MacroScore = clonePtr(t.MacroScore)
		c.EdgeScore = clonePtr(t.EdgeScore)
		c.GrowthScore = clonePtr(t.GrowthScore)
		c.MacroDelta = clonePtr(t.MacroDelta)
		c.EdgeDelta = clonePtr(t.EdgeDelta)
		c.GrowthDelta = clonePtr(t.GrowthDelta)
		c.ActionTag = clonePtr(t.ActionTag)
		c.Risks = slices.Clone(t.Risks)
		out.ThesisChecks[i] = c
	}
	return out
}

// Equal reports structural equality. Nil and empty risk lists compare equal.
func (a Answers) Equal(b Answers) bool {
	return slices.EqualFunc(a.ThesisChecks, b.ThesisChecks, ThesisCheck.Equal)
}

// Equal reports structural equality of two theses.
func (t ThesisCheck) Equal(o ThesisCheck) bool {
	return t.ID == o.ID &&
		t.Position == o.Position &&
		t.OriginalThesis == o.OriginalThesis &&
		eqPtr(t.MacroScore, o.MacroScore) &&
		eqPtr(t.EdgeScore, o.EdgeScore) &&
		eqPtr(t.GrowthScore, o.GrowthScore) &&
		eqPtr(t.MacroDelta, o.MacroDelta) &&
		eqPtr(t.EdgeDelta, o.EdgeDelta) &&
		eqPtr(t.GrowthDelta, o.GrowthDelta) &&
		t.MacroNote == o.MacroNote &&
		t.EdgeNote == o.EdgeNote &&
		t.GrowthNote == o.GrowthNote &&
		eqPtr(t.ActionTag, o.ActionTag) &&
		t.ChangeLog == o.ChangeLog &&
		slices.Equal(t.Risks, o.Risks)
}

// Validate rejects out-of-range scores and unknown enum values.
// It is input sanitation, not the completeness predicate.
func (a Answers) Validate() error {
	for i, t := range a.ThesisChecks {
		scores := []struct {
			name string
			v    *int
		}{{"macro", t.MacroScore}, {"edge", t.EdgeScore}, {"growth", t.GrowthScore}}
		for _, s := range scores {
			if s.v != nil && (*s.v < MinScore || *s.v > MaxScore) {
				return fmt.Errorf("thesis %d: %s score %d out of range %d-%d", i+1, s.name, *s.v, MinScore, MaxScore)
			}
		}
		deltas := []struct {
			name string
			v    *Delta
		}{{"macro", t.MacroDelta}, {"edge", t.EdgeDelta}, {"growth", t.GrowthDelta}}
		for _, d := range deltas {
			if d.v != nil && !d.v.Valid() {
				return fmt.Errorf("thesis %d: unknown %s delta %q", i+1, d.name, *d.v)
			}
		}
		if t.ActionTag != nil && !t.ActionTag.Valid() {
			return fmt.Errorf("thesis %d: unknown action tag %q", i+1, *t.ActionTag)
		}
		for j, r := range t.Risks {
			if r.Level != RiskBreaker && r.Level != RiskWarn {
				return fmt.Errorf("thesis %d risk %d: unknown level %q", i+1, j+1, r.Level)
			}
			if r.Triggered != TriggeredYes && r.Triggered != TriggeredNo {
				return fmt.Errorf("thesis %d risk %d: triggered must be yes or no, got %q", i+1, j+1, r.Triggered)
			}
		}
	}
	return nil
}

// Valid reports whether d is a known delta.
func (d Delta) Valid() bool {
	return d == DeltaUp || d == DeltaFlat || d == DeltaDown
}

// Valid reports whether a is a known action tag.
func (a ActionTag) Valid() bool {
	switch a {
	case TagNone, TagWatch, TagAdd, TagTrim, TagExit:
		return true
	}
	return false
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

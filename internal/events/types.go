// Package events provides the in-process event bus that connects checklist
// and allocation mutations to the overview scheduler.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	ChecklistUpdated         EventType = "CHECKLIST_UPDATED"
	ThemeSettingsChanged     EventType = "THEME_SETTINGS_CHANGED"
	AllocationTargetsChanged EventType = "ALLOCATION_TARGETS_CHANGED"
)

// EventData is implemented by every typed payload.
type EventData interface {
	EventType() EventType
}

// Event is one published notification.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	Data      EventData `json:"data"`
}

// ChecklistUpdatedData is published after every successful checklist save.
type ChecklistUpdatedData struct {
	ThemeID   int64  `json:"theme_id"`
	WeekStart string `json:"week_start"`
	Status    string `json:"status"`
	Revision  int64  `json:"revision"`
}

// EventType returns the event type for ChecklistUpdatedData
func (d *ChecklistUpdatedData) EventType() EventType { return ChecklistUpdated }

// ThemeSettingsChangedData is published when a theme's checklist flags change.
type ThemeSettingsChangedData struct {
	ThemeID      int64 `json:"theme_id"`
	Enabled      bool  `json:"weekly_checklist_enabled"`
	HighPriority bool  `json:"weekly_checklist_high_priority"`
}

// EventType returns the event type for ThemeSettingsChangedData
func (d *ThemeSettingsChangedData) EventType() EventType { return ThemeSettingsChanged }

// AllocationTargetsChangedData is published after targets are persisted.
type AllocationTargetsChangedData struct {
	PortfolioID int64    `json:"portfolio_id"`
	Nodes       []string `json:"nodes"`
}

// EventType returns the event type for AllocationTargetsChangedData
func (d *AllocationTargetsChangedData) EventType() EventType { return AllocationTargetsChanged }

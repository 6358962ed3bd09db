package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/core/week"
	"github.com/example/wealthdesk/internal/events"
	"github.com/example/wealthdesk/internal/ports/primary"
	"github.com/example/wealthdesk/internal/ports/secondary"
)

// ErrSaveFailed is returned when a checklist could not be persisted.
// The session keeps its working answers and its baseline.
var ErrSaveFailed = errors.New("unable to save checklist, try again")

// ChecklistServiceImpl implements the ChecklistService interface.
type ChecklistServiceImpl struct {
	themeRepo     secondary.ThemeRepository
	checklistRepo secondary.ChecklistRepository
	bus           *events.Bus
	cal           week.Calendar
	now           func() time.Time
	log           zerolog.Logger
}

// NewChecklistService creates a new ChecklistService with injected dependencies.
func NewChecklistService(
	themeRepo secondary.ThemeRepository,
	checklistRepo secondary.ChecklistRepository,
	bus *events.Bus,
	cal week.Calendar,
	log zerolog.Logger,
) *ChecklistServiceImpl {
	return &ChecklistServiceImpl{
		themeRepo:     themeRepo,
		checklistRepo: checklistRepo,
		bus:           bus,
		cal:           cal,
		now:           time.Now,
		log:           log.With().Str("service", "checklist").Logger(),
	}
}

// OpenWeek starts an editing session for the week containing date.
func (s *ChecklistServiceImpl) OpenWeek(ctx context.Context, themeID int64, date time.Time) (primary.ChecklistSession, error) {
	themeRecord, err := s.themeRepo.GetByID(ctx, themeID)
	if err != nil {
		return nil, err
	}

	weekStart := s.cal.WeekStart(date)
	entry, err := s.fetchEntry(ctx, themeID, weekStart)
	if err != nil {
		return nil, err
	}

	session := &checklistSession{
		svc:       s,
		theme:     recordToTheme(themeRecord),
		weekStart: weekStart,
		entry:     entry,
	}
	if entry != nil && entry.Answers != nil {
		session.baseline = entry.Answers.Clone()
	}
	session.working = session.baseline.Clone()
	return session, nil
}

// GetEntry retrieves the entry for the week containing date. Returns nil, nil when absent.
func (s *ChecklistServiceImpl) GetEntry(ctx context.Context, themeID int64, date time.Time) (*primary.ChecklistEntry, error) {
	return s.fetchEntry(ctx, themeID, s.cal.WeekStart(date))
}

// History lists entries by week start descending. limit <= 0 returns all.
func (s *ChecklistServiceImpl) History(ctx context.Context, themeID int64, limit int) ([]*primary.ChecklistEntry, error) {
	records, err := s.checklistRepo.List(ctx, themeID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*primary.ChecklistEntry, 0, len(records))
	for _, r := range records {
		entry, err := recordToEntry(s.cal, r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LastCompleted retrieves the most recent completed entry. Returns nil, nil when none exists.
func (s *ChecklistServiceImpl) LastCompleted(ctx context.Context, themeID int64) (*primary.ChecklistEntry, error) {
	record, err := s.checklistRepo.FetchLast(ctx, themeID, string(checklist.StatusCompleted))
	if err != nil || record == nil {
		return nil, err
	}
	return recordToEntry(s.cal, record)
}

func (s *ChecklistServiceImpl) fetchEntry(ctx context.Context, themeID int64, weekStart time.Time) (*primary.ChecklistEntry, error) {
	record, err := s.checklistRepo.FetchEntry(ctx, themeID, weekStart.Format(week.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return recordToEntry(s.cal, record)
}

// checklistSession holds one theme-week being edited.
type checklistSession struct {
	svc       *ChecklistServiceImpl
	theme     *primary.Theme
	weekStart time.Time
	entry     *primary.ChecklistEntry
	working   checklist.Answers
	baseline  checklist.Answers
}

func (c *checklistSession) Theme() *primary.Theme          { return c.theme }
func (c *checklistSession) WeekStart() time.Time           { return c.weekStart }
func (c *checklistSession) WeekKey() string                { return c.svc.cal.Key(c.weekStart) }
func (c *checklistSession) WeekLabel() string              { return c.svc.cal.Label(c.weekStart) }
func (c *checklistSession) Entry() *primary.ChecklistEntry { return c.entry }

func (c *checklistSession) Answers() checklist.Answers {
	return c.working.Clone()
}

func (c *checklistSession) SetAnswers(answers checklist.Answers) {
	answers.EnsureIDs()
	c.working = answers.Clone()
}

func (c *checklistSession) HasUnsavedChanges() bool {
	return !c.working.Equal(c.baseline)
}

func (c *checklistSession) SaveLabel() string {
	if c.entry == nil {
		return checklist.SaveLabel(nil)
	}
	return checklist.SaveLabel(&c.entry.Status)
}

func (c *checklistSession) CanMarkComplete() checklist.GuardResult {
	return checklist.CanMarkComplete(checklist.CompleteContext{
		ThemeID: c.theme.ID,
		Answers: c.working,
	})
}

// Save persists the working answers keeping the current status.
func (c *checklistSession) Save(ctx context.Context) error {
	return c.persist(ctx, checklist.ActionSave, "")
}

// MarkComplete persists the answers as completed when the completeness gate allows it.
func (c *checklistSession) MarkComplete(ctx context.Context) error {
	if err := c.CanMarkComplete().Error(); err != nil {
		return err
	}
	return c.persist(ctx, checklist.ActionComplete, "")
}

// Skip persists the week as skipped with a required comment.
func (c *checklistSession) Skip(ctx context.Context, comment string) error {
	guard := checklist.CanSkipWeek(checklist.SkipContext{ThemeID: c.theme.ID, Comment: comment})
	if err := guard.Error(); err != nil {
		return err
	}
	return c.persist(ctx, checklist.ActionSkip, comment)
}

func (c *checklistSession) persist(ctx context.Context, action checklist.Action, comment string) error {
	if err := c.working.Validate(); err != nil {
		return &checklist.ValidationError{Reason: err.Error()}
	}

	var current *checklist.EntryState
	if c.entry != nil {
		current = &checklist.EntryState{
			Status:      c.entry.Status,
			SkipComment: c.entry.SkipComment,
			CompletedAt: c.entry.CompletedAt,
			SkippedAt:   c.entry.SkippedAt,
		}
	}

	now := c.svc.now()
	result := checklist.ApplyTransition(action, current, comment, now)
	snapshot := c.working.Clone()
	weekStart := c.weekStart.Format(week.DateFormat)

	err := c.svc.checklistRepo.Upsert(ctx, &secondary.ChecklistUpsert{
		ThemeID:     c.theme.ID,
		WeekStart:   weekStart,
		Status:      string(result.NewStatus),
		Answers:     snapshot,
		SkipComment: result.SkipComment,
		CompletedAt: result.CompletedAt,
		SkippedAt:   result.SkippedAt,
		EditedAt:    now,
	})
	if err != nil {
		c.svc.log.Error().Err(err).
			Int64("theme_id", c.theme.ID).
			Str("week_start", weekStart).
			Str("action", string(action)).
			Msg("checklist save failed")
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	c.baseline = snapshot

	entry, err := c.svc.fetchEntry(ctx, c.theme.ID, c.weekStart)
	if err != nil {
		return err
	}
	c.entry = entry

	data := &events.ChecklistUpdatedData{
		ThemeID:   c.theme.ID,
		WeekStart: weekStart,
		Status:    string(result.NewStatus),
	}
	if entry != nil {
		data.Revision = entry.Revision
	}
	c.svc.bus.Publish("checklist", data)
	return nil
}

func recordToEntry(cal week.Calendar, r *secondary.ChecklistEntryRecord) (*primary.ChecklistEntry, error) {
	weekStart, err := cal.ParseDate(r.WeekStart)
	if err != nil {
		return nil, err
	}
	status, err := checklist.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	return &primary.ChecklistEntry{
		ThemeID:      r.ThemeID,
		WeekStart:    weekStart,
		WeekKey:      cal.Key(weekStart),
		Status:       status,
		Answers:      r.Answers,
		SkipComment:  r.SkipComment,
		CompletedAt:  r.CompletedAt,
		SkippedAt:    r.SkippedAt,
		Revision:     r.Revision,
		LastEditedAt: r.LastEditedAt,
	}, nil
}

// Ensure ChecklistServiceImpl implements the interface
var _ primary.ChecklistService = (*ChecklistServiceImpl)(nil)
var _ primary.ChecklistSession = (*checklistSession)(nil)

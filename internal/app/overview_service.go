package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/core/schedule"
	"github.com/example/wealthdesk/internal/core/week"
	"github.com/example/wealthdesk/internal/events"
	"github.com/example/wealthdesk/internal/ports/primary"
	"github.com/example/wealthdesk/internal/ports/secondary"
)

// observerBuffer is the per-observer channel capacity for valuation updates.
const observerBuffer = 32

type overviewObserver struct {
	ch chan primary.OverviewUpdate
}

// OverviewServiceImpl implements the OverviewService interface.
// Each Load starts a new generation; valuation results from an older
// generation are discarded.
type OverviewServiceImpl struct {
	themeRepo     secondary.ThemeRepository
	checklistRepo secondary.ChecklistRepository
	valuations    secondary.ValuationProvider
	bus           *events.Bus
	cal           week.Calendar
	reminderSpec  string
	now           func() time.Time
	log           zerolog.Logger

	mu         sync.Mutex
	generation uint64
	current    *primary.Overview
	cancel     context.CancelFunc
	done       chan struct{}
	observers  map[*overviewObserver]struct{}
}

// NewOverviewService creates a new OverviewService with injected dependencies.
func NewOverviewService(
	themeRepo secondary.ThemeRepository,
	checklistRepo secondary.ChecklistRepository,
	valuations secondary.ValuationProvider,
	bus *events.Bus,
	cal week.Calendar,
	reminderSpec string,
	log zerolog.Logger,
) *OverviewServiceImpl {
	return &OverviewServiceImpl{
		themeRepo:     themeRepo,
		checklistRepo: checklistRepo,
		valuations:    valuations,
		bus:           bus,
		cal:           cal,
		reminderSpec:  reminderSpec,
		now:           time.Now,
		log:           log.With().Str("service", "overview").Logger(),
		observers:     make(map[*overviewObserver]struct{}),
	}
}

// Load cancels any in-flight valuation, rebuilds all summaries and starts
// a new valuation pass in the background.
func (s *OverviewServiceImpl) Load(ctx context.Context) (*primary.Overview, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	overview, err := s.buildOverview(ctx, gen)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// A newer Load superseded this one while summaries were being built.
		return cloneOverview(overview), nil
	}

	valCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.current = overview
	s.cancel = cancel
	s.done = done

	themeIDs := make([]int64, 0, len(overview.Summaries))
	for _, summary := range overview.Summaries {
		if summary.Category == schedule.CategoryDisabled {
			continue
		}
		themeIDs = append(themeIDs, summary.Theme.ID)
	}
	go s.runValuations(valCtx, gen, themeIDs, done)

	return cloneOverview(overview), nil
}

func (s *OverviewServiceImpl) buildOverview(ctx context.Context, gen uint64) (*primary.Overview, error) {
	now := s.now()
	weekStart := s.cal.WeekStart(now)
	weekDate := weekStart.Format(week.DateFormat)

	themes, err := s.themeRepo.List(ctx, secondary.ThemeFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}

	summaries := make([]*primary.WeeklyChecklistSummary, 0, len(themes))
	categories := make([]schedule.Category, 0, len(themes))
	for _, t := range themes {
		if !t.WeeklyChecklistEnabled {
			summaries = append(summaries, &primary.WeeklyChecklistSummary{
				Theme:    recordToTheme(t),
				Category: schedule.CategoryDisabled,
			})
			categories = append(categories, schedule.CategoryDisabled)
			continue
		}

		currentRecord, err := s.checklistRepo.FetchEntry(ctx, t.ID, weekDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load checklist for theme %d: %w", t.ID, err)
		}
		lastRecord, err := s.checklistRepo.FetchLast(ctx, t.ID, string(checklist.StatusCompleted))
		if err != nil {
			return nil, fmt.Errorf("failed to load last completed checklist for theme %d: %w", t.ID, err)
		}

		summary := &primary.WeeklyChecklistSummary{Theme: recordToTheme(t)}
		var status *checklist.Status
		if currentRecord != nil {
			if summary.CurrentEntry, err = recordToEntry(s.cal, currentRecord); err != nil {
				return nil, err
			}
			status = &summary.CurrentEntry.Status
		}
		if lastRecord != nil {
			if summary.LastCompleted, err = recordToEntry(s.cal, lastRecord); err != nil {
				return nil, err
			}
		}
		summary.Category = schedule.Categorize(true, status)
		summary.NextDueWeekStart = schedule.NextDue(true, status, now, s.cal)

		summaries = append(summaries, summary)
		categories = append(categories, summary.Category)
	}

	schedule.Sort(summaries, func(sm *primary.WeeklyChecklistSummary) schedule.SortKey {
		return schedule.SortKey{
			Category:     sm.Category,
			HighPriority: sm.Theme.WeeklyChecklistHighPriority,
			Name:         sm.Theme.Name,
		}
	})

	return &primary.Overview{
		Generation: gen,
		WeekStart:  weekStart,
		WeekKey:    s.cal.Key(weekStart),
		WeekLabel:  s.cal.Label(weekStart),
		Summaries:  summaries,
		Counts:     schedule.Count(categories),
	}, nil
}

// runValuations values one theme at a time and applies each result only
// while gen is still the current generation.
func (s *OverviewServiceImpl) runValuations(ctx context.Context, gen uint64, themeIDs []int64, done chan struct{}) {
	defer close(done)

	for _, themeID := range themeIDs {
		if ctx.Err() != nil {
			return
		}

		snapshot, err := s.valuations.Snapshot(ctx, themeID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn().Err(err).Int64("theme_id", themeID).Msg("theme valuation failed")
			continue
		}

		if !s.applyValuation(gen, themeID, snapshot.IncludedTotalValueBase) {
			return
		}
	}
}

func (s *OverviewServiceImpl) applyValuation(gen uint64, themeID int64, value float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.current == nil {
		return false
	}
	for _, summary := range s.current.Summaries {
		if summary.Theme.ID == themeID {
			v := value
			summary.CountedValueBase = &v
		}
	}

	update := primary.OverviewUpdate{Generation: gen, ThemeID: themeID, CountedValueBase: value}
	for o := range s.observers {
		select {
		case o.ch <- update:
		default:
			s.log.Debug().Int64("theme_id", themeID).Msg("overview observer lagging, update dropped")
		}
	}
	return true
}

// Current returns a copy of the latest overview including valuations applied so far.
func (s *OverviewServiceImpl) Current() *primary.Overview {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return cloneOverview(s.current)
}

// Subscribe delivers one update per applied valuation until unsubscribed.
func (s *OverviewServiceImpl) Subscribe() (<-chan primary.OverviewUpdate, func()) {
	o := &overviewObserver{ch: make(chan primary.OverviewUpdate, observerBuffer)}

	s.mu.Lock()
	s.observers[o] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return o.ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, o)
			close(o.ch)
			s.mu.Unlock()
		})
	}
}

// WaitValuations blocks until the current valuation pass finishes or ctx ends.
func (s *OverviewServiceImpl) WaitValuations(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Watch reloads the overview on every checklist or theme event until ctx ends.
func (s *OverviewServiceImpl) Watch(ctx context.Context) error {
	ch, unsubscribe := s.bus.Subscribe(events.ChecklistUpdated, events.ThemeSettingsChanged)
	defer unsubscribe()

	if _, err := s.Load(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			s.log.Debug().Str("event_type", string(event.Type)).Msg("reloading overview")
			if _, err := s.Load(ctx); err != nil {
				s.log.Error().Err(err).Msg("overview reload failed")
			}
		}
	}
}

// NextReminder returns the next configured reminder time after t,
// evaluated in the calendar's timezone.
func (s *OverviewServiceImpl) NextReminder(t time.Time) (time.Time, error) {
	return schedule.NextReminder(s.reminderSpec, s.cal.In(t))
}

func cloneOverview(o *primary.Overview) *primary.Overview {
	out := *o
	out.Summaries = make([]*primary.WeeklyChecklistSummary, len(o.Summaries))
	for i, summary := range o.Summaries {
		c := *summary
		if summary.CountedValueBase != nil {
			v := *summary.CountedValueBase
			c.CountedValueBase = &v
		}
		out.Summaries[i] = &c
	}
	return &out
}

// Ensure OverviewServiceImpl implements the interface
var _ primary.OverviewService = (*OverviewServiceImpl)(nil)

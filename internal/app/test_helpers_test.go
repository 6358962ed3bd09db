package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/ports/secondary"
)

func intPtr(v int) *int { return &v }

func tagPtr(v checklist.ActionTag) *checklist.ActionTag { return &v }

// completeThesis returns a thesis that passes the completeness gate.
func completeThesis(position string) checklist.ThesisCheck {
	return checklist.ThesisCheck{
		ID:             "T-" + position,
		Position:       position,
		OriginalThesis: "Pricing power in staples",
		MacroScore:     intPtr(5),
		EdgeScore:      intPtr(7),
		GrowthScore:    intPtr(6),
		ActionTag:      tagPtr(checklist.TagWatch),
		ChangeLog:      "Held through earnings",
	}
}

// ============================================================================
// Mock Implementations
// ============================================================================

// mockThemeRepository implements secondary.ThemeRepository for testing.
type mockThemeRepository struct {
	mu      sync.Mutex
	themes  map[int64]*secondary.ThemeRecord
	listErr error
	setErr  error
}

func newMockThemeRepository(themes ...*secondary.ThemeRecord) *mockThemeRepository {
	m := &mockThemeRepository{themes: make(map[int64]*secondary.ThemeRecord)}
	for _, t := range themes {
		m.themes[t.ID] = t
	}
	return m
}

func (m *mockThemeRepository) List(ctx context.Context, filters secondary.ThemeFilters) ([]*secondary.ThemeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.ThemeRecord
	for _, t := range m.themes {
		if t.Archived && !filters.IncludeArchived {
			continue
		}
		if t.SoftDeleted && !filters.IncludeSoftDeleted {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockThemeRepository) GetByID(ctx context.Context, id int64) (*secondary.ThemeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[id]
	if !ok {
		return nil, fmt.Errorf("theme %d not found", id)
	}
	c := *t
	return &c, nil
}

func (m *mockThemeRepository) SetWeeklyChecklistEnabled(ctx context.Context, id int64, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	t, ok := m.themes[id]
	if !ok {
		return fmt.Errorf("theme %d not found", id)
	}
	t.WeeklyChecklistEnabled = enabled
	return nil
}

func (m *mockThemeRepository) SetWeeklyChecklistHighPriority(ctx context.Context, id int64, highPriority bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	t, ok := m.themes[id]
	if !ok {
		return fmt.Errorf("theme %d not found", id)
	}
	t.WeeklyChecklistHighPriority = highPriority
	return nil
}

type checklistKey struct {
	themeID   int64
	weekStart string
}

// mockChecklistRepository implements secondary.ChecklistRepository for testing.
type mockChecklistRepository struct {
	mu        sync.Mutex
	entries   map[checklistKey]*secondary.ChecklistEntryRecord
	upserts   int
	fetchErr  error
	upsertErr error
}

func newMockChecklistRepository() *mockChecklistRepository {
	return &mockChecklistRepository{entries: make(map[checklistKey]*secondary.ChecklistEntryRecord)}
}

// put stores a record directly, bypassing Upsert.
func (m *mockChecklistRepository) put(r *secondary.ChecklistEntryRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[checklistKey{r.ThemeID, r.WeekStart}] = r
}

func (m *mockChecklistRepository) FetchEntry(ctx context.Context, themeID int64, weekStart string) (*secondary.ChecklistEntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	r, ok := m.entries[checklistKey{themeID, weekStart}]
	if !ok {
		return nil, nil
	}
	c := *r
	return &c, nil
}

func (m *mockChecklistRepository) FetchLast(ctx context.Context, themeID int64, status string) (*secondary.ChecklistEntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var last *secondary.ChecklistEntryRecord
	for _, r := range m.entries {
		if r.ThemeID != themeID || r.Status != status {
			continue
		}
		if last == nil || r.WeekStart > last.WeekStart {
			last = r
		}
	}
	if last == nil {
		return nil, nil
	}
	c := *last
	return &c, nil
}

func (m *mockChecklistRepository) List(ctx context.Context, themeID int64, limit int) ([]*secondary.ChecklistEntryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []*secondary.ChecklistEntryRecord
	for _, r := range m.entries {
		if r.ThemeID == themeID {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart > out[j].WeekStart })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockChecklistRepository) Upsert(ctx context.Context, entry *secondary.ChecklistUpsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++

	key := checklistKey{entry.ThemeID, entry.WeekStart}
	revision := int64(1)
	if prev, ok := m.entries[key]; ok {
		revision = prev.Revision + 1
	}
	answers := entry.Answers.Clone()
	m.entries[key] = &secondary.ChecklistEntryRecord{
		ThemeID:      entry.ThemeID,
		WeekStart:    entry.WeekStart,
		Status:       entry.Status,
		Answers:      &answers,
		SkipComment:  entry.SkipComment,
		CompletedAt:  entry.CompletedAt,
		SkippedAt:    entry.SkippedAt,
		Revision:     revision,
		LastEditedAt: entry.EditedAt,
	}
	return nil
}

// mockValuationProvider implements secondary.ValuationProvider for testing.
// When gate is non-nil every Snapshot waits for it to close or for ctx to end.
type mockValuationProvider struct {
	mu     sync.Mutex
	values map[int64]float64
	errs   map[int64]error
	gate   chan struct{}
	calls  int
}

func newMockValuationProvider(values map[int64]float64) *mockValuationProvider {
	return &mockValuationProvider{values: values, errs: make(map[int64]error)}
}

func (m *mockValuationProvider) Snapshot(ctx context.Context, themeID int64) (*secondary.ValuationSnapshot, error) {
	m.mu.Lock()
	m.calls++
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[themeID]; err != nil {
		return nil, err
	}
	return &secondary.ValuationSnapshot{ThemeID: themeID, IncludedTotalValueBase: m.values[themeID]}, nil
}

// mockAllocationRepository implements secondary.AllocationRepository for testing.
type mockAllocationRepository struct {
	classes    []*secondary.AssetClassRecord
	subs       []*secondary.SubClassRecord
	targets    []*secondary.TargetRecord
	upserted   map[string]secondary.TargetRecord
	listErr    error
	upsertErr  error
	upsertCall int
}

func newMockAllocationRepository() *mockAllocationRepository {
	return &mockAllocationRepository{upserted: make(map[string]secondary.TargetRecord)}
}

func (m *mockAllocationRepository) ListAssetClasses(ctx context.Context) ([]*secondary.AssetClassRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.classes, nil
}

func (m *mockAllocationRepository) ListSubClasses(ctx context.Context, classID int64) ([]*secondary.SubClassRecord, error) {
	var out []*secondary.SubClassRecord
	for _, s := range m.subs {
		if s.ClassID == classID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockAllocationRepository) ListTargets(ctx context.Context, portfolioID int64) ([]*secondary.TargetRecord, error) {
	return m.targets, nil
}

func (m *mockAllocationRepository) UpsertClassTarget(ctx context.Context, portfolioID, classID int64, percent, amountChf float64) error {
	m.upsertCall++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	id := classID
	amount := amountChf
	m.upserted[fmt.Sprintf("class-%d", classID)] = secondary.TargetRecord{ClassID: &id, Percent: percent, AmountChf: &amount}
	return nil
}

func (m *mockAllocationRepository) UpsertSubClassTarget(ctx context.Context, portfolioID, subClassID int64, percent, amountChf float64) error {
	m.upsertCall++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	id := subClassID
	amount := amountChf
	m.upserted[fmt.Sprintf("sub-%d", subClassID)] = secondary.TargetRecord{SubClassID: &id, Percent: percent, AmountChf: &amount}
	return nil
}

// mockPositionRepository implements secondary.PositionRepository for testing.
type mockPositionRepository struct {
	positions []*secondary.PositionReportRecord
	listErr   error
}

func (m *mockPositionRepository) ListPositionReports(ctx context.Context) ([]*secondary.PositionReportRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.positions, nil
}

func (m *mockPositionRepository) ListByTheme(ctx context.Context, themeID int64) ([]*secondary.PositionReportRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.PositionReportRecord
	for _, p := range m.positions {
		if p.ThemeID != nil && *p.ThemeID == themeID {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockExchangeRateRepository implements secondary.ExchangeRateRepository for testing.
type mockExchangeRateRepository struct {
	rates map[string]float64
	calls map[string]int
	err   error
}

func newMockExchangeRateRepository(rates map[string]float64) *mockExchangeRateRepository {
	return &mockExchangeRateRepository{rates: rates, calls: make(map[string]int)}
}

func (m *mockExchangeRateRepository) LatestRate(ctx context.Context, currency string, upTo time.Time) (float64, bool, error) {
	m.calls[currency]++
	if m.err != nil {
		return 0, false, m.err
	}
	rate, ok := m.rates[currency]
	return rate, ok, nil
}

// mockModeStore implements secondary.AllocationModeStore for testing.
type mockModeStore struct {
	modes   map[string]string
	saveErr error
}

func newMockModeStore() *mockModeStore {
	return &mockModeStore{modes: make(map[string]string)}
}

func (m *mockModeStore) LoadModes(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.modes))
	for k, v := range m.modes {
		out[k] = v
	}
	return out, nil
}

func (m *mockModeStore) SaveMode(ctx context.Context, nodeID, mode string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.modes[nodeID] = mode
	return nil
}

var (
	_ secondary.ThemeRepository        = (*mockThemeRepository)(nil)
	_ secondary.ChecklistRepository    = (*mockChecklistRepository)(nil)
	_ secondary.ValuationProvider      = (*mockValuationProvider)(nil)
	_ secondary.AllocationRepository   = (*mockAllocationRepository)(nil)
	_ secondary.PositionRepository     = (*mockPositionRepository)(nil)
	_ secondary.ExchangeRateRepository = (*mockExchangeRateRepository)(nil)
	_ secondary.AllocationModeStore    = (*mockModeStore)(nil)
)

package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/wealthdesk/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockThemeService implements primary.ThemeService for testing
type mockThemeService struct {
	themes []*primary.Theme
	setErr error

	lastEnabled  *bool
	lastPriority *bool
}

func (m *mockThemeService) ListThemes(ctx context.Context, includeArchived, includeSoftDeleted bool) ([]*primary.Theme, error) {
	var out []*primary.Theme
	for _, t := range m.themes {
		if t.Archived && !includeArchived {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockThemeService) GetTheme(ctx context.Context, themeID int64) (*primary.Theme, error) {
	for _, t := range m.themes {
		if t.ID == themeID {
			return t, nil
		}
	}
	return nil, errors.New("theme not found")
}

func (m *mockThemeService) FindTheme(ctx context.Context, ref string) (*primary.Theme, error) {
	for _, t := range m.themes {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return nil, errors.New("theme not found")
}

func (m *mockThemeService) SetWeeklyChecklistEnabled(ctx context.Context, themeID int64, enabled bool) error {
	m.lastEnabled = &enabled
	return m.setErr
}

func (m *mockThemeService) SetHighPriority(ctx context.Context, themeID int64, highPriority bool) error {
	m.lastPriority = &highPriority
	return m.setErr
}

func newMockThemeService() *mockThemeService {
	return &mockThemeService{themes: []*primary.Theme{
		{ID: 1, Name: "Core Equity", WeeklyChecklistEnabled: true, WeeklyChecklistHighPriority: true},
		{ID: 2, Name: "Legacy Tech", WeeklyChecklistEnabled: true, Archived: true},
	}}
}

func TestThemeAdapter_List(t *testing.T) {
	var out bytes.Buffer
	adapter := NewThemeAdapter(newMockThemeService(), &out)

	if err := adapter.List(context.Background(), false); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "Core Equity") || !strings.Contains(output, "high") {
		t.Errorf("expected active theme row, got:\n%s", output)
	}
	if strings.Contains(output, "Legacy Tech") {
		t.Error("archived theme listed without --all")
	}

	out.Reset()
	_ = adapter.List(context.Background(), true)
	if !strings.Contains(out.String(), "archived") {
		t.Errorf("expected archived state, got:\n%s", out.String())
	}
}

func TestThemeAdapter_List_Empty(t *testing.T) {
	var out bytes.Buffer
	adapter := NewThemeAdapter(&mockThemeService{}, &out)

	if err := adapter.List(context.Background(), false); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(out.String(), "No themes found") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestThemeAdapter_SetEnabled(t *testing.T) {
	var out bytes.Buffer
	svc := newMockThemeService()
	adapter := NewThemeAdapter(svc, &out)

	if err := adapter.SetEnabled(context.Background(), "core equity", false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	if svc.lastEnabled == nil || *svc.lastEnabled {
		t.Error("expected disable call")
	}
	if !strings.Contains(out.String(), "✓ Weekly checklist disabled for Core Equity") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := adapter.SetEnabled(context.Background(), "unknown", true); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestThemeAdapter_SetPriority_ServiceError(t *testing.T) {
	var out bytes.Buffer
	svc := newMockThemeService()
	svc.setErr = errors.New("locked")
	adapter := NewThemeAdapter(svc, &out)

	if err := adapter.SetPriority(context.Background(), "Core Equity", true); err == nil {
		t.Fatal("expected error")
	}
	if out.Len() != 0 {
		t.Errorf("no output expected on error, got %q", out.String())
	}
}

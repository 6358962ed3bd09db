package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/adapters/sqlite"
	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/core/schedule"
	"github.com/example/wealthdesk/internal/db"
	"github.com/example/wealthdesk/internal/events"
)

// TestWeeklyReview_EndToEnd walks one theme from due to completed against a real ledger.
func TestWeeklyReview_EndToEnd(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec("INSERT INTO portfolio_themes (id, name, weekly_checklist_enabled) VALUES (1, 'Core Equity', 1)"); err != nil {
		t.Fatalf("seed theme: %v", err)
	}

	log := zerolog.Nop()
	bus := events.NewBus(log)
	themes := sqlite.NewThemeRepository(conn)
	checklists := sqlite.NewChecklistRepository(conn, log)
	valuations := NewPositionValuationProvider(sqlite.NewPositionRepository(conn), sqlite.NewExchangeRateRepository(conn), "CHF", log)

	checklistSvc := NewChecklistService(themes, checklists, bus, testCal, log)
	checklistSvc.now = func() time.Time { return testNow }
	overviewSvc := NewOverviewService(themes, checklists, valuations, bus, testCal, schedule.DefaultReminderSpec, log)
	overviewSvc.now = func() time.Time { return testNow }

	thisWeek := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	nextWeek := thisWeek.AddDate(0, 0, 7)

	// No entry yet: due this week.
	overview, err := overviewSvc.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	summary := overview.Summaries[0]
	if summary.Category != schedule.CategoryDue {
		t.Fatalf("Category = %s, want due", summary.Category)
	}
	if summary.NextDueWeekStart == nil || !summary.NextDueWeekStart.Equal(thisWeek) {
		t.Fatalf("NextDueWeekStart = %v, want %v", summary.NextDueWeekStart, thisWeek)
	}

	// Draft with one incomplete thesis.
	session, err := checklistSvc.OpenWeek(ctx, 1, testNow)
	if err != nil {
		t.Fatalf("OpenWeek failed: %v", err)
	}
	draft := completeThesis("Nestle")
	draft.GrowthScore = nil
	session.SetAnswers(checklist.Answers{ThesisChecks: []checklist.ThesisCheck{draft}})
	if err := session.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if session.Entry().Status != checklist.StatusDraft {
		t.Fatalf("Status = %s, want draft", session.Entry().Status)
	}
	if session.CanMarkComplete().Allowed {
		t.Fatal("Mark Complete must stay disabled with an incomplete thesis")
	}

	// Fill the missing fields and complete.
	answers := session.Answers()
	answers.ThesisChecks[0].GrowthScore = intPtr(6)
	session.SetAnswers(answers)
	if err := session.MarkComplete(ctx); err != nil {
		t.Fatalf("MarkComplete failed: %v", err)
	}
	if session.Entry().Status != checklist.StatusCompleted {
		t.Fatalf("Status = %s, want completed", session.Entry().Status)
	}
	if session.Entry().Revision != 2 {
		t.Errorf("Revision = %d, want 2", session.Entry().Revision)
	}

	history, err := checklistSvc.History(ctx, 1, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Status != checklist.StatusCompleted {
		t.Fatalf("unexpected history: %+v", history)
	}

	overview, err = overviewSvc.Load(ctx)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	summary = overview.Summaries[0]
	if summary.Category != schedule.CategoryCompleted {
		t.Errorf("Category = %s, want completed", summary.Category)
	}
	if summary.NextDueWeekStart == nil || !summary.NextDueWeekStart.Equal(nextWeek) {
		t.Errorf("NextDueWeekStart = %v, want %v", summary.NextDueWeekStart, nextWeek)
	}
	if summary.LastCompleted == nil || summary.LastCompleted.WeekKey != "2026-W43" {
		t.Errorf("LastCompleted = %+v", summary.LastCompleted)
	}
	if err := overviewSvc.WaitValuations(ctx); err != nil {
		t.Errorf("WaitValuations failed: %v", err)
	}
}

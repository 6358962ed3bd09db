package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/adapters/sqlite"
	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/ports/secondary"
)

func sampleAnswers(positions ...string) checklist.Answers {
	var a checklist.Answers
	for i, p := range positions {
		score := 5 + i
		tag := checklist.TagWatch
		a.ThesisChecks = append(a.ThesisChecks, checklist.ThesisCheck{
			ID:             "T-" + p,
			Position:       p,
			OriginalThesis: "thesis for " + p,
			MacroScore:     &score,
			ActionTag:      &tag,
			Risks: []checklist.ThesisRisk{
				{Level: checklist.RiskBreaker, Rule: "drawdown > 20%", Trigger: "price", Triggered: checklist.TriggeredNo},
			},
		})
	}
	return a
}

func TestChecklistRepository_FetchAbsentIsNil(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewChecklistRepository(testDB, zerolog.Nop())
	ctx := context.Background()
	themeID := seedTheme(t, testDB, "", true)

	entry, err := repo.FetchEntry(ctx, themeID, "2026-10-19")
	if err != nil {
		t.Fatalf("FetchEntry failed: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry, got %+v", entry)
	}

	last, err := repo.FetchLast(ctx, themeID, "completed")
	if err != nil {
		t.Fatalf("FetchLast failed: %v", err)
	}
	if last != nil {
		t.Errorf("expected nil last entry, got %+v", last)
	}
}

func TestChecklistRepository_UpsertBumpsRevision(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewChecklistRepository(testDB, zerolog.Nop())
	ctx := context.Background()
	themeID := seedTheme(t, testDB, "", true)

	first := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	err := repo.Upsert(ctx, &secondary.ChecklistUpsert{
		ThemeID:   themeID,
		WeekStart: "2026-10-19",
		Status:    "draft",
		Answers:   sampleAnswers("NESN", "MSFT"),
		EditedAt:  first,
	})
	if err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	entry, err := repo.FetchEntry(ctx, themeID, "2026-10-19")
	if err != nil || entry == nil {
		t.Fatalf("FetchEntry failed: %v (entry %v)", err, entry)
	}
	if entry.Revision != 1 {
		t.Errorf("expected revision 1, got %d", entry.Revision)
	}
	if entry.Answers == nil || len(entry.Answers.ThesisChecks) != 2 {
		t.Fatalf("expected two theses, got %+v", entry.Answers)
	}
	if entry.Answers.ThesisChecks[0].Position != "NESN" || entry.Answers.ThesisChecks[1].Position != "MSFT" {
		t.Error("expected thesis order preserved")
	}
	if !entry.Answers.Equal(sampleAnswers("NESN", "MSFT")) {
		t.Error("expected answers to round-trip structurally")
	}

	completedAt := first.Add(2 * time.Hour)
	err = repo.Upsert(ctx, &secondary.ChecklistUpsert{
		ThemeID:     themeID,
		WeekStart:   "2026-10-19",
		Status:      "completed",
		Answers:     sampleAnswers("NESN"),
		CompletedAt: &completedAt,
		EditedAt:    completedAt,
	})
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	entry, _ = repo.FetchEntry(ctx, themeID, "2026-10-19")
	if entry.Revision != 2 {
		t.Errorf("expected revision 2, got %d", entry.Revision)
	}
	if entry.Status != "completed" {
		t.Errorf("expected completed, got %s", entry.Status)
	}
	if entry.CompletedAt == nil || !entry.CompletedAt.Equal(completedAt) {
		t.Errorf("expected completedAt %v, got %v", completedAt, entry.CompletedAt)
	}
	if !entry.LastEditedAt.Equal(completedAt) {
		t.Errorf("expected lastEditedAt %v, got %v", completedAt, entry.LastEditedAt)
	}
	if len(entry.Answers.ThesisChecks) != 1 {
		t.Errorf("expected full replace of answers, got %d theses", len(entry.Answers.ThesisChecks))
	}

	var rows int
	testDB.QueryRow("SELECT COUNT(*) FROM weekly_checklists").Scan(&rows)
	if rows != 1 {
		t.Errorf("expected one row per (theme, week), got %d", rows)
	}
}

func TestChecklistRepository_UpsertClearsSkipFields(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewChecklistRepository(testDB, zerolog.Nop())
	ctx := context.Background()
	themeID := seedTheme(t, testDB, "", true)
	now := time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)

	repo.Upsert(ctx, &secondary.ChecklistUpsert{ThemeID: themeID, WeekStart: "2026-10-19", Status: "skipped", SkipComment: "travel", SkippedAt: &now, EditedAt: now})
	repo.Upsert(ctx, &secondary.ChecklistUpsert{ThemeID: themeID, WeekStart: "2026-10-19", Status: "completed", Answers: sampleAnswers("X"), CompletedAt: &now, EditedAt: now})

	entry, _ := repo.FetchEntry(ctx, themeID, "2026-10-19")
	if entry.SkipComment != "" || entry.SkippedAt != nil {
		t.Errorf("expected skip fields cleared, got %q / %v", entry.SkipComment, entry.SkippedAt)
	}
}

func TestChecklistRepository_ListAndFetchLast(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewChecklistRepository(testDB, zerolog.Nop())
	ctx := context.Background()
	themeID := seedTheme(t, testDB, "", true)
	other := seedTheme(t, testDB, "Other", true)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	weeks := []struct{ week, status string }{
		{"2026-09-28", "completed"},
		{"2026-10-12", "skipped"},
		{"2026-10-05", "completed"},
		{"2026-10-19", "draft"},
	}
	for _, w := range weeks {
		if err := repo.Upsert(ctx, &secondary.ChecklistUpsert{ThemeID: themeID, WeekStart: w.week, Status: w.status, EditedAt: now}); err != nil {
			t.Fatalf("Upsert %s failed: %v", w.week, err)
		}
	}
	repo.Upsert(ctx, &secondary.ChecklistUpsert{ThemeID: other, WeekStart: "2026-10-26", Status: "completed", EditedAt: now})

	all, err := repo.List(ctx, themeID, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"2026-10-19", "2026-10-12", "2026-10-05", "2026-09-28"}
	if len(all) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(all))
	}
	for i, w := range want {
		if all[i].WeekStart != w {
			t.Errorf("position %d: expected %s, got %s", i, w, all[i].WeekStart)
		}
	}

	limited, _ := repo.List(ctx, themeID, 2)
	if len(limited) != 2 {
		t.Errorf("expected 2 entries with limit, got %d", len(limited))
	}

	last, err := repo.FetchLast(ctx, themeID, "completed")
	if err != nil || last == nil {
		t.Fatalf("FetchLast failed: %v", err)
	}
	if last.WeekStart != "2026-10-05" {
		t.Errorf("expected most recent completed 2026-10-05, got %s", last.WeekStart)
	}
}

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/adapters/sqlite"
)

func TestAllocationRepository_Hierarchy(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewAllocationRepository(testDB, zerolog.Nop())
	ctx := context.Background()

	bonds := seedClass(t, testDB, "Fixed Income", 1)
	equity := seedClass(t, testDB, "Equity", 0)
	seedSubClass(t, testDB, equity, "Global Equity", 1)
	seedSubClass(t, testDB, equity, "Swiss Equity", 0)
	seedSubClass(t, testDB, bonds, "Government Bonds", 0)

	classes, err := repo.ListAssetClasses(ctx)
	if err != nil {
		t.Fatalf("ListAssetClasses failed: %v", err)
	}
	if len(classes) != 2 || classes[0].Name != "Equity" || classes[1].Name != "Fixed Income" {
		t.Fatalf("expected classes in sort order, got %+v", classes)
	}

	subs, err := repo.ListSubClasses(ctx, equity)
	if err != nil {
		t.Fatalf("ListSubClasses failed: %v", err)
	}
	if len(subs) != 2 || subs[0].Name != "Swiss Equity" || subs[1].Name != "Global Equity" {
		t.Fatalf("expected equity subs in sort order, got %+v", subs)
	}
	if subs[0].ClassID != equity {
		t.Errorf("expected class id %d, got %d", equity, subs[0].ClassID)
	}
}

func TestAllocationRepository_UpsertTargets(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewAllocationRepository(testDB, zerolog.Nop())
	ctx := context.Background()

	equity := seedClass(t, testDB, "Equity", 0)
	swiss := seedSubClass(t, testDB, equity, "Swiss Equity", 0)

	if err := repo.UpsertClassTarget(ctx, 1, equity, 25, 250_000); err != nil {
		t.Fatalf("UpsertClassTarget failed: %v", err)
	}
	if err := repo.UpsertClassTarget(ctx, 1, equity, 30, 300_000); err != nil {
		t.Fatalf("second UpsertClassTarget failed: %v", err)
	}
	if err := repo.UpsertSubClassTarget(ctx, 1, swiss, 100, 300_000); err != nil {
		t.Fatalf("UpsertSubClassTarget failed: %v", err)
	}
	// a second portfolio keeps its own rows
	if err := repo.UpsertClassTarget(ctx, 2, equity, 10, 1_000); err != nil {
		t.Fatalf("UpsertClassTarget portfolio 2 failed: %v", err)
	}

	targets, err := repo.ListTargets(ctx, 1)
	if err != nil {
		t.Fatalf("ListTargets failed: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 target rows, got %d", len(targets))
	}

	for _, tr := range targets {
		switch {
		case tr.ClassID != nil:
			if tr.SubClassID != nil {
				t.Error("class row must not carry a sub-class id")
			}
			if tr.Percent != 30 || tr.AmountChf == nil || *tr.AmountChf != 300_000 {
				t.Errorf("unexpected class target %+v", tr)
			}
		case tr.SubClassID != nil:
			if *tr.SubClassID != swiss || tr.Percent != 100 {
				t.Errorf("unexpected sub-class target %+v", tr)
			}
		default:
			t.Error("row carries neither class nor sub-class id")
		}
	}
}

func TestAllocationRepository_PercentOnlyRow(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewAllocationRepository(testDB, zerolog.Nop())
	equity := seedClass(t, testDB, "Equity", 0)
	testDB.Exec("INSERT INTO portfolio_targets (portfolio_id, class_id, percent) VALUES (1, ?, 60)", equity)

	targets, err := repo.ListTargets(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListTargets failed: %v", err)
	}
	if len(targets) != 1 || targets[0].AmountChf != nil {
		t.Errorf("expected nil CHF amount for percent-only row, got %+v", targets)
	}
}

func TestPositionRepository(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewPositionRepository(testDB)
	ctx := context.Background()

	theme := seedTheme(t, testDB, "Core Equity", true)
	seedPosition(t, testDB, "Nestle", theme, "Swiss Equity", 10, 100, "CHF")
	seedPosition(t, testDB, "Cash", 0, "CHF Cash", 1, 5000, "CHF")

	all, err := repo.ListPositionReports(ctx)
	if err != nil {
		t.Fatalf("ListPositionReports failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(all))
	}
	if all[1].ThemeID != nil {
		t.Error("expected unassigned position")
	}

	byTheme, err := repo.ListByTheme(ctx, theme)
	if err != nil {
		t.Fatalf("ListByTheme failed: %v", err)
	}
	if len(byTheme) != 1 || byTheme[0].Label != "Nestle" || byTheme[0].Quantity != 10 {
		t.Errorf("unexpected theme positions %+v", byTheme)
	}
}

func TestExchangeRateRepository_LatestRate(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewExchangeRateRepository(testDB)
	ctx := context.Background()

	testDB.Exec("INSERT INTO exchange_rates (currency_code, rate_date, rate_to_base) VALUES ('USD', '2026-10-01', 0.90)")
	testDB.Exec("INSERT INTO exchange_rates (currency_code, rate_date, rate_to_base) VALUES ('USD', '2026-10-15', 0.88)")
	testDB.Exec("INSERT INTO exchange_rates (currency_code, rate_date, rate_to_base) VALUES ('USD', '2026-10-30', 0.80)")

	rate, found, err := repo.LatestRate(ctx, "usd", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("LatestRate failed: %v", err)
	}
	if !found || rate != 0.88 {
		t.Errorf("expected 0.88 on/before Oct 19, got %v (found %v)", rate, found)
	}

	_, found, err = repo.LatestRate(ctx, "USD", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if err != nil || found {
		t.Errorf("expected no rate before the first quote, got found=%v err=%v", found, err)
	}

	_, found, _ = repo.LatestRate(ctx, "JPY", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	if found {
		t.Error("expected no JPY rate")
	}
}

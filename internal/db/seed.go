package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedDemo populates an empty ledger with a small demo portfolio:
// themes, a two-level asset class hierarchy, targets, positions and FX rates.
func SeedDemo(database *sql.DB, portfolioID int64, now time.Time) error {
	var existing int
	if err := database.QueryRow("SELECT COUNT(*) FROM portfolio_themes").Scan(&existing); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("ledger already contains %d themes; demo data is only seeded into an empty ledger", existing)
	}

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	// Themes
	themes := []struct {
		id           int64
		name         string
		enabled      bool
		highPriority bool
		archived     bool
	}{
		{1, "Core Equity", true, true, false},
		{2, "Dividend Income", true, false, false},
		{3, "Crypto Satellite", false, false, false},
		{4, "Legacy Tech", true, false, true},
	}
	for _, t := range themes {
		var archivedAt sql.NullTime
		if t.archived {
			archivedAt = sql.NullTime{Time: now, Valid: true}
		}
		if _, err := tx.Exec(
			"INSERT INTO portfolio_themes (id, name, weekly_checklist_enabled, weekly_checklist_high_priority, archived_at) VALUES (?, ?, ?, ?, ?)",
			t.id, t.name, t.enabled, t.highPriority, archivedAt,
		); err != nil {
			return fmt.Errorf("seed themes: %w", err)
		}
	}

	// Asset classes
	classes := []struct {
		id   int64
		name string
	}{
		{1, "Equity"},
		{2, "Fixed Income"},
		{3, "Cash"},
		{4, "Alternatives"},
	}
	for i, c := range classes {
		if _, err := tx.Exec("INSERT INTO asset_classes (id, name, sort_order) VALUES (?, ?, ?)", c.id, c.name, i); err != nil {
			return fmt.Errorf("seed asset classes: %w", err)
		}
	}

	// Sub-classes
	subs := []struct {
		id      int64
		classID int64
		name    string
	}{
		{10, 1, "Swiss Equity"},
		{11, 1, "Global Equity"},
		{12, 1, "Emerging Markets"},
		{20, 2, "Government Bonds"},
		{21, 2, "Corporate Bonds"},
		{30, 3, "CHF Cash"},
		{40, 4, "Gold"},
		{41, 4, "Crypto"},
	}
	for i, s := range subs {
		if _, err := tx.Exec("INSERT INTO asset_sub_classes (id, class_id, name, sort_order) VALUES (?, ?, ?, ?)", s.id, s.classID, s.name, i); err != nil {
			return fmt.Errorf("seed sub-classes: %w", err)
		}
	}

	// Targets (percent only; CHF derives from the portfolio total)
	classTargets := map[int64]float64{1: 60, 2: 25, 3: 5, 4: 10}
	for id, pct := range classTargets {
		if _, err := tx.Exec("INSERT INTO portfolio_targets (portfolio_id, class_id, percent) VALUES (?, ?, ?)", portfolioID, id, pct); err != nil {
			return fmt.Errorf("seed class targets: %w", err)
		}
	}
	subTargets := map[int64]float64{10: 40, 11: 45, 12: 15, 20: 60, 21: 40, 30: 100, 40: 70, 41: 30}
	for id, pct := range subTargets {
		if _, err := tx.Exec("INSERT INTO portfolio_targets (portfolio_id, sub_class_id, percent) VALUES (?, ?, ?)", portfolioID, id, pct); err != nil {
			return fmt.Errorf("seed sub-class targets: %w", err)
		}
	}

	// Positions
	positions := []struct {
		label    string
		themeID  int64
		subClass string
		qty      float64
		price    float64
		currency string
	}{
		{"Nestle", 1, "Swiss Equity", 400, 96.5, "CHF"},
		{"Novartis", 2, "Swiss Equity", 300, 88.2, "CHF"},
		{"MSCI World ETF", 1, "Global Equity", 900, 102.4, "USD"},
		{"EM Leaders ETF", 1, "Emerging Markets", 500, 48.1, "USD"},
		{"Swiss Confederation 2032", 2, "Government Bonds", 150, 101.3, "CHF"},
		{"EU Corporate Bond Fund", 2, "Corporate Bonds", 200, 95.7, "EUR"},
		{"Cash Account", 0, "CHF Cash", 1, 25000, "CHF"},
		{"Physical Gold", 0, "Gold", 10, 2100, "USD"},
		{"Bitcoin", 3, "Crypto", 0.25, 61000, "USD"},
	}
	for _, p := range positions {
		var themeID sql.NullInt64
		if p.themeID > 0 {
			themeID = sql.NullInt64{Int64: p.themeID, Valid: true}
		}
		if _, err := tx.Exec(
			"INSERT INTO positions (label, theme_id, sub_class_name, quantity, current_price, currency) VALUES (?, ?, ?, ?, ?, ?)",
			p.label, themeID, p.subClass, p.qty, p.price, p.currency,
		); err != nil {
			return fmt.Errorf("seed positions: %w", err)
		}
	}

	// Exchange rates
	rateDate := now.AddDate(0, 0, -1).Format("2006-01-02")
	rates := map[string]float64{"USD": 0.88, "EUR": 0.94}
	for code, rate := range rates {
		if _, err := tx.Exec("INSERT INTO exchange_rates (currency_code, rate_date, rate_to_base) VALUES (?, ?, ?)", code, rateDate, rate); err != nil {
			return fmt.Errorf("seed exchange rates: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	return nil
}

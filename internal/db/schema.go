package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete modern schema for fresh wealthdesk installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(): repository tests never hardcode CREATE TABLE
// statements, so a repository referencing a missing column fails immediately
// with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Portfolio themes (checklist enablement is owned here)
CREATE TABLE IF NOT EXISTS portfolio_themes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	weekly_checklist_enabled INTEGER NOT NULL DEFAULT 1,
	weekly_checklist_high_priority INTEGER NOT NULL DEFAULT 0,
	archived_at DATETIME,
	soft_deleted_at DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Weekly checklist entries, one per (theme, week start)
CREATE TABLE IF NOT EXISTS weekly_checklists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	theme_id INTEGER NOT NULL,
	week_start_date TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('draft', 'completed', 'skipped')) DEFAULT 'draft',
	answers_json TEXT,
	skip_comment TEXT,
	completed_at DATETIME,
	skipped_at DATETIME,
	revision INTEGER NOT NULL DEFAULT 1,
	last_edited_at DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(theme_id, week_start_date),
	FOREIGN KEY (theme_id) REFERENCES portfolio_themes(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_weekly_checklists_theme_week ON weekly_checklists(theme_id, week_start_date DESC);
CREATE INDEX IF NOT EXISTS idx_weekly_checklists_status ON weekly_checklists(theme_id, status);

-- Asset class hierarchy
CREATE TABLE IF NOT EXISTS asset_classes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS asset_sub_classes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	class_id INTEGER NOT NULL,
	name TEXT NOT NULL UNIQUE,
	sort_order INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (class_id) REFERENCES asset_classes(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_asset_sub_classes_class ON asset_sub_classes(class_id);

-- Allocation targets: exactly one of class_id / sub_class_id per row
CREATE TABLE IF NOT EXISTS portfolio_targets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	portfolio_id INTEGER NOT NULL DEFAULT 1,
	class_id INTEGER,
	sub_class_id INTEGER,
	percent REAL NOT NULL DEFAULT 0 CHECK(percent >= 0),
	amount_chf REAL CHECK(amount_chf IS NULL OR amount_chf >= 0),
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	CHECK ((class_id IS NULL) <> (sub_class_id IS NULL)),
	UNIQUE(portfolio_id, class_id),
	UNIQUE(portfolio_id, sub_class_id),
	FOREIGN KEY (class_id) REFERENCES asset_classes(id) ON DELETE CASCADE,
	FOREIGN KEY (sub_class_id) REFERENCES asset_sub_classes(id) ON DELETE CASCADE
);

-- Position report rows (sub-class resolved by name at reconciliation time)
CREATE TABLE IF NOT EXISTS positions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT NOT NULL,
	theme_id INTEGER,
	sub_class_name TEXT NOT NULL,
	quantity REAL NOT NULL,
	current_price REAL NOT NULL,
	currency TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (theme_id) REFERENCES portfolio_themes(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_positions_theme ON positions(theme_id);

-- Exchange rates: one unit of currency_code expressed in the base currency
CREATE TABLE IF NOT EXISTS exchange_rates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	currency_code TEXT NOT NULL,
	rate_date TEXT NOT NULL,
	rate_to_base REAL NOT NULL CHECK(rate_to_base > 0),
	UNIQUE(currency_code, rate_date)
);
`

// InitSchema brings the database to the current schema.
// Fresh databases get SchemaSQL directly and are stamped at the latest version;
// databases created before versioning run the pending migrations.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	var legacyCount int
	err = conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('portfolio_themes', 'weekly_checklists')").Scan(&legacyCount)
	if err != nil {
		return err
	}
	if legacyCount > 0 {
		return RunMigrations(conn)
	}

	if _, err := conn.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := ensureVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}

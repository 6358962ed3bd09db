// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/wealthdesk/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// every pooled connection to :memory: would be a separate database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedTheme inserts a test theme and returns its ID.
func seedTheme(t *testing.T, db *sql.DB, name string, enabled bool) int64 {
	t.Helper()
	if name == "" {
		name = "Core Equity"
	}
	result, err := db.Exec("INSERT INTO portfolio_themes (name, weekly_checklist_enabled) VALUES (?, ?)", name, enabled)
	if err != nil {
		t.Fatalf("failed to seed theme: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// seedClass inserts an asset class and returns its ID.
func seedClass(t *testing.T, db *sql.DB, name string, sortOrder int) int64 {
	t.Helper()
	result, err := db.Exec("INSERT INTO asset_classes (name, sort_order) VALUES (?, ?)", name, sortOrder)
	if err != nil {
		t.Fatalf("failed to seed asset class: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// seedSubClass inserts a sub-class and returns its ID.
func seedSubClass(t *testing.T, db *sql.DB, classID int64, name string, sortOrder int) int64 {
	t.Helper()
	result, err := db.Exec("INSERT INTO asset_sub_classes (class_id, name, sort_order) VALUES (?, ?, ?)", classID, name, sortOrder)
	if err != nil {
		t.Fatalf("failed to seed sub-class: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

// seedPosition inserts a position row. themeID 0 leaves it unassigned.
func seedPosition(t *testing.T, db *sql.DB, label string, themeID int64, subClass string, qty, price float64, currency string) {
	t.Helper()
	var theme sql.NullInt64
	if themeID > 0 {
		theme = sql.NullInt64{Int64: themeID, Valid: true}
	}
	_, err := db.Exec(
		"INSERT INTO positions (label, theme_id, sub_class_name, quantity, current_price, currency) VALUES (?, ?, ?, ?, ?, ?)",
		label, theme, subClass, qty, price, currency,
	)
	if err != nil {
		t.Fatalf("failed to seed position: %v", err)
	}
}

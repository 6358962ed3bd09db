package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_high_priority_to_portfolio_themes",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_amount_chf_to_portfolio_targets",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_revision_to_weekly_checklists",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_theme_to_positions",
		Up:      migrationV4,
	},
	{
		Version: 5,
		Name:    "add_unique_target_keys",
		Up:      migrationV5,
	},
}

// LatestVersion is the schema version of a fully migrated database.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func ensureVersionTable(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(conn *sql.DB) (int, error) {
	if err := ensureVersionTable(conn); err != nil {
		return 0, err
	}
	var v int
	if err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return v, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(conn *sql.DB) error {
	currentVersion, err := CurrentVersion(conn)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("running migration")

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// columnExists reports whether table has the named column.
func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func addColumn(tx *sql.Tx, table, column, definition string) error {
	exists, err := columnExists(tx, table, column)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	if exists {
		return nil
	}
	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
	}
	return nil
}

// migrationV1 adds the high-priority flag used to order the checklist overview
func migrationV1(tx *sql.Tx) error {
	return addColumn(tx, "portfolio_themes", "weekly_checklist_high_priority", "INTEGER NOT NULL DEFAULT 0")
}

// migrationV2 adds explicit CHF targets; NULL keeps the percentage authoritative
func migrationV2(tx *sql.Tx) error {
	return addColumn(tx, "portfolio_targets", "amount_chf", "REAL")
}

// migrationV3 adds the save counter to checklist entries
func migrationV3(tx *sql.Tx) error {
	return addColumn(tx, "weekly_checklists", "revision", "INTEGER NOT NULL DEFAULT 1")
}

// migrationV4 links positions to themes for per-theme valuation
func migrationV4(tx *sql.Tx) error {
	if err := addColumn(tx, "positions", "theme_id", "INTEGER REFERENCES portfolio_themes(id) ON DELETE SET NULL"); err != nil {
		return err
	}
	_, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_positions_theme ON positions(theme_id)")
	return err
}

// migrationV5 keeps the newest target row per key and enforces one row per key
func migrationV5(tx *sql.Tx) error {
	stmts := []string{
		`DELETE FROM portfolio_targets WHERE class_id IS NOT NULL AND id NOT IN (
			SELECT MAX(id) FROM portfolio_targets WHERE class_id IS NOT NULL GROUP BY portfolio_id, class_id)`,
		`DELETE FROM portfolio_targets WHERE sub_class_id IS NOT NULL AND id NOT IN (
			SELECT MAX(id) FROM portfolio_targets WHERE sub_class_id IS NOT NULL GROUP BY portfolio_id, sub_class_id)`,
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_portfolio_targets_class ON portfolio_targets(portfolio_id, class_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_portfolio_targets_sub_class ON portfolio_targets(portfolio_id, sub_class_id)",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

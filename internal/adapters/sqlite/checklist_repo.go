package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/wealthdesk/internal/core/checklist"
	"github.com/example/wealthdesk/internal/ports/secondary"
)

// ChecklistRepository implements secondary.ChecklistRepository with SQLite.
type ChecklistRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewChecklistRepository creates a new SQLite checklist repository.
func NewChecklistRepository(db *sql.DB, log zerolog.Logger) *ChecklistRepository {
	return &ChecklistRepository{
		db:  db,
		log: log.With().Str("repo", "weekly_checklists").Logger(),
	}
}

const checklistColumns = `theme_id, week_start_date, status, answers_json, skip_comment,
	completed_at, skipped_at, revision, last_edited_at`

// FetchEntry retrieves the entry for a theme and week. Returns nil, nil when absent.
func (r *ChecklistRepository) FetchEntry(ctx context.Context, themeID int64, weekStart string) (*secondary.ChecklistEntryRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+checklistColumns+" FROM weekly_checklists WHERE theme_id = ? AND week_start_date = ?",
		themeID, weekStart,
	)
	entry, err := scanChecklistEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checklist entry: %w", err)
	}
	return entry, nil
}

// FetchLast retrieves the most recent entry with the given status. Returns nil, nil when absent.
func (r *ChecklistRepository) FetchLast(ctx context.Context, themeID int64, status string) (*secondary.ChecklistEntryRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+checklistColumns+" FROM weekly_checklists WHERE theme_id = ? AND status = ? ORDER BY week_start_date DESC LIMIT 1",
		themeID, status,
	)
	entry, err := scanChecklistEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch last %s checklist: %w", status, err)
	}
	return entry, nil
}

// List retrieves entries by week start descending. limit <= 0 returns all.
func (r *ChecklistRepository) List(ctx context.Context, themeID int64, limit int) ([]*secondary.ChecklistEntryRecord, error) {
	query := "SELECT " + checklistColumns + " FROM weekly_checklists WHERE theme_id = ? ORDER BY week_start_date DESC"
	args := []any{themeID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.ChecklistEntryRecord
	for rows.Next() {
		entry, err := scanChecklistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checklist: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Upsert replaces the row for (ThemeID, WeekStart). The revision counter and
// last_edited_at are bumped by the same statement.
func (r *ChecklistRepository) Upsert(ctx context.Context, entry *secondary.ChecklistUpsert) error {
	answersJSON, err := json.Marshal(entry.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	var skipComment sql.NullString
	if entry.SkipComment != "" {
		skipComment = sql.NullString{String: entry.SkipComment, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO weekly_checklists (theme_id, week_start_date, status, answers_json, skip_comment, completed_at, skipped_at, revision, last_edited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT(theme_id, week_start_date) DO UPDATE SET
			status = excluded.status,
			answers_json = excluded.answers_json,
			skip_comment = excluded.skip_comment,
			completed_at = excluded.completed_at,
			skipped_at = excluded.skipped_at,
			revision = weekly_checklists.revision + 1,
			last_edited_at = excluded.last_edited_at`,
		entry.ThemeID, entry.WeekStart, entry.Status, string(answersJSON), skipComment,
		nullTime(entry.CompletedAt), nullTime(entry.SkippedAt), entry.EditedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert checklist: %w", err)
	}

	r.log.Debug().
		Int64("theme_id", entry.ThemeID).
		Str("week_start", entry.WeekStart).
		Str("status", entry.Status).
		Int("theses", len(entry.Answers.ThesisChecks)).
		Msg("Upserted weekly checklist")

	return nil
}

func scanChecklistEntry(row rowScanner) (*secondary.ChecklistEntryRecord, error) {
	var (
		e           secondary.ChecklistEntryRecord
		answersJSON sql.NullString
		skipComment sql.NullString
		completedAt sql.NullTime
		skippedAt   sql.NullTime
	)
	if err := row.Scan(&e.ThemeID, &e.WeekStart, &e.Status, &answersJSON, &skipComment,
		&completedAt, &skippedAt, &e.Revision, &e.LastEditedAt); err != nil {
		return nil, err
	}

	if answersJSON.Valid && answersJSON.String != "" {
		var answers checklist.Answers
		if err := json.Unmarshal([]byte(answersJSON.String), &answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}
		answers.EnsureIDs()
		e.Answers = &answers
	}
	e.SkipComment = skipComment.String
	e.CompletedAt = timePtr(completedAt)
	e.SkippedAt = timePtr(skippedAt)

	return &e, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Ensure ChecklistRepository implements the interface
var _ secondary.ChecklistRepository = (*ChecklistRepository)(nil)

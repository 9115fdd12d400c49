// Package query retrieves ledger events with filtering, ordering, and
// limits. Results are always most recent first.
package query

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/models"
)

// Options bound a per-kind query. A zero Limit falls back to 50 rows;
// a zero Since applies no lower time bound.
type Options struct {
	Limit int
	Since time.Time
}

func (o Options) limit() int {
	if o.Limit <= 0 {
		return 50
	}
	return o.Limit
}

// Timestamps are stored as UTC CURRENT_TIMESTAMP text.
const timeLayout = "2006-01-02 15:04:05"

// filterClause builds the WHERE/ORDER/LIMIT suffix shared by the
// per-kind queries. Rows logged in the same second order by id so the
// most recently inserted row still sorts first.
func filterClause(tsCol string, sessionID int64, opt Options) (string, []interface{}) {
	clause := " WHERE session_id = ?"
	args := []interface{}{sessionID}
	if !opt.Since.IsZero() {
		clause += " AND " + tsCol + " >= ?"
		args = append(args, opt.Since.UTC().Format(timeLayout))
	}
	clause += " ORDER BY " + tsCol + " DESC, id DESC LIMIT ?"
	args = append(args, opt.limit())
	return clause, args
}

// Reads returns the session's file reads.
func Reads(database *db.DB, sessionID int64, opt Options) ([]models.FileRead, error) {
	clause, args := filterClause("read_at", sessionID, opt)
	rows, err := database.Query(`
		SELECT id, session_id, file_path, file_hash, read_at, context
		FROM file_reads`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reads []models.FileRead
	for rows.Next() {
		var r models.FileRead
		var fileHash, context sql.NullString
		if err := rows.Scan(&r.ID, &r.SessionID, &r.FilePath, &fileHash, &r.ReadAt, &context); err != nil {
			return nil, err
		}
		r.FileHash = stringPtr(fileHash)
		r.Context = context.String
		reads = append(reads, r)
	}
	return reads, rows.Err()
}

// Changes returns the session's file changes.
func Changes(database *db.DB, sessionID int64, opt Options) ([]models.Change, error) {
	clause, args := filterClause("changed_at", sessionID, opt)
	rows, err := database.Query(`
		SELECT id, session_id, file_path, change_type, description, before_hash, after_hash, changed_at
		FROM changes`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var changes []models.Change
	for rows.Next() {
		var c models.Change
		var kind string
		var description, beforeHash, afterHash sql.NullString
		if err := rows.Scan(&c.ID, &c.SessionID, &c.FilePath, &kind, &description, &beforeHash, &afterHash, &c.ChangedAt); err != nil {
			return nil, err
		}
		c.Kind = models.ChangeKind(kind)
		c.Description = description.String
		c.BeforeHash = stringPtr(beforeHash)
		c.AfterHash = stringPtr(afterHash)
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// Tests returns the session's test runs.
func Tests(database *db.DB, sessionID int64, opt Options) ([]models.TestRun, error) {
	clause, args := filterClause("run_at", sessionID, opt)
	rows, err := database.Query(`
		SELECT id, session_id, command, result, output, run_at
		FROM tests`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tests []models.TestRun
	for rows.Next() {
		var tr models.TestRun
		var result string
		var output sql.NullString
		if err := rows.Scan(&tr.ID, &tr.SessionID, &tr.Command, &result, &output, &tr.RunAt); err != nil {
			return nil, err
		}
		tr.Result = models.TestResult(result)
		tr.Output = stringPtr(output)
		tests = append(tests, tr)
	}
	return tests, rows.Err()
}

// Notes returns the session's notes with tags decoded in stored order.
// A row whose tags column holds unparseable JSON surfaces as a
// data-integrity error rather than being skipped.
func Notes(database *db.DB, sessionID int64, opt Options) ([]models.Note, error) {
	clause, args := filterClause("created_at", sessionID, opt)
	rows, err := database.Query(`
		SELECT id, session_id, content, tags, created_at
		FROM notes`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		var tags sql.NullString
		if err := rows.Scan(&n.ID, &n.SessionID, &n.Content, &tags, &n.CreatedAt); err != nil {
			return nil, err
		}
		if tags.Valid {
			if err := json.Unmarshal([]byte(tags.String), &n.Tags); err != nil {
				return nil, fmt.Errorf("malformed tags on note %d: %w", n.ID, err)
			}
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Errors returns the session's logged errors.
func Errors(database *db.DB, sessionID int64, opt Options) ([]models.ErrorEvent, error) {
	clause, args := filterClause("occurred_at", sessionID, opt)
	rows, err := database.Query(`
		SELECT id, session_id, error_type, error_message, file_path, context, occurred_at
		FROM errors`+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query errors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var errs []models.ErrorEvent
	for rows.Next() {
		var e models.ErrorEvent
		var filePath, context sql.NullString
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Type, &e.Message, &filePath, &context, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.FilePath = stringPtr(filePath)
		e.Context = stringPtr(context)
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// Events returns one kind's rows as a serializable value.
func Events(database *db.DB, sessionID int64, kind models.EventKind, opt Options) (interface{}, error) {
	switch kind {
	case models.KindReads:
		return Reads(database, sessionID, opt)
	case models.KindChanges:
		return Changes(database, sessionID, opt)
	case models.KindTests:
		return Tests(database, sessionID, opt)
	case models.KindNotes:
		return Notes(database, sessionID, opt)
	case models.KindErrors:
		return Errors(database, sessionID, opt)
	default:
		return nil, fmt.Errorf("invalid query kind %q", kind)
	}
}

// KindCount is one row of the per-kind summary.
type KindCount struct {
	Kind  models.EventKind `json:"type"`
	Count int              `json:"count"`
}

// Summary counts the session's events per kind. It always returns five
// rows in the fixed order reads, changes, tests, notes, errors.
func Summary(database *db.DB, sessionID int64) ([]KindCount, error) {
	rows, err := database.Query(`
		SELECT 'reads' AS type, COUNT(*) AS count FROM file_reads WHERE session_id = ?
		UNION ALL
		SELECT 'changes', COUNT(*) FROM changes WHERE session_id = ?
		UNION ALL
		SELECT 'tests', COUNT(*) FROM tests WHERE session_id = ?
		UNION ALL
		SELECT 'notes', COUNT(*) FROM notes WHERE session_id = ?
		UNION ALL
		SELECT 'errors', COUNT(*) FROM errors WHERE session_id = ?
	`, sessionID, sessionID, sessionID, sessionID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summary []KindCount
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		summary = append(summary, KindCount{Kind: models.EventKind(kind), Count: count})
	}
	return summary, rows.Err()
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

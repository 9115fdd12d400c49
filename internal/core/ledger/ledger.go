// Package ledger appends typed activity events to a session. Events are
// immutable once written; there are no update or delete operations.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/digest"
	"github.com/haasonsaas/session-memory/internal/core/inference"
	"github.com/haasonsaas/session-memory/internal/core/models"
)

// Ledger writes events for an already-resolved session. Callers pass
// absolute file paths; the ledger stores them as given and never
// consults the working directory.
type Ledger struct {
	db *db.DB
}

// New creates a ledger over an open database.
func New(database *db.DB) *Ledger {
	return &Ledger{db: database}
}

// LogRead records that filePath was examined. The content digest is
// computed best-effort and stored as NULL when the file is unreadable.
// An empty context is filled in by inference.
func (l *Ledger) LogRead(sessionID int64, filePath, context string) (int64, error) {
	var fileHash interface{}
	if hash, ok := digest.File(filePath); ok {
		fileHash = hash
	}

	if context == "" {
		context = inference.Infer(filePath)
	}

	result, err := l.db.Exec(`
		INSERT INTO file_reads (session_id, file_path, file_hash, context)
		VALUES (?, ?, ?, ?)
	`, sessionID, filePath, fileHash, context)
	if err != nil {
		return 0, fmt.Errorf("failed to log read: %w", err)
	}
	return result.LastInsertId()
}

// LogChange records a create, modify, or delete of filePath. For modify
// and delete, the before hash is the digest recorded by the most recent
// read of the same path in this session; it is a last-observed value,
// not a verified pre-image. For create and modify, the after hash is
// computed fresh from disk.
func (l *Ledger) LogChange(sessionID int64, filePath string, kind models.ChangeKind, description string) (int64, error) {
	var beforeHash, afterHash *string

	switch kind {
	case models.ChangeModify, models.ChangeDelete:
		hash, err := l.lastReadHash(sessionID, filePath)
		if err != nil {
			return 0, err
		}
		beforeHash = hash
	case models.ChangeCreate:
	default:
		return 0, fmt.Errorf("invalid change type %q", kind)
	}

	if kind == models.ChangeCreate || kind == models.ChangeModify {
		if hash, ok := digest.File(filePath); ok {
			afterHash = &hash
		}
	}

	result, err := l.db.Exec(`
		INSERT INTO changes (session_id, file_path, change_type, description, before_hash, after_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, filePath, string(kind), description, beforeHash, afterHash)
	if err != nil {
		return 0, fmt.Errorf("failed to log change: %w", err)
	}
	return result.LastInsertId()
}

// lastReadHash returns the digest recorded by the most recent read of
// filePath in this session, or nil when no read is on record. The
// lookup runs outside the insert transaction, so the value can be stale
// relative to an external writer; single-process use is assumed.
func (l *Ledger) lastReadHash(sessionID int64, filePath string) (*string, error) {
	var hash sql.NullString
	err := l.db.QueryRow(`
		SELECT file_hash FROM file_reads
		WHERE session_id = ? AND file_path = ?
		ORDER BY read_at DESC, id DESC
		LIMIT 1
	`, sessionID, filePath).Scan(&hash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up last read hash: %w", err)
	}
	if !hash.Valid {
		return nil, nil
	}
	return &hash.String, nil
}

// LogTest records one test command execution and its outcome. An empty
// output stores NULL.
func (l *Ledger) LogTest(sessionID int64, command string, result models.TestResult, output string) (int64, error) {
	switch result {
	case models.TestPass, models.TestFail, models.TestError:
	default:
		return 0, fmt.Errorf("invalid test result %q", result)
	}

	res, err := l.db.Exec(`
		INSERT INTO tests (session_id, command, result, output)
		VALUES (?, ?, ?, ?)
	`, sessionID, command, string(result), nullIfEmpty(output))
	if err != nil {
		return 0, fmt.Errorf("failed to log test: %w", err)
	}
	return res.LastInsertId()
}

// AddNote records a free-form note. Tags keep their insertion order; an
// empty tag set stores NULL rather than an empty list.
func (l *Ledger) AddNote(sessionID int64, content string, tags []string) (int64, error) {
	var tagsJSON interface{}
	if len(tags) > 0 {
		data, err := json.Marshal(tags)
		if err != nil {
			return 0, fmt.Errorf("failed to encode tags: %w", err)
		}
		tagsJSON = string(data)
	}

	result, err := l.db.Exec(`
		INSERT INTO notes (session_id, content, tags)
		VALUES (?, ?, ?)
	`, sessionID, content, tagsJSON)
	if err != nil {
		return 0, fmt.Errorf("failed to add note: %w", err)
	}
	return result.LastInsertId()
}

// LogError records an error encountered during the session. File path
// and context are optional and store NULL when empty.
func (l *Ledger) LogError(sessionID int64, errorType, message, filePath, context string) (int64, error) {
	result, err := l.db.Exec(`
		INSERT INTO errors (session_id, error_type, error_message, file_path, context)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, errorType, message, nullIfEmpty(filePath), nullIfEmpty(context))
	if err != nil {
		return 0, fmt.Errorf("failed to log error: %w", err)
	}
	return result.LastInsertId()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

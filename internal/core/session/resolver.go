// Package session resolves project directories to ledger sessions.
package session

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/models"
)

// Resolve maps a project directory to its current session, creating one
// when none exists. The current session is the most recently active
// session with status active for the path; resolving bumps its
// last_active timestamp. Repeated calls for the same path return the
// same id.
func Resolve(database *db.DB, projectPath string) (int64, error) {
	var id int64

	err := database.WithTx(func(tx *sql.Tx) error {
		err := tx.QueryRow(`
			SELECT id FROM sessions
			WHERE project_path = ? AND status = ?
			ORDER BY last_active DESC LIMIT 1
		`, projectPath, string(models.StatusActive)).Scan(&id)

		if err == sql.ErrNoRows {
			description := "Session for " + filepath.Base(projectPath)
			result, err := tx.Exec(`
				INSERT INTO sessions (uid, project_path, description)
				VALUES (?, ?, ?)
			`, uuid.NewString(), projectPath, description)
			if err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}
			id, err = result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get session id: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up session: %w", err)
		}

		if _, err := tx.Exec(`
			UPDATE sessions SET last_active = CURRENT_TIMESTAMP WHERE id = ?
		`, id); err != nil {
			return fmt.Errorf("failed to touch session: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// SetDescription replaces a session's description.
func SetDescription(database *db.DB, sessionID int64, description string) error {
	result, err := database.Exec(`
		UPDATE sessions SET description = ? WHERE id = ?
	`, description, sessionID)
	if err != nil {
		return fmt.Errorf("failed to update description: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("session %d not found", sessionID)
	}
	return nil
}

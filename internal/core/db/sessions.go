package db

import (
	"database/sql"

	"github.com/haasonsaas/session-memory/internal/core/models"
)

// GetSession returns the session with the given id, or nil when absent.
func (db *DB) GetSession(id int64) (*models.Session, error) {
	return db.scanSession(db.conn.QueryRow(`
		SELECT id, uid, project_path, started_at, last_active, description, status
		FROM sessions
		WHERE id = ?
	`, id))
}

// GetSessionByUID returns the session with the given uid, or nil when absent.
func (db *DB) GetSessionByUID(uid string) (*models.Session, error) {
	return db.scanSession(db.conn.QueryRow(`
		SELECT id, uid, project_path, started_at, last_active, description, status
		FROM sessions
		WHERE uid = ?
	`, uid))
}

func (db *DB) scanSession(row *sql.Row) (*models.Session, error) {
	var s models.Session
	var description sql.NullString
	err := row.Scan(&s.ID, &s.UID, &s.ProjectPath, &s.StartedAt, &s.LastActive, &description, &s.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Description = description.String
	return &s, nil
}

// ListSessions returns sessions ordered by last activity, newest first.
// A limit of zero or less falls back to 1000.
func (db *DB) ListSessions(limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 1000
	}

	rows, err := db.conn.Query(`
		SELECT id, uid, project_path, started_at, last_active, description, status
		FROM sessions
		ORDER BY last_active DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		var description sql.NullString
		if err := rows.Scan(&s.ID, &s.UID, &s.ProjectPath, &s.StartedAt, &s.LastActive, &description, &s.Status); err != nil {
			return nil, err
		}
		s.Description = description.String
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

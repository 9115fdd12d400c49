// Package analytics aggregates ledger contents into session-level metrics.
package analytics

import (
	"fmt"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/models"
)

// FileTypeCount is one bucket of the file-type histogram.
type FileTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Metrics summarizes a session's ledger. TestSuccessRate is nil when the
// session has no test events; it is never reported as zero.
type Metrics struct {
	SessionID       int64           `json:"session_id"`
	DurationMinutes int64           `json:"duration_minutes"`
	FilesRead       int             `json:"files_read"`
	ChangesMade     int             `json:"changes_made"`
	TestsRun        int             `json:"tests_run"`
	NotesAdded      int             `json:"notes_added"`
	ErrorsLogged    int             `json:"errors_logged"`
	TestSuccessRate *float64        `json:"test_success_rate,omitempty"`
	FileTypes       []FileTypeCount `json:"file_types,omitempty"`
}

// ActivityRate returns actions per minute for the session. It reports
// false when the session has no duration or no actions. The rate is
// derived on demand and never stored.
func (m *Metrics) ActivityRate() (float64, bool) {
	total := m.FilesRead + m.ChangesMade + m.TestsRun
	if total <= 0 || m.DurationMinutes <= 0 {
		return 0, false
	}
	return float64(total) / float64(m.DurationMinutes), true
}

// ForSession computes metrics for one session.
func ForSession(database *db.DB, sessionID int64) (*Metrics, error) {
	s, err := database.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}

	m := &Metrics{SessionID: sessionID}

	// Whole minutes elapsed, floored
	m.DurationMinutes = int64(s.LastActive.Sub(s.StartedAt).Seconds()) / 60

	err = database.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM file_reads WHERE session_id = ?),
			(SELECT COUNT(*) FROM changes WHERE session_id = ?),
			(SELECT COUNT(*) FROM tests WHERE session_id = ?),
			(SELECT COUNT(*) FROM notes WHERE session_id = ?),
			(SELECT COUNT(*) FROM errors WHERE session_id = ?)
	`, sessionID, sessionID, sessionID, sessionID, sessionID).Scan(
		&m.FilesRead, &m.ChangesMade, &m.TestsRun, &m.NotesAdded, &m.ErrorsLogged)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	if err := m.loadTestSuccessRate(database); err != nil {
		return nil, err
	}
	if err := m.loadFileTypes(database); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) loadTestSuccessRate(database *db.DB) error {
	rows, err := database.Query(`
		SELECT result, COUNT(*) FROM tests
		WHERE session_id = ? GROUP BY result
	`, m.SessionID)
	if err != nil {
		return fmt.Errorf("failed to tally test results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var total, passed int
	for rows.Next() {
		var result string
		var count int
		if err := rows.Scan(&result, &count); err != nil {
			return err
		}
		total += count
		if result == string(models.TestPass) {
			passed = count
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if total > 0 {
		rate := float64(passed) / float64(total) * 100
		m.TestSuccessRate = &rate
	}
	return nil
}

// loadFileTypes buckets the union of read and change paths by a fixed
// extension-to-label mapping, keeping the five largest buckets. Ties
// break alphabetically so the order is stable.
func (m *Metrics) loadFileTypes(database *db.DB) error {
	rows, err := database.Query(`
		SELECT
			CASE
				WHEN file_path LIKE '%.py' THEN 'Python'
				WHEN file_path LIKE '%.js' THEN 'JavaScript'
				WHEN file_path LIKE '%.ts' THEN 'TypeScript'
				WHEN file_path LIKE '%.jsx' THEN 'React'
				WHEN file_path LIKE '%.tsx' THEN 'React TS'
				WHEN file_path LIKE '%.css' THEN 'CSS'
				WHEN file_path LIKE '%.md' THEN 'Markdown'
				WHEN file_path LIKE '%.json' THEN 'JSON'
				ELSE 'Other'
			END AS file_type,
			COUNT(*) AS count
		FROM (
			SELECT file_path FROM file_reads WHERE session_id = ?
			UNION ALL
			SELECT file_path FROM changes WHERE session_id = ?
		)
		GROUP BY file_type
		ORDER BY count DESC, file_type ASC
		LIMIT 5
	`, m.SessionID, m.SessionID)
	if err != nil {
		return fmt.Errorf("failed to bucket file types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ft FileTypeCount
		if err := rows.Scan(&ft.Type, &ft.Count); err != nil {
			return err
		}
		m.FileTypes = append(m.FileTypes, ft)
	}
	return rows.Err()
}

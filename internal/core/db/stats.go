package db

import (
	"database/sql"
	"time"
)

// Stats represents whole-store statistics across every session
type Stats struct {
	TotalSessions          int
	TotalReads             int
	TotalChanges           int
	TotalTests             int
	TotalNotes             int
	TotalErrors            int
	OldestSession          time.Time
	NewestActivity         time.Time
	MostActiveProject      string
	MostActiveProjectCount int
}

// GetStats returns comprehensive store statistics
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions)
	if err != nil {
		return nil, err
	}

	counts := []struct {
		table string
		dest  *int
	}{
		{"file_reads", &stats.TotalReads},
		{"changes", &stats.TotalChanges},
		{"tests", &stats.TotalTests},
		{"notes", &stats.TotalNotes},
		{"errors", &stats.TotalErrors},
	}
	for _, c := range counts {
		if err := db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	// Date range and project breakdown only make sense with sessions present
	if stats.TotalSessions > 0 {
		// MIN/MAX expressions lose the column's declared type, so the
		// driver hands back text rather than time.Time
		var oldest, newest sql.NullString
		err = db.QueryRow("SELECT MIN(started_at), MAX(last_active) FROM sessions").Scan(&oldest, &newest)
		if err != nil {
			return nil, err
		}
		if oldest.Valid {
			stats.OldestSession = parseTimestamp(oldest.String)
		}
		if newest.Valid {
			stats.NewestActivity = parseTimestamp(newest.String)
		}

		var mostActiveProject sql.NullString
		err = db.QueryRow(`
			SELECT project_path, COUNT(*) as count
			FROM sessions
			GROUP BY project_path
			ORDER BY count DESC
			LIMIT 1
		`).Scan(&mostActiveProject, &stats.MostActiveProjectCount)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if mostActiveProject.Valid {
			stats.MostActiveProject = mostActiveProject.String
		}
	}

	return stats, nil
}

// parseTimestamp tries the formats CURRENT_TIMESTAMP text can appear in.
// Unparseable input yields a zero time.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

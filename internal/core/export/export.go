// Package export assembles session snapshots for interchange with
// external tools.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/models"
	"github.com/haasonsaas/session-memory/internal/core/query"
)

// maxRowsPerKind caps each event list in a snapshot.
const maxRowsPerKind = 1000

// Snapshot holds a session's most recent events, at most 1000 per kind.
type Snapshot struct {
	SessionID   int64               `json:"session_id"`
	SessionUID  string              `json:"session_uid"`
	ProjectPath string              `json:"project_path"`
	ExportedAt  time.Time           `json:"exported_at"`
	Reads       []models.FileRead   `json:"reads"`
	Changes     []models.Change     `json:"changes"`
	Tests       []models.TestRun    `json:"tests"`
	Notes       []models.Note       `json:"notes"`
	Errors      []models.ErrorEvent `json:"errors"`
}

// Build gathers a snapshot of the session's ledger.
func Build(database *db.DB, sessionID int64) (*Snapshot, error) {
	s, err := database.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}

	opt := query.Options{Limit: maxRowsPerKind}

	reads, err := query.Reads(database, sessionID, opt)
	if err != nil {
		return nil, err
	}
	changes, err := query.Changes(database, sessionID, opt)
	if err != nil {
		return nil, err
	}
	tests, err := query.Tests(database, sessionID, opt)
	if err != nil {
		return nil, err
	}
	notes, err := query.Notes(database, sessionID, opt)
	if err != nil {
		return nil, err
	}
	errs, err := query.Errors(database, sessionID, opt)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		SessionID:   s.ID,
		SessionUID:  s.UID,
		ProjectPath: s.ProjectPath,
		ExportedAt:  time.Now().UTC(),
		Reads:       reads,
		Changes:     changes,
		Tests:       tests,
		Notes:       notes,
		Errors:      errs,
	}
	snapshot.fillEmpty()

	return snapshot, nil
}

// fillEmpty keeps absent kinds as empty lists in serialized output
// rather than null.
func (s *Snapshot) fillEmpty() {
	if s.Reads == nil {
		s.Reads = []models.FileRead{}
	}
	if s.Changes == nil {
		s.Changes = []models.Change{}
	}
	if s.Tests == nil {
		s.Tests = []models.TestRun{}
	}
	if s.Notes == nil {
		s.Notes = []models.Note{}
	}
	if s.Errors == nil {
		s.Errors = []models.ErrorEvent{}
	}
}

// JSON renders the snapshot as indented JSON.
func (s *Snapshot) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

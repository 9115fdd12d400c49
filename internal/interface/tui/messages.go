package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haasonsaas/session-memory/internal/core/analytics"
	"github.com/haasonsaas/session-memory/internal/core/db"
	"github.com/haasonsaas/session-memory/internal/core/export"
	"github.com/haasonsaas/session-memory/internal/core/models"
	"github.com/haasonsaas/session-memory/internal/core/query"
)

type errMsg struct {
	err error
}

type sessionsLoadedMsg struct {
	sessions []models.Session
}

type detailLoadedMsg struct {
	detail sessionDetail
}

type exportCopiedMsg struct{}

// sessionDetail carries everything the detail view renders for one session.
type sessionDetail struct {
	Session models.Session
	Metrics *analytics.Metrics
	Reads   []models.FileRead
	Changes []models.Change
	Tests   []models.TestRun
	Notes   []models.Note
	Errors  []models.ErrorEvent
}

const (
	sessionListLimit = 200
	detailEventLimit = 10
)

func loadSessions(database *db.DB) tea.Cmd {
	return func() tea.Msg {
		sessions, err := database.ListSessions(sessionListLimit)
		if err != nil {
			return errMsg{err}
		}
		return sessionsLoadedMsg{sessions: sessions}
	}
}

func loadSessionDetail(database *db.DB, sessionID int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := buildSessionDetail(database, sessionID)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{detail: *detail}
	}
}

func copySessionExport(database *db.DB, sessionID int64) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := export.Build(database, sessionID)
		if err != nil {
			return errMsg{err}
		}
		data, err := snapshot.JSON()
		if err != nil {
			return errMsg{err}
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return errMsg{err}
		}
		return exportCopiedMsg{}
	}
}

func buildSessionDetail(database *db.DB, sessionID int64) (*sessionDetail, error) {
	s, err := database.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("session %d not found", sessionID)
	}

	metrics, err := analytics.ForSession(database, sessionID)
	if err != nil {
		return nil, err
	}

	detail := &sessionDetail{Session: *s, Metrics: metrics}
	opt := query.Options{Limit: detailEventLimit}

	if detail.Reads, err = query.Reads(database, sessionID, opt); err != nil {
		return nil, err
	}
	if detail.Changes, err = query.Changes(database, sessionID, opt); err != nil {
		return nil, err
	}
	if detail.Tests, err = query.Tests(database, sessionID, opt); err != nil {
		return nil, err
	}
	if detail.Notes, err = query.Notes(database, sessionID, opt); err != nil {
		return nil, err
	}
	if detail.Errors, err = query.Errors(database, sessionID, opt); err != nil {
		return nil, err
	}

	return detail, nil
}

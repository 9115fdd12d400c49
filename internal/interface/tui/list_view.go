package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/haasonsaas/session-memory/internal/core/models"
)

type sessionListItem struct {
	session models.Session
}

func (i sessionListItem) FilterValue() string {
	return i.session.ProjectPath + " " + i.session.Description
}

func (i sessionListItem) Title() string {
	return i.session.ProjectPath
}

func (i sessionListItem) Description() string {
	return fmt.Sprintf("#%d | %s | Active: %s",
		i.session.ID, i.session.Description, humanize.Time(i.session.LastActive))
}

func createSessionList(sessions []models.Session, width, height int) list.Model {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionListItem{session: s}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height-1) // Reserve 1 line for help text
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(true) // "/" filters by project path and description

	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(sessionListItem); ok {
				return m, loadSessionDetail(m.db, selected.session.ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	helpText := "↑/k up • ↓/j down • / filter • enter details • q quit • ? more"

	if len(m.sessions) == 0 {
		return "No sessions found. Run 'session-memory init' in a project to start one.\n\n" + helpText
	}

	return m.list.View() + "\n" + helpText
}

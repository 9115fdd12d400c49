package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = listView
		return m, nil
	}

	return m, nil
}

func (m Model) viewHelp() string {
	help := `
Session Memory - Help
═════════════════════

SESSION LIST VIEW
─────────────────
  ↑/↓, j/k     Navigate sessions
  Enter        View session activity
  /            Filter by project or description
  ?            Show this help
  q            Quit

SESSION DETAIL VIEW
───────────────────
  j/k          Scroll line by line
  d/u          Scroll half page
  g/G          Jump to top/bottom
  c            Copy session export JSON to clipboard
  esc          Back to session list
  q            Quit

Press any key to return to session list
`

	return helpStyle.Render(help)
}

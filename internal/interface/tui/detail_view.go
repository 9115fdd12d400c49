package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
)

func createViewport(detail sessionDetail, width, height int) viewport.Model {
	vp := viewport.New(width, height-2)
	vp.SetContent(renderDetail(detail, width))
	return vp
}

func renderDetail(detail sessionDetail, width int) string {
	var b strings.Builder

	wrapWidth := width - 10
	if wrapWidth < 40 {
		wrapWidth = 40
	}

	// Header
	b.WriteString(titleStyle.Render(fmt.Sprintf("Session #%d: %s", detail.Session.ID, detail.Session.ProjectPath)) + "\n")
	if detail.Session.Description != "" {
		b.WriteString(detail.Session.Description + "\n")
	}
	b.WriteString(fmt.Sprintf("Started: %s | Last active: %s\n",
		detail.Session.StartedAt.Format("2006-01-02 15:04:05"),
		humanize.Time(detail.Session.LastActive)))

	if detail.Metrics != nil {
		b.WriteString(fmt.Sprintf("Duration: %d min | %d reads, %d changes, %d tests, %d notes, %d errors\n",
			detail.Metrics.DurationMinutes,
			detail.Metrics.FilesRead, detail.Metrics.ChangesMade, detail.Metrics.TestsRun,
			detail.Metrics.NotesAdded, detail.Metrics.ErrorsLogged))
		if detail.Metrics.TestSuccessRate != nil {
			b.WriteString(fmt.Sprintf("Test success rate: %.1f%%\n", *detail.Metrics.TestSuccessRate))
		}
	}
	b.WriteString(strings.Repeat("─", width) + "\n\n")

	if len(detail.Reads) > 0 {
		b.WriteString(readStyle.Render("▸ READS") + "\n")
		for _, r := range detail.Reads {
			b.WriteString("  " + r.FilePath + " ")
			b.WriteString(timestampStyle.Render(humanize.Time(r.ReadAt)) + "\n")
			if r.Context != "" {
				b.WriteString("    " + r.Context + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(detail.Changes) > 0 {
		b.WriteString(changeStyle.Render("▸ CHANGES") + "\n")
		for _, c := range detail.Changes {
			b.WriteString(fmt.Sprintf("  %s: %s ", c.Kind, c.FilePath))
			b.WriteString(timestampStyle.Render(humanize.Time(c.ChangedAt)) + "\n")
			if c.Description != "" {
				b.WriteString(wordwrap.String("    "+c.Description, wrapWidth) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(detail.Tests) > 0 {
		b.WriteString(testStyle.Render("▸ TESTS") + "\n")
		for _, t := range detail.Tests {
			b.WriteString(fmt.Sprintf("  %s -> %s ", t.Command, t.Result))
			b.WriteString(timestampStyle.Render(humanize.Time(t.RunAt)) + "\n")
		}
		b.WriteString("\n")
	}

	if len(detail.Notes) > 0 {
		b.WriteString(noteStyle.Render("▸ NOTES") + "\n")
		for _, n := range detail.Notes {
			b.WriteString(wordwrap.String("  "+n.Content, wrapWidth) + " ")
			b.WriteString(timestampStyle.Render(humanize.Time(n.CreatedAt)) + "\n")
			if len(n.Tags) > 0 {
				b.WriteString("    Tags: " + strings.Join(n.Tags, ", ") + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(detail.Errors) > 0 {
		b.WriteString(errorStyle.Render("▸ ERRORS") + "\n")
		for _, e := range detail.Errors {
			b.WriteString(fmt.Sprintf("  %s: %s ", e.Type, e.Message))
			b.WriteString(timestampStyle.Render(humanize.Time(e.OccurredAt)) + "\n")
			if e.FilePath != nil {
				b.WriteString("    File: " + *e.FilePath + "\n")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = listView
		m.status = ""
		return m, nil

	case "c":
		// Copy the session's export JSON for pasting into an assistant chat
		if m.current != nil {
			return m, copySessionExport(m.db, m.current.Session.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	footer := "j/k scroll • c copy export • esc back • q quit"
	if m.status != "" {
		footer = m.status
	}
	return m.viewport.View() + "\n" + helpStyle.Render(footer)
}

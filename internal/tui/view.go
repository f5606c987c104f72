package tui

import (
	"fmt"
	"strings"
)

// View renders the status panel: mapping table size, current
// window-scope cycle token, and the recent categorized log tail.
// Grounded on the teacher's internal/tui/view.go layout (title, a
// labeled stat block, a scrolling log region, a dimmed footer), with
// the dictation-specific stats swapped for keymapd's engine status.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("keymapd"))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("mappings  "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.mappingCount)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("cycle     "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", m.cycleToken)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("log"))
	b.WriteString("\n")
	if len(m.logLines) == 0 {
		b.WriteString(logStyle.Render("(no activity yet)"))
		b.WriteString("\n")
	}
	for _, entry := range m.logLines {
		b.WriteString(logStyle.Render(fmt.Sprintf("[%s] %s", entry.Category, entry.Message)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(quitStyle.Render("press q to quit"))

	return borderStyle.Render(b.String())
}

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWriter is an io.Writer that sends each written line as a
// DebugLogMsg to a Bubble Tea program. Use it as the output for a
// *log.Logger. Grounded on the teacher's internal/tui/logwriter.go,
// same shape, re-categorized for keymapd's own log prefixes.
type LogWriter struct {
	program *tea.Program
}

// NewLogWriter creates a LogWriter that sends log lines to p.
func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. The send happens in a goroutine so a
// logger call from inside a Bubble Tea command never deadlocks against
// its own program loop.
func (w *LogWriter) Write(b []byte) (int, error) {
	line := strings.TrimRight(string(b), "\n")
	go w.program.Send(DebugLogMsg{Entry: parseLine(line)})
	return len(b), nil
}

// DebugEntry is one categorized log line shown in the status panel.
type DebugEntry struct {
	Category string
	Message  string
}

// parseLine infers a category from the message content so related
// lines (script output, engine errors, window-focus failures) group
// visually without the logger itself needing to know about the TUI.
func parseLine(line string) DebugEntry {
	lower := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lower, "script:"), strings.Contains(lower, "script task error"):
		return DebugEntry{Category: "script", Message: line}
	case strings.Contains(lower, "focused window oracle"):
		return DebugEntry{Category: "window", Message: line}
	case strings.Contains(lower, "release held modifier"):
		return DebugEntry{Category: "shutdown", Message: line}
	default:
		return DebugEntry{Category: "engine", Message: line}
	}
}

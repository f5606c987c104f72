// Package tui is keymapd's status display: a small Bubble Tea program
// showing the mapping table's size, the Window-Scope Arbiter's current
// cycle token, and recent log lines (script print() output, window-focus
// failures, shutdown cleanup). Grounded on the teacher's
// internal/tui/model.go — same Model/Update/View shape and LogWriter
// bridge — repurposed from recording/transcription state to engine
// status, since keymapd has no transcript to show.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// EngineStatus is the read-only slice of *engine.Engine the status
// display depends on. Declared as an interface, rather than importing
// internal/engine directly, to keep this package free of a dependency
// on the engine's control-plane internals. Status itself goes through
// the engine's Control Plane (see engine.Engine.Status), so polling it
// from this goroutine never races the engine's private state.
type EngineStatus interface {
	Status(ctx context.Context) (mappingCount int, cycle uint64, err error)
}

// DebugLogMsg carries one categorized log line into the Update loop.
type DebugLogMsg struct{ Entry DebugEntry }

// statusMsg carries a refreshed EngineStatus.Status read into Update.
type statusMsg struct {
	count int
	cycle uint64
}

type tickMsg time.Time

const maxLogLines = 12

// Model is the Bubble Tea model for keymapd's status display.
type Model struct {
	status EngineStatus

	mappingCount int
	cycleToken   uint64
	logLines     []DebugEntry

	width, height int
}

// NewModel constructs a status Model over status.
func NewModel(status EngineStatus) *Model {
	return &Model{status: status}
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) refreshStatus() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		count, cycle, err := m.status.Status(ctx)
		if err != nil {
			return nil
		}
		return statusMsg{count: count, cycle: cycle}
	}
}

// Init starts the periodic refresh tick.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.refreshStatus())
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case DebugLogMsg:
		m.logLines = append(m.logLines, msg.Entry)
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		return m, nil

	case statusMsg:
		m.mappingCount = msg.count
		m.cycleToken = msg.cycle
		return m, nil

	case tickMsg:
		return m, tea.Batch(tick(), m.refreshStatus())

	default:
		return m, nil
	}
}

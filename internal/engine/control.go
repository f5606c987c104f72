// Package engine is the Rewrite Engine and Window-Scope Arbiter of
// spec.md §4: the single goroutine that owns the mapping table and
// modifier tracker, and the Control Plane script tasks use to reach
// them. Grounded on internal/server/server.go's single-owner-loop
// pattern (one goroutine draining a channel of typed messages) and on
// event_handlers.rs's dispatch for the per-event algorithm itself.
package engine

import (
	"context"
	"errors"

	"github.com/keymapd/keymapd/internal/device"
	"github.com/keymapd/keymapd/internal/keycode"
	"github.com/keymapd/keymapd/internal/mapping"
	"github.com/keymapd/keymapd/internal/script"
)

// ErrChannelClosed is spec.md §7's ChannelClosed: the Control Plane
// collapsed out from under a poster, either because the engine loop
// that drains it has already shut down or because it never started.
// Fatal to the caller's script task.
var ErrChannelClosed = errors.New("control plane channel closed")

// controlMsg is the sealed Control Plane message variant: key emission,
// AddMapping, EatEvent, RegisterWindowChangeCallback, the focused-window
// query, the status query, and the engine's own internal window-change
// notification. Every
// variant's handle runs exclusively on the engine goroutine.
type controlMsg interface {
	handle(e *Engine)
}

// emitKeyMsg implements the Host API's send: emit ev through the
// engine's single emitter and fold it into the modifier tracker.
type emitKeyMsg struct {
	ev    device.Event
	reply chan error
}

func (m emitKeyMsg) handle(e *Engine) {
	err := e.emit.Send(m.ev)
	if err == nil {
		e.modTracker.Observe(m.ev)
	}
	m.reply <- err
}

// eatEventMsg implements EatKeyAction. Swallowing an event the engine
// already dispatched to this script task has no further effect
// downstream today (see script.EatKeyActionExpr); this exists as the
// Control Plane hook the behavior would attach to if extended.
type eatEventMsg struct {
	ev    device.Event
	reply chan error
}

func (m eatEventMsg) handle(e *Engine) {
	e.logger.Printf("eat: %s", m.ev)
	m.reply <- nil
}

// addMappingMsg implements the Host API's map: compile edits were
// already produced by the caller (scriptAmbient.PostMapping); this
// just applies them, subject to the Window-Scope Arbiter's generation
// check.
type addMappingMsg struct {
	token uint64
	edits []edit
	reply chan error
}

// edit mirrors compile.Edit without importing internal/compile here,
// so control.go stays agnostic of how a mapping was compiled.
type edit struct {
	fingerprint keycode.Fingerprint
	action      mapping.RuntimeAction
}

func (m addMappingMsg) handle(e *Engine) {
	// token 0 is the permanent scope loaded at startup; it is never
	// cleared by a window change. Any other token belongs to one
	// window-change cycle: if the engine has already moved past it,
	// this edit is from a superseded callback run and is dropped.
	if m.token != 0 && m.token != e.currentCycle {
		m.reply <- nil
		return
	}
	for _, ed := range m.edits {
		e.table.Insert(ed.fingerprint, ed.action)
		if m.token != 0 {
			e.cycleRows = append(e.cycleRows, ed.fingerprint)
		}
	}
	m.reply <- nil
}

// windowQueryResult is the focused-window oracle's answer, already
// reduced to the ok=false-means-unknown shape active_window_class
// expects.
type windowQueryResult struct {
	class string
	ok    bool
}

type windowQueryMsg struct {
	reply chan windowQueryResult
}

// handle spawns the actual oracle query onto its own goroutine rather
// than running it inline: the oracle shells out to xdotool/wmctrl
// (internal/winfocus), and spec.md §5 names GetFocusedWindowInfo a
// suspension point of the calling script task, not something the
// engine's own per-event loop should block on for a subprocess's
// duration.
func (m windowQueryMsg) handle(e *Engine) {
	go func() {
		info, err := e.oracle.ActiveWindow(context.Background())
		if err != nil {
			e.logger.Printf("focused window oracle: %v", err)
			m.reply <- windowQueryResult{ok: false}
			return
		}
		m.reply <- windowQueryResult{class: info.Class, ok: true}
	}()
}

// registerWindowChangeMsg implements on_window_change: body/captured
// are re-evaluated, under a fresh cycle token, on every future focus
// change (including immediately, so the first window is covered).
type registerWindowChangeMsg struct {
	body     *script.Block
	captured *script.Scope
}

func (m registerWindowChangeMsg) handle(e *Engine) {
	e.windowCallbacks = append(e.windowCallbacks, windowCallback{body: m.body, captured: m.captured})
	e.runCallback(m.body, m.captured, e.currentCycle)
}

// statusResult is the answer to a statusQueryMsg.
type statusResult struct {
	count int
	cycle uint64
}

// statusQueryMsg implements Engine.Status: a read of engine-private
// state taken on the engine's own goroutine, not the caller's.
type statusQueryMsg struct {
	reply chan statusResult
}

func (m statusQueryMsg) handle(e *Engine) {
	m.reply <- statusResult{count: e.table.Len(), cycle: e.currentCycle}
}

// windowChangedMsg is posted by the engine's own focus poller. It
// clears every mapping added during the previous cycle and re-runs
// every registered callback under a new one.
type windowChangedMsg struct{}

func (windowChangedMsg) handle(e *Engine) {
	for _, fp := range e.cycleRows {
		e.table.Remove(fp)
	}
	e.cycleRows = nil
	e.currentCycle++

	for _, cb := range e.windowCallbacks {
		e.runCallback(cb.body, cb.captured, e.currentCycle)
	}
}

package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/keymapd/keymapd/internal/compile"
	"github.com/keymapd/keymapd/internal/device"
	"github.com/keymapd/keymapd/internal/emitter"
	"github.com/keymapd/keymapd/internal/keycode"
	"github.com/keymapd/keymapd/internal/keyseq"
	"github.com/keymapd/keymapd/internal/mapping"
	"github.com/keymapd/keymapd/internal/modstate"
	"github.com/keymapd/keymapd/internal/script"
	"github.com/keymapd/keymapd/internal/winfocus"
)

// windowCallback is one on_window_change registration: the callback's
// body and the scope it closed over, re-evaluated on every future
// focus change.
type windowCallback struct {
	body     *script.Block
	captured *script.Scope
}

// Engine is the Rewrite Engine: the single goroutine that owns the
// mapping table, the modifier tracker, and the output emitter. Every
// other goroutine (script tasks, the focus poller) reaches it only
// through control, never by touching these fields directly.
type Engine struct {
	table      *mapping.Table
	modTracker *modstate.Tracker
	emit       *emitter.Emitter
	input      device.InputSource
	oracle     winfocus.Oracle
	logger     *log.Logger

	control      chan controlMsg
	pollInterval time.Duration

	currentCycle    uint64
	cycleRows       []keycode.Fingerprint
	windowCallbacks []windowCallback
}

// New constructs an Engine. input is grabbed exclusively by the
// caller already; sink is the synthetic output device events are
// rewritten onto. pollInterval governs the Window-Scope Arbiter's
// focus poller (internal/winfocus has no subscription API); a
// non-positive value falls back to the same 300ms default palaver's
// own polling loops use.
func New(input device.InputSource, sink device.OutputSink, oracle winfocus.Oracle, logger *log.Logger, pollInterval time.Duration) *Engine {
	if pollInterval <= 0 {
		pollInterval = 300 * time.Millisecond
	}
	return &Engine{
		table:        mapping.NewTable(),
		modTracker:   &modstate.Tracker{},
		emit:         emitter.New(sink),
		input:        input,
		oracle:       oracle,
		logger:       logger,
		control:      make(chan controlMsg, 64),
		pollInterval: pollInterval,
		// token 0 is reserved for the permanent scope (RunScript/Send/
		// Map/MapCallback all post under it); the first real
		// window-change generation must start at 1 so a callback's
		// initial registration run is never mistaken for permanent.
		currentCycle: 1,
	}
}

// Status reports the mapping table's size and the arbiter's current
// cycle token, for internal/tui's status display. Like every other
// read of engine-private state, it goes through the Control Plane
// rather than reading e.table/e.currentCycle directly from another
// goroutine.
func (e *Engine) Status(ctx context.Context) (mappingCount int, cycle uint64, err error) {
	reply := make(chan statusResult, 1)
	select {
	case e.control <- statusQueryMsg{reply: reply}:
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%w: %v", ErrChannelClosed, ctx.Err())
	}
	select {
	case res := <-reply:
		return res.count, res.cycle, nil
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%w: %v", ErrChannelClosed, ctx.Err())
	}
}

// RunScript spawns body/captured as a script task under the permanent
// cycle (token 0): mappings it declares survive every future window
// change, the same as the startup script's top level.
func (e *Engine) RunScript(ctx context.Context, body *script.Block, captured *script.Scope) {
	e.runCallback(body, captured, 0)
}

// Send emits ev through the engine's single output path. It is the Go
// host surface internal/hostapi wraps, posted under the permanent
// cycle exactly like a script task's EmitKey.
func (e *Engine) Send(ctx context.Context, ev device.Event) error {
	amb := &scriptAmbient{eng: e, token: 0}
	return amb.EmitKey(ctx, ev)
}

// SendModifier is Send specialized to a single modifier key, the Host
// API's send_modifier.
func (e *Engine) SendModifier(ctx context.Context, key keycode.Key, value keycode.KeyValue) error {
	return e.Send(ctx, device.KeyEvent(key, value))
}

// Map compiles from/to and installs the resulting rows under the
// permanent cycle, the Host API's map.
func (e *Engine) Map(ctx context.Context, from keyseq.FromSpec, to []keyseq.Token) error {
	amb := &scriptAmbient{eng: e, token: 0}
	return amb.PostMapping(ctx, from, to)
}

// MapCallback installs from bound to cb as a mapping.HostCallbackAction
// under the permanent cycle: the Host API's map(from, to) for the case
// where to is a host callable rather than a key-sequence string
// (spec.md §6, §3's RuntimeAction.HostCallback variant).
func (e *Engine) MapCallback(ctx context.Context, from keyseq.FromSpec, cb mapping.HostCallback) error {
	amb := &scriptAmbient{eng: e, token: 0}
	return amb.postCompiled(ctx, compile.Callback(from, cb))
}

func (e *Engine) runCallback(body *script.Block, captured *script.Scope, token uint64) {
	amb := &scriptAmbient{eng: e, token: token}
	ev := script.NewEvaluator(amb)
	go func() {
		if err := ev.EvalBlock(context.Background(), body, captured); err != nil {
			e.logger.Printf("script task error: %v", err)
		}
	}()
}

// Run drains device input and the Control Plane until ctx is
// cancelled or the input source fails. On any exit it releases every
// modifier the tracker still believes is held, so the script is never
// the last thing to leave a physical modifier stuck down (spec.md §7).
func (e *Engine) Run(ctx context.Context) error {
	inputCh := make(chan device.Event)
	inputErrCh := make(chan error, 1)
	go e.pumpInput(ctx, inputCh, inputErrCh)
	go e.runWindowPoller(ctx)

	for {
		select {
		case <-ctx.Done():
			e.releaseHeldModifiers()
			return ctx.Err()
		case err := <-inputErrCh:
			e.releaseHeldModifiers()
			return fmt.Errorf("input source: %w", err)
		case ev := <-inputCh:
			if err := e.handleInput(ev); err != nil {
				e.releaseHeldModifiers()
				return err
			}
		case msg := <-e.control:
			msg.handle(e)
		}
	}
}

func (e *Engine) pumpInput(ctx context.Context, out chan<- device.Event, errCh chan<- error) {
	for {
		ev, err := e.input.Next()
		if err != nil {
			errCh <- err
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// runWindowPoller watches the focused window and posts windowChangedMsg
// whenever its class changes. Polling, not a subscription, because the
// only oracle available (internal/winfocus) is a one-shot CLI query
// (spec.md §9).
func (e *Engine) runWindowPoller(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	var last string
	seen := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := e.oracle.ActiveWindow(ctx)
			if err != nil {
				continue
			}
			if seen && info.Class == last {
				continue
			}
			seen = true
			last = info.Class
			select {
			case e.control <- windowChangedMsg{}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleInput is the per-event algorithm of spec.md §4.4: fingerprint
// the event against the current coarse modifier mask, dispatch to the
// bound action if one exists, otherwise forward the event untouched.
// A mapping hit consumes the triggering event without updating the
// tracker: the user never physically released it, so the physical
// modifier state must not change because a mapping fired. Only a miss
// — the event passing straight through — is real physical modifier
// traffic and gets folded into the tracker.
func (e *Engine) handleInput(ev device.Event) error {
	if !ev.IsKey {
		return e.emit.Send(ev)
	}

	fp := keycode.Fingerprint{Key: ev.Key, Value: ev.Value, Mask: e.modTracker.Mask()}
	action, ok := e.table.Lookup(fp)
	if !ok {
		e.modTracker.Observe(ev)
		return e.emit.Send(ev)
	}
	return e.executeAction(action)
}

// seqExec threads state across the steps of one ActionSequence: a
// release reconciliation records exactly which physical keys it put
// up, so the paired restore re-presses only those, not every key in
// the family (spec.md §4.4.1).
type seqExec struct {
	released []keycode.Key
}

func (e *Engine) executeAction(action mapping.RuntimeAction) error {
	switch a := action.(type) {
	case mapping.NoOpAction:
		return nil
	case mapping.HostCallbackAction:
		a.Callback()
		return nil
	case mapping.ActionSequence:
		sx := &seqExec{}
		for _, step := range a {
			if err := e.executeStep(step, sx); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown runtime action %T", action)
	}
}

func (e *Engine) executeStep(step mapping.RuntimeKeyAction, sx *seqExec) error {
	if step.Literal {
		ev := device.KeyEvent(step.Key, step.Value)
		return e.emit.Send(ev)
	}
	return e.reconcile(step, sx)
}

func (e *Engine) reconcile(step mapping.RuntimeKeyAction, sx *seqExec) error {
	if step.RestoreType == keycode.Up {
		sides := keycode.FamilySides(
			step.FromMask.Ctrl && !step.ToMask.Ctrl,
			step.FromMask.Alt && !step.ToMask.Alt,
			step.FromMask.Shift && !step.ToMask.Shift,
			step.FromMask.Meta && !step.ToMask.Meta,
		)
		for _, pair := range sides {
			for _, key := range pair {
				if !e.modTracker.State().Down(key) {
					continue
				}
				ev := device.KeyEvent(key, keycode.Up)
				if err := e.emit.Send(ev); err != nil {
					return err
				}
				sx.released = append(sx.released, key)
			}
		}
		return nil
	}

	for _, key := range sx.released {
		ev := device.KeyEvent(key, keycode.Down)
		if err := e.emit.Send(ev); err != nil {
			return err
		}
	}
	sx.released = nil
	return nil
}

func (e *Engine) releaseHeldModifiers() {
	state := e.modTracker.State()
	sides := keycode.FamilySides(
		state.LeftCtrl || state.RightCtrl,
		state.LeftAlt || state.RightAlt,
		state.LeftShift || state.RightShift,
		state.LeftMeta || state.RightMeta,
	)
	for _, pair := range sides {
		for _, key := range pair {
			if !state.Down(key) {
				continue
			}
			ev := device.KeyEvent(key, keycode.Up)
			if err := e.emit.Send(ev); err != nil {
				e.logger.Printf("release held modifier %s: %v", key, err)
				continue
			}
			e.modTracker.Observe(ev)
		}
	}
}

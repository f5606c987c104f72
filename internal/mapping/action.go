// Package mapping holds the fingerprint-indexed mapping table and the
// compiled action types it stores, per spec.md §3/§4.3. Grounded on
// scope.rs's ValueType / event_handlers.rs's RuntimeAction, translated
// from Rust's tagged enum into Go's idiom for a sealed, exhaustively
// switched variant: an unexported marker method.
package mapping

import "github.com/keymapd/keymapd/internal/keycode"

// RestoreType selects whether modifier reconciliation releases (Up) or
// restores (Down) a side of a modifier family.
type RestoreType = keycode.KeyValue

// RuntimeKeyAction is one step of a compiled ActionSequence: either a
// literal key emission or a modifier reconciliation directive.
type RuntimeKeyAction struct {
	// Literal, when true, means (Key, Value) should be emitted as-is.
	// Otherwise this is a ModifierReconciliation step.
	Literal bool
	Key     keycode.Key
	Value   keycode.KeyValue

	// Reconciliation fields, meaningful when Literal is false.
	FromMask    keycode.ModifierMask
	ToMask      keycode.ModifierMask
	RestoreType RestoreType
}

// LiteralKey builds a literal emission step.
func LiteralKey(key keycode.Key, value keycode.KeyValue) RuntimeKeyAction {
	return RuntimeKeyAction{Literal: true, Key: key, Value: value}
}

// Reconcile builds a modifier reconciliation step: for every modifier
// family present in from but absent from to, release or restore it
// (per restoreType) according to the physical side currently down.
func Reconcile(from, to keycode.ModifierMask, restoreType RestoreType) RuntimeKeyAction {
	return RuntimeKeyAction{FromMask: from, ToMask: to, RestoreType: restoreType}
}

// HostCallback is an opaque handle to a host-language callable invoked
// synchronously when its fingerprint is hit.
type HostCallback func()

// RuntimeAction is the sealed variant a mapping table row holds:
// ActionSequence, HostCallback, or NoOp.
type RuntimeAction interface {
	sealedAction()
}

// ActionSequence is an ordered list of RuntimeKeyActions executed in
// order when its fingerprint is hit. The original triggering event is
// consumed, not forwarded.
type ActionSequence []RuntimeKeyAction

func (ActionSequence) sealedAction() {}

// HostCallbackAction invokes Callback synchronously; the engine blocks until
// it returns.
type HostCallbackAction struct{ Callback HostCallback }

func (HostCallbackAction) sealedAction() {}

// NoOpAction swallows the triggering event.
type NoOpAction struct{}

func (NoOpAction) sealedAction() {}

// Package compile turns a parsed "from" spec and "to" key sequence
// into the rows a mapping.Table needs, including the modifier
// reconciliation directives of spec.md §4.4.1. Grounded on
// python_writer.rs's _map_internal, which branches on the same
// from-is-action-vs-click / to-length-one-vs-many shape.
package compile

import (
	"github.com/keymapd/keymapd/internal/keycode"
	"github.com/keymapd/keymapd/internal/keyseq"
	"github.com/keymapd/keymapd/internal/mapping"
)

// Edit is one fingerprint->action row a compiled mapping produces.
type Edit struct {
	Fingerprint keycode.Fingerprint
	Action      mapping.RuntimeAction
}

// Mapping compiles from -> to into one or more table edits.
func Mapping(from keyseq.FromSpec, to []keyseq.Token) []Edit {
	if !from.Click {
		return compileAction(from, to)
	}
	return compileClick(from, to)
}

// Callback compiles from -> a host-language callable into the table
// edits spec.md §6 describes for the "to is a host callable" shape of
// map: an explicit-value from fires cb once, on the transition it
// names; a click-style from installs the usual three rows — DOWN
// fires cb, UP and REPEAT are NoOp — the same split compileClick makes
// between a mapping's triggering transition and its other two.
func Callback(from keyseq.FromSpec, cb mapping.HostCallback) []Edit {
	action := mapping.HostCallbackAction{Callback: cb}
	if !from.Click {
		fp := keycode.Fingerprint{Key: from.Key, Value: from.Value, Mask: from.Mask}
		return []Edit{{Fingerprint: fp, Action: action}}
	}
	return []Edit{
		{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Down, Mask: from.Mask}, Action: action},
		{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Up, Mask: from.Mask}, Action: mapping.NoOpAction{}},
		{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Repeat, Mask: from.Mask}, Action: mapping.NoOpAction{}},
	}
}

// release builds the reconciliation step that drops any modifier in
// mask before a mapped payload reaches downstream consumers.
func release(mask keycode.ModifierMask) []mapping.RuntimeKeyAction {
	if !mask.Ctrl && !mask.Alt && !mask.Shift && !mask.Meta {
		return nil
	}
	return []mapping.RuntimeKeyAction{
		mapping.Reconcile(mask, keycode.ModifierMask{}, keycode.Up),
	}
}

// restore builds the reconciliation step that re-presses any modifier
// in mask after a mapped payload has been delivered.
func restore(mask keycode.ModifierMask) []mapping.RuntimeKeyAction {
	if !mask.Ctrl && !mask.Alt && !mask.Shift && !mask.Meta {
		return nil
	}
	return []mapping.RuntimeKeyAction{
		mapping.Reconcile(mask, keycode.ModifierMask{}, keycode.Down),
	}
}

// literalsFor expands a to-sequence into literal key actions: an
// explicit token emits once, a click token emits DOWN then UP.
func literalsFor(tokens []keyseq.Token) []mapping.RuntimeKeyAction {
	out := make([]mapping.RuntimeKeyAction, 0, len(tokens)*2)
	for _, tok := range tokens {
		if tok.Click {
			out = append(out, mapping.LiteralKey(tok.Key, keycode.Down))
			out = append(out, mapping.LiteralKey(tok.Key, keycode.Up))
			continue
		}
		out = append(out, mapping.LiteralKey(tok.Key, tok.Value))
	}
	return out
}

// compileAction handles an explicit-value from (e.g. "ctrl+^j"):
// action-to-action, action-to-click, and action-to-seq all reduce to a
// single fingerprint whose sequence releases from.Mask, emits the
// target literal(s), and does not restore — an action is a single
// transition, not a complete click, so there is no natural point to
// re-press the modifier within it.
func compileAction(from keyseq.FromSpec, to []keyseq.Token) []Edit {
	seq := append(release(from.Mask), literalsFor(to)...)
	fp := keycode.Fingerprint{Key: from.Key, Value: from.Value, Mask: from.Mask}
	return []Edit{{Fingerprint: fp, Action: mapping.ActionSequence(seq)}}
}

// compileClick handles a bare from (a logical click). For a single
// click target, DOWN releases from.Mask and fires the target's
// down-transition, UP fires the target's up-transition and restores
// from.Mask, REPEAT relays the target's repeat with no reconciliation
// (the modifier was already released on DOWN and will be restored on
// UP). For a single explicit-value target or a multi-token target, the
// whole effect fires on DOWN and UP/REPEAT are NoOp.
func compileClick(from keyseq.FromSpec, to []keyseq.Token) []Edit {
	if len(to) == 1 && !to[0].Click {
		// click-to-action: the whole effect happens on DOWN.
		downSeq := append(release(from.Mask), mapping.LiteralKey(to[0].Key, to[0].Value))
		return []Edit{
			{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Down, Mask: from.Mask}, Action: mapping.ActionSequence(downSeq)},
			{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Up, Mask: from.Mask}, Action: mapping.NoOpAction{}},
			{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Repeat, Mask: from.Mask}, Action: mapping.NoOpAction{}},
		}
	}

	if len(to) == 1 && to[0].Click {
		// click-to-click: hold semantics, the target key tracks the
		// source key's own down/up/repeat one-for-one.
		target := to[0].Key
		downSeq := append(release(from.Mask), mapping.LiteralKey(target, keycode.Down))
		upSeq := append([]mapping.RuntimeKeyAction{mapping.LiteralKey(target, keycode.Up)}, restore(from.Mask)...)
		repeatSeq := []mapping.RuntimeKeyAction{mapping.LiteralKey(target, keycode.Repeat)}
		return []Edit{
			{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Down, Mask: from.Mask}, Action: mapping.ActionSequence(downSeq)},
			{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Up, Mask: from.Mask}, Action: mapping.ActionSequence(upSeq)},
			{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Repeat, Mask: from.Mask}, Action: mapping.ActionSequence(repeatSeq)},
		}
	}

	// click-to-seq: the whole burst fires on DOWN, UP/REPEAT are swallowed.
	downSeq := append(release(from.Mask), literalsFor(to)...)
	downSeq = append(downSeq, restore(from.Mask)...)
	return []Edit{
		{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Down, Mask: from.Mask}, Action: mapping.ActionSequence(downSeq)},
		{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Up, Mask: from.Mask}, Action: mapping.NoOpAction{}},
		{Fingerprint: keycode.Fingerprint{Key: from.Key, Value: keycode.Repeat, Mask: from.Mask}, Action: mapping.NoOpAction{}},
	}
}

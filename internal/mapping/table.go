package mapping

import "github.com/keymapd/keymapd/internal/keycode"

// Table maps key fingerprints to runtime actions. It is not
// goroutine-safe by itself: spec.md makes the Mapping Table
// engine-private, owned exclusively by the Rewrite Engine, which
// serializes all access to it (see internal/engine).
type Table struct {
	rows map[keycode.Fingerprint]RuntimeAction
}

// NewTable returns an empty mapping table.
func NewTable() *Table {
	return &Table{rows: make(map[keycode.Fingerprint]RuntimeAction)}
}

// Insert sets or overwrites the binding for fingerprint. Replacing an
// existing fingerprint is atomic from the caller's perspective: the
// map entry is swapped in a single assignment.
func (t *Table) Insert(fp keycode.Fingerprint, action RuntimeAction) {
	t.rows[fp] = action
}

// Lookup returns the action bound to fp, if any. The match is exact —
// no fallback to a masked or wildcarded fingerprint is ever attempted.
func (t *Table) Lookup(fp keycode.Fingerprint) (RuntimeAction, bool) {
	action, ok := t.rows[fp]
	return action, ok
}

// Remove deletes the binding for fp, if any.
func (t *Table) Remove(fp keycode.Fingerprint) {
	delete(t.rows, fp)
}

// Len returns the number of bound fingerprints, for status reporting.
func (t *Table) Len() int {
	return len(t.rows)
}

// InsertClick registers a logical click (DOWN/UP/REPEAT) under a
// single key+mask: down gets action, up and repeat get NoOp. This is
// how spec.md §4.3's "one row per KeyValue" design note is realized so
// the engine's lookup path stays uniform and branchless on event
// value.
func (t *Table) InsertClick(key keycode.Key, mask keycode.ModifierMask, action RuntimeAction) {
	t.Insert(keycode.Fingerprint{Key: key, Value: keycode.Down, Mask: mask}, action)
	t.Insert(keycode.Fingerprint{Key: key, Value: keycode.Up, Mask: mask}, NoOpAction{})
	t.Insert(keycode.Fingerprint{Key: key, Value: keycode.Repeat, Mask: mask}, NoOpAction{})
}

// Package modstate implements the Modifier State Tracker (spec.md
// §4.1): the source of truth for which physical modifier keys are
// held down. Grounded on event_handlers.rs's update_modifiers, which
// walks the same eight (key, accessor) pairs this tracker switches on.
package modstate

import (
	"github.com/keymapd/keymapd/internal/device"
	"github.com/keymapd/keymapd/internal/keycode"
)

// Tracker owns the fine ModifierState and updates it from observed
// key events. It never emits events; it only records.
type Tracker struct {
	state keycode.ModifierState
}

// Observe updates the tracked state for ev if ev is a DOWN or UP of one
// of the eight known modifier keys. REPEAT is ignored, since DOWN
// already set the bit. An UP for a modifier already recorded as up is
// a no-op — this tolerates events lost to a device grab elsewhere.
func (t *Tracker) Observe(ev device.Event) {
	if !ev.IsKey {
		return
	}
	t.state = t.state.Observe(ev.Key, ev.Value)
}

// State returns the current fine modifier state.
func (t *Tracker) State() keycode.ModifierState {
	return t.state
}

// Mask returns the coarse modifier mask derived from the current fine
// state.
func (t *Tracker) Mask() keycode.ModifierMask {
	return t.state.Mask()
}

package keycode

// ModifierState is the fine, per-side view of the eight tracked
// modifier keys. It reflects the most recent physical DOWN/UP the
// engine has observed for each key; a mapping firing never mutates it.
type ModifierState struct {
	LeftCtrl, RightCtrl   bool
	LeftAlt, RightAlt     bool
	LeftShift, RightShift bool
	LeftMeta, RightMeta   bool
}

// Mask derives the coarse ModifierMask by OR-ing each modifier
// family across its two sides.
func (s ModifierState) Mask() ModifierMask {
	return ModifierMask{
		Ctrl:  s.LeftCtrl || s.RightCtrl,
		Alt:   s.LeftAlt || s.RightAlt,
		Shift: s.LeftShift || s.RightShift,
		Meta:  s.LeftMeta || s.RightMeta,
	}
}

// Down reports whether the given modifier key is currently held,
// according to this state. Side is the key itself; key must be one of
// the eight modifier keys.
func (s ModifierState) Down(key Key) bool {
	switch key {
	case KeyLeftCtrl:
		return s.LeftCtrl
	case KeyRightCtrl:
		return s.RightCtrl
	case KeyLeftAlt:
		return s.LeftAlt
	case KeyRightAlt:
		return s.RightAlt
	case KeyLeftShift:
		return s.LeftShift
	case KeyRightShift:
		return s.RightShift
	case KeyLeftMeta:
		return s.LeftMeta
	case KeyRightMeta:
		return s.RightMeta
	default:
		return false
	}
}

// with returns a copy of s with the given modifier key's side set to
// the value of down. It is a no-op (returns s unchanged) for
// non-modifier keys.
func (s ModifierState) with(key Key, down bool) ModifierState {
	switch key {
	case KeyLeftCtrl:
		s.LeftCtrl = down
	case KeyRightCtrl:
		s.RightCtrl = down
	case KeyLeftAlt:
		s.LeftAlt = down
	case KeyRightAlt:
		s.RightAlt = down
	case KeyLeftShift:
		s.LeftShift = down
	case KeyRightShift:
		s.RightShift = down
	case KeyLeftMeta:
		s.LeftMeta = down
	case KeyRightMeta:
		s.RightMeta = down
	}
	return s
}

// Observe returns the state that results from observing value for
// key. REPEAT and non-modifier keys leave the state unchanged.
// Observing UP for an already-up modifier is a no-op, as is observing
// DOWN for an already-down modifier — both are idempotent.
func (s ModifierState) Observe(key Key, value KeyValue) ModifierState {
	if !key.IsModifier() {
		return s
	}
	switch value {
	case Down:
		return s.with(key, true)
	case Up:
		return s.with(key, false)
	default: // Repeat
		return s
	}
}

// ModifierMask is the coarse 4-bit view of ModifierState used to index
// mappings: whether either side of each modifier family is held.
type ModifierMask struct {
	Ctrl, Alt, Shift, Meta bool
}

// FamilySides returns the left/right key pair of every modifier family
// whose flag is true, in ctrl, alt, shift, meta order. Used by modifier
// reconciliation (spec §4.4.1) and by the engine's shutdown release.
func FamilySides(ctrl, alt, shift, meta bool) [][2]Key {
	var out [][2]Key
	if ctrl {
		out = append(out, [2]Key{KeyLeftCtrl, KeyRightCtrl})
	}
	if alt {
		out = append(out, [2]Key{KeyLeftAlt, KeyRightAlt})
	}
	if shift {
		out = append(out, [2]Key{KeyLeftShift, KeyRightShift})
	}
	if meta {
		out = append(out, [2]Key{KeyLeftMeta, KeyRightMeta})
	}
	return out
}

// Fingerprint is the exact lookup key into the mapping table: the
// physical key, its value, and the modifier mask in effect when the
// event was observed.
type Fingerprint struct {
	Key   Key
	Value KeyValue
	Mask  ModifierMask
}

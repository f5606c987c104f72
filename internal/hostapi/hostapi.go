// Package hostapi is the embeddable surface spec.md §6 describes:
// send, send_modifier, and map, the three operations anything hosting
// keymapd's engine gets without writing control-plane messages by
// hand. Grounded on python_writer.rs's WriterInstanceHandle, which
// wraps the same three operations behind an FFI boundary for an
// embedded Python runtime; here the host language is Go itself, so
// Handle is a plain struct wrapping the engine directly; no FFI layer
// is needed, only the same from/to dispatch logic internal/compile
// already implements.
package hostapi

import (
	"context"
	"fmt"

	"github.com/keymapd/keymapd/internal/device"
	"github.com/keymapd/keymapd/internal/keycode"
	"github.com/keymapd/keymapd/internal/keyseq"
	"github.com/keymapd/keymapd/internal/mapping"
)

// sender is the slice of *engine.Engine this package depends on.
// Declared as an interface, rather than importing internal/engine
// directly, so a test double can stand in without constructing a real
// device pair.
type sender interface {
	Send(ctx context.Context, ev device.Event) error
	SendModifier(ctx context.Context, key keycode.Key, value keycode.KeyValue) error
	Map(ctx context.Context, from keyseq.FromSpec, to []keyseq.Token) error
	MapCallback(ctx context.Context, from keyseq.FromSpec, cb mapping.HostCallback) error
}

// Handle is the host-facing wrapper around a running engine.
type Handle struct {
	eng sender
}

// New wraps eng for host use.
func New(eng sender) *Handle {
	return &Handle{eng: eng}
}

// Send parses seq (internal/keyseq's grammar) and emits every token in
// order, each followed by a sync marker.
func (h *Handle) Send(ctx context.Context, seq string) error {
	tokens, err := keyseq.ParseSequence(seq)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if tok.Click {
			if err := h.eng.Send(ctx, device.KeyEvent(tok.Key, keycode.Down)); err != nil {
				return err
			}
			if err := h.eng.Send(ctx, device.KeyEvent(tok.Key, keycode.Up)); err != nil {
				return err
			}
			continue
		}
		if err := h.eng.Send(ctx, device.KeyEvent(tok.Key, tok.Value)); err != nil {
			return err
		}
	}
	return nil
}

// SendModifier resolves name to a modifier key and emits it with value.
func (h *Handle) SendModifier(ctx context.Context, name string, value keycode.KeyValue) error {
	key, err := keycode.FromName(name)
	if err != nil {
		return fmt.Errorf("send_modifier: %w", err)
	}
	if !key.IsModifier() {
		return fmt.Errorf("send_modifier: %s is not a modifier key", name)
	}
	return h.eng.SendModifier(ctx, key, value)
}

// Map parses fromSpec and toSeq and installs the compiled mapping.
func (h *Handle) Map(ctx context.Context, fromSpec, toSeq string) error {
	from, err := keyseq.ParseFrom(fromSpec)
	if err != nil {
		return err
	}
	to, err := keyseq.ParseSequence(toSeq)
	if err != nil {
		return err
	}
	return h.eng.Map(ctx, from, to)
}

// MapCallback parses fromSpec and installs cb as a host callback
// mapping: the map(from, to) overload of spec.md §6 where to is a
// host-language callable rather than a key-sequence string, wrapped as
// a RuntimeAction.HostCallback (spec.md §3) rather than compiled to an
// ActionSequence.
func (h *Handle) MapCallback(ctx context.Context, fromSpec string, cb func()) error {
	from, err := keyseq.ParseFrom(fromSpec)
	if err != nil {
		return err
	}
	return h.eng.MapCallback(ctx, from, mapping.HostCallback(cb))
}

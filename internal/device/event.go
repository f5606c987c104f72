// Package device adapts the physical evdev input source and the
// synthetic uinput output sink to the small interfaces the rewrite
// engine depends on. Grounded on internal/hotkey/hotkey_linux.go's
// device-discovery code and on the AshBuk-speak-to-ai evdev provider's
// capability-based keyboard detection and shutdown discipline.
package device

import (
	"errors"
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"github.com/keymapd/keymapd/internal/keycode"
)

// ErrDeviceIO is spec.md §7's DeviceIOError: the grabbed input device
// or the synthetic output device failed. Fatal to the engine.
var ErrDeviceIO = errors.New("device io error")

// Event is the engine's event representation: either a key event
// (IsKey true, Key/Value populated) or an opaque passthrough event
// (mouse movement, sync, etc.) carried by RawType/RawCode/RawValue.
type Event struct {
	IsKey    bool
	Key      keycode.Key
	Value    keycode.KeyValue
	RawType  evdev.EvType
	RawCode  evdev.EvCode
	RawValue int32
}

// Sync is the synchronization marker the Output Emitter must send
// after every logical action.
var Sync = Event{RawType: evdev.EV_SYN, RawCode: evdev.SYN_REPORT}

// KeyEvent builds a key Event.
func KeyEvent(key keycode.Key, value keycode.KeyValue) Event {
	return Event{
		IsKey:    true,
		Key:      key,
		Value:    value,
		RawType:  evdev.EV_KEY,
		RawCode:  evdev.EvCode(key),
		RawValue: int32(value),
	}
}

func fromRaw(ev *evdev.InputEvent) Event {
	if ev.Type == evdev.EV_KEY {
		return KeyEvent(keycode.Key(ev.Code), keycode.KeyValue(ev.Value))
	}
	return Event{RawType: ev.Type, RawCode: ev.Code, RawValue: ev.Value}
}

func (e Event) toRaw() *evdev.InputEvent {
	return &evdev.InputEvent{Type: e.RawType, Code: e.RawCode, Value: e.RawValue}
}

func (e Event) String() string {
	if e.IsKey {
		return fmt.Sprintf("%s %s", e.Key, e.Value)
	}
	if e.RawType == evdev.EV_SYN && e.RawCode == evdev.SYN_REPORT {
		return "SYN"
	}
	return fmt.Sprintf("raw(type=%d code=%d value=%d)", e.RawType, e.RawCode, e.RawValue)
}

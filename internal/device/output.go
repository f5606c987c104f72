package device

import (
	"fmt"
	"sync"

	evdev "github.com/holoplot/go-evdev"

	"github.com/keymapd/keymapd/internal/keycode"
)

// OutputSink is the write-only side of the synthetic keyboard: the
// only collaborator the Output Emitter sends rewritten events to.
type OutputSink interface {
	Write(Event) error
	Close() error
}

// VirtualKeyboard creates and owns a uinput device that appears to the
// rest of the system as an ordinary keyboard. Writes are serialized
// under a mutex so two goroutines can never interleave a logical
// action with its sync marker.
type VirtualKeyboard struct {
	dev *evdev.InputDevice
	mu  sync.Mutex
}

// CreateVirtualKeyboard registers a new uinput device named name,
// capable of emitting every key in the fixed enumeration plus EV_SYN.
func CreateVirtualKeyboard(name string) (*VirtualKeyboard, error) {
	capabilities := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: allKeyCodes(),
		evdev.EV_SYN: {evdev.SYN_REPORT},
	}

	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: 0x03, // BUS_USB
		Vendor:  0x4b6d, // arbitrary: "Km"
		Product: 0x0001,
		Version: 1,
	}, capabilities)
	if err != nil {
		return nil, fmt.Errorf("create uinput device %q: %w", name, err)
	}
	return &VirtualKeyboard{dev: dev}, nil
}

// Write emits a single event to the synthetic device. Ordering across
// concurrent callers is FIFO: each call holds the device lock for the
// duration of the write.
func (v *VirtualKeyboard) Write(ev Event) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.dev.WriteOne(ev.toRaw()); err != nil {
		return fmt.Errorf("write event %s: %w: %v", ev, ErrDeviceIO, err)
	}
	return nil
}

// Close tears down the uinput device.
func (v *VirtualKeyboard) Close() error {
	return v.dev.Close()
}

func allKeyCodes() []evdev.EvCode {
	keys := keycode.AllCodes()
	codes := make([]evdev.EvCode, 0, len(keys))
	for _, k := range keys {
		codes = append(codes, evdev.EvCode(k))
	}
	return codes
}

package device

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// InputSource is the engine-facing interface over a grabbed physical
// device. It is the only collaborator spec.md's Rewrite Engine reads
// raw events from.
type InputSource interface {
	Next() (Event, error)
	Close() error
}

// KeyboardSource grabs a single evdev device exclusively and yields its
// events one at a time. Grounded on hotkey_linux.go's linuxListener:
// the same "closed flag swallows the expected read error on Close"
// discipline, generalized from a single watched key to every event.
type KeyboardSource struct {
	dev *evdev.InputDevice

	mu     sync.Mutex
	closed bool
}

// OpenKeyboard opens devicePath, or auto-detects a keyboard by
// scanning /dev/input/event* when devicePath is empty, and grabs it
// exclusively so events stop reaching every other consumer on the
// system (X11, the console, etc.) once keymapd takes over.
func OpenKeyboard(devicePath string) (*KeyboardSource, error) {
	dev, err := findKeyboard(devicePath)
	if err != nil {
		return nil, err
	}
	if err := dev.Grab(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("grab device: %w", err)
	}
	return &KeyboardSource{dev: dev}, nil
}

func findKeyboard(devicePath string) (*evdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := evdev.Open(devicePath)
		if err != nil {
			return nil, fmt.Errorf("open device %s: %w", devicePath, err)
		}
		return dev, nil
	}

	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("glob /dev/input/event*: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(matches[i], "/dev/input/event"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(matches[j], "/dev/input/event"))
		return ni < nj
	})

	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if isKeyboard(dev) {
			return dev, nil
		}
		_ = dev.Close()
	}

	return nil, fmt.Errorf("no keyboard device found in /dev/input/event*")
}

// isKeyboard rejects devices with relative axes (mice, trackpads) and
// requires both KEY_A and KEY_Z capability, distinguishing a real
// keyboard from a power button or similar single-purpose device.
func isKeyboard(dev *evdev.InputDevice) bool {
	for _, evType := range dev.CapableTypes() {
		if evType == evdev.EV_REL {
			return false
		}
	}

	keys := dev.CapableEvents(evdev.EV_KEY)
	hasA, hasZ := false, false
	for _, code := range keys {
		if code == 30 { // KEY_A
			hasA = true
		}
		if code == 44 { // KEY_Z
			hasZ = true
		}
	}
	return hasA && hasZ
}

// Next blocks until the next raw event is available and converts it
// to the engine's Event representation.
func (s *KeyboardSource) Next() (Event, error) {
	ev, err := s.dev.ReadOne()
	if err != nil {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed || os.IsNotExist(err) || strings.Contains(err.Error(), "file already closed") ||
			strings.Contains(err.Error(), "bad file descriptor") {
			return Event{}, errClosed
		}
		return Event{}, fmt.Errorf("read event: %w: %v", ErrDeviceIO, err)
	}
	return fromRaw(ev), nil
}

// Close releases the exclusive grab and closes the device. Safe to
// call more than once.
func (s *KeyboardSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.dev.Close()
}

var errClosed = fmt.Errorf("device closed")

// IsClosedErr reports whether err is the sentinel returned by Next
// after Close, as opposed to a genuine I/O failure.
func IsClosedErr(err error) bool { return err == errClosed }

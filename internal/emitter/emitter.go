// Package emitter implements the Output Emitter (spec.md §4.2): a
// serialized sink that always follows a logical action with a
// synchronization marker. Grounded on python_writer.rs's send/
// send_modifier, which pair every emission with SYN_REPORT, and on the
// single-owner-goroutine discipline internal/recorder.go uses around
// its audio stream.
package emitter

import (
	"fmt"

	"github.com/keymapd/keymapd/internal/device"
)

// Emitter serializes writes to an OutputSink and guarantees a sync
// marker follows every event it sends. It is only ever called from the
// engine's own goroutine, so no locking is needed here — serialization
// across the program is a property of the single-writer architecture
// (spec.md §5), not of this type.
type Emitter struct {
	sink device.OutputSink
}

// New wraps sink in an Emitter.
func New(sink device.OutputSink) *Emitter {
	return &Emitter{sink: sink}
}

// Send forwards ev to the sink, followed by a sync marker. A write
// failure is fatal to the engine, per spec.md §4.2 and §7
// (DeviceIOError); the caller is expected to propagate it and shut
// down.
func (e *Emitter) Send(ev device.Event) error {
	if err := e.sink.Write(ev); err != nil {
		return fmt.Errorf("device io: %w: %v", device.ErrDeviceIO, err)
	}
	if err := e.sink.Write(device.Sync); err != nil {
		return fmt.Errorf("device io: %w: %v", device.ErrDeviceIO, err)
	}
	return nil
}

// Close tears down the underlying sink.
func (e *Emitter) Close() error {
	return e.sink.Close()
}

package script

import "errors"

// The script-level error kinds from spec.md §7. ParseError
// (internal/keyseq.ErrParse), DeviceIOError (internal/device.ErrDeviceIO),
// and ChannelClosed (internal/engine.ErrChannelClosed) are not evaluator
// errors — they arise at the Host API boundary, the device layer, and
// the Control Plane respectively — and are declared in their owning
// packages instead of here.
var (
	// ErrUnknownName is returned by Scope.Assign when no enclosing
	// scope defines the target name. A script task that hits this
	// during evaluation is terminated with a diagnostic; the engine
	// and every other script task keep running (spec.md §7).
	ErrUnknownName = errors.New("unknown name")

	// ErrTypeMismatch is returned when a script value of the wrong
	// kind reaches a position that requires a specific one — e.g.
	// Init given a Void result, or on_window_change given a
	// non-lambda argument.
	ErrTypeMismatch = errors.New("type mismatch")
)

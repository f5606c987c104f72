package engine

import (
	"context"
	"fmt"

	"github.com/keymapd/keymapd/internal/clipboard"
	"github.com/keymapd/keymapd/internal/compile"
	"github.com/keymapd/keymapd/internal/device"
	"github.com/keymapd/keymapd/internal/keyseq"
	"github.com/keymapd/keymapd/internal/script"
)

// scriptAmbient implements script.Ambient for one running script task.
// token is fixed at the cycle the task was spawned under: a mapping
// this task posts after the engine has already moved on to a later
// cycle is a no-op (see addMappingMsg.handle), which is how the
// Window-Scope Arbiter keeps a slow or hung callback from leaking
// mappings into a window it no longer applies to.
type scriptAmbient struct {
	eng   *Engine
	token uint64
}

func (a *scriptAmbient) post(ctx context.Context, msg controlMsg, reply chan error) error {
	select {
	case a.eng.control <- msg:
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrChannelClosed, ctx.Err())
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrChannelClosed, ctx.Err())
	}
}

func (a *scriptAmbient) EmitKey(ctx context.Context, ev device.Event) error {
	reply := make(chan error, 1)
	return a.post(ctx, emitKeyMsg{ev: ev, reply: reply}, reply)
}

func (a *scriptAmbient) PostEatEvent(ctx context.Context, ev device.Event) error {
	reply := make(chan error, 1)
	return a.post(ctx, eatEventMsg{ev: ev, reply: reply}, reply)
}

// PostMapping is the seam documented on script.FromMapping/ToMapping:
// only here, in the engine, do the opaque payloads a KeyMappingExpr
// carries get type-asserted back to keyseq.FromSpec/[]keyseq.Token and
// compiled into table edits.
func (a *scriptAmbient) PostMapping(ctx context.Context, from script.FromMapping, to script.ToMapping) error {
	fromSpec, ok := from.(keyseq.FromSpec)
	if !ok {
		return fmt.Errorf("map: unexpected from payload %T", from)
	}
	toTokens, ok := to.([]keyseq.Token)
	if !ok {
		return fmt.Errorf("map: unexpected to payload %T", to)
	}
	compiled := compile.Mapping(fromSpec, toTokens)
	return a.postCompiled(ctx, compiled)
}

// postCompiled posts one AddMapping control message for a batch of
// compile.Edits, tagged with this ambient's cycle token. Shared by
// PostMapping (key-sequence targets) and Engine.MapCallback (host
// callable targets), which compile through compile.Mapping and
// compile.Callback respectively but both end up as the same edit rows.
func (a *scriptAmbient) postCompiled(ctx context.Context, compiled []compile.Edit) error {
	edits := make([]edit, len(compiled))
	for i, c := range compiled {
		edits[i] = edit{fingerprint: c.Fingerprint, action: c.Action}
	}
	reply := make(chan error, 1)
	return a.post(ctx, addMappingMsg{token: a.token, edits: edits, reply: reply}, reply)
}

func (a *scriptAmbient) ActiveWindowClass(ctx context.Context) (string, bool, error) {
	reply := make(chan windowQueryResult, 1)
	select {
	case a.eng.control <- windowQueryMsg{reply: reply}:
	case <-ctx.Done():
		return "", false, fmt.Errorf("%w: %v", ErrChannelClosed, ctx.Err())
	}
	select {
	case res := <-reply:
		return res.class, res.ok, nil
	case <-ctx.Done():
		return "", false, fmt.Errorf("%w: %v", ErrChannelClosed, ctx.Err())
	}
}

func (a *scriptAmbient) RegisterWindowChange(body *script.Block, captured *script.Scope) {
	a.eng.control <- registerWindowChangeMsg{body: body, captured: captured}
}

func (a *scriptAmbient) Print(s string) {
	a.eng.logger.Printf("script: %s", s)
}

// CopyToClipboard implements the copy_to_clipboard built-in. Unlike
// EmitKey/PostMapping it does not round-trip through the Control
// Plane: the system clipboard is not engine-private state, so there is
// nothing here for the engine goroutine to serialize access to.
func (a *scriptAmbient) CopyToClipboard(s string) error {
	return clipboard.Copy(s)
}

func (a *scriptAmbient) CycleToken() uint64 {
	return a.token
}

package hostapi

import (
	"context"
	"testing"

	"github.com/keymapd/keymapd/internal/device"
	"github.com/keymapd/keymapd/internal/keycode"
	"github.com/keymapd/keymapd/internal/keyseq"
	"github.com/keymapd/keymapd/internal/mapping"
)

type fakeSender struct {
	sent        []device.Event
	mapFrom     keyseq.FromSpec
	mapTo       []keyseq.Token
	callbackFrom keyseq.FromSpec
	callback    mapping.HostCallback
}

func (f *fakeSender) Send(ctx context.Context, ev device.Event) error {
	f.sent = append(f.sent, ev)
	return nil
}

func (f *fakeSender) SendModifier(ctx context.Context, key keycode.Key, value keycode.KeyValue) error {
	return f.Send(ctx, device.KeyEvent(key, value))
}

func (f *fakeSender) Map(ctx context.Context, from keyseq.FromSpec, to []keyseq.Token) error {
	f.mapFrom = from
	f.mapTo = to
	return nil
}

func (f *fakeSender) MapCallback(ctx context.Context, from keyseq.FromSpec, cb mapping.HostCallback) error {
	f.callbackFrom = from
	f.callback = cb
	return nil
}

func TestSendExpandsClicksIntoDownUp(t *testing.T) {
	fs := &fakeSender{}
	h := New(fs)

	if err := h.Send(context.Background(), "a ^ctrl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.sent) != 3 {
		t.Fatalf("expected 3 emissions, got %d", len(fs.sent))
	}
	if fs.sent[0].Value != keycode.Down || fs.sent[1].Value != keycode.Up {
		t.Fatalf("expected click to expand to down then up, got %#v", fs.sent[:2])
	}
	if fs.sent[2].Key != keycode.KeyLeftCtrl || fs.sent[2].Value != keycode.Down {
		t.Fatalf("expected explicit ctrl down, got %#v", fs.sent[2])
	}
}

func TestSendModifierRejectsNonModifierKey(t *testing.T) {
	h := New(&fakeSender{})
	if err := h.SendModifier(context.Background(), "KEY_A", keycode.Down); err == nil {
		t.Fatalf("expected an error for a non-modifier key")
	}
}

func TestMapCallbackInstallsHostCallable(t *testing.T) {
	fs := &fakeSender{}
	h := New(fs)

	called := false
	if err := h.MapCallback(context.Background(), "a", func() { called = true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs.callbackFrom.Key != keycode.Key(30) {
		t.Fatalf("unexpected from spec: %+v", fs.callbackFrom)
	}
	if fs.callback == nil {
		t.Fatalf("expected a callback to be installed")
	}
	fs.callback()
	if !called {
		t.Fatalf("expected the installed callback to be the one passed to MapCallback")
	}
}

func TestMapParsesBothSides(t *testing.T) {
	fs := &fakeSender{}
	h := New(fs)

	if err := h.Map(context.Background(), "ctrl+j", "^down"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fs.mapFrom.Mask.Ctrl || fs.mapFrom.Key != keycode.Key(36) {
		t.Fatalf("unexpected from spec: %+v", fs.mapFrom)
	}
	if len(fs.mapTo) != 1 || fs.mapTo[0].Key != keycode.Key(108) {
		t.Fatalf("unexpected to tokens: %+v", fs.mapTo)
	}
}

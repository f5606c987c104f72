package compile

import (
	"testing"

	"github.com/keymapd/keymapd/internal/keycode"
	"github.com/keymapd/keymapd/internal/keyseq"
	"github.com/keymapd/keymapd/internal/mapping"
)

// TestCtrlJToDownArrow reproduces spec.md §8 scenario 3 literally:
// Ctrl+J (DOWN) -> Down (DOWN) releases physical ctrl before the
// payload and does not restore it.
func TestCtrlJToDownArrow(t *testing.T) {
	from, err := keyseq.ParseFrom("ctrl+^j")
	if err != nil {
		t.Fatalf("parse from: %v", err)
	}
	to, err := keyseq.ParseSequence("^down")
	if err != nil {
		t.Fatalf("parse to: %v", err)
	}

	edits := Mapping(from, to)
	if len(edits) != 1 {
		t.Fatalf("expected a single edit, got %d", len(edits))
	}

	edit := edits[0]
	if edit.Fingerprint.Value != keycode.Down || !edit.Fingerprint.Mask.Ctrl {
		t.Fatalf("unexpected fingerprint: %+v", edit.Fingerprint)
	}

	seq, ok := edit.Action.(mapping.ActionSequence)
	if !ok || len(seq) != 2 {
		t.Fatalf("expected a 2-step sequence (release, payload), got %#v", edit.Action)
	}
	if seq[0].Literal {
		t.Fatalf("expected first step to be a reconciliation, got literal %+v", seq[0])
	}
	if !seq[0].FromMask.Ctrl || seq[0].RestoreType != keycode.Up {
		t.Fatalf("unexpected reconciliation: %+v", seq[0])
	}
	if !seq[1].Literal || seq[1].Key != keycode.Key(108) || seq[1].Value != keycode.Down {
		t.Fatalf("unexpected payload step: %+v", seq[1])
	}
}

// TestClickToClick covers "map(a, b)" style remaps: DOWN/UP/REPEAT
// each carry across to the target key.
func TestClickToClick(t *testing.T) {
	from, err := keyseq.ParseFrom("a")
	if err != nil {
		t.Fatalf("parse from: %v", err)
	}
	to, err := keyseq.ParseSequence("b")
	if err != nil {
		t.Fatalf("parse to: %v", err)
	}

	edits := Mapping(from, to)
	if len(edits) != 3 {
		t.Fatalf("expected 3 edits (down/up/repeat), got %d", len(edits))
	}

	byValue := map[keycode.KeyValue]Edit{}
	for _, e := range edits {
		byValue[e.Fingerprint.Value] = e
	}

	downSeq := byValue[keycode.Down].Action.(mapping.ActionSequence)
	if len(downSeq) != 1 || downSeq[0].Key != keycode.Key(48) || downSeq[0].Value != keycode.Down {
		t.Fatalf("unexpected down sequence: %#v", downSeq)
	}
	upSeq := byValue[keycode.Up].Action.(mapping.ActionSequence)
	if len(upSeq) != 1 || upSeq[0].Key != keycode.Key(48) || upSeq[0].Value != keycode.Up {
		t.Fatalf("unexpected up sequence: %#v", upSeq)
	}
}

// TestCallbackClickInstallsDownOnlyHostCallback covers the map(from,
// to) overload where to is a host callable rather than a key-sequence
// string (spec.md §6): a click-style from installs DOWN -> the
// callback, UP/REPEAT -> NoOp, the same split compileClick makes for a
// key-sequence target.
func TestCallbackClickInstallsDownOnlyHostCallback(t *testing.T) {
	from, err := keyseq.ParseFrom("a")
	if err != nil {
		t.Fatalf("parse from: %v", err)
	}

	called := false
	edits := Callback(from, func() { called = true })
	if len(edits) != 3 {
		t.Fatalf("expected 3 edits (down/up/repeat), got %d", len(edits))
	}

	for _, e := range edits {
		if e.Fingerprint.Value != keycode.Down {
			if _, ok := e.Action.(mapping.NoOpAction); !ok {
				t.Fatalf("expected NoOp for %v, got %#v", e.Fingerprint.Value, e.Action)
			}
			continue
		}
		cb, ok := e.Action.(mapping.HostCallbackAction)
		if !ok {
			t.Fatalf("expected a HostCallbackAction for DOWN, got %#v", e.Action)
		}
		cb.Callback()
	}
	if !called {
		t.Fatalf("expected the installed callback to run")
	}
}

// TestCallbackActionInstallsSingleRow covers the explicit-value from
// case (e.g. "^ctrl"): the callback fires on that one named transition,
// with no companion UP/REPEAT rows.
func TestCallbackActionInstallsSingleRow(t *testing.T) {
	from, err := keyseq.ParseFrom("^ctrl")
	if err != nil {
		t.Fatalf("parse from: %v", err)
	}

	edits := Callback(from, func() {})
	if len(edits) != 1 {
		t.Fatalf("expected a single edit, got %d", len(edits))
	}
	if edits[0].Fingerprint.Value != keycode.Down {
		t.Fatalf("unexpected fingerprint: %+v", edits[0].Fingerprint)
	}
	if _, ok := edits[0].Action.(mapping.HostCallbackAction); !ok {
		t.Fatalf("expected a HostCallbackAction, got %#v", edits[0].Action)
	}
}

// TestClickToSeqSwallowsUpAndRepeat covers mapping a single key to a
// multi-key burst (e.g. a macro key).
func TestClickToSeqSwallowsUpAndRepeat(t *testing.T) {
	from, err := keyseq.ParseFrom("f1")
	if err != nil {
		t.Fatalf("parse from: %v", err)
	}
	to, err := keyseq.ParseSequence("h e l l o")
	if err != nil {
		t.Fatalf("parse to: %v", err)
	}

	edits := Mapping(from, to)
	if len(edits) != 3 {
		t.Fatalf("expected 3 edits, got %d", len(edits))
	}
	for _, e := range edits {
		if e.Fingerprint.Value == keycode.Down {
			continue
		}
		if _, ok := e.Action.(mapping.NoOpAction); !ok {
			t.Fatalf("expected NoOp for %v, got %#v", e.Fingerprint.Value, e.Action)
		}
	}
}

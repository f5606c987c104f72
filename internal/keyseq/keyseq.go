// Package keyseq parses the small textual key-sequence grammar spec.md
// §6 describes for the Host API's send/send_modifier/map: space
// separated tokens, each either a bare key name (a "click": DOWN then
// UP), or a key name prefixed with '^' (DOWN only) or '$' (UP only).
// This is the Host API's own surface grammar, not the script
// language's AST — that parser is out of scope per spec.md §1. It is
// sized the same as hotkey_linux.go's KeyCodeFromName: a lookup table
// and a small hand-written scanner, not a parser generator.
package keyseq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keymapd/keymapd/internal/keycode"
)

// ErrParse is spec.md §7's ParseError: a malformed key sequence or
// from-spec reaching the Host API boundary (send/send_modifier/map).
var ErrParse = errors.New("parse error")

// Token is one parsed element of a key sequence: a key plus either an
// explicit value (DOWN/UP only, from a '^'/'$' prefix) or Click, in
// which case the token expands to a DOWN followed by an UP.
type Token struct {
	Key   keycode.Key
	Click bool
	Value keycode.KeyValue // meaningful only when Click is false
}

// ParseSequence parses a space-separated sequence such as "a b ^c $c".
// Empty input yields an empty, non-nil slice.
func ParseSequence(s string) ([]Token, error) {
	fields := strings.Fields(s)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		tok, err := parseToken(f)
		if err != nil {
			return nil, fmt.Errorf("parse key sequence %q: %w: %v", s, ErrParse, err)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func parseToken(f string) (Token, error) {
	switch {
	case strings.HasPrefix(f, "^"):
		key, err := lookupKey(f[1:])
		if err != nil {
			return Token{}, err
		}
		return Token{Key: key, Value: keycode.Down}, nil
	case strings.HasPrefix(f, "$"):
		key, err := lookupKey(f[1:])
		if err != nil {
			return Token{}, err
		}
		return Token{Key: key, Value: keycode.Up}, nil
	default:
		key, err := lookupKey(f)
		if err != nil {
			return Token{}, err
		}
		return Token{Key: key, Click: true}, nil
	}
}

// lookupKey resolves a bare token (e.g. "a", "ctrl", "enter") to a Key,
// trying both the raw evdev name ("KEY_A") and a handful of
// human-friendly aliases used in mapping declarations.
func lookupKey(name string) (keycode.Key, error) {
	if key, ok := aliases[strings.ToLower(name)]; ok {
		return key, nil
	}
	upper := strings.ToUpper(name)
	if !strings.HasPrefix(upper, "KEY_") {
		upper = "KEY_" + upper
	}
	return keycode.FromName(upper)
}

var aliases = map[string]keycode.Key{
	"ctrl":      keycode.KeyLeftCtrl,
	"leftctrl":  keycode.KeyLeftCtrl,
	"rightctrl": keycode.KeyRightCtrl,
	"shift":     keycode.KeyLeftShift,
	"leftshift": keycode.KeyLeftShift,
	"rightshift": keycode.KeyRightShift,
	"alt":       keycode.KeyLeftAlt,
	"leftalt":   keycode.KeyLeftAlt,
	"rightalt":  keycode.KeyRightAlt,
	"meta":      keycode.KeyLeftMeta,
	"leftmeta":  keycode.KeyLeftMeta,
	"rightmeta": keycode.KeyRightMeta,
	"down":      keycode.Key(108),
	"up":        keycode.Key(103),
	"left":      keycode.Key(105),
	"right":     keycode.Key(106),
	"enter":     keycode.Key(28),
	"space":     keycode.Key(57),
	"tab":       keycode.Key(15),
	"esc":       keycode.Key(1),
	"backspace": keycode.Key(14),
}

// FromSpec parses the "from" side of a mapping declaration: a click
// (e.g. "a"), an explicit action (e.g. "^ctrl"), or a modifier
// combination with a base key (e.g. "ctrl+j"). The returned Token's
// Mask carries any "mod+" prefixes.
type FromSpec struct {
	Token
	Mask keycode.ModifierMask
}

// ParseFrom parses a single from-spec token, e.g. "ctrl+j", "^j", "a".
func ParseFrom(s string) (FromSpec, error) {
	parts := strings.Split(s, "+")
	base := parts[len(parts)-1]
	mask := keycode.ModifierMask{}
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "ctrl":
			mask.Ctrl = true
		case "alt":
			mask.Alt = true
		case "shift":
			mask.Shift = true
		case "meta":
			mask.Meta = true
		default:
			return FromSpec{}, fmt.Errorf("parse from-spec %q: %w: unknown modifier %q", s, ErrParse, mod)
		}
	}
	tok, err := parseToken(strings.TrimSpace(base))
	if err != nil {
		return FromSpec{}, fmt.Errorf("parse from-spec %q: %w: %v", s, ErrParse, err)
	}
	return FromSpec{Token: tok, Mask: mask}, nil
}

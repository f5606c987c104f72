// Package keycode defines the fixed key enumeration, key values, and
// modifier bookkeeping types the rewrite engine operates on.
package keycode

import (
	"fmt"
	"strings"
)

// Key identifies a physical key by its Linux input-event code. The
// numeric values match evdev's KEY_* constants so a Key converts
// directly to/from github.com/holoplot/go-evdev's EvCode.
type Key uint16

// KeyValue is the state carried by a key event.
type KeyValue int32

const (
	Up KeyValue = iota
	Down
	Repeat
)

func (v KeyValue) String() string {
	switch v {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Repeat:
		return "REPEAT"
	default:
		return fmt.Sprintf("KeyValue(%d)", int32(v))
	}
}

// The eight physical modifier keys the engine tracks individually.
const (
	KeyLeftCtrl   Key = 29
	KeyRightCtrl  Key = 97
	KeyLeftShift  Key = 42
	KeyRightShift Key = 54
	KeyLeftAlt    Key = 56
	KeyRightAlt   Key = 100
	KeyLeftMeta   Key = 125
	KeyRightMeta  Key = 126
)

// byName maps evdev-style key name strings to their numeric codes. It
// is deliberately the same shape as the teacher's hotkey.keyNameMap,
// extended to the full fixed enumeration keymapd needs.
var byName = map[string]Key{
	"KEY_ESC":        1,
	"KEY_1":          2,
	"KEY_2":          3,
	"KEY_3":          4,
	"KEY_4":          5,
	"KEY_5":          6,
	"KEY_6":          7,
	"KEY_7":          8,
	"KEY_8":          9,
	"KEY_9":          10,
	"KEY_0":          11,
	"KEY_MINUS":      12,
	"KEY_EQUAL":      13,
	"KEY_BACKSPACE":  14,
	"KEY_TAB":        15,
	"KEY_Q":          16,
	"KEY_W":          17,
	"KEY_E":          18,
	"KEY_R":          19,
	"KEY_T":          20,
	"KEY_Y":          21,
	"KEY_U":          22,
	"KEY_I":          23,
	"KEY_O":          24,
	"KEY_P":          25,
	"KEY_LEFTBRACE":  26,
	"KEY_RIGHTBRACE": 27,
	"KEY_ENTER":      28,
	"KEY_LEFTCTRL":   KeyLeftCtrl,
	"KEY_A":          30,
	"KEY_S":          31,
	"KEY_D":          32,
	"KEY_F":          33,
	"KEY_G":          34,
	"KEY_H":          35,
	"KEY_J":          36,
	"KEY_K":          37,
	"KEY_L":          38,
	"KEY_SEMICOLON":  39,
	"KEY_APOSTROPHE": 40,
	"KEY_GRAVE":      41,
	"KEY_LEFTSHIFT":  KeyLeftShift,
	"KEY_BACKSLASH":  43,
	"KEY_Z":          44,
	"KEY_X":          45,
	"KEY_C":          46,
	"KEY_V":          47,
	"KEY_B":          48,
	"KEY_N":          49,
	"KEY_M":          50,
	"KEY_COMMA":      51,
	"KEY_DOT":        52,
	"KEY_SLASH":      53,
	"KEY_RIGHTSHIFT": KeyRightShift,
	"KEY_KPASTERISK": 55,
	"KEY_LEFTALT":    KeyLeftAlt,
	"KEY_SPACE":      57,
	"KEY_CAPSLOCK":   58,
	"KEY_F1":         59,
	"KEY_F2":         60,
	"KEY_F3":         61,
	"KEY_F4":         62,
	"KEY_F5":         63,
	"KEY_F6":         64,
	"KEY_F7":         65,
	"KEY_F8":         66,
	"KEY_F9":         67,
	"KEY_F10":        68,
	"KEY_NUMLOCK":    69,
	"KEY_SCROLLLOCK": 70,
	"KEY_F11":        87,
	"KEY_F12":        88,
	"KEY_RIGHTCTRL":  KeyRightCtrl,
	"KEY_RIGHTALT":   KeyRightAlt,
	"KEY_HOME":       102,
	"KEY_UP":         103,
	"KEY_PAGEUP":     104,
	"KEY_LEFT":       105,
	"KEY_RIGHT":      106,
	"KEY_END":        107,
	"KEY_DOWN":       108,
	"KEY_PAGEDOWN":   109,
	"KEY_INSERT":     110,
	"KEY_DELETE":     111,
	"KEY_PAUSE":      119,
	"KEY_LEFTMETA":   KeyLeftMeta,
	"KEY_RIGHTMETA":  KeyRightMeta,
	"KEY_F13":        183,
	"KEY_F14":        184,
	"KEY_F15":        185,
	"KEY_F16":        186,
	"KEY_F17":        187,
	"KEY_F18":        188,
	"KEY_F19":        189,
	"KEY_F20":        190,
	"KEY_F21":        191,
	"KEY_F22":        192,
	"KEY_F23":        193,
	"KEY_F24":        194,
}

var byCode map[Key]string

func init() {
	byCode = make(map[Key]string, len(byName))
	for name, code := range byName {
		byCode[code] = name
	}
}

// FromName maps an evdev key name string (case-insensitive, e.g.
// "key_leftctrl" or "KEY_A") to its Key code.
func FromName(name string) (Key, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	code, ok := byName[upper]
	if !ok {
		return 0, fmt.Errorf("unknown key name: %s", name)
	}
	return code, nil
}

// Name returns the canonical KEY_* name for a code, or a numeric
// fallback if the code is not in the fixed enumeration.
func (k Key) Name() string {
	if name, ok := byCode[k]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", uint16(k))
}

func (k Key) String() string { return k.Name() }

// AllCodes returns every key code in the fixed enumeration, in no
// particular order. Used to declare uinput device capabilities.
func AllCodes() []Key {
	codes := make([]Key, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	return codes
}

// IsModifier reports whether k is one of the eight tracked modifier keys.
func (k Key) IsModifier() bool {
	switch k {
	case KeyLeftCtrl, KeyRightCtrl, KeyLeftShift, KeyRightShift,
		KeyLeftAlt, KeyRightAlt, KeyLeftMeta, KeyRightMeta:
		return true
	default:
		return false
	}
}

// Package clipboard backs the script evaluator's copy_to_clipboard
// built-in (spec.md §4.6's FunctionCall closed set, extended per
// SPEC_FULL.md). Grounded on the teacher's internal/clipboard.go, which
// wraps github.com/atotto/clipboard the same way; this keeps only the
// write side, since a key remapper has no reason to simulate a paste
// keystroke the way a dictation tool's "type the transcript" flow does.
package clipboard

import atclip "github.com/atotto/clipboard"

// Copy writes text to the system clipboard.
func Copy(text string) error {
	return atclip.WriteAll(text)
}

// Package terminal turns tcell screen events into world input events.
//
// Terminals report key presses only. The Translator synthesizes releases:
//   - a different key, or the same key with other modifiers, releases the held one
//   - a key idle past ReleaseDelay is released by Flush
//   - losing terminal focus releases every held key
//
// Mouse events carry the whole button mask; the Translator emits press and
// release edges against the previous mask, a move when the cell changes, and
// one wheel step per wheel event.
package terminal

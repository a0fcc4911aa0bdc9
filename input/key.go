package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/worldinput/event"
)

var ErrInvalidKeySequence = errors.New("invalid key sequence")

// KeySequence is a key combined with held modifiers
// Comparable; used directly as a map key by binding tables and the key state map
type KeySequence struct {
	Key  event.Key
	Mods event.Modifier
}

// modifierOrder is the canonical spelling order of modifiers
var modifierOrder = []struct {
	mod  event.Modifier
	name string
}{
	{event.ModCtrl, "Ctrl"},
	{event.ModAlt, "Alt"},
	{event.ModShift, "Shift"},
	{event.ModMeta, "Meta"},
}

var modifierByName = map[string]event.Modifier{
	"ctrl":    event.ModCtrl,
	"control": event.ModCtrl,
	"alt":     event.ModAlt,
	"shift":   event.ModShift,
	"meta":    event.ModMeta,
	"super":   event.ModMeta,
	"win":     event.ModMeta,
}

// SequenceOf returns the normalized sequence of a key event
func SequenceOf(ev event.Input) KeySequence {
	return KeySequence{Key: ev.Key, Mods: ev.Mods}.Normalize()
}

// Normalize returns the binding identity of s
// Shift is dropped so shifted and unshifted variants bind identically; letters fold to upper case
func (s KeySequence) Normalize() KeySequence {
	k := s.Key
	if r := k.Rune(); r != 0 {
		k = event.KeyFromRune(r)
	}
	return KeySequence{Key: k, Mods: s.Mods.Without(event.ModShift)}
}

// IsZero reports whether s names no key
func (s KeySequence) IsZero() bool {
	return s.Key == event.KeyNone
}

// String returns the canonical binding-file spelling, e.g. "Ctrl+W"
func (s KeySequence) String() string {
	if s.IsZero() {
		return ""
	}
	var b strings.Builder
	for _, m := range modifierOrder {
		if s.Mods.Has(m.mod) {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(s.Key.String())
	return b.String()
}

// ParseKeySequence parses strings like "W", "Ctrl+W", "PgUp", "Ctrl++" or "Comma"
// The result is not normalized
func ParseKeySequence(str string) (KeySequence, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return KeySequence{}, fmt.Errorf("%w: empty", ErrInvalidKeySequence)
	}

	// A trailing '+' is the plus key itself
	var keyName, modPart string
	if strings.HasSuffix(str, "+") {
		keyName = "+"
		modPart = strings.TrimSuffix(str[:len(str)-1], "+")
	} else {
		idx := strings.LastIndex(str, "+")
		keyName = str[idx+1:]
		if idx > 0 {
			modPart = str[:idx]
		}
	}

	key, ok := event.KeyByName(strings.TrimSpace(keyName))
	if !ok {
		return KeySequence{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidKeySequence, keyName, str)
	}

	var mods event.Modifier
	if modPart != "" {
		for _, name := range strings.Split(modPart, "+") {
			mod, ok := modifierByName[strings.ToLower(strings.TrimSpace(name))]
			if !ok {
				return KeySequence{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKeySequence, name, str)
			}
			mods |= mod
		}
	}

	return KeySequence{Key: key, Mods: mods}, nil
}

// MustParseKeySequence is ParseKeySequence for literals; panics on error
func MustParseKeySequence(str string) KeySequence {
	seq, err := ParseKeySequence(str)
	if err != nil {
		panic(err)
	}
	return seq
}

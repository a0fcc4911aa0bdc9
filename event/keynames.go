package event

import (
	"strings"
	"unicode/utf8"
)

// keyToName maps named keys to their canonical binding-file spelling
var keyToName = map[Key]string{
	KeyEscape:    "Esc",
	KeyEnter:     "Return",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Del",
	KeyInsert:    "Ins",
	KeySpace:     "Space",

	KeyUp:       "Up",
	KeyDown:     "Down",
	KeyLeft:     "Left",
	KeyRight:    "Right",
	KeyHome:     "Home",
	KeyEnd:      "End",
	KeyPageUp:   "PgUp",
	KeyPageDown: "PgDown",

	KeyF1:  "F1",
	KeyF2:  "F2",
	KeyF3:  "F3",
	KeyF4:  "F4",
	KeyF5:  "F5",
	KeyF6:  "F6",
	KeyF7:  "F7",
	KeyF8:  "F8",
	KeyF9:  "F9",
	KeyF10: "F10",
	KeyF11: "F11",
	KeyF12: "F12",

	// Separator characters of the binding file format
	',': "Comma",
	'+': "Plus",
}

// nameToKey is the lower-cased reverse lookup, built from keyToName
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyToName)+8)
	for k, v := range keyToName {
		nameToKey[strings.ToLower(v)] = k
	}
	// Aliases
	nameToKey["escape"] = KeyEscape
	nameToKey["enter"] = KeyEnter
	nameToKey["delete"] = KeyDelete
	nameToKey["insert"] = KeyInsert
	nameToKey["pageup"] = KeyPageUp
	nameToKey["pagedown"] = KeyPageDown
	nameToKey["pgdn"] = KeyPageDown
}

// KeyByName resolves a key name or a single printable character
func KeyByName(name string) (Key, bool) {
	if k, ok := nameToKey[strings.ToLower(name)]; ok {
		return k, true
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if r == utf8.RuneError || r < ' ' {
			return KeyNone, false
		}
		return KeyFromRune(r), true
	}
	return KeyNone, false
}

// String returns the canonical name of k
func (k Key) String() string {
	if name, ok := keyToName[k]; ok {
		return name
	}
	if r := k.Rune(); r != 0 {
		return string(r)
	}
	return ""
}

package event

import "unicode"

// Key identifies a physical key
// Printable keys use their upper-case rune value; named keys live above the Unicode range
type Key int32

const KeyNone Key = 0

const keyNamedBase Key = 0x110000

// Named keys
const (
	KeyEscape Key = keyNamedBase + iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert

	// Navigation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	keyNamedEnd
)

// KeySpace is the space bar, stored as its rune like other printable keys
const KeySpace Key = ' '

// KeyFromRune returns the Key for a printable rune, folding letters to upper case
func KeyFromRune(r rune) Key {
	return Key(unicode.ToUpper(r))
}

// IsNamed reports whether k is a non-printable named key
func (k Key) IsNamed() bool {
	return k >= keyNamedBase && k < keyNamedEnd
}

// Rune returns the printable rune for k, or 0 for named keys
func (k Key) Rune() rune {
	if k.IsNamed() || k <= KeyNone {
		return 0
	}
	return rune(k)
}

// Modifier is a bitmask of held modifier keys
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether all bits of mod are set
func (m Modifier) Has(mod Modifier) bool {
	return m&mod == mod && mod != ModNone
}

// Without returns m with mod cleared
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// Button identifies a mouse button
type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// ButtonMask is the set of buttons held during a mouse event
type ButtonMask uint8

// Mask returns the single-bit mask for b
func (b Button) Mask() ButtonMask {
	if b == ButtonNone {
		return 0
	}
	return 1 << (b - 1)
}

// Has reports whether b is held in m
func (m ButtonMask) Has(b Button) bool {
	return b != ButtonNone && m&b.Mask() != 0
}

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "none"
	}
}

// ButtonByName resolves "left", "right" or "middle"
func ButtonByName(name string) (Button, bool) {
	switch name {
	case "left":
		return ButtonLeft, true
	case "right":
		return ButtonRight, true
	case "middle":
		return ButtonMiddle, true
	}
	return ButtonNone, false
}

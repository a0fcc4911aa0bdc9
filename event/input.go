package event

import "time"

// Input is a raw input event as seen by the input state machine
// Value type: the machine keeps copies, producers never share ownership
type Input struct {
	Type Type
	Time time.Time

	// Keyboard
	Key    Key
	Mods   Modifier
	Repeat bool // Auto-repeat of a key that is already down

	// Mouse
	Button     Button     // Button that changed, press/release only
	Buttons    ButtonMask // Buttons held after the event
	X, Y       int
	WheelDelta int
}

// Clone returns a copy of ev when its type may enter the machine through the event filter
// Focus, close and perspective events are posted directly and rejected here
func Clone(ev Input) (Input, bool) {
	switch ev.Type {
	case TypeKeyPress, TypeKeyRelease, TypeMousePress, TypeMouseRelease, TypeMouseMove, TypeWheel, TypeClose:
		return ev, true
	}
	return Input{}, false
}

// KeyPress builds a key press event
func KeyPress(k Key, mods Modifier) Input {
	return Input{Type: TypeKeyPress, Key: k, Mods: mods}
}

// KeyRelease builds a key release event
func KeyRelease(k Key, mods Modifier) Input {
	return Input{Type: TypeKeyRelease, Key: k, Mods: mods}
}

// MousePress builds a press of b at (x, y); b is added to held
func MousePress(b Button, held ButtonMask, x, y int) Input {
	return Input{Type: TypeMousePress, Button: b, Buttons: held | b.Mask(), X: x, Y: y}
}

// MouseRelease builds a release of b at (x, y); b is removed from held
func MouseRelease(b Button, held ButtonMask, x, y int) Input {
	return Input{Type: TypeMouseRelease, Button: b, Buttons: held &^ b.Mask(), X: x, Y: y}
}

// MouseMove builds pointer motion to (x, y) with held buttons
func MouseMove(held ButtonMask, x, y int) Input {
	return Input{Type: TypeMouseMove, Buttons: held, X: x, Y: y}
}

// Wheel builds a scroll step at (x, y)
func Wheel(delta, x, y int) Input {
	return Input{Type: TypeWheel, WheelDelta: delta, X: x, Y: y}
}

// Signal builds a payload-less event such as focus or perspective changes
func Signal(t Type) Input {
	return Input{Type: t}
}

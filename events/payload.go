package events

import "github.com/lixenwraith/worldinput/event"

// Axis is one coordinate of a pointer movement
type Axis struct {
	Rel    int // Delta since the previous sample
	Abs    int // Position in view coordinates
	Screen int // View extent along this axis, 0 when unknown
}

// Movement is the payload of MouseMove, MouseLook and MouseDrag
type Movement struct {
	X, Y Axis
}

// Scroll is the payload of MouseScroll
type Scroll struct {
	Delta int
}

// Button is the payload of button channel events and InWorldClick
type Button struct {
	Button event.Button
	X, Y   int
}

// Key is the payload of bound action events
type Key struct {
	Sequence string // Canonical key sequence that fired the action
	Binding  string // Binding identifier, empty for dynamic bindings without a name
}

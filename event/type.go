package event

// Type is the trigger type of a raw input event fed to the input state machine
type Type int

const (
	// TypeTick marks eventless transitions
	// Evaluated after every event and on each update
	TypeTick Type = iota

	// TypeKeyPress is a key going down, or an auto-repeat of a held key
	// Producer: host event filter | Payload: Key, Mods, Repeat
	TypeKeyPress

	// TypeKeyRelease is a key going up
	// Producer: host event filter | Payload: Key, Mods
	TypeKeyRelease

	// TypeMousePress is a mouse button going down
	// Producer: host event filter | Payload: Button, Buttons, X, Y
	TypeMousePress

	// TypeMouseRelease is a mouse button going up
	// Producer: host event filter | Payload: Button, Buttons, X, Y
	TypeMouseRelease

	// TypeMouseMove is pointer motion, with the buttons held during the move
	// Producer: host event filter | Payload: Buttons, X, Y
	TypeMouseMove

	// TypeWheel is a scroll step
	// Producer: host event filter | Payload: WheelDelta, X, Y
	TypeWheel

	// TypeFocusIn hands input to the 3D world
	// Producer: Logic.Update focus edge, host window focus
	TypeFocusIn

	// TypeFocusOut hands input to UI widgets
	// Producer: Logic.Update focus edge, host window focus
	TypeFocusOut

	// TypeClose stops the machine
	// Producer: host window close
	TypeClose

	// TypeFirstPerson selects the first-person binding table
	// Producer: any module (camera switch command)
	TypeFirstPerson

	// TypeThirdPerson selects the third-person binding table
	// Producer: any module (camera switch command)
	TypeThirdPerson

	// TypeFreeCamera selects the free-camera binding table
	// Producer: any module (camera switch command)
	TypeFreeCamera

	typeCount
)

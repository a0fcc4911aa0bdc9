package events

// CategoryID identifies an event category registered with a Sink
type CategoryID int

// CategoryNone is returned by sinks that do not know a category
const CategoryNone CategoryID = 0

// InputCategory is the category name all input events are sent under
const InputCategory = "Input"

// ID identifies an application event within a category
// The zero ID means "no event" and is never dispatched
type ID int

const IDNone ID = 0

// Pointer events
const (
	// InWorldClick is a left click that reached the 3D world
	// Trigger: left button press while no widget holds scene focus
	// Consumer: picking, avatar controller | Payload: *Button
	InWorldClick ID = iota + 0x10

	// MouseLeftPressed, MouseLeftReleased track the left button channel
	// Payload: *Button
	MouseLeftPressed
	MouseLeftReleased

	// MouseRightPressed, MouseRightReleased track the right button channel
	// Payload: *Button
	MouseRightPressed
	MouseRightReleased

	// MouseMiddlePressed, MouseMiddleReleased track the middle button channel
	// Payload: *Button
	MouseMiddlePressed
	MouseMiddleReleased

	// MouseMove is pointer motion with relative and absolute coordinates
	// Payload: *Movement
	MouseMove

	// MouseScroll is a wheel step
	// Consumer: camera zoom | Payload: *Scroll
	MouseScroll

	// MouseLook is a right-button drag delta
	// Consumer: camera controller | Payload: *Movement
	MouseLook

	// MouseLookStopped ends a right-button drag
	// Payload: nil
	MouseLookStopped

	// MouseDrag is a left-button drag delta
	// Consumer: object manipulation | Payload: *Movement
	MouseDrag

	// MouseDragStopped ends a left-button drag
	// Payload: nil
	MouseDragStopped
)

// Bound action events, fired in pressed/released pairs by key states
// Payload: *Key
const (
	MoveForwardPressed ID = iota + 0x100
	MoveForwardReleased
	MoveBackPressed
	MoveBackReleased
	MoveLeftPressed
	MoveLeftReleased
	MoveRightPressed
	MoveRightReleased
	MoveUpPressed
	MoveUpReleased
	MoveDownPressed
	MoveDownReleased
	RotateLeftPressed
	RotateLeftReleased
	RotateRightPressed
	RotateRightReleased
	ZoomInPressed
	ZoomInReleased
	ZoomOutPressed
	ZoomOutReleased
	ToggleFlyPressed
	ToggleFlyReleased
	ToggleRunPressed
	ToggleRunReleased
	SwitchCameraPressed
	SwitchCameraReleased
	ToggleConsolePressed
	ToggleConsoleReleased
)

package events

// Event names used by machine graph configs and binding catalogues
var idToName = map[ID]string{
	InWorldClick:        "InWorldClick",
	MouseLeftPressed:    "MouseLeftPressed",
	MouseLeftReleased:   "MouseLeftReleased",
	MouseRightPressed:   "MouseRightPressed",
	MouseRightReleased:  "MouseRightReleased",
	MouseMiddlePressed:  "MouseMiddlePressed",
	MouseMiddleReleased: "MouseMiddleReleased",
	MouseMove:           "MouseMove",
	MouseScroll:         "MouseScroll",
	MouseLook:           "MouseLook",
	MouseLookStopped:    "MouseLookStopped",
	MouseDrag:           "MouseDrag",
	MouseDragStopped:    "MouseDragStopped",

	MoveForwardPressed:    "MoveForwardPressed",
	MoveForwardReleased:   "MoveForwardReleased",
	MoveBackPressed:       "MoveBackPressed",
	MoveBackReleased:      "MoveBackReleased",
	MoveLeftPressed:       "MoveLeftPressed",
	MoveLeftReleased:      "MoveLeftReleased",
	MoveRightPressed:      "MoveRightPressed",
	MoveRightReleased:     "MoveRightReleased",
	MoveUpPressed:         "MoveUpPressed",
	MoveUpReleased:        "MoveUpReleased",
	MoveDownPressed:       "MoveDownPressed",
	MoveDownReleased:      "MoveDownReleased",
	RotateLeftPressed:     "RotateLeftPressed",
	RotateLeftReleased:    "RotateLeftReleased",
	RotateRightPressed:    "RotateRightPressed",
	RotateRightReleased:   "RotateRightReleased",
	ZoomInPressed:         "ZoomInPressed",
	ZoomInReleased:        "ZoomInReleased",
	ZoomOutPressed:        "ZoomOutPressed",
	ZoomOutReleased:       "ZoomOutReleased",
	ToggleFlyPressed:      "ToggleFlyPressed",
	ToggleFlyReleased:     "ToggleFlyReleased",
	ToggleRunPressed:      "ToggleRunPressed",
	ToggleRunReleased:     "ToggleRunReleased",
	SwitchCameraPressed:   "SwitchCameraPressed",
	SwitchCameraReleased:  "SwitchCameraReleased",
	ToggleConsolePressed:  "ToggleConsolePressed",
	ToggleConsoleReleased: "ToggleConsoleReleased",
}

var nameToID map[string]ID

func init() {
	nameToID = make(map[string]ID, len(idToName))
	for id, name := range idToName {
		nameToID[name] = id
	}
}

// IDByName returns the event ID registered under name
func IDByName(name string) (ID, bool) {
	id, ok := nameToID[name]
	return id, ok
}

// String returns the registered name, or "" for unnamed IDs
func (id ID) String() string {
	return idToName[id]
}

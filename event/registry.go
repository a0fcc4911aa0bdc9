package event

import "strings"

// Trigger names used by machine graph configs
var typeToName = [typeCount]string{
	TypeTick:         "Tick",
	TypeKeyPress:     "KeyPress",
	TypeKeyRelease:   "KeyRelease",
	TypeMousePress:   "MousePress",
	TypeMouseRelease: "MouseRelease",
	TypeMouseMove:    "MouseMove",
	TypeWheel:        "Wheel",
	TypeFocusIn:      "FocusIn",
	TypeFocusOut:     "FocusOut",
	TypeClose:        "Close",
	TypeFirstPerson:  "FirstPerson",
	TypeThirdPerson:  "ThirdPerson",
	TypeFreeCamera:   "FreeCamera",
}

var nameToType map[string]Type

func init() {
	nameToType = make(map[string]Type, len(typeToName))
	for t, name := range typeToName {
		nameToType[strings.ToLower(name)] = Type(t)
	}
}

// TypeByName returns the Type for a trigger name, case-insensitive
func TypeByName(name string) (Type, bool) {
	t, ok := nameToType[strings.ToLower(name)]
	return t, ok
}

func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return "Unknown"
	}
	return typeToName[t]
}

// IsPointer reports whether t carries mouse coordinates
func (t Type) IsPointer() bool {
	switch t {
	case TypeMousePress, TypeMouseRelease, TypeMouseMove, TypeWheel:
		return true
	}
	return false
}

// Droppable reports whether losing the event under overload leaves no stuck state
// Presses, motion and wheel steps are droppable; releases, focus, close and perspective events are not
func (t Type) Droppable() bool {
	switch t {
	case TypeKeyPress, TypeMousePress, TypeMouseMove, TypeWheel, TypeTick:
		return true
	}
	return false
}

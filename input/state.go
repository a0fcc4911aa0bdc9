package input

import (
	"strings"

	"github.com/lixenwraith/worldinput/event"
)

// Perspective is the camera-control mode deciding which binding table is live
type Perspective uint8

const (
	PerspectiveThirdPerson Perspective = iota // Initial
	PerspectiveFirstPerson
	PerspectiveFreeCamera
	perspectiveCount
)

var perspectiveNames = [perspectiveCount]string{
	PerspectiveThirdPerson: "ThirdPerson",
	PerspectiveFirstPerson: "FirstPerson",
	PerspectiveFreeCamera:  "FreeCamera",
}

func (p Perspective) String() string {
	if p < perspectiveCount {
		return perspectiveNames[p]
	}
	return "Unknown"
}

// Group returns the binding group whose table is live in p
// First and third person share the avatar table
func (p Perspective) Group() Group {
	if p == PerspectiveFreeCamera {
		return GroupCamera
	}
	return GroupAvatar
}

// Trigger returns the input event type that switches the machine into p
func (p Perspective) Trigger() event.Type {
	switch p {
	case PerspectiveFirstPerson:
		return event.TypeFirstPerson
	case PerspectiveFreeCamera:
		return event.TypeFreeCamera
	default:
		return event.TypeThirdPerson
	}
}

// PerspectiveByName resolves a perspective name, case-insensitive
func PerspectiveByName(name string) (Perspective, bool) {
	for p, n := range perspectiveNames {
		if strings.EqualFold(n, name) {
			return Perspective(p), true
		}
	}
	return PerspectiveThirdPerson, false
}

// Group identifies a binding table shared by one or more perspectives
type Group uint8

const (
	GroupAvatar Group = iota
	GroupCamera
	groupCount
)

var groupNames = [groupCount]string{
	GroupAvatar: "avatar",
	GroupCamera: "camera",
}

func (g Group) String() string {
	if g < groupCount {
		return groupNames[g]
	}
	return "unknown"
}

// State names of the input machine graph
const (
	StateActive         = "Active"
	StateUnfocused      = "Unfocused"
	StateFocused        = "Focused"
	StateStopped        = "Stopped"
	StateKeyboardActive = "KeyboardActive"
	StatePerspective    = "Perspective"
	StateGestureActive  = "GestureActive"
)

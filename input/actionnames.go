package input

import (
	"sort"

	"github.com/lixenwraith/worldinput/events"
)

// BindingDef describes a named binding of the binding file
type BindingDef struct {
	Name  string
	Group Group
	Pair  EventPair
}

// bindingCatalogue maps binding identifiers to their group and event pair
// Used by the binding file loader to resolve INI keys
var bindingCatalogue map[string]BindingDef

func init() {
	bindingCatalogue = make(map[string]BindingDef)
	for _, def := range buildBindingCatalogue() {
		bindingCatalogue[def.Name] = def
	}
}

func pair(enter, exit events.ID) EventPair {
	return EventPair{Enter: enter, Exit: exit}
}

func buildBindingCatalogue() []BindingDef {
	return []BindingDef{
		// Avatar, first and third person
		{"avatar.move.forward", GroupAvatar, pair(events.MoveForwardPressed, events.MoveForwardReleased)},
		{"avatar.move.back", GroupAvatar, pair(events.MoveBackPressed, events.MoveBackReleased)},
		{"avatar.move.left", GroupAvatar, pair(events.MoveLeftPressed, events.MoveLeftReleased)},
		{"avatar.move.right", GroupAvatar, pair(events.MoveRightPressed, events.MoveRightReleased)},
		{"avatar.move.up", GroupAvatar, pair(events.MoveUpPressed, events.MoveUpReleased)},
		{"avatar.move.down", GroupAvatar, pair(events.MoveDownPressed, events.MoveDownReleased)},
		{"avatar.rotate.left", GroupAvatar, pair(events.RotateLeftPressed, events.RotateLeftReleased)},
		{"avatar.rotate.right", GroupAvatar, pair(events.RotateRightPressed, events.RotateRightReleased)},
		{"avatar.zoom.in", GroupAvatar, pair(events.ZoomInPressed, events.ZoomInReleased)},
		{"avatar.zoom.out", GroupAvatar, pair(events.ZoomOutPressed, events.ZoomOutReleased)},
		{"avatar.toggle.fly", GroupAvatar, pair(events.ToggleFlyPressed, events.ToggleFlyReleased)},
		{"avatar.toggle.run", GroupAvatar, pair(events.ToggleRunPressed, events.ToggleRunReleased)},
		{"avatar.camera.switch", GroupAvatar, pair(events.SwitchCameraPressed, events.SwitchCameraReleased)},
		{"avatar.console.toggle", GroupAvatar, pair(events.ToggleConsolePressed, events.ToggleConsoleReleased)},

		// Free camera
		{"camera.move.forward", GroupCamera, pair(events.MoveForwardPressed, events.MoveForwardReleased)},
		{"camera.move.back", GroupCamera, pair(events.MoveBackPressed, events.MoveBackReleased)},
		{"camera.move.left", GroupCamera, pair(events.MoveLeftPressed, events.MoveLeftReleased)},
		{"camera.move.right", GroupCamera, pair(events.MoveRightPressed, events.MoveRightReleased)},
		{"camera.move.up", GroupCamera, pair(events.MoveUpPressed, events.MoveUpReleased)},
		{"camera.move.down", GroupCamera, pair(events.MoveDownPressed, events.MoveDownReleased)},
		{"camera.rotate.left", GroupCamera, pair(events.RotateLeftPressed, events.RotateLeftReleased)},
		{"camera.rotate.right", GroupCamera, pair(events.RotateRightPressed, events.RotateRightReleased)},
		{"camera.zoom.in", GroupCamera, pair(events.ZoomInPressed, events.ZoomInReleased)},
		{"camera.zoom.out", GroupCamera, pair(events.ZoomOutPressed, events.ZoomOutReleased)},
		{"camera.switch", GroupCamera, pair(events.SwitchCameraPressed, events.SwitchCameraReleased)},
		{"camera.console.toggle", GroupCamera, pair(events.ToggleConsolePressed, events.ToggleConsoleReleased)},
	}
}

// BindingByName returns the catalogue entry for a binding identifier
func BindingByName(name string) (BindingDef, bool) {
	def, ok := bindingCatalogue[name]
	return def, ok
}

// BindingNames returns all binding identifiers, sorted
func BindingNames() []string {
	names := make([]string, 0, len(bindingCatalogue))
	for name := range bindingCatalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

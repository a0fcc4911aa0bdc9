package input

import (
	"fmt"

	"github.com/lixenwraith/worldinput/engine/fsm"
	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
)

// pointerState is the last pointer position seen by the machine
type pointerState struct {
	x, y int
	seen bool
}

// gestureState tracks one press-drag-release gesture
type gestureState struct {
	button     event.Button
	x, y       int  // Last recorded point
	look, drag bool // Modes that produced motion during this gesture
}

// === Mouse Actions ===

// actionEmitMove dispatches the move pulse with deltas against the previous pointer position
func actionEmitMove(l *Logic, ev event.Input, args any) {
	var dx, dy int
	if l.pointer.seen {
		dx, dy = ev.X-l.pointer.x, ev.Y-l.pointer.y
	}
	l.send(eventArg(args, events.MouseMove), l.movement(ev.X, ev.Y, dx, dy))
}

// actionEmitScroll dispatches the wheel pulse
func actionEmitScroll(l *Logic, ev event.Input, args any) {
	l.send(eventArg(args, events.MouseScroll), &events.Scroll{Delta: ev.WheelDelta})
}

// actionEmitButton dispatches a button channel pressed/released event
func actionEmitButton(l *Logic, ev event.Input, args any) {
	b, _ := event.ButtonByName(paramString(args, "button"))
	x, y := l.position(ev)
	l.send(eventArg(args, events.IDNone), &events.Button{Button: b, X: x, Y: y})
}

// actionWorldClick fires the in-world click when no widget holds scene focus
// Runs before the left pressed event so the click that grants focus still reaches the world
func actionWorldClick(l *Logic, ev event.Input, args any) {
	if l.scene != nil && l.scene.HasFocusedItem() {
		return
	}
	x, y := l.position(ev)
	l.send(eventArg(args, events.InWorldClick), &events.Button{Button: event.ButtonLeft, X: x, Y: y})
}

// === Gesture Actions ===

func actionGestureBegin(l *Logic, ev event.Input, _ any) {
	l.gesture = gestureState{button: ev.Button, x: ev.X, y: ev.Y}
}

// actionGestureMove redispatches motion as drag (left held) and/or look (right held)
func actionGestureMove(l *Logic, ev event.Input, _ any) {
	g := &l.gesture
	dx, dy := ev.X-g.x, ev.Y-g.y
	g.x, g.y = ev.X, ev.Y

	if ev.Buttons.Has(event.ButtonLeft) {
		g.drag = true
		l.send(events.MouseDrag, l.movement(ev.X, ev.Y, dx, dy))
	}
	if ev.Buttons.Has(event.ButtonRight) {
		g.look = true
		l.send(events.MouseLook, l.movement(ev.X, ev.Y, dx, dy))
	}
}

// actionGestureComplete fires the stop event of each mode that was active, then resets
func actionGestureComplete(l *Logic, _ event.Input, _ any) {
	g := l.gesture
	l.gesture = gestureState{}
	if g.look {
		l.send(events.MouseLookStopped, nil)
	}
	if g.drag {
		l.send(events.MouseDragStopped, nil)
	}
}

// === Mouse Guards ===

// guardButtonIs creates a guard matching the button that changed
func guardButtonIs(args map[string]any) (fsm.GuardFunc[*Logic], error) {
	name, _ := args["button"].(string)
	b, ok := event.ButtonByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown button %q", name)
	}
	return func(_ *Logic, ev event.Input) bool {
		return ev.Button == b
	}, nil
}

// guardGestureButton admits the buttons that start a gesture
func guardGestureButton(_ *Logic, ev event.Input) bool {
	return ev.Button == event.ButtonLeft || ev.Button == event.ButtonRight
}

// guardGestureReleased matches a release that leaves the gesture button up
func guardGestureReleased(l *Logic, ev event.Input) bool {
	return !ev.Buttons.Has(l.gesture.button)
}

// movement builds a movement payload in view coordinates
func (l *Logic) movement(x, y, dx, dy int) *events.Movement {
	var w, h int
	if l.scene != nil {
		w, h = l.scene.ViewSize()
	}
	return &events.Movement{
		X: events.Axis{Rel: dx, Abs: x, Screen: w},
		Y: events.Axis{Rel: dy, Abs: y, Screen: h},
	}
}

// position returns the coordinates of a pointer event, or the last known position
func (l *Logic) position(ev event.Input) (int, int) {
	if ev.Type.IsPointer() {
		return ev.X, ev.Y
	}
	return l.pointer.x, l.pointer.y
}

func eventArg(args any, fallback events.ID) events.ID {
	if a, ok := args.(*fsm.ActionArgs); ok && a.Event != events.IDNone {
		return a.Event
	}
	return fallback
}

func paramString(args any, key string) string {
	if a, ok := args.(*fsm.ActionArgs); ok {
		s, _ := a.Params[key].(string)
		return s
	}
	return ""
}

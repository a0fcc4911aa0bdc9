package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
)

type fakeScene struct {
	focused bool
	w, h    int
}

func (s *fakeScene) HasFocusedItem() bool { return s.focused }
func (s *fakeScene) ViewSize() (int, int) { return s.w, s.h }

type sinkRecorder struct {
	*events.Manager
	got []sent
}

func newSinkRecorder() *sinkRecorder {
	r := &sinkRecorder{Manager: events.NewManager()}
	r.Subscribe(events.InputCategory, func(id events.ID, data any) bool {
		r.got = append(r.got, sent{id, data})
		return false
	})
	return r
}

func (r *sinkRecorder) ids() []events.ID {
	ids := make([]events.ID, len(r.got))
	for i, s := range r.got {
		ids[i] = s.id
	}
	return ids
}

func (r *sinkRecorder) reset() {
	r.got = nil
}

func newTestLogic(t *testing.T, cfg Config, scene Scene) (*Logic, *sinkRecorder) {
	t.Helper()
	cfg.Logger = quietLogger
	sink := newSinkRecorder()
	l, err := NewLogic(cfg, sink, scene)
	require.NoError(t, err)
	t.Cleanup(l.Close)
	l.Update()
	sink.reset()
	return l, sink
}

func key(s string) KeySequence {
	return MustParseKeySequence(s)
}

func press(l *Logic, s string) {
	seq := key(s)
	l.Filter(event.KeyPress(seq.Key, seq.Mods))
	l.Update()
}

func release(l *Logic, s string) {
	seq := key(s)
	l.Filter(event.KeyRelease(seq.Key, seq.Mods))
	l.Update()
}

func TestBoundKeyScenario(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, nil)
	l.RegisterBinding(PerspectiveThirdPerson, "", key("A"), EventPair{Enter: 100, Exit: 101})
	l.Update()

	press(l, "A")
	assert.Equal(t, []events.ID{100}, sink.ids())

	// Hold: auto-repeat presses and idle ticks
	repeat := event.KeyPress('A', event.ModNone)
	repeat.Repeat = true
	l.Filter(repeat)
	l.Update()
	l.Update()
	assert.Equal(t, []events.ID{100}, sink.ids())
	assert.True(t, l.IsActive("Key:A"))

	release(l, "A")
	assert.Equal(t, []events.ID{100, 101}, sink.ids())
	assert.False(t, l.IsActive("Key:A"))
}

func TestUnboundKeyDispatchesNothing(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, nil)
	press(l, "Q")
	release(l, "Ctrl+F12")
	press(l, "Ctrl+F12")
	assert.Empty(t, sink.got)
	assert.Equal(t, []KeySequence{key("Q"), key("Ctrl+F12")}, l.ActiveKeys())
}

func TestShiftedKeyBindsLikeUnshifted(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, nil)
	l.Filter(event.KeyPress(event.KeyFromRune('w'), event.ModShift))
	l.Update()

	require.Equal(t, []events.ID{events.MoveForwardPressed}, sink.ids())
	assert.Equal(t, &events.Key{Sequence: "W", Binding: "avatar.move.forward"}, sink.got[0].data)
	assert.Equal(t, []KeySequence{key("W")}, l.ActiveKeys())
}

func TestPerspectiveSwapRetargetsLookups(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, nil)
	l.RegisterBinding(PerspectiveFreeCamera, "", key("X"), EventPair{Enter: 200, Exit: 201})
	l.Update()

	press(l, "W")
	release(l, "W")
	press(l, "X")
	release(l, "X")
	assert.Equal(t, []events.ID{events.MoveForwardPressed, events.MoveForwardReleased}, sink.ids())
	assert.Equal(t, 2, l.KeyStates())
	wState := l.GetState("Key:W")

	l.SetPerspective(PerspectiveFreeCamera)
	l.Update()
	assert.Equal(t, PerspectiveFreeCamera, l.Perspective())
	assert.True(t, l.IsActive("FreeCamera"))
	assert.Same(t, l.Bindings().Table(GroupCamera), l.ActiveTable())

	sink.reset()
	press(l, "X")
	press(l, "W")
	assert.Equal(t, []events.ID{200, events.MoveForwardPressed}, sink.ids())
	assert.Equal(t, "camera.move.forward", sink.got[1].data.(*events.Key).Binding)
	assert.Equal(t, 2, l.KeyStates(), "key states are reused")
	assert.Same(t, wState, l.GetState("Key:W"))

	// First and third person share the avatar table
	l.SetPerspective(PerspectiveFirstPerson)
	l.Update()
	assert.Same(t, l.Bindings().Table(GroupAvatar), l.ActiveTable())
}

func TestFocusReplayOnlyOnEdge(t *testing.T) {
	scene := &fakeScene{focused: true, w: 800, h: 600}
	l, sink := newTestLogic(t, Config{}, scene)
	require.False(t, l.HasFocus())
	assert.True(t, l.IsActive(StateUnfocused))

	// Widget holds focus: the world does not take the click
	assert.False(t, l.Filter(event.MousePress(event.ButtonLeft, 0, 5, 6)))
	assert.False(t, l.Filter(event.MouseRelease(event.ButtonLeft, event.ButtonLeft.Mask(), 5, 6)))
	l.Update()
	assert.Empty(t, sink.got)

	scene.focused = false
	l.Update()
	assert.Equal(t, []events.ID{events.InWorldClick, events.MouseLeftPressed, events.MouseLeftReleased}, sink.ids())
	assert.Equal(t, &events.Button{Button: event.ButtonLeft, X: 5, Y: 6}, sink.got[0].data)
	assert.True(t, l.IsActive(StateFocused))

	sink.reset()
	l.Post(event.Signal(event.TypeFocusIn))
	l.Post(event.Signal(event.TypeFocusIn))
	l.Update()
	l.Update()
	assert.Empty(t, sink.got)
	assert.Equal(t, int64(1), l.Stats().Counters.Get("input.replays").Load())
}

func TestFocusReplayConsumesClick(t *testing.T) {
	scene := &fakeScene{w: 800, h: 600}
	l, sink := newTestLogic(t, Config{}, scene)

	// A world click while focused is never replayed
	l.Filter(event.MousePress(event.ButtonLeft, 0, 1, 2))
	l.Filter(event.MouseRelease(event.ButtonLeft, event.ButtonLeft.Mask(), 1, 2))
	l.Update()
	sink.reset()

	scene.focused = true
	l.Update()
	scene.focused = false
	l.Update()
	assert.NotContains(t, sink.ids(), events.InWorldClick)

	// The click that takes focus back is replayed exactly once
	scene.focused = true
	l.Update()
	l.Filter(event.MousePress(event.ButtonLeft, 0, 7, 8))
	scene.focused = false
	l.Update()
	assert.Contains(t, sink.ids(), events.InWorldClick)

	// Keyboard-only focus cycles replay nothing
	for i := 0; i < 2; i++ {
		sink.reset()
		scene.focused = true
		l.Update()
		scene.focused = false
		l.Update()
		assert.NotContains(t, sink.ids(), events.InWorldClick)
	}
	assert.Equal(t, int64(1), l.Stats().Counters.Get("input.replays").Load())
}

func TestFocusLossReleasesKeys(t *testing.T) {
	scene := &fakeScene{}
	l, sink := newTestLogic(t, Config{}, scene)

	press(l, "W")
	scene.focused = true
	l.Update()

	assert.Equal(t, []events.ID{events.MoveForwardPressed, events.MoveForwardReleased}, sink.ids())
	assert.Empty(t, l.ActiveKeys())
	assert.False(t, l.IsActive(StateKeyboardActive))
	assert.False(t, l.Filter(event.KeyPress('W', event.ModNone)))
}

func TestMoveAndWheelPulses(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, &fakeScene{w: 640, h: 480})

	l.Filter(event.MouseMove(0, 10, 10))
	l.Update()
	l.Filter(event.MouseMove(0, 15, 12))
	l.Update()
	l.Filter(event.Wheel(-1, 15, 12))
	l.Update()

	require.Equal(t, []events.ID{events.MouseMove, events.MouseMove, events.MouseScroll}, sink.ids())
	assert.Equal(t, &events.Movement{
		X: events.Axis{Rel: 0, Abs: 10, Screen: 640},
		Y: events.Axis{Rel: 0, Abs: 10, Screen: 480},
	}, sink.got[0].data)
	assert.Equal(t, &events.Movement{
		X: events.Axis{Rel: 5, Abs: 15, Screen: 640},
		Y: events.Axis{Rel: 2, Abs: 12, Screen: 480},
	}, sink.got[1].data)
	assert.Equal(t, &events.Scroll{Delta: -1}, sink.got[2].data)

	assert.True(t, l.IsActive("MoveWaiting"))
	assert.True(t, l.IsActive("WheelWaiting"))
}

func TestRightDragIsLook(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, nil)
	right := event.ButtonRight

	l.Filter(event.MousePress(right, 0, 0, 0))
	l.Update()
	l.Filter(event.MouseMove(right.Mask(), 3, 4))
	l.Update()
	l.Filter(event.MouseMove(right.Mask(), 5, 4))
	l.Update()
	assert.True(t, l.IsActive(StateGestureActive))
	l.Filter(event.MouseRelease(right, right.Mask(), 5, 4))
	l.Update()

	var looks []*events.Movement
	for _, s := range sink.got {
		if s.id == events.MouseLook {
			looks = append(looks, s.data.(*events.Movement))
		}
	}
	require.Len(t, looks, 2)
	assert.Equal(t, 3, looks[0].X.Rel)
	assert.Equal(t, 4, looks[0].Y.Rel)
	assert.Equal(t, 2, looks[1].X.Rel)
	assert.Equal(t, 0, looks[1].Y.Rel)

	ids := sink.ids()
	assert.Contains(t, ids, events.MouseRightPressed)
	assert.Contains(t, ids, events.MouseRightReleased)
	assert.Contains(t, ids, events.MouseLookStopped)
	assert.NotContains(t, ids, events.MouseDragStopped)
	assert.NotContains(t, ids, events.InWorldClick)
	assert.True(t, l.IsActive("GestureWaiting"))
}

func TestLeftClickWithoutMotionIsNotDrag(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, nil)
	left := event.ButtonLeft

	l.Filter(event.MousePress(left, 0, 1, 1))
	l.Filter(event.MouseRelease(left, left.Mask(), 1, 1))
	l.Update()

	assert.Equal(t, []events.ID{events.InWorldClick, events.MouseLeftPressed, events.MouseLeftReleased}, sink.ids())

	sink.reset()
	l.Filter(event.MousePress(left, 0, 1, 1))
	l.Filter(event.MouseMove(left.Mask(), 4, 1))
	l.Filter(event.MouseRelease(left, left.Mask(), 4, 1))
	l.Update()
	assert.Contains(t, sink.ids(), events.MouseDrag)
	assert.Contains(t, sink.ids(), events.MouseDragStopped)
	assert.NotContains(t, sink.ids(), events.MouseLookStopped)
}

func TestPerspectiveRememberedWhileUnfocused(t *testing.T) {
	scene := &fakeScene{focused: true}
	l, _ := newTestLogic(t, Config{}, scene)

	l.SetPerspective(PerspectiveFirstPerson)
	l.Update()
	assert.Equal(t, PerspectiveFirstPerson, l.Perspective())

	scene.focused = false
	l.Update()
	assert.True(t, l.IsActive("FirstPerson"))
	assert.False(t, l.IsActive("ThirdPerson"))
	assert.Equal(t, PerspectiveFirstPerson, l.Perspective())
}

func TestUnusableConfigFailsSafe(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	l, sink := newTestLogic(t, Config{ConfigDir: file}, nil)
	press(l, "W")
	assert.Empty(t, sink.got)
	assert.Equal(t, 0, l.Bindings().Len())
}

func TestReloadBindingsPrunesKeyStates(t *testing.T) {
	l, sink := newTestLogic(t, Config{ConfigDir: t.TempDir()}, nil)
	l.RegisterBinding(PerspectiveThirdPerson, "", key("F9"), EventPair{Enter: 300, Exit: 301})
	l.Update()

	press(l, "Q")
	release(l, "Q")
	require.NotNil(t, l.GetState("Key:Q"))

	custom := NewBindings()
	def, _ := BindingByName("avatar.move.forward")
	custom.Table(GroupAvatar).Bind(key("I"), def.Name, def.Pair)
	require.NoError(t, l.ConfigManager().WriteCustom(custom))
	require.NoError(t, l.ReloadBindings())

	assert.Nil(t, l.GetState("Key:Q"))
	sink.reset()
	press(l, "W")
	press(l, "I")
	press(l, "F9")
	assert.Equal(t, []events.ID{events.MoveForwardPressed, 300}, sink.ids(), "dynamic bindings survive reload")
}

func TestCloseReleasesAndDeregisters(t *testing.T) {
	l, sink := newTestLogic(t, Config{}, nil)
	press(l, "W")
	require.NotNil(t, l.GetState(StateFocused))

	l.Close()
	assert.Equal(t, []events.ID{events.MoveForwardPressed, events.MoveForwardReleased}, sink.ids())
	assert.Nil(t, l.GetState(StateFocused))
	assert.Nil(t, l.GetState("Key:W"))
	assert.False(t, l.Filter(event.KeyPress('W', event.ModNone)))
}

func TestCloseEventStopsMachine(t *testing.T) {
	l, _ := newTestLogic(t, Config{}, nil)
	l.Filter(event.Signal(event.TypeClose))
	l.Update()
	assert.True(t, l.IsActive(StateStopped))
	assert.False(t, l.IsActive(StateFocused))
}

func TestFilterDropsUnsupportedTypes(t *testing.T) {
	l, _ := newTestLogic(t, Config{}, nil)
	assert.False(t, l.Filter(event.Signal(event.TypeFirstPerson)))
	assert.Equal(t, int64(1), l.Stats().Counters.Get("input.dropped").Load())
}

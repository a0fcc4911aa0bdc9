package fsm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
)

type recorder struct {
	log []string
}

const testGraph = `
[states.Active]
initial = "Off"
transitions = [{ trigger = "Close", target = "Stopped" }]

[states.Stopped]

[states.Off]
parent = "Active"
transitions = [{ trigger = "FocusIn", target = "On" }]

[states.On]
parent = "Active"
parallel = true
on_enter = [{ action = "Log", args = { msg = "enter On" } }]
on_exit = [{ action = "Log", args = { msg = "exit On" } }]
transitions = [{ trigger = "FocusOut", target = "Off" }]

[states.Left]
parent = "On"
initial = "LeftIdle"

[states.LeftIdle]
parent = "Left"
transitions = [{ trigger = "MousePress", target = "LeftDown", guard = "ButtonIs", guard_args = { button = "left" } }]

[states.LeftDown]
parent = "Left"
on_enter = [{ action = "Log", event = "MouseLeftPressed" }]
transitions = [{ trigger = "MouseRelease", target = "LeftIdle", guard = "ButtonIs", guard_args = { button = "left" } }]

[states.Mode]
parent = "On"
history = true
initial = "ModeA"
transitions = [
  { trigger = "FirstPerson", target = "ModeB" },
  { trigger = "ThirdPerson", target = "ModeA" },
]

[states.ModeA]
parent = "Mode"

[states.ModeB]
parent = "Mode"

[states.Pulse]
parent = "On"
initial = "PulseWait"

[states.PulseWait]
parent = "Pulse"
transitions = [{ trigger = "Wheel", target = "PulseHit", actions = [{ action = "Log", args = { msg = "wheel" } }] }]

[states.PulseHit]
parent = "Pulse"
transitions = [{ trigger = "Tick", target = "PulseWait" }]

[states.Keys]
parent = "On"
transitions = [{ trigger = "KeyPress", actions = [{ action = "Log", args = { msg = "key" } }] }]
`

func newTestMachine(t *testing.T, reg *Registry) *Machine[*recorder] {
	t.Helper()
	m := NewMachine[*recorder](reg, nil)
	m.RegisterAction("Log", func(r *recorder, ev event.Input, args any) {
		a := args.(*ActionArgs)
		if a.Event != events.IDNone {
			r.log = append(r.log, a.Event.String())
			return
		}
		r.log = append(r.log, a.Params["msg"].(string))
	})
	m.RegisterGuardFactory("ButtonIs", func(args map[string]any) (GuardFunc[*recorder], error) {
		name, _ := args["button"].(string)
		b, ok := event.ButtonByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown button %q", name)
		}
		return func(_ *recorder, ev event.Input) bool { return ev.Button == b }, nil
	})
	require.NoError(t, m.LoadConfig([]byte(testGraph)))
	return m
}

func TestStartEntersDefaultConfiguration(t *testing.T) {
	m := newTestMachine(t, nil)
	r := &recorder{}
	require.NoError(t, m.Start(r))

	assert.Equal(t, []string{"Root", "Active", "Off"}, m.ActiveStates())
	assert.Empty(t, r.log)
}

func TestParallelRegionsEnterTogether(t *testing.T) {
	m := newTestMachine(t, nil)
	r := &recorder{}
	require.NoError(t, m.Start(r))

	assert.True(t, m.HandleEvent(r, event.Signal(event.TypeFocusIn)))
	for _, name := range []string{"On", "Left", "LeftIdle", "Mode", "ModeA", "Pulse", "PulseWait", "Keys"} {
		assert.True(t, m.IsActive(name), name)
	}
	assert.False(t, m.IsActive("Off"))
	assert.Equal(t, []string{"enter On"}, r.log)
}

func TestRegionTransitionKeepsSiblings(t *testing.T) {
	m := newTestMachine(t, nil)
	r := &recorder{}
	require.NoError(t, m.Start(r))
	m.HandleEvent(r, event.Signal(event.TypeFocusIn))
	r.log = nil

	assert.False(t, m.HandleEvent(r, event.MousePress(event.ButtonRight, 0, 1, 1)), "guard rejects right button")
	assert.True(t, m.HandleEvent(r, event.MousePress(event.ButtonLeft, 0, 1, 1)))
	assert.True(t, m.IsActive("LeftDown"))
	assert.True(t, m.IsActive("ModeA"))
	assert.True(t, m.IsActive("On"))
	assert.Equal(t, []string{"MouseLeftPressed"}, r.log, "parallel parent is not re-entered")

	m.HandleEvent(r, event.MouseRelease(event.ButtonLeft, event.ButtonLeft.Mask(), 1, 1))
	assert.True(t, m.IsActive("LeftIdle"))
}

func TestTargetlessTransitionRunsActionsOnly(t *testing.T) {
	m := newTestMachine(t, nil)
	r := &recorder{}
	require.NoError(t, m.Start(r))
	m.HandleEvent(r, event.Signal(event.TypeFocusIn))
	r.log = nil

	assert.True(t, m.HandleEvent(r, event.KeyPress(event.KeyFromRune('a'), event.ModNone)))
	assert.Equal(t, []string{"key"}, r.log)
	assert.True(t, m.IsActive("Keys"))
}

func TestEventlessTransitionSettles(t *testing.T) {
	m := newTestMachine(t, nil)
	r := &recorder{}
	require.NoError(t, m.Start(r))
	m.HandleEvent(r, event.Signal(event.TypeFocusIn))
	r.log = nil

	m.HandleEvent(r, event.Wheel(1, 0, 0))
	assert.Equal(t, []string{"wheel"}, r.log)
	assert.True(t, m.IsActive("PulseWait"))
	assert.False(t, m.IsActive("PulseHit"))
	assert.NoError(t, m.Err())
}

func TestShallowHistory(t *testing.T) {
	m := newTestMachine(t, nil)
	r := &recorder{}
	require.NoError(t, m.Start(r))
	m.HandleEvent(r, event.Signal(event.TypeFocusIn))

	m.HandleEvent(r, event.Signal(event.TypeFirstPerson))
	require.True(t, m.IsActive("ModeB"))

	m.HandleEvent(r, event.Signal(event.TypeFocusOut))
	assert.False(t, m.IsActive("ModeB"))
	assert.False(t, m.IsActive("Mode"))
	assert.Contains(t, r.log, "exit On")

	m.HandleEvent(r, event.Signal(event.TypeFocusIn))
	assert.True(t, m.IsActive("ModeB"), "history restores last mode")
	assert.False(t, m.IsActive("ModeA"))
}

func TestSettleLimit(t *testing.T) {
	m := NewMachine[*recorder](nil, nil)
	m.MaxSettleSteps = 8
	require.NoError(t, m.LoadConfig([]byte(`
[states.A]
transitions = [{ trigger = "Tick", target = "B" }]
[states.B]
transitions = [{ trigger = "Tick", target = "A" }]
`)))
	err := m.Start(&recorder{})
	assert.True(t, errors.Is(err, ErrSettleLimit))
}

func TestDuplicateStateNames(t *testing.T) {
	reg := NewRegistry()
	_, err := NewState("Active", reg)
	require.NoError(t, err)

	m := NewMachine[*recorder](reg, nil)
	m.RegisterAction("Log", func(*recorder, event.Input, any) {})
	m.RegisterGuardFactory("ButtonIs", func(map[string]any) (GuardFunc[*recorder], error) { return nil, nil })
	err = m.LoadConfig([]byte(testGraph))
	assert.True(t, errors.Is(err, ErrDuplicateState))
}

func TestCloseDeregisters(t *testing.T) {
	reg := NewRegistry()
	m := newTestMachine(t, reg)
	r := &recorder{}
	require.NoError(t, m.Start(r))
	m.HandleEvent(r, event.Signal(event.TypeFocusIn))
	require.NotNil(t, reg.Get("Keys"))

	m.Close(r)
	assert.Equal(t, 0, reg.Len())
	assert.Contains(t, r.log, "exit On")
	assert.False(t, m.HandleEvent(r, event.Signal(event.TypeFocusOut)))
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"unknown parent":  "[states.A]\nparent = \"Nope\"\n",
		"unknown target":  "[states.A]\ntransitions = [{ trigger = \"Close\", target = \"Nope\" }]\n",
		"unknown trigger": "[states.A]\ntransitions = [{ trigger = \"Explode\", target = \"A\" }]\n",
		"unknown action":  "[states.A]\non_enter = [{ action = \"Nope\" }]\n",
		"unknown event":   "[states.A]\non_enter = [{ action = \"Log\", event = \"Nope\" }]\n",
		"unknown field":   "[states.A]\ncolour = \"red\"\n",
		"tick targetless": "[states.A]\ntransitions = [{ trigger = \"Tick\" }]\n",
		"bad initial":     "[states.A]\ninitial = \"B\"\n[states.B]\n",
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			m := NewMachine[*recorder](nil, nil)
			m.RegisterAction("Log", func(*recorder, event.Input, any) {})
			assert.Error(t, m.LoadConfig([]byte(cfg)))
		})
	}
}

func TestLoadConfigEmptyStateTable(t *testing.T) {
	m := NewMachine[*recorder](nil, nil)
	require.NoError(t, m.LoadConfig([]byte("[states.Idle]\n\n[states.Busy]\nparent = \"Idle\"\n")))
	require.NoError(t, m.Start(&recorder{}))
	assert.Equal(t, []string{"Root", "Busy", "Idle"}, m.ActiveStates())
}

func TestFailedLoadReleasesStates(t *testing.T) {
	reg := NewRegistry()
	m := NewMachine[*recorder](reg, nil)
	err := m.LoadConfig([]byte("[states.Idle]\n\n[states.Busy]\ntransitions = [{ trigger = \"Close\", target = \"Nope\" }]\n"))
	require.Error(t, err)

	assert.Nil(t, reg.Get("Idle"))
	assert.Nil(t, reg.Get("Busy"))
	assert.Nil(t, reg.Get("Root"))

	require.NoError(t, m.LoadConfig([]byte("[states.Idle]\n")))
	assert.NotNil(t, reg.Get("Idle"))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	a, err := NewState("a", reg)
	require.NoError(t, err)

	_, err = NewState("a", reg)
	assert.ErrorIs(t, err, ErrDuplicateState)

	a.Enter()
	assert.True(t, reg.Get("a").Active())

	a.Release()
	assert.Nil(t, reg.Get("a"))
	_, err = NewState("a", reg)
	assert.NoError(t, err)
}

func TestSetHistory(t *testing.T) {
	m := newTestMachine(t, nil)
	r := &recorder{}
	require.NoError(t, m.Start(r))

	require.NoError(t, m.SetHistory("Mode", "ModeB"))
	assert.ErrorIs(t, m.SetHistory("Left", "LeftDown"), ErrInvalidState)
	assert.ErrorIs(t, m.SetHistory("Mode", "Nope"), ErrUnknownState)

	m.HandleEvent(r, event.Signal(event.TypeFocusIn))
	assert.True(t, m.IsActive("ModeB"))
}

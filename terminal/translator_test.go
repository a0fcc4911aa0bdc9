package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/worldinput/event"
)

func types(evs []event.Input) []event.Type {
	out := make([]event.Type, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func TestKeyRepeatAndSynthesizedRelease(t *testing.T) {
	tr := NewTranslator()

	first := tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)
	out := tr.Translate(first)
	require.Len(t, out, 1)
	assert.Equal(t, event.TypeKeyPress, out[0].Type)
	assert.Equal(t, event.Key('W'), out[0].Key)
	assert.False(t, out[0].Repeat)

	again := tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)
	out = tr.Translate(again)
	require.Len(t, out, 1)
	assert.True(t, out[0].Repeat)

	assert.Empty(t, tr.Flush(again.When().Add(tr.ReleaseDelay/2)))
	assert.Equal(t, []event.Key{'W'}, tr.Held())

	out = tr.Flush(again.When().Add(tr.ReleaseDelay))
	require.Len(t, out, 1)
	assert.Equal(t, event.TypeKeyRelease, out[0].Type)
	assert.Equal(t, event.Key('W'), out[0].Key)
	assert.Empty(t, tr.Held())
}

func TestKeyConversion(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		key  event.Key
		mods event.Modifier
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), 'A', event.ModNone},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), event.KeySpace, event.ModNone},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl), 'R', event.ModCtrl},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), event.KeyTab, event.ModNone},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), event.KeyTab, event.ModShift},
		{"page up", tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone), event.KeyPageUp, event.ModNone},
		{"alt f1", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModAlt), event.KeyF1, event.ModAlt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := NewTranslator().Translate(tc.ev)
			require.Len(t, out, 1)
			assert.Equal(t, tc.key, out[0].Key)
			assert.Equal(t, tc.mods, out[0].Mods)
		})
	}
}

func TestModifierChangeReleasesOldCombination(t *testing.T) {
	tr := NewTranslator()
	tr.Translate(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	out := tr.Translate(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl))

	require.Equal(t, []event.Type{event.TypeKeyRelease, event.TypeKeyPress}, types(out))
	assert.Equal(t, event.ModNone, out[0].Mods)
	assert.Equal(t, event.ModCtrl, out[1].Mods)
	assert.False(t, out[1].Repeat)
}

func TestMouseEdges(t *testing.T) {
	tr := NewTranslator()

	out := tr.Translate(tcell.NewEventMouse(3, 4, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, []event.Type{event.TypeMouseMove}, types(out))

	out = tr.Translate(tcell.NewEventMouse(3, 4, tcell.Button1, tcell.ModNone))
	require.Equal(t, []event.Type{event.TypeMousePress}, types(out))
	assert.Equal(t, event.ButtonLeft, out[0].Button)
	assert.True(t, out[0].Buttons.Has(event.ButtonLeft))

	out = tr.Translate(tcell.NewEventMouse(5, 4, tcell.Button1|tcell.Button2, tcell.ModNone))
	require.Equal(t, []event.Type{event.TypeMouseMove, event.TypeMousePress}, types(out))
	assert.True(t, out[0].Buttons.Has(event.ButtonLeft), "drag carries the held mask")
	assert.Equal(t, event.ButtonRight, out[1].Button)

	out = tr.Translate(tcell.NewEventMouse(5, 4, tcell.ButtonNone, tcell.ModNone))
	require.Equal(t, []event.Type{event.TypeMouseRelease, event.TypeMouseRelease}, types(out))
	assert.Equal(t, event.ButtonLeft, out[0].Button)
	assert.Equal(t, event.ButtonRight, out[1].Button)
	assert.Equal(t, event.ButtonMask(0), out[1].Buttons)
}

func TestWheel(t *testing.T) {
	tr := NewTranslator()
	tr.Translate(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone))

	out := tr.Translate(tcell.NewEventMouse(1, 1, tcell.WheelUp, tcell.ModNone))
	require.Equal(t, []event.Type{event.TypeWheel}, types(out))
	assert.Equal(t, 1, out[0].WheelDelta)

	out = tr.Translate(tcell.NewEventMouse(1, 1, tcell.WheelDown, tcell.ModNone))
	require.Len(t, out, 1)
	assert.Equal(t, -1, out[0].WheelDelta)
}

func TestFocusAndClose(t *testing.T) {
	tr := NewTranslator()
	tr.Translate(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))

	before := time.Now()
	out := tr.Translate(tcell.NewEventFocus(false))
	assert.Equal(t, []event.Type{event.TypeKeyRelease, event.TypeFocusOut}, types(out))
	assert.Empty(t, tr.Held())
	for _, ev := range out {
		assert.False(t, ev.Time.Before(before), "focus events are stamped on arrival")
	}

	out = tr.Translate(tcell.NewEventFocus(true))
	assert.Equal(t, []event.Type{event.TypeFocusIn}, types(out))

	out = tr.Translate(CloseInterrupt())
	assert.Equal(t, []event.Type{event.TypeClose}, types(out))

	assert.Nil(t, tr.Translate(tcell.NewEventInterrupt("other")))
	assert.Nil(t, tr.Translate(tcell.NewEventResize(80, 24)))
	w, h := tr.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)

	tr.Translate(tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone))
	assert.NotEmpty(t, tr.Flush(time.Now().Add(time.Hour)))
}

package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	assert.Nil(t, q.Consume())

	q.Push(KeyPress('A', ModNone))
	q.Push(KeyRelease('A', ModNone))
	q.Push(Wheel(1, 3, 4))
	assert.Equal(t, 3, q.Len())

	got := q.Consume()
	require.Len(t, got, 3)
	assert.Equal(t, TypeKeyPress, got[0].Type)
	assert.Equal(t, TypeKeyRelease, got[1].Type)
	assert.Equal(t, TypeWheel, got[2].Type)
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Consume())
}

func TestQueueOverflowDropsNewest(t *testing.T) {
	q := NewQueue()
	for i := 0; i < QueueSize+10; i++ {
		q.Push(Input{Type: TypeMouseMove, X: i})
	}

	got := q.Consume()
	require.Len(t, got, QueueSize)
	assert.Equal(t, 0, got[0].X)
	assert.Equal(t, QueueSize-1, got[len(got)-1].X, "events past capacity are dropped")
	assert.Equal(t, uint64(10), q.Dropped())
}

func TestQueueOverflowKeepsReleases(t *testing.T) {
	q := NewQueue()
	q.Push(KeyPress('W', ModNone))
	for i := 1; i < QueueSize; i++ {
		q.Push(Input{Type: TypeMouseMove, X: i})
	}
	q.Push(KeyRelease('W', ModNone))
	q.Push(Signal(TypeClose))

	got := q.Consume()
	require.Len(t, got, QueueSize)
	assert.Equal(t, TypeKeyPress, got[0].Type)
	assert.Equal(t, TypeKeyRelease, got[len(got)-2].Type)
	assert.Equal(t, TypeClose, got[len(got)-1].Type)
	assert.Equal(t, QueueSize-3, got[len(got)-3].X, "the newest moves made room")
	assert.Equal(t, uint64(2), q.Dropped())
}

func TestQueueOverflowOnlyReleases(t *testing.T) {
	q := NewQueue()
	for i := 0; i < QueueSize+5; i++ {
		q.Push(KeyRelease(Key('A'), ModNone))
	}
	assert.Len(t, q.Consume(), QueueSize+5)
	assert.Zero(t, q.Dropped())
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q.Push(Signal(TypeFocusIn))
			}
		}()
	}
	wg.Wait()

	assert.Len(t, q.Consume(), 400)
}

func TestClone(t *testing.T) {
	admitted := []Type{TypeKeyPress, TypeKeyRelease, TypeMousePress, TypeMouseRelease, TypeMouseMove, TypeWheel, TypeClose}
	for _, typ := range admitted {
		ev := Input{Type: typ, X: 7}
		c, ok := Clone(ev)
		assert.True(t, ok, typ.String())
		assert.Equal(t, ev, c)
	}

	for _, typ := range []Type{TypeTick, TypeFocusIn, TypeFocusOut, TypeFirstPerson, Type(99)} {
		_, ok := Clone(Input{Type: typ})
		assert.False(t, ok, typ.String())
	}
}

func TestKeyByName(t *testing.T) {
	cases := map[string]Key{
		"w":      'W',
		"W":      'W',
		"Up":     KeyUp,
		"pgdown": KeyPageDown,
		"PgDn":   KeyPageDown,
		"Space":  KeySpace,
		"Comma":  ',',
		"F12":    KeyF12,
		"esc":    KeyEscape,
		"/":      '/',
	}
	for name, want := range cases {
		got, ok := KeyByName(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	for _, bad := range []string{"", "Foo", "\t"} {
		_, ok := KeyByName(bad)
		assert.False(t, ok, bad)
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "A", KeyFromRune('a').String())
	assert.Equal(t, "PgUp", KeyPageUp.String())
	assert.Equal(t, "Space", KeySpace.String())
	assert.Equal(t, "Comma", Key(',').String())
	assert.True(t, KeyF3.IsNamed())
	assert.False(t, Key('Q').IsNamed())
}

func TestTypeByName(t *testing.T) {
	typ, ok := TypeByName("mousepress")
	require.True(t, ok)
	assert.Equal(t, TypeMousePress, typ)

	typ, ok = TypeByName("Tick")
	require.True(t, ok)
	assert.Equal(t, TypeTick, typ)

	_, ok = TypeByName("Nope")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Type(-1).String())
}

func TestButtonMask(t *testing.T) {
	ev := MousePress(ButtonRight, ButtonLeft.Mask(), 1, 1)
	assert.True(t, ev.Buttons.Has(ButtonLeft))
	assert.True(t, ev.Buttons.Has(ButtonRight))
	assert.False(t, ev.Buttons.Has(ButtonMiddle))

	ev = MouseRelease(ButtonLeft, ev.Buttons, 1, 1)
	assert.False(t, ev.Buttons.Has(ButtonLeft))
	assert.True(t, ev.Buttons.Has(ButtonRight))
	assert.False(t, ev.Buttons.Has(ButtonNone))
}

package terminal

import (
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/worldinput/event"
)

// DefaultReleaseDelay must exceed the terminal's initial auto-repeat delay
const DefaultReleaseDelay = 600 * time.Millisecond

// namedKeys maps tcell special keys to event keys
// Tab, Enter, Backspace and Escape share values with Ctrl+I, Ctrl+M, Ctrl+H and Ctrl+[
var namedKeys = map[tcell.Key]event.Key{
	tcell.KeyEscape:     event.KeyEscape,
	tcell.KeyEnter:      event.KeyEnter,
	tcell.KeyTab:        event.KeyTab,
	tcell.KeyBacktab:    event.KeyTab,
	tcell.KeyBackspace:  event.KeyBackspace,
	tcell.KeyBackspace2: event.KeyBackspace,
	tcell.KeyDelete:     event.KeyDelete,
	tcell.KeyInsert:     event.KeyInsert,

	tcell.KeyUp:    event.KeyUp,
	tcell.KeyDown:  event.KeyDown,
	tcell.KeyLeft:  event.KeyLeft,
	tcell.KeyRight: event.KeyRight,
	tcell.KeyHome:  event.KeyHome,
	tcell.KeyEnd:   event.KeyEnd,
	tcell.KeyPgUp:  event.KeyPageUp,
	tcell.KeyPgDn:  event.KeyPageDown,

	tcell.KeyF1:  event.KeyF1,
	tcell.KeyF2:  event.KeyF2,
	tcell.KeyF3:  event.KeyF3,
	tcell.KeyF4:  event.KeyF4,
	tcell.KeyF5:  event.KeyF5,
	tcell.KeyF6:  event.KeyF6,
	tcell.KeyF7:  event.KeyF7,
	tcell.KeyF8:  event.KeyF8,
	tcell.KeyF9:  event.KeyF9,
	tcell.KeyF10: event.KeyF10,
	tcell.KeyF11: event.KeyF11,
	tcell.KeyF12: event.KeyF12,
}

var mouseButtons = [...]struct {
	tcell  tcell.ButtonMask
	button event.Button
}{
	{tcell.Button1, event.ButtonLeft},
	{tcell.Button2, event.ButtonRight},
	{tcell.Button3, event.ButtonMiddle},
}

// closeRequest marks the interrupt posted by CloseInterrupt
type closeRequest struct{}

// CloseInterrupt returns an interrupt event that the Translator turns into a close
func CloseInterrupt() *tcell.EventInterrupt {
	return tcell.NewEventInterrupt(closeRequest{})
}

type heldKey struct {
	mods event.Modifier
	seen time.Time
}

// Translator converts tcell events into input events
//
// Terminals report presses only: a key seen again while held is an auto-repeat,
// and a key not seen for ReleaseDelay is released by Flush.
// Mouse reports carry the full button mask; presses and releases are the mask edges.
type Translator struct {
	ReleaseDelay time.Duration

	held    map[event.Key]heldKey
	buttons event.ButtonMask
	x, y    int
	moved   bool
	w, h    int
}

// NewTranslator creates a Translator with DefaultReleaseDelay
func NewTranslator() *Translator {
	return &Translator{
		ReleaseDelay: DefaultReleaseDelay,
		held:         make(map[event.Key]heldKey),
	}
}

// Translate converts one tcell event; unsupported events yield nil
func (t *Translator) Translate(ev tcell.Event) []event.Input {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return t.key(e)
	case *tcell.EventMouse:
		return t.mouse(e)
	case *tcell.EventFocus:
		// Focus events carry no timestamp
		now := time.Now()
		if e.Focused {
			return []event.Input{stamp(event.Signal(event.TypeFocusIn), now)}
		}
		// Keys held across a focus change never report their release
		out := t.releaseAll(now)
		return append(out, stamp(event.Signal(event.TypeFocusOut), now))
	case *tcell.EventResize:
		t.w, t.h = e.Size()
	case *tcell.EventInterrupt:
		if _, ok := e.Data().(closeRequest); ok {
			return []event.Input{stamp(event.Signal(event.TypeClose), e.When())}
		}
	}
	return nil
}

// Flush releases keys not reported for ReleaseDelay as of now
func (t *Translator) Flush(now time.Time) []event.Input {
	var out []event.Input
	for _, k := range t.heldKeys() {
		h := t.held[k]
		if now.Sub(h.seen) >= t.ReleaseDelay {
			delete(t.held, k)
			out = append(out, stamp(event.KeyRelease(k, h.mods), now))
		}
	}
	return out
}

// Held returns the keys currently considered down, in key order
func (t *Translator) Held() []event.Key {
	return t.heldKeys()
}

// Size returns the last reported screen size
func (t *Translator) Size() (w, h int) {
	return t.w, t.h
}

func (t *Translator) key(e *tcell.EventKey) []event.Input {
	k, mods, ok := convertKey(e)
	if !ok {
		return nil
	}

	ev := stamp(event.KeyPress(k, mods), e.When())
	var out []event.Input
	if h, down := t.held[k]; down {
		if h.mods == mods {
			ev.Repeat = true
		} else {
			// Modifier change on a held key: finish the old combination first
			out = append(out, stamp(event.KeyRelease(k, h.mods), e.When()))
		}
	}
	t.held[k] = heldKey{mods: mods, seen: e.When()}
	return append(out, ev)
}

func (t *Translator) mouse(e *tcell.EventMouse) []event.Input {
	x, y := e.Position()
	when := e.When()
	raw := e.Buttons()

	var held event.ButtonMask
	for _, b := range mouseButtons {
		if raw&b.tcell != 0 {
			held |= b.button.Mask()
		}
	}

	var out []event.Input
	if !t.moved || x != t.x || y != t.y {
		out = append(out, stamp(event.MouseMove(t.buttons, x, y), when))
		t.x, t.y, t.moved = x, y, true
	}

	for _, b := range mouseButtons {
		was, is := t.buttons.Has(b.button), held.Has(b.button)
		switch {
		case is && !was:
			out = append(out, stamp(event.MousePress(b.button, t.buttons, x, y), when))
			t.buttons |= b.button.Mask()
		case was && !is:
			out = append(out, stamp(event.MouseRelease(b.button, t.buttons, x, y), when))
			t.buttons &^= b.button.Mask()
		}
	}

	if raw&tcell.WheelUp != 0 {
		out = append(out, stamp(event.Wheel(1, x, y), when))
	}
	if raw&tcell.WheelDown != 0 {
		out = append(out, stamp(event.Wheel(-1, x, y), when))
	}
	return out
}

func (t *Translator) releaseAll(now time.Time) []event.Input {
	var out []event.Input
	for _, k := range t.heldKeys() {
		out = append(out, stamp(event.KeyRelease(k, t.held[k].mods), now))
		delete(t.held, k)
	}
	return out
}

func (t *Translator) heldKeys() []event.Key {
	keys := make([]event.Key, 0, len(t.held))
	for k := range t.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// convertKey maps a tcell key event to an event key and modifiers
func convertKey(e *tcell.EventKey) (event.Key, event.Modifier, bool) {
	mods := convertMods(e.Modifiers())

	if k, ok := namedKeys[e.Key()]; ok {
		if e.Key() == tcell.KeyBacktab {
			mods |= event.ModShift
		}
		return k, mods, true
	}

	switch {
	case e.Key() == tcell.KeyRune:
		r := e.Rune()
		if r == ' ' {
			return event.KeySpace, mods, true
		}
		return event.KeyFromRune(r), mods, true
	case e.Key() >= tcell.KeyCtrlA && e.Key() <= tcell.KeyCtrlZ:
		return event.KeyFromRune(rune('A' + e.Key() - tcell.KeyCtrlA)), mods | event.ModCtrl, true
	case e.Key() == tcell.KeyCtrlSpace:
		return event.KeySpace, mods | event.ModCtrl, true
	}
	return event.KeyNone, event.ModNone, false
}

func convertMods(m tcell.ModMask) event.Modifier {
	var out event.Modifier
	if m&tcell.ModShift != 0 {
		out |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= event.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= event.ModMeta
	}
	return out
}

func stamp(ev event.Input, when time.Time) event.Input {
	ev.Time = when
	return ev
}

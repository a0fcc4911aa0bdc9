package input

import (
	"log/slog"
	"sort"

	"github.com/lixenwraith/worldinput/engine/fsm"
	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
)

// keyStatePrefix namespaces key states in the shared state registry
const keyStatePrefix = "Key:"

// KeyState is the state of one observed key sequence
// Entering looks up the live binding and fires its enter event; exiting fires the exit event
type KeyState struct {
	*fsm.State
	seq     KeySequence
	fired   EventPair // Resolved at press, closed at release even if the live table changed
	binding string
}

// Sequence returns the normalized key sequence of the state
func (k *KeyState) Sequence() KeySequence {
	return k.seq
}

// SendFunc dispatches an application event, reporting whether it was consumed
type SendFunc func(id events.ID, data any) bool

// KeyListener intercepts every key press and release of the keyboard region
// and routes it to the KeyState of the normalized sequence, creating it on first sight
type KeyListener struct {
	registry *fsm.Registry
	table    func() *Table
	send     SendFunc
	logger   *slog.Logger

	states map[KeySequence]*KeyState // KeyStateMap
	active []KeySequence             // Press order
}

// NewKeyListener creates a listener resolving bindings against the table returned by table
func NewKeyListener(reg *fsm.Registry, table func() *Table, send SendFunc, logger *slog.Logger) *KeyListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyListener{
		registry: reg,
		table:    table,
		send:     send,
		logger:   logger,
		states:   make(map[KeySequence]*KeyState),
	}
}

// Handle routes a key press or release
// Returns true if an application event was dispatched
func (k *KeyListener) Handle(ev event.Input) bool {
	switch ev.Type {
	case event.TypeKeyPress:
		return k.Press(SequenceOf(ev))
	case event.TypeKeyRelease:
		return k.Release(SequenceOf(ev))
	}
	return false
}

// Press enters the state of seq; a press on an active key dispatches nothing
func (k *KeyListener) Press(seq KeySequence) bool {
	seq = seq.Normalize()
	if seq.IsZero() {
		return false
	}
	ks := k.resolve(seq)
	if ks.Active() {
		return false
	}

	table := k.table()
	ks.fired = table.Lookup(seq)
	ks.binding = table.Binding(seq)
	ks.Enter()
	k.active = append(k.active, seq)

	if ks.fired.Enter == events.IDNone {
		return false
	}
	k.send(ks.fired.Enter, &events.Key{Sequence: seq.String(), Binding: ks.binding})
	return true
}

// Release exits the state of seq
// When seq itself is not held, every held sequence on the same key is released,
// so letting go of a modifier first does not leave the combination stuck
func (k *KeyListener) Release(seq KeySequence) bool {
	seq = seq.Normalize()
	if ks, ok := k.states[seq]; ok && ks.Active() {
		return k.exit(ks)
	}

	dispatched := false
	for _, held := range append([]KeySequence(nil), k.active...) {
		if held.Key == seq.Key {
			if k.exit(k.states[held]) {
				dispatched = true
			}
		}
	}
	return dispatched
}

// ReleaseAll exits every held key, newest first
func (k *KeyListener) ReleaseAll() {
	for i := len(k.active) - 1; i >= 0; i-- {
		k.exit(k.states[k.active[i]])
	}
}

func (k *KeyListener) exit(ks *KeyState) bool {
	ks.Exit()
	for i, s := range k.active {
		if s == ks.seq {
			k.active = append(k.active[:i], k.active[i+1:]...)
			break
		}
	}

	fired, binding := ks.fired, ks.binding
	ks.fired, ks.binding = EventPair{}, ""
	if fired.Exit == events.IDNone {
		return false
	}
	k.send(fired.Exit, &events.Key{Sequence: ks.seq.String(), Binding: binding})
	return true
}

// resolve returns the KeyState of seq, creating and registering it if needed
func (k *KeyListener) resolve(seq KeySequence) *KeyState {
	if ks, ok := k.states[seq]; ok {
		return ks
	}
	st, err := fsm.NewState(keyStatePrefix+seq.String(), k.registry)
	if err != nil {
		k.logger.Warn("key state not registered", "sequence", seq.String(), "error", err)
		st, _ = fsm.NewState(keyStatePrefix+seq.String(), nil)
	}
	ks := &KeyState{State: st, seq: seq}
	k.states[seq] = ks
	return ks
}

// State returns the KeyState of seq, or nil if never seen
func (k *KeyListener) State(seq KeySequence) *KeyState {
	return k.states[seq.Normalize()]
}

// ActiveKeys returns held sequences in press order
func (k *KeyListener) ActiveKeys() []KeySequence {
	out := make([]KeySequence, len(k.active))
	copy(out, k.active)
	return out
}

// Len returns the number of allocated key states
func (k *KeyListener) Len() int {
	return len(k.states)
}

// Prune drops inactive key states whose sequence isBound rejects
// Returns the number of dropped states
func (k *KeyListener) Prune(isBound func(KeySequence) bool) int {
	dropped := 0
	seqs := make([]KeySequence, 0, len(k.states))
	for seq := range k.states {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i].String() < seqs[j].String() })

	for _, seq := range seqs {
		ks := k.states[seq]
		if ks.Active() || isBound(seq) {
			continue
		}
		ks.Release()
		delete(k.states, seq)
		dropped++
	}
	return dropped
}

// Close releases held keys and deregisters every key state
func (k *KeyListener) Close() {
	k.ReleaseAll()
	for seq, ks := range k.states {
		ks.Release()
		delete(k.states, seq)
	}
}

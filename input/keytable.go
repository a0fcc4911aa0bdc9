package input

import (
	"sort"

	"github.com/lixenwraith/worldinput/events"
)

// EventPair is the pair of application events a bound key fires
// Enter on press, Exit on release; the zero pair means unbound
type EventPair struct {
	Enter events.ID
	Exit  events.ID
}

// IsZero reports whether the pair is unbound
func (p EventPair) IsZero() bool {
	return p.Enter == events.IDNone && p.Exit == events.IDNone
}

type tableEntry struct {
	pair EventPair
	name string // Binding identifier, empty for anonymous dynamic bindings
}

// Table maps normalized key sequences to event pairs
// A nil Table is valid and binds nothing
type Table struct {
	entries map[KeySequence]tableEntry
}

// NewTable creates an empty Table
func NewTable() *Table {
	return &Table{entries: make(map[KeySequence]tableEntry)}
}

// Bind maps seq to pair, replacing any previous binding of seq
func (t *Table) Bind(seq KeySequence, name string, pair EventPair) {
	t.entries[seq.Normalize()] = tableEntry{pair: pair, name: name}
}

// Unbind removes seq
func (t *Table) Unbind(seq KeySequence) {
	delete(t.entries, seq.Normalize())
}

// Lookup returns the pair bound to seq, or the zero pair
func (t *Table) Lookup(seq KeySequence) EventPair {
	if t == nil {
		return EventPair{}
	}
	return t.entries[seq.Normalize()].pair
}

// Binding returns the binding identifier of seq
func (t *Table) Binding(seq KeySequence) string {
	if t == nil {
		return ""
	}
	return t.entries[seq.Normalize()].name
}

// Len returns the number of bound sequences
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Sequences returns the bound sequences in canonical string order
func (t *Table) Sequences() []KeySequence {
	if t == nil {
		return nil
	}
	seqs := make([]KeySequence, 0, len(t.entries))
	for seq := range t.entries {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i].String() < seqs[j].String() })
	return seqs
}

// ByBinding groups bound sequences by binding identifier
// Anonymous bindings are omitted
func (t *Table) ByBinding() map[string][]KeySequence {
	out := make(map[string][]KeySequence)
	for _, seq := range t.Sequences() {
		if name := t.entries[seq].name; name != "" {
			out[name] = append(out[name], seq)
		}
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	c := NewTable()
	if t != nil {
		for seq, e := range t.entries {
			c.entries[seq] = e
		}
	}
	return c
}

// Equal reports whether both tables hold the same sequence to pair entries
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t == nil {
		return true
	}
	for seq, e := range t.entries {
		if oe, ok := o.entries[seq]; !ok || oe.pair != e.pair {
			return false
		}
	}
	return true
}

// Bindings holds one table per perspective group and the live-table pointer
// Single-threaded: written by perspective states on entry, read by key states
type Bindings struct {
	tables      [groupCount]*Table
	perspective Perspective
	active      *Table
}

// NewBindings creates empty tables with the third-person table live
func NewBindings() *Bindings {
	b := &Bindings{}
	for g := range b.tables {
		b.tables[g] = NewTable()
	}
	b.SetActive(PerspectiveThirdPerson)
	return b
}

// Table returns the table of group g
func (b *Bindings) Table(g Group) *Table {
	if b == nil || g >= groupCount {
		return nil
	}
	return b.tables[g]
}

// TableFor returns the table live in perspective p
func (b *Bindings) TableFor(p Perspective) *Table {
	return b.Table(p.Group())
}

// Active returns the live table; nil bindings yield a nil table that binds nothing
func (b *Bindings) Active() *Table {
	if b == nil {
		return nil
	}
	return b.active
}

// Perspective returns the perspective whose table is live
func (b *Bindings) Perspective() Perspective {
	if b == nil {
		return PerspectiveThirdPerson
	}
	return b.perspective
}

// SetActive swaps the live table to the one of perspective p
func (b *Bindings) SetActive(p Perspective) {
	b.perspective = p
	b.active = b.TableFor(p)
}

// IsBound reports whether seq is bound in any table
func (b *Bindings) IsBound(seq KeySequence) bool {
	if b == nil {
		return false
	}
	for _, t := range b.tables {
		if !t.Lookup(seq).IsZero() {
			return true
		}
	}
	return false
}

// Len returns the number of bindings across all tables
func (b *Bindings) Len() int {
	n := 0
	if b != nil {
		for _, t := range b.tables {
			n += t.Len()
		}
	}
	return n
}

// Clone returns a deep copy with the same live perspective
func (b *Bindings) Clone() *Bindings {
	c := &Bindings{}
	for g := range c.tables {
		c.tables[g] = b.Table(Group(g)).Clone()
	}
	c.SetActive(b.Perspective())
	return c
}

// Equal compares the tables of both sets
func (b *Bindings) Equal(o *Bindings) bool {
	for g := Group(0); g < groupCount; g++ {
		if !b.Table(g).Equal(o.Table(g)) {
			return false
		}
	}
	return true
}

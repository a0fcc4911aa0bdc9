package events

import "sort"

// Sink is the event-dispatch service the input core sends to
// The input core depends only on this contract
type Sink interface {
	// QueryEventCategory returns the ID of a named category, registering it if needed
	QueryEventCategory(name string) CategoryID

	// SendEvent dispatches an event synchronously
	// Returns true if a handler consumed it
	SendEvent(category CategoryID, id ID, data any) bool
}

// Handler receives events of one category
// Returning true consumes the event and stops propagation
type Handler func(id ID, data any) bool

// Subscription identifies a registered handler for Unsubscribe
type Subscription struct {
	category CategoryID
	seq      uint64
}

type subscriber struct {
	seq     uint64
	handler Handler
}

// Manager is an in-process Sink
//
// Architecture:
//   - Single-threaded dispatch on the caller's goroutine
//   - Category IDs assigned on first query, starting at 1, stable for the Manager's lifetime
//   - Handlers invoked in registration order until one consumes the event
type Manager struct {
	categories map[string]CategoryID
	names      []string // Index = CategoryID - 1
	handlers   map[CategoryID][]subscriber
	nextSeq    uint64
}

// NewManager creates an empty Manager
func NewManager() *Manager {
	return &Manager{
		categories: make(map[string]CategoryID),
		handlers:   make(map[CategoryID][]subscriber),
	}
}

// QueryEventCategory implements Sink
func (m *Manager) QueryEventCategory(name string) CategoryID {
	if id, ok := m.categories[name]; ok {
		return id
	}
	m.names = append(m.names, name)
	id := CategoryID(len(m.names))
	m.categories[name] = id
	return id
}

// CategoryName returns the name of a registered category
func (m *Manager) CategoryName(id CategoryID) string {
	if id <= CategoryNone || int(id) > len(m.names) {
		return ""
	}
	return m.names[id-1]
}

// Categories returns all registered category names, sorted
func (m *Manager) Categories() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	sort.Strings(out)
	return out
}

// Subscribe adds a handler for a named category
func (m *Manager) Subscribe(category string, h Handler) Subscription {
	id := m.QueryEventCategory(category)
	m.nextSeq++
	m.handlers[id] = append(m.handlers[id], subscriber{seq: m.nextSeq, handler: h})
	return Subscription{category: id, seq: m.nextSeq}
}

// Unsubscribe removes a handler; unknown subscriptions are ignored
func (m *Manager) Unsubscribe(s Subscription) {
	subs := m.handlers[s.category]
	for i, sub := range subs {
		if sub.seq == s.seq {
			m.handlers[s.category] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// SendEvent implements Sink
func (m *Manager) SendEvent(category CategoryID, id ID, data any) bool {
	if id == IDNone {
		return false
	}
	for _, sub := range m.handlers[category] {
		if sub.handler(id, data) {
			return true
		}
	}
	return false
}

// HandlerCount returns the number of handlers registered for a category
func (m *Manager) HandlerCount(category CategoryID) int {
	return len(m.handlers[category])
}

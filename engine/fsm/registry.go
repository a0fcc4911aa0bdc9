package fsm

import (
	"fmt"
	"sort"
)

// State is a named state with an active flag
// Machine nodes and key states embed it so the whole input hierarchy is reachable by name
type State struct {
	name     string
	active   bool
	registry *Registry
}

// NewState creates a state and registers it
// Fails with ErrDuplicateState if the name is taken
func NewState(name string, reg *Registry) (*State, error) {
	s := &State{name: name}
	if reg != nil {
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name returns the registry name
func (s *State) Name() string {
	return s.name
}

// Active reports whether the state is currently entered
func (s *State) Active() bool {
	return s.active
}

// Enter marks the state active
func (s *State) Enter() {
	s.active = true
}

// Exit marks the state inactive
func (s *State) Exit() {
	s.active = false
}

// Release removes the state from its registry
func (s *State) Release() {
	if s.registry != nil {
		s.registry.Deregister(s)
	}
}

// Registry maps state names to states
// Owned by the orchestrator and injected into every machine and key state
// Names are strictly unique
type Registry struct {
	states map[string]*State
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*State)}
}

// Register inserts s under its name
func (r *Registry) Register(s *State) error {
	if s.name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidState)
	}
	if existing, ok := r.states[s.name]; ok && existing != s {
		return fmt.Errorf("%w: %q", ErrDuplicateState, s.name)
	}
	r.states[s.name] = s
	s.registry = r
	return nil
}

// Deregister removes s if the entry under its name is still s
func (r *Registry) Deregister(s *State) {
	if existing, ok := r.states[s.name]; ok && existing == s {
		delete(r.states, s.name)
	}
	if s.registry == r {
		s.registry = nil
	}
}

// Get returns the state registered under name, or nil
func (r *Registry) Get(name string) *State {
	return r.states[name]
}

// Names returns all registered names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.states))
	for name := range r.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered states
func (r *Registry) Len() int {
	return len(r.states)
}

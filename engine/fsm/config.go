package fsm

// RootConfig represents the top-level config structure
type RootConfig struct {
	States map[string]*StateConfig `toml:"states"`
}

// StateConfig represents a single state definition
type StateConfig struct {
	Parent      string             `toml:"parent,omitempty"`   // Defaults to Root
	Initial     string             `toml:"initial,omitempty"`  // Default child of a compound state
	Parallel    bool               `toml:"parallel,omitempty"` // All children active together
	History     bool               `toml:"history,omitempty"`  // Shallow history
	OnEnter     []ActionConfig     `toml:"on_enter,omitempty"`
	OnExit      []ActionConfig     `toml:"on_exit,omitempty"`
	Transitions []TransitionConfig `toml:"transitions,omitempty"`
}

// TransitionConfig represents a transition definition
type TransitionConfig struct {
	Trigger   string         `toml:"trigger"`              // Input type name or "Tick"
	Target    string         `toml:"target,omitempty"`     // Empty = targetless
	Guard     string         `toml:"guard,omitempty"`      // Guard function name
	GuardArgs map[string]any `toml:"guard_args,omitempty"` // Parameters for factory guards
	Actions   []ActionConfig `toml:"actions,omitempty"`
}

// ActionConfig represents an action definition
type ActionConfig struct {
	Action string         `toml:"action"`          // Action function name (e.g. "Emit")
	Event  string         `toml:"event,omitempty"` // Application event name
	Args   map[string]any `toml:"args,omitempty"`
}

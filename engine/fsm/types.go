package fsm

import (
	"errors"
	"log/slog"

	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
)

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// RootName is the name of the implicit root node
const RootName = "Root"

// DefaultMaxSettleSteps bounds eventless transition chains per event
const DefaultMaxSettleSteps = 64

var (
	ErrDuplicateState = errors.New("duplicate state name")
	ErrInvalidState   = errors.New("invalid state")
	ErrUnknownState   = errors.New("unknown state")
	ErrSettleLimit    = errors.New("eventless transitions did not settle")
	ErrNotStarted     = errors.New("machine not started")
)

// Kind decides how a node's children are activated
type Kind uint8

const (
	KindCompound Kind = iota // Exactly one child active; atomic when childless
	KindParallel             // All children active
)

// Machine is a hierarchical state machine with parallel regions
// T is the context type passed to actions and guards (e.g., *input.Logic)
type Machine[T any] struct {
	// Graph Data (Immutable after load)
	nodes    map[StateID]*Node[T]
	nameToID map[string]StateID
	order    []StateID // Ascending IDs, evaluation order for leaves

	registry *Registry
	logger   *slog.Logger

	// Runtime
	started bool
	err     error

	// MaxSettleSteps bounds eventless transition chains
	MaxSettleSteps int

	// Dependency Injection
	guardReg        map[string]GuardFunc[T]
	guardFactoryReg map[string]GuardFactoryFunc[T]
	actionReg       map[string]ActionFunc[T]
}

// Node represents a state in the hierarchy
type Node[T any] struct {
	State

	ID       StateID
	ParentID StateID
	Kind     Kind
	Initial  StateID // Default child of a compound node
	History  bool    // Re-enter the last active child instead of Initial

	Children []StateID

	// Pre-calculated path from Root to this node, used for LCA lookup
	Path []StateID

	lastChild StateID

	// Lifecycle Actions
	OnEnter []Action[T]
	OnExit  []Action[T]

	// Transitions in evaluation order
	Transitions []Transition[T]
}

// IsAtomic reports whether the node has no children
func (n *Node[T]) IsAtomic() bool {
	return len(n.Children) == 0
}

// Transition defines a link between states
type Transition[T any] struct {
	Trigger  event.Type   // event.TypeTick = eventless
	Guard    GuardFunc[T] // nil = Always true
	TargetID StateID      // StateNone = targetless, runs Actions only
	Actions  []Action[T]
}

// Action represents a side-effect
type Action[T any] struct {
	Func ActionFunc[T]
	Args any // Pre-compiled args, *ActionArgs when loaded from config
}

// ActionArgs carries config-supplied action parameters
type ActionArgs struct {
	Event  events.ID
	Params map[string]any
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T, ev event.Input) bool

// ActionFunc executes a side effect; ev is the event that caused it
type ActionFunc[T any] func(ctx T, ev event.Input, args any)

// GuardFactoryFunc creates a parameterized guard from config args
// Used for configurable guards like ButtonIs with a button parameter
type GuardFactoryFunc[T any] func(args map[string]any) (GuardFunc[T], error)

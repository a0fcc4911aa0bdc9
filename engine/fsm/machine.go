package fsm

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/lixenwraith/worldinput/event"
)

// NewMachine creates a new FSM instance
// States are registered in reg; a nil reg gets a private registry
func NewMachine[T any](reg *Registry, logger *slog.Logger) *Machine[T] {
	if reg == nil {
		reg = NewRegistry()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Machine[T]{
		nodes:           make(map[StateID]*Node[T]),
		nameToID:        make(map[string]StateID),
		registry:        reg,
		logger:          logger,
		MaxSettleSteps:  DefaultMaxSettleSteps,
		guardReg:        make(map[string]GuardFunc[T]),
		guardFactoryReg: make(map[string]GuardFactoryFunc[T]),
		actionReg:       make(map[string]ActionFunc[T]),
	}
}

// RegisterGuard adds a predicate function to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterGuardFactory adds a parameterized guard factory to the registry
func (m *Machine[T]) RegisterGuardFactory(name string, factory GuardFactoryFunc[T]) {
	m.guardFactoryReg[name] = factory
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Registry returns the named-state registry the machine registers into
func (m *Machine[T]) Registry() *Registry {
	return m.registry
}

// Err returns the last runtime error, e.g. ErrSettleLimit
func (m *Machine[T]) Err() error {
	return m.err
}

// Started reports whether Start succeeded and Close has not been called
func (m *Machine[T]) Started() bool {
	return m.started
}

// Start enters the root and its default descendants, then settles eventless transitions
func (m *Machine[T]) Start(ctx T) error {
	if m.started {
		return nil
	}
	if _, ok := m.nodes[StateRoot]; !ok {
		return fmt.Errorf("%w: no root state", ErrInvalidState)
	}
	m.started = true
	m.err = nil
	m.enterDefault(ctx, StateRoot, event.Input{Type: event.TypeTick})
	m.settle(ctx)
	return m.err
}

// Update evaluates eventless transitions until the machine is stable
func (m *Machine[T]) Update(ctx T) {
	if !m.started {
		return
	}
	m.settle(ctx)
}

// HandleEvent routes an event through all active regions
// Returns true if any transition was taken
func (m *Machine[T]) HandleEvent(ctx T, ev event.Input) bool {
	if !m.started {
		return false
	}

	selected := m.selectTransitions(ctx, ev)
	for _, sel := range selected {
		// An earlier transition may have exited this source
		if !m.nodes[sel.source].Active() {
			continue
		}
		m.execute(ctx, sel.source, sel.trans, ev)
	}

	m.settle(ctx)
	return len(selected) > 0
}

// Close exits every active state deepest-first and removes all nodes from the registry
func (m *Machine[T]) Close(ctx T) {
	if m.started {
		m.exitDescendants(ctx, StateNone, event.Input{Type: event.TypeClose})
		m.started = false
	}
	for _, node := range m.nodes {
		m.registry.Deregister(&node.State)
	}
}

// IsActive reports whether the named state is active
func (m *Machine[T]) IsActive(name string) bool {
	id, ok := m.nameToID[name]
	if !ok {
		return false
	}
	return m.nodes[id].Active()
}

// ActiveStates returns the names of active states in ID order
func (m *Machine[T]) ActiveStates() []string {
	names := make([]string, 0, len(m.order))
	for _, id := range m.order {
		if n := m.nodes[id]; n.Active() {
			names = append(names, n.Name())
		}
	}
	return names
}

// SetHistory records child as the last active child of a history state
// The next default entry of parent resumes child; an active parent is left untouched
func (m *Machine[T]) SetHistory(parent, child string) error {
	pid, ok := m.nameToID[parent]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, parent)
	}
	cid, ok := m.nameToID[child]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, child)
	}
	p := m.nodes[pid]
	if !p.History || m.nodes[cid].ParentID != pid {
		return fmt.Errorf("%w: %q is not a history child of %q", ErrInvalidState, child, parent)
	}
	p.lastChild = cid
	return nil
}

// Node returns the node with the given ID, or nil
func (m *Machine[T]) Node(id StateID) *Node[T] {
	return m.nodes[id]
}

// GetStateID resolves a state name to ID
func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	id, ok := m.nameToID[name]
	return id, ok
}

type selection[T any] struct {
	source StateID
	trans  *Transition[T]
}

// selectTransitions picks at most one enabled transition per active leaf
// Each leaf bubbles up to the nearest ancestor with a matching transition
func (m *Machine[T]) selectTransitions(ctx T, ev event.Input) []selection[T] {
	var selected []selection[T]
	for _, id := range m.order {
		leaf := m.nodes[id]
		if !leaf.Active() || !leaf.IsAtomic() {
			continue
		}

	bubble:
		for currID := id; currID != StateNone; {
			node := m.nodes[currID]
			for i := range node.Transitions {
				trans := &node.Transitions[i]
				if trans.Trigger != ev.Type {
					continue
				}
				if trans.Guard != nil && !trans.Guard(ctx, ev) {
					continue
				}
				if !containsTransition(selected, trans) {
					selected = append(selected, selection[T]{source: currID, trans: trans})
				}
				break bubble
			}
			currID = node.ParentID
		}
	}
	return selected
}

func containsTransition[T any](selected []selection[T], trans *Transition[T]) bool {
	for _, s := range selected {
		if s.trans == trans {
			return true
		}
	}
	return false
}

// settle runs eventless transitions until none are enabled
func (m *Machine[T]) settle(ctx T) {
	tick := event.Input{Type: event.TypeTick}
	for step := 0; step < m.MaxSettleSteps; step++ {
		selected := m.selectTransitions(ctx, tick)
		if len(selected) == 0 {
			return
		}
		for _, sel := range selected {
			if !m.nodes[sel.source].Active() {
				continue
			}
			m.execute(ctx, sel.source, sel.trans, tick)
		}
	}
	m.err = fmt.Errorf("%w after %d steps", ErrSettleLimit, m.MaxSettleSteps)
	m.logger.Warn("fsm settle limit reached", "steps", m.MaxSettleSteps, "active", m.ActiveStates())
}

// execute performs a single transition
func (m *Machine[T]) execute(ctx T, sourceID StateID, trans *Transition[T], ev event.Input) {
	if trans.TargetID == StateNone {
		runActions(ctx, trans.Actions, ev)
		return
	}

	target, ok := m.nodes[trans.TargetID]
	if !ok {
		panic(fmt.Sprintf("FSM: Attempted transition to unknown state ID %d", trans.TargetID))
	}
	source := m.nodes[sourceID]

	domain := m.transitionDomain(source, target)

	// Exit Phase: active descendants of the domain, deepest first
	m.exitDescendants(ctx, domain, ev)

	runActions(ctx, trans.Actions, ev)

	// Enter Phase: walk DOWN from domain (exclusive) to target, completing parallel siblings
	path := target.Path
	start := indexOf(path, domain) + 1
	for i := start; i < len(path); i++ {
		node := m.nodes[path[i]]
		m.enterNode(ctx, node, ev)

		if i+1 < len(path) && node.Kind == KindParallel {
			next := path[i+1]
			for _, child := range node.Children {
				if child != next {
					m.enterDefault(ctx, child, ev)
				}
			}
		}
	}
	m.enterChildren(ctx, target, ev)
}

// transitionDomain returns the deepest state that stays active across the transition
// Never a parallel state, so regions of a parallel state are not exited by their siblings
func (m *Machine[T]) transitionDomain(source, target *Node[T]) StateID {
	lca := StateNone
	minLen := min(len(source.Path), len(target.Path))
	for i := 0; i < minLen; i++ {
		if source.Path[i] != target.Path[i] {
			break
		}
		lca = source.Path[i]
	}

	// Target is the source or one of its ancestors: exit and re-enter it
	if lca == target.ID {
		lca = target.ParentID
	}

	for lca != StateNone && m.nodes[lca].Kind == KindParallel {
		lca = m.nodes[lca].ParentID
	}
	return lca
}

// exitDescendants exits active proper descendants of domain, deepest first
// StateNone exits everything
func (m *Machine[T]) exitDescendants(ctx T, domain StateID, ev event.Input) {
	var exiting []*Node[T]
	for _, id := range m.order {
		node := m.nodes[id]
		if !node.Active() || id == domain {
			continue
		}
		if domain == StateNone || indexOf(node.Path, domain) >= 0 {
			exiting = append(exiting, node)
		}
	}

	sort.SliceStable(exiting, func(i, j int) bool {
		if len(exiting[i].Path) != len(exiting[j].Path) {
			return len(exiting[i].Path) > len(exiting[j].Path)
		}
		return exiting[i].ID > exiting[j].ID
	})

	for _, node := range exiting {
		if parent, ok := m.nodes[node.ParentID]; ok && parent.History {
			parent.lastChild = node.ID
		}
		node.Exit()
		runActions(ctx, node.OnExit, ev)
	}
}

// enterDefault enters a node and its default descendants
func (m *Machine[T]) enterDefault(ctx T, id StateID, ev event.Input) {
	node := m.nodes[id]
	m.enterNode(ctx, node, ev)
	m.enterChildren(ctx, node, ev)
}

// enterChildren completes the configuration below an entered node
func (m *Machine[T]) enterChildren(ctx T, node *Node[T], ev event.Input) {
	if node.IsAtomic() {
		return
	}
	if node.Kind == KindParallel {
		for _, child := range node.Children {
			m.enterDefault(ctx, child, ev)
		}
		return
	}

	child := node.Initial
	if node.History && node.lastChild != StateNone {
		child = node.lastChild
	}
	m.enterDefault(ctx, child, ev)
}

func (m *Machine[T]) enterNode(ctx T, node *Node[T], ev event.Input) {
	if node.Active() {
		return
	}
	node.Enter()
	runActions(ctx, node.OnEnter, ev)
}

func runActions[T any](ctx T, actions []Action[T], ev event.Input) {
	for _, action := range actions {
		action.Func(ctx, ev, action.Args)
	}
}

func indexOf(path []StateID, id StateID) int {
	for i, p := range path {
		if p == id {
			return i
		}
	}
	return -1
}

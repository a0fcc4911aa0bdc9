package fsm

import (
	"fmt"
	"sort"
)

// AddState adds a node to the machine manually and registers its name
// Useful for constructing the graph programmatically or during TOML load
func (m *Machine[T]) AddState(id StateID, name string, parentID StateID) (*Node[T], error) {
	if id == StateNone {
		return nil, fmt.Errorf("%w: state %q has zero ID", ErrInvalidState, name)
	}
	if _, exists := m.nodes[id]; exists {
		return nil, fmt.Errorf("%w: state ID %d already used", ErrInvalidState, id)
	}

	node := &Node[T]{
		State:       State{name: name},
		ID:          id,
		ParentID:    parentID,
		Transitions: make([]Transition[T], 0),
		OnEnter:     make([]Action[T], 0),
		OnExit:      make([]Action[T], 0),
	}
	if err := m.registry.Register(&node.State); err != nil {
		return nil, err
	}

	m.nodes[id] = node
	m.nameToID[name] = id

	idx := sort.Search(len(m.order), func(i int) bool { return m.order[i] >= id })
	m.order = append(m.order, StateNone)
	copy(m.order[idx+1:], m.order[idx:])
	m.order[idx] = id

	return node, nil
}

// AddTransition adds a transition to a specific node
func (m *Machine[T]) AddTransition(sourceID StateID, t Transition[T]) {
	if node, ok := m.nodes[sourceID]; ok {
		node.Transitions = append(node.Transitions, t)
	}
}

// CompilePaths calculates the Path and Children of every node in the graph
// Must be called after all nodes are added and before Start
// Compound nodes without an explicit Initial default to their lowest-ID child
func (m *Machine[T]) CompilePaths() error {
	for _, node := range m.nodes {
		node.Children = node.Children[:0]
	}

	for _, id := range m.order {
		node := m.nodes[id]
		path := make([]StateID, 0, 4)
		curr := node

		// Walk up to root
		for depth := 0; ; depth++ {
			if depth > len(m.nodes) {
				return fmt.Errorf("%w: cycle through state %q", ErrInvalidState, node.Name())
			}
			path = append(path, curr.ID)
			if curr.ParentID == StateNone {
				break
			}
			parent, ok := m.nodes[curr.ParentID]
			if !ok {
				return fmt.Errorf("%w: node %q references missing parent %d", ErrUnknownState, curr.Name(), curr.ParentID)
			}
			curr = parent
		}

		// Reverse to get [Root, ..., Leaf]
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		node.Path = path

		if parent, ok := m.nodes[node.ParentID]; ok {
			parent.Children = append(parent.Children, id)
		}
	}

	for _, node := range m.nodes {
		if node.IsAtomic() {
			if node.Initial != StateNone {
				return fmt.Errorf("%w: atomic state %q has an initial child", ErrInvalidState, node.Name())
			}
			continue
		}
		if node.Kind == KindParallel {
			if node.History {
				return fmt.Errorf("%w: parallel state %q cannot keep history", ErrInvalidState, node.Name())
			}
			continue
		}
		if node.Initial == StateNone {
			node.Initial = node.Children[0]
			continue
		}
		if indexOf(node.Children, node.Initial) < 0 {
			return fmt.Errorf("%w: initial of %q is not its child", ErrInvalidState, node.Name())
		}
	}
	return nil
}

// reset drops the graph and deregisters its states
func (m *Machine[T]) reset() {
	for _, node := range m.nodes {
		m.registry.Deregister(&node.State)
	}
	m.nodes = make(map[StateID]*Node[T])
	m.nameToID = make(map[string]StateID)
	m.order = m.order[:0]
	m.started = false
	m.err = nil
}

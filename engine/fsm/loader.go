package fsm

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
)

// TickTrigger names eventless transitions in config
const TickTrigger = "Tick"

// LoadConfig parses a TOML byte slice and populates the Machine
// Validates all references (states, guards, actions, events)
// Clears existing graph data before loading
func (m *Machine[T]) LoadConfig(data []byte) error {
	// 1. Decode TOML into intermediate config
	var config RootConfig
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		return fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}
	// Empty tables such as [states.Idle] decode to nil
	for name, cfg := range config.States {
		if cfg == nil {
			config.States[name] = &StateConfig{}
		}
	}
	if _, ok := config.States[RootName]; !ok {
		config.States[RootName] = &StateConfig{}
	}

	// 2. Clear existing graph; a failed build leaves nothing registered
	m.reset()
	if err := m.build(config); err != nil {
		m.reset()
		return err
	}
	return nil
}

// build creates nodes and compiles transitions from a decoded graph
func (m *Machine[T]) build(config RootConfig) error {
	// 3. Root node, then sorted names for deterministic ID generation
	nameToID := map[string]StateID{RootName: StateRoot}

	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != RootName {
			stateNames = append(stateNames, name)
		}
	}
	sort.Strings(stateNames)

	nextID := StateRoot + 1
	for _, name := range stateNames {
		nameToID[name] = nextID
		nextID++
	}

	// 4. Build nodes in ID order so registry conflicts report deterministically
	for _, name := range append([]string{RootName}, stateNames...) {
		cfg := config.States[name]
		id := nameToID[name]

		parentID := StateNone
		if id != StateRoot {
			pName := cfg.Parent
			if pName == "" {
				pName = RootName
			}
			var ok bool
			if parentID, ok = nameToID[pName]; !ok {
				return fmt.Errorf("%w: state '%s' references unknown parent '%s'", ErrUnknownState, name, pName)
			}
		} else if cfg.Parent != "" {
			return fmt.Errorf("%w: root cannot have a parent", ErrInvalidState)
		}

		node, err := m.AddState(id, name, parentID)
		if err != nil {
			return fmt.Errorf("state '%s': %w", name, err)
		}
		if cfg.Parallel {
			node.Kind = KindParallel
		}
		node.History = cfg.History
	}

	// 5. Second Pass: initials, actions and transitions
	for name, cfg := range config.States {
		node := m.nodes[nameToID[name]]

		if cfg.Initial != "" {
			initialID, ok := nameToID[cfg.Initial]
			if !ok {
				return fmt.Errorf("%w: state '%s' references unknown initial '%s'", ErrUnknownState, name, cfg.Initial)
			}
			node.Initial = initialID
		}

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' OnEnter: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' OnExit: %w", name, err)
		}
		if err := m.compileTransitions(node, cfg.Transitions, nameToID); err != nil {
			return fmt.Errorf("state '%s' transitions: %w", name, err)
		}
	}

	// 6. Finalize: Compile Paths for LCA
	return m.CompilePaths()
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action function '%s'", cfg.Action)
		}

		var args any
		if cfg.Event != "" || cfg.Args != nil {
			compiled := &ActionArgs{Params: cfg.Args}
			if cfg.Event != "" {
				id, ok := events.IDByName(cfg.Event)
				if !ok {
					return nil, fmt.Errorf("action '%s' references unknown event '%s'", cfg.Action, cfg.Event)
				}
				compiled.Event = id
			}
			args = compiled
		}

		actions = append(actions, Action[T]{
			Func: fn,
			Args: args,
		})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, nameToID map[string]StateID) error {
	for _, cfg := range configs {
		targetID := StateNone
		if cfg.Target != "" {
			var ok bool
			if targetID, ok = nameToID[cfg.Target]; !ok {
				return fmt.Errorf("%w: transition references unknown target '%s'", ErrUnknownState, cfg.Target)
			}
		}

		trigger := event.TypeTick
		if cfg.Trigger != TickTrigger {
			t, ok := event.TypeByName(cfg.Trigger)
			if !ok {
				return fmt.Errorf("unknown trigger '%s'", cfg.Trigger)
			}
			trigger = t
		}
		if trigger == event.TypeTick && targetID == StateNone {
			return fmt.Errorf("eventless transition from '%s' needs a target", node.Name())
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			// Check factory first
			if factory, ok := m.guardFactoryReg[cfg.Guard]; ok {
				g, err := factory(cfg.GuardArgs)
				if err != nil {
					return fmt.Errorf("guard '%s': %w", cfg.Guard, err)
				}
				guard = g
			} else if g, ok := m.guardReg[cfg.Guard]; ok {
				guard = g
			} else {
				return fmt.Errorf("unknown guard '%s'", cfg.Guard)
			}
		}

		actions, err := m.compileActions(cfg.Actions)
		if err != nil {
			return err
		}

		node.Transitions = append(node.Transitions, Transition[T]{
			Trigger:  trigger,
			Guard:    guard,
			TargetID: targetID,
			Actions:  actions,
		})
	}
	return nil
}

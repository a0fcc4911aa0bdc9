package input

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/worldinput/asset"
	"github.com/lixenwraith/worldinput/engine/fsm"
	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
	"github.com/lixenwraith/worldinput/status"
)

// updateSmoothing weights the newest sample of the update time average
const updateSmoothing = 0.1

// Scene is the host view the input logic filters events for
type Scene interface {
	// HasFocusedItem reports whether a UI widget currently holds scene focus
	HasFocusedItem() bool
	// ViewSize returns the view extent in pointer coordinates
	ViewSize() (w, h int)
}

// Config configures a Logic
type Config struct {
	// ConfigDir holds bindings.ini; empty uses the shipped defaults in memory
	ConfigDir string
	// GraphPath overrides the embedded machine graph
	GraphPath string
	// WatchBindings reloads bindings.ini when it changes
	WatchBindings bool
	Logger        *slog.Logger
}

type dynamicBinding struct {
	perspective Perspective
	name        string
	seq         KeySequence
	pair        EventPair
}

// logicStats caches status pointers written by the update loop
type logicStats struct {
	events      *atomic.Int64
	dispatched  *atomic.Int64
	dropped     *atomic.Int64
	queueDrop   *atomic.Int64
	replays     *atomic.Int64
	reloads     *atomic.Int64
	keyStates   *atomic.Int64
	focused     *atomic.Bool
	perspective *status.Label
	updateMs    *status.Gauge
}

// Logic is the world input orchestrator
// Filters host events into the input machine, tracks scene focus, and owns the binding tables
//
// Threading: Filter, Update and all accessors run on the main loop; Post is safe from any goroutine
type Logic struct {
	logger   *slog.Logger
	sink     events.Sink
	category events.CategoryID
	scene    Scene

	registry *fsm.Registry
	machine  *fsm.Machine[*Logic]
	queue    *event.Queue

	config   *ConfigManager
	watcher  *Watcher
	bindings *Bindings
	keys     *KeyListener

	// Dynamic bindings requested through RegisterBinding
	pending []dynamicBinding
	dynamic []dynamicBinding

	// Hot reload handoff from the watcher goroutine
	reloadMu sync.Mutex
	reloaded *Bindings

	// Focus and click replay
	hasFocus     bool
	lastPress    event.Input
	hasPress     bool
	lastX, lastY int

	pointer pointerState
	gesture gestureState

	statsReg *status.Registry
	stats    logicStats
	closed   bool
}

// NewLogic builds the input machine and starts it
// Binding file errors are logged and leave every table empty; graph errors are returned
func NewLogic(cfg Config, sink events.Sink, scene Scene) (*Logic, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Logic{
		logger:   logger,
		sink:     sink,
		category: sink.QueryEventCategory(events.InputCategory),
		scene:    scene,
		registry: fsm.NewRegistry(),
		queue:    event.NewQueue(),
		statsReg: status.NewRegistry(),
	}
	l.initStats()

	l.bindings = l.loadBindings(cfg)
	l.keys = NewKeyListener(l.registry, func() *Table { return l.bindings.Active() }, l.send, logger)

	l.machine = fsm.NewMachine[*Logic](l.registry, logger)
	l.registerActions()
	if err := fsm.LoadConfigAuto(l.machine, cfg.GraphPath, asset.InputMachineConfig); err != nil {
		return nil, fmt.Errorf("input machine: %w", err)
	}
	if err := l.machine.Start(l); err != nil {
		return nil, fmt.Errorf("input machine: %w", err)
	}

	l.hasFocus = scene == nil || !scene.HasFocusedItem()
	if l.hasFocus {
		l.queue.Push(event.Signal(event.TypeFocusIn))
	}

	if cfg.WatchBindings && l.config != nil {
		w, err := NewWatcher(l.config, l.queueReload, logger)
		if err != nil {
			logger.Warn("binding watcher disabled", "error", err)
		} else {
			l.watcher = w
		}
	}

	l.refreshStats(time.Now())
	return l, nil
}

func (l *Logic) loadBindings(cfg Config) *Bindings {
	var (
		b   *Bindings
		err error
	)
	if cfg.ConfigDir == "" {
		b, err = ParseBindings([]byte(asset.DefaultBindingsINI), l.logger)
	} else {
		l.config = NewConfigManager(cfg.ConfigDir, l.logger)
		b, err = l.config.ParseConfig()
	}
	if err != nil {
		l.logger.Error("no usable bindings, keys disabled", "error", err)
		return NewBindings()
	}
	return b
}

func (l *Logic) registerActions() {
	m := l.machine

	// Keyboard
	m.RegisterAction("KeyListener", func(l *Logic, ev event.Input, _ any) { l.keys.Handle(ev) })
	m.RegisterAction("ReleaseKeys", func(l *Logic, _ event.Input, _ any) { l.keys.ReleaseAll() })

	// Perspective
	m.RegisterAction("UseBindings", actionUseBindings)
	m.RegisterAction("RememberPerspective", actionRememberPerspective)

	// Mouse
	m.RegisterAction("EmitMove", actionEmitMove)
	m.RegisterAction("EmitScroll", actionEmitScroll)
	m.RegisterAction("EmitButton", actionEmitButton)
	m.RegisterAction("WorldClick", actionWorldClick)
	m.RegisterAction("GestureBegin", actionGestureBegin)
	m.RegisterAction("GestureMove", actionGestureMove)
	m.RegisterAction("GestureComplete", actionGestureComplete)

	m.RegisterGuardFactory("ButtonIs", guardButtonIs)
	m.RegisterGuard("GestureButton", guardGestureButton)
	m.RegisterGuard("GestureReleased", guardGestureReleased)
}

// actionUseBindings swaps the live table on perspective entry
func actionUseBindings(l *Logic, _ event.Input, args any) {
	p, ok := PerspectiveByName(paramString(args, "perspective"))
	if !ok {
		l.logger.Warn("unknown perspective", "perspective", paramString(args, "perspective"))
		return
	}
	l.bindings.SetActive(p)
}

// actionRememberPerspective applies a perspective switch received while unfocused
func actionRememberPerspective(l *Logic, ev event.Input, args any) {
	actionUseBindings(l, ev, args)
	if err := l.machine.SetHistory(StatePerspective, l.bindings.Perspective().String()); err != nil {
		l.logger.Warn("perspective not remembered", "error", err)
	}
}

// send dispatches an input-category event through the sink
func (l *Logic) send(id events.ID, data any) bool {
	if id == events.IDNone {
		return false
	}
	l.stats.dispatched.Add(1)
	return l.sink.SendEvent(l.category, id, data)
}

// Filter offers a host event to the world
// Records the pointer for click replay, then queues a copy while the world has focus
// Returns true if the event was taken by the world
func (l *Logic) Filter(ev event.Input) bool {
	switch ev.Type {
	case event.TypeMousePress:
		// Only a click the widget swallowed is replayed on refocus
		if !l.hasFocus {
			l.lastPress, l.hasPress = ev, true
		}
		l.lastX, l.lastY = ev.X, ev.Y
	case event.TypeMouseRelease, event.TypeMouseMove, event.TypeWheel:
		l.lastX, l.lastY = ev.X, ev.Y
	}

	if !l.hasFocus || l.closed {
		return false
	}
	clone, ok := event.Clone(ev)
	if !ok {
		l.stats.dropped.Add(1)
		return false
	}
	l.queue.Push(clone)
	return true
}

// Post queues an event for the machine regardless of focus
// Used for focus, close and perspective events; safe from any goroutine
func (l *Logic) Post(ev event.Input) {
	l.queue.Push(ev)
}

// Update runs one input tick on the main loop
func (l *Logic) Update() {
	if l.closed {
		return
	}
	start := time.Now()

	l.applyReload()
	l.drainPending()
	l.checkFocus()

	for _, ev := range l.queue.Consume() {
		l.dispatch(ev)
	}
	l.machine.Update(l)

	l.refreshStats(start)
}

// dispatch feeds one event to the machine and records the pointer position
func (l *Logic) dispatch(ev event.Input) {
	l.stats.events.Add(1)
	l.machine.HandleEvent(l, ev)
	if ev.Type.IsPointer() {
		l.pointer = pointerState{x: ev.X, y: ev.Y, seen: true}
	}
}

// checkFocus posts focus edges derived from the scene
// Regaining focus replays the last click, which the widget swallowed, as a world click
func (l *Logic) checkFocus() {
	if l.scene == nil {
		return
	}
	focused := !l.scene.HasFocusedItem()
	if focused == l.hasFocus {
		return
	}
	l.hasFocus = focused

	if !focused {
		l.hasPress = false
		l.queue.Push(event.Signal(event.TypeFocusOut))
		return
	}

	l.queue.Push(event.Signal(event.TypeFocusIn))
	if l.hasPress {
		b := l.lastPress.Button
		l.queue.Push(event.MousePress(b, 0, l.lastX, l.lastY))
		l.queue.Push(event.MouseRelease(b, b.Mask(), l.lastX, l.lastY))
		l.stats.replays.Add(1)
		l.logger.Debug("click replayed", "button", b.String(), "x", l.lastX, "y", l.lastY)
		l.hasPress = false
	}
}

// RegisterBinding binds seq in the table of perspective p
// Applied on the next Update and kept across binding reloads
func (l *Logic) RegisterBinding(p Perspective, name string, seq KeySequence, pair EventPair) {
	l.pending = append(l.pending, dynamicBinding{perspective: p, name: name, seq: seq, pair: pair})
}

func (l *Logic) drainPending() {
	for _, d := range l.pending {
		l.bindings.TableFor(d.perspective).Bind(d.seq, d.name, d.pair)
		l.dynamic = append(l.dynamic, d)
	}
	l.pending = l.pending[:0]
}

// queueReload hands a reloaded table set to the main loop
func (l *Logic) queueReload(b *Bindings) {
	l.reloadMu.Lock()
	l.reloaded = b
	l.reloadMu.Unlock()
}

func (l *Logic) applyReload() {
	l.reloadMu.Lock()
	b := l.reloaded
	l.reloaded = nil
	l.reloadMu.Unlock()
	if b != nil {
		l.applyBindings(b)
	}
}

// applyBindings replaces the tables, keeping the live perspective and dynamic bindings
// Key states stay allocated; unbound idle ones are pruned
func (l *Logic) applyBindings(b *Bindings) {
	b.SetActive(l.bindings.Perspective())
	for _, d := range l.dynamic {
		b.TableFor(d.perspective).Bind(d.seq, d.name, d.pair)
	}
	l.bindings = b
	pruned := l.keys.Prune(b.IsBound)
	l.stats.reloads.Add(1)
	l.logger.Info("bindings applied", "bindings", b.Len(), "pruned_key_states", pruned)
}

// ReloadBindings re-reads the binding file now
func (l *Logic) ReloadBindings() error {
	if l.config == nil {
		return fmt.Errorf("%w: no config dir", ErrNoBindings)
	}
	b, err := l.config.ParseConfig()
	if err != nil {
		return err
	}
	l.applyBindings(b)
	return nil
}

// SetPerspective requests a perspective switch
// Takes effect on the next Update; safe from any goroutine
func (l *Logic) SetPerspective(p Perspective) {
	l.Post(event.Signal(p.Trigger()))
}

// GetState returns a named state of the input hierarchy, including "Key:<sequence>" states
func (l *Logic) GetState(name string) *fsm.State {
	return l.registry.Get(name)
}

// IsActive reports whether the named state is active
func (l *Logic) IsActive(name string) bool {
	s := l.registry.Get(name)
	return s != nil && s.Active()
}

// ActiveStates returns the active machine states in ID order
func (l *Logic) ActiveStates() []string {
	return l.machine.ActiveStates()
}

// ActiveKeys returns held key sequences in press order
func (l *Logic) ActiveKeys() []KeySequence {
	return l.keys.ActiveKeys()
}

// Bindings returns the binding tables
func (l *Logic) Bindings() *Bindings {
	return l.bindings
}

// ActiveTable returns the live binding table
func (l *Logic) ActiveTable() *Table {
	return l.bindings.Active()
}

// Perspective returns the perspective whose table is live
func (l *Logic) Perspective() Perspective {
	return l.bindings.Perspective()
}

// HasFocus reports whether the world currently receives input
func (l *Logic) HasFocus() bool {
	return l.hasFocus
}

// KeyStates returns the number of allocated key states
func (l *Logic) KeyStates() int {
	return l.keys.Len()
}

// ConfigManager returns the binding file manager, nil without a config dir
func (l *Logic) ConfigManager() *ConfigManager {
	return l.config
}

// Stats returns the input statistics registry
func (l *Logic) Stats() *status.Registry {
	return l.statsReg
}

// Close stops the machine, releasing held keys and buttons, and deregisters every state
func (l *Logic) Close() {
	if l.closed {
		return
	}
	l.closed = true
	if l.watcher != nil {
		if err := l.watcher.Close(); err != nil {
			l.logger.Warn("binding watcher close", "error", err)
		}
	}
	l.machine.Close(l)
	l.keys.Close()
}

func (l *Logic) initStats() {
	r := l.statsReg
	l.stats = logicStats{
		events:      r.Counters.Get("input.events"),
		dispatched:  r.Counters.Get("input.dispatched"),
		dropped:     r.Counters.Get("input.dropped"),
		queueDrop:   r.Counters.Get("input.queue_dropped"),
		replays:     r.Counters.Get("input.replays"),
		reloads:     r.Counters.Get("input.reloads"),
		keyStates:   r.Counters.Get("input.key_states"),
		focused:     r.Flags.Get("input.focused"),
		perspective: r.Labels.Get("input.perspective"),
		updateMs:    r.Gauges.Get("input.update_ms"),
	}
}

func (l *Logic) refreshStats(start time.Time) {
	l.stats.queueDrop.Store(int64(l.queue.Dropped()))
	l.stats.keyStates.Store(int64(l.keys.Len()))
	l.stats.focused.Store(l.hasFocus)
	l.stats.perspective.Store(l.bindings.Perspective().String())
	l.stats.updateMs.Smooth(float64(time.Since(start).Microseconds())/1000, updateSmoothing)
}

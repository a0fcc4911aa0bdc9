package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
	"github.com/lixenwraith/worldinput/input"
	"github.com/lixenwraith/worldinput/terminal"
)

const (
	monitorTick   = 16 * time.Millisecond
	monitorLogMax = 200
	headerRows    = 3
)

// monitorScene is the terminal standing in for the host view
// A simulated widget can hold focus, and losing terminal focus counts as a widget holding it
type monitorScene struct {
	widget       bool
	terminalLost bool
	w, h         int
}

func (s *monitorScene) HasFocusedItem() bool { return s.widget || s.terminalLost }
func (s *monitorScene) ViewSize() (int, int) { return s.w, s.h }

// perspectiveCycle is the camera switch order
var perspectiveCycle = map[input.Perspective]input.Perspective{
	input.PerspectiveThirdPerson: input.PerspectiveFirstPerson,
	input.PerspectiveFirstPerson: input.PerspectiveFreeCamera,
	input.PerspectiveFreeCamera:  input.PerspectiveThirdPerson,
}

type monitor struct {
	screen tcell.Screen
	scene  *monitorScene
	logic  *input.Logic
	tr     *terminal.Translator
	log    []string
}

func newMonitorCmd(opts *options) *cobra.Command {
	var (
		watch        bool
		releaseDelay time.Duration
	)
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the input machine in the terminal and show dispatched events",
		Long: `Run the input machine in the terminal and show dispatched events.

  Ctrl+C  quit
  F10     toggle a simulated UI widget holding focus; a click on the world
          area takes focus back and is replayed as a world click`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.resolveConfigDir()
			if err != nil {
				return err
			}
			return runMonitor(input.Config{
				ConfigDir:     dir,
				GraphPath:     opts.graphPath,
				WatchBindings: watch,
				Logger:        slog.Default(),
			}, releaseDelay)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", true, "Reload bindings.ini when it changes")
	cmd.Flags().DurationVar(&releaseDelay, "release-delay", terminal.DefaultReleaseDelay, "Idle time after which a held key counts as released")
	return cmd
}

func runMonitor(cfg input.Config, releaseDelay time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	return runMonitorOn(screen, cfg, releaseDelay)
}

// runMonitorOn drives an initialized screen until a close request arrives
func runMonitorOn(screen tcell.Screen, cfg input.Config, releaseDelay time.Duration) error {
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()

	m := &monitor{screen: screen, scene: &monitorScene{}, tr: terminal.NewTranslator()}
	m.tr.ReleaseDelay = releaseDelay
	m.scene.w, m.scene.h = screen.Size()

	sink := events.NewManager()
	sink.Subscribe(events.InputCategory, m.onEvent)

	logic, err := input.NewLogic(cfg, sink, m.scene)
	if err != nil {
		return err
	}
	m.logic = logic
	defer m.logic.Close()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(monitorTick)
	defer ticker.Stop()

	for {
		select {
		case ev := <-eventChan:
			if !m.handle(ev) {
				return nil
			}

		case now := <-ticker.C:
			for _, ev := range m.tr.Flush(now) {
				m.logic.Filter(ev)
			}
			m.logic.Update()
			m.draw()
		}
	}
}

// handle routes one terminal event; returns false to quit
func (m *monitor) handle(ev tcell.Event) bool {
	if k, ok := ev.(*tcell.EventKey); ok {
		switch {
		case k.Key() == tcell.KeyCtrlC ||
			(k.Key() == tcell.KeyRune && k.Rune() == 'c' && k.Modifiers()&tcell.ModCtrl != 0):
			m.screen.PostEvent(terminal.CloseInterrupt())
			return true
		case k.Key() == tcell.KeyF10:
			m.scene.widget = !m.scene.widget
			m.addLog(fmt.Sprintf("widget focus %v", m.scene.widget))
			return true
		}
	}
	if r, ok := ev.(*tcell.EventResize); ok {
		m.scene.w, m.scene.h = r.Size()
		m.screen.Sync()
	}

	for _, in := range m.tr.Translate(ev) {
		switch in.Type {
		case event.TypeClose:
			m.logic.Post(in)
			m.logic.Update()
			slog.Info("monitor closed", "states", strings.Join(m.logic.ActiveStates(), ","))
			return false
		case event.TypeFocusIn, event.TypeFocusOut:
			m.scene.terminalLost = in.Type == event.TypeFocusOut
			continue
		}

		m.logic.Filter(in)
		// A click on the world area takes focus from the widget
		if in.Type == event.TypeMousePress && m.scene.widget && in.Y >= headerRows {
			m.scene.widget = false
		}
	}
	return true
}

func (m *monitor) onEvent(id events.ID, data any) bool {
	switch id {
	case events.SwitchCameraPressed:
		m.logic.SetPerspective(perspectiveCycle[m.logic.Perspective()])
	case events.MouseMove:
		// Too frequent to log
		return false
	}
	m.addLog(formatEvent(id, data))
	return false
}

func (m *monitor) addLog(s string) {
	if len(m.log) >= monitorLogMax {
		m.log = m.log[1:]
	}
	m.log = append(m.log, s)
}

func formatEvent(id events.ID, data any) string {
	switch d := data.(type) {
	case *events.Key:
		return fmt.Sprintf("%-22s %s %s", id, d.Sequence, d.Binding)
	case *events.Button:
		return fmt.Sprintf("%-22s %s at %d,%d", id, d.Button, d.X, d.Y)
	case *events.Movement:
		return fmt.Sprintf("%-22s rel %+d,%+d abs %d,%d", id, d.X.Rel, d.Y.Rel, d.X.Abs, d.Y.Abs)
	case *events.Scroll:
		return fmt.Sprintf("%-22s %+d", id, d.Delta)
	}
	return id.String()
}

func (m *monitor) draw() {
	s := m.screen
	s.Clear()
	w, h := s.Size()

	title := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	green := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	yellow := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	drawText(s, 0, 0, w, "worldinput monitor  Ctrl+C quit  F10 widget focus", title)

	focus, style := "world", green
	if !m.logic.HasFocus() {
		focus, style = "widget", yellow
	}
	keys := make([]string, 0, 4)
	for _, k := range m.logic.ActiveKeys() {
		keys = append(keys, k.String())
	}
	drawText(s, 0, 1, w, fmt.Sprintf("focus=%s perspective=%s keys=[%s]",
		focus, m.logic.Perspective(), strings.Join(keys, " ")), style)
	drawText(s, 0, 2, w, strings.Repeat("─", w), dim)

	// Stats column on the right, event log on the left
	stats := m.logic.Stats().Lines()
	statsW := 0
	for _, line := range stats {
		statsW = max(statsW, len(line)+2)
	}
	for i, line := range stats {
		drawText(s, w-statsW, headerRows+i, statsW, line, dim)
	}

	rows := h - headerRows
	start := max(0, len(m.log)-rows)
	for i, line := range m.log[start:] {
		drawText(s, 0, headerRows+i, w-statsW-1, line, tcell.StyleDefault)
	}

	s.Show()
}

func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= maxW {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
}

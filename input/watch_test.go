package input

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/worldinput/event"
	"github.com/lixenwraith/worldinput/events"
)

func TestWatcherReloadsOnSave(t *testing.T) {
	cfg := NewConfigManager(t.TempDir(), quietLogger)
	_, err := cfg.ParseConfig()
	require.NoError(t, err)

	var (
		mu  sync.Mutex
		got []*Bindings
	)
	w, err := NewWatcher(cfg, func(b *Bindings) {
		mu.Lock()
		got = append(got, b)
		mu.Unlock()
	}, quietLogger)
	require.NoError(t, err)
	defer w.Close()

	custom := NewBindings()
	custom.Table(GroupAvatar).Bind(key("I"), "avatar.move.forward", EventPair{})
	require.NoError(t, cfg.WriteCustom(custom))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	last := got[len(got)-1]
	mu.Unlock()
	assert.Equal(t, events.MoveForwardPressed, last.Table(GroupAvatar).Lookup(key("I")).Enter)
	assert.False(t, last.IsBound(key("W")))
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfigManager(dir, quietLogger)
	_, err := cfg.ParseConfig()
	require.NoError(t, err)

	calls := make(chan struct{}, 4)
	w, err := NewWatcher(cfg, func(*Bindings) { calls <- struct{}{} }, quietLogger)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(dir+"/other.ini", []byte("x = 1"), 0o644))
	select {
	case <-calls:
		t.Fatal("reload for unrelated file")
	case <-time.After(3 * DefaultReloadDebounce):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	cfg := NewConfigManager(t.TempDir(), quietLogger)
	_, err := cfg.ParseConfig()
	require.NoError(t, err)

	w, err := NewWatcher(cfg, func(*Bindings) {}, quietLogger)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestLogicAppliesWatchedReload(t *testing.T) {
	dir := t.TempDir()
	l, sink := newTestLogic(t, Config{ConfigDir: dir, WatchBindings: true}, nil)
	require.NotNil(t, l.watcher)

	custom := NewBindings()
	custom.Table(GroupAvatar).Bind(key("I"), "avatar.move.forward", EventPair{})
	require.NoError(t, l.ConfigManager().WriteCustom(custom))

	require.Eventually(t, func() bool {
		l.Update()
		return l.Bindings().IsBound(key("I"))
	}, 2*time.Second, 10*time.Millisecond)

	l.Filter(event.KeyPress('I', event.ModNone))
	l.Update()
	assert.Equal(t, []events.ID{events.MoveForwardPressed}, sink.ids())
	assert.GreaterOrEqual(t, l.Stats().Counters.Get("input.reloads").Load(), int64(1))
}

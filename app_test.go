package main

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"TorchTimer/config"
	"TorchTimer/control"
	"TorchTimer/i18n"
	"TorchTimer/timer"
)

type testTorch struct {
	mu       sync.Mutex
	on       bool
	calls    int
	failWith error
}

func (d *testTorch) Available() bool { return true }

func (d *testTorch) SetTorch(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.failWith != nil {
		return d.failWith
	}
	d.on = on
	return nil
}

func (d *testTorch) isOn() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.on
}

type mapReader map[string]string

func (m mapReader) ReadFile(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(data), nil
}

func quietSettings() config.Settings {
	s := config.DefaultSettings()
	s.Alert.Enabled = false
	return s
}

func newTestManager(t *testing.T) (*AppManager, *timer.ManualScheduler, *testTorch) {
	t.Helper()
	device := &testTorch{}
	sched := timer.NewManualScheduler()
	a := NewAppManager(mapReader{}, quietSettings(), device, sched)
	a.Start()
	t.Cleanup(a.Shutdown)
	return a, sched, device
}

// do sends a command and waits for the loop to reply.
func do(t *testing.T, a *AppManager, cmd control.CommandType) {
	t.Helper()
	reply := make(chan error, 1)
	a.EnqueueCommand(control.Command{Type: cmd, Reply: reply})
	select {
	case <-reply:
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %v", cmd)
	}
}

// onLoop runs fn on the command loop and waits for it.
func onLoop(t *testing.T, a *AppManager, fn func()) {
	t.Helper()
	done := make(chan struct{})
	if !a.post(func() {
		fn()
		close(done)
	}) {
		t.Fatal("command loop stopped")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for command loop")
	}
}

func snapshot(t *testing.T, a *AppManager) timer.Snapshot {
	t.Helper()
	var s timer.Snapshot
	onLoop(t, a, func() { s = a.controller.Snapshot() })
	return s
}

func TestAppManager_ToggleAndTicks(t *testing.T) {
	a, sched, device := newTestManager(t)

	do(t, a, control.CmdToggle)
	onLoop(t, a, func() { sched.Advance(5 * time.Second) })

	s := snapshot(t, a)
	if !s.Running {
		t.Fatal("timer not running after toggle")
	}
	if s.Remaining != 595*time.Second {
		t.Errorf("Remaining=%v, want 595s", s.Remaining)
	}
	if !device.isOn() {
		t.Error("torch should be on")
	}

	do(t, a, control.CmdToggle)
	if snapshot(t, a).Running {
		t.Error("timer still running after second toggle")
	}
}

func TestAppManager_AllCommands(t *testing.T) {
	a, _, device := newTestManager(t)

	do(t, a, control.CmdIncrease)
	do(t, a, control.CmdIncrease)
	do(t, a, control.CmdDecrease)
	if got := snapshot(t, a).Remaining; got != 11*time.Minute {
		t.Errorf("Remaining=%v, want 11m", got)
	}

	do(t, a, control.CmdStart)
	do(t, a, control.CmdPause)
	if s := snapshot(t, a); s.Running || !s.ResetVisible {
		t.Errorf("after pause running=%v resetVisible=%v", s.Running, s.ResetVisible)
	}

	do(t, a, control.CmdTorchOff)
	if device.isOn() {
		t.Error("torch should be off")
	}
	do(t, a, control.CmdTorchOn)
	if !device.isOn() {
		t.Error("torch should be on")
	}

	do(t, a, control.CmdReset)
	if got := snapshot(t, a).Remaining; got != timer.DefaultDuration {
		t.Errorf("Remaining=%v, want default", got)
	}
}

func TestAppManager_ToggleIgnoredWhenStartDisabled(t *testing.T) {
	a, sched, device := newTestManager(t)

	do(t, a, control.CmdStart)
	onLoop(t, a, func() { sched.Advance(timer.DefaultDuration) })
	if s := snapshot(t, a); s.State != timer.StateStopped || device.isOn() {
		t.Fatalf("state=%v torch=%v after expiry", s.State, device.isOn())
	}

	do(t, a, control.CmdToggle)

	if s := snapshot(t, a); s.Running {
		t.Error("toggle should not start a stopped timer")
	}
}

func TestAppManager_HandleKeyRune(t *testing.T) {
	a, _, _ := newTestManager(t)

	a.HandleKeyRune('+')
	a.HandleKeyRune('x')
	a.HandleKeyRune(' ')

	// the reply of a later command implies the key commands were handled
	do(t, a, control.CmdPause)
	s := snapshot(t, a)
	if s.Remaining != 11*time.Minute {
		t.Errorf("Remaining=%v, want 11m", s.Remaining)
	}
	if s.Running {
		t.Error("pause after space should leave the timer paused")
	}
	if !s.ResetVisible {
		t.Error("space should have started the timer before the pause")
	}
}

func TestAppManager_ShutdownTurnsTorchOff(t *testing.T) {
	device := &testTorch{}
	a := NewAppManager(mapReader{}, quietSettings(), device, timer.NewManualScheduler())
	a.Start()

	do(t, a, control.CmdStart)
	a.Shutdown()

	if device.isOn() {
		t.Error("torch should be off after Shutdown")
	}
	for i := 0; i < 100; i++ {
		if a.post(func() {}) {
			t.Fatal("post should fail after Shutdown")
		}
	}
}

func TestAppManager_ShutdownTwice(t *testing.T) {
	a, _, _ := newTestManager(t)

	a.Shutdown()
	start := time.Now()
	a.Shutdown()

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("second Shutdown took %v", elapsed)
	}
}

func TestAppManager_TorchErrorsDrained(t *testing.T) {
	busy := errors.New("device busy")
	device := &testTorch{failWith: busy}
	a := NewAppManager(mapReader{}, quietSettings(), device, timer.NewManualScheduler())
	a.Start()
	t.Cleanup(a.Shutdown)

	do(t, a, control.CmdTorchOn)

	deadline := time.After(time.Second)
	for {
		var got error
		onLoop(t, a, func() { got = a.lastTorchErr })
		if errors.Is(got, busy) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("lastTorchErr=%v, want %v", got, busy)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestAppManager_StartPauseKeys(t *testing.T) {
	a, _, _ := newTestManager(t)

	a.HandleKeyRune('s')
	do(t, a, control.CmdIncrease)
	if s := snapshot(t, a); !s.Running {
		t.Error("s should start the timer")
	}

	a.HandleKeyRune('p')
	do(t, a, control.CmdIncrease)
	if s := snapshot(t, a); s.Running {
		t.Error("p should pause the timer")
	}
}

func TestAppManager_RealScheduler(t *testing.T) {
	device := &testTorch{}
	a := NewAppManager(mapReader{}, quietSettings(), device, nil)
	a.Start()
	t.Cleanup(a.Shutdown)

	ticks := make(chan time.Duration, 4)
	onLoop(t, a, func() {
		a.controller.Subscribe(func(e timer.Event) {
			if e.Type == timer.EventTick {
				select {
				case ticks <- e.Snapshot.Remaining:
				default:
				}
			}
		})
	})

	do(t, a, control.CmdStart)

	select {
	case got := <-ticks:
		if got != timer.DefaultDuration-timer.TickInterval {
			t.Errorf("first tick remaining=%v, want %v", got, timer.DefaultDuration-timer.TickInterval)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no tick from the ticker scheduler")
	}

	do(t, a, control.CmdPause)
	if s := snapshot(t, a); s.Running {
		t.Error("timer still running after pause")
	}
}

func TestChime(t *testing.T) {
	s, err := chime(config.AlertSettings{Enabled: true, FrequencyHz: 880})
	if err != nil {
		t.Fatalf("chime() err=%v", err)
	}
	if s == nil {
		t.Fatal("chime() returned nil streamer")
	}

	if _, err := chime(config.AlertSettings{FrequencyHz: float64(sampleRate)}); err == nil {
		t.Error("chime() above Nyquist err=nil, want non-nil")
	}
}

func TestAboutText(t *testing.T) {
	t.Cleanup(func() { i18n.SetLang("en") })
	a := NewAppManager(mapReader{
		"assets/dialogue_about.json": `{"en": "hello", "pt": "olá"}`,
	}, quietSettings(), &testTorch{}, timer.NewManualScheduler())

	i18n.SetLang("pt")
	if got, err := a.aboutText(); err != nil || got != "olá" {
		t.Errorf("aboutText()=%q, %v", got, err)
	}

	i18n.SetLang("ru")
	if got, err := a.aboutText(); err != nil || got != "hello" {
		t.Errorf("aboutText() fallback=%q, %v", got, err)
	}
}

func TestAboutText_Errors(t *testing.T) {
	a := NewAppManager(mapReader{}, quietSettings(), &testTorch{}, timer.NewManualScheduler())
	if _, err := a.aboutText(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err=%v, want ErrNotExist", err)
	}

	a = NewAppManager(mapReader{"assets/dialogue_about.json": "{"}, quietSettings(), &testTorch{}, timer.NewManualScheduler())
	if _, err := a.aboutText(); err == nil || !strings.Contains(err.Error(), "JSON") {
		t.Errorf("err=%v, want JSON error", err)
	}
}

func TestEmbeddedAssets(t *testing.T) {
	defaults := config.LoadDefaults(content)
	if defaults != config.DefaultSettings() {
		t.Errorf("embedded defaults=%+v, want %+v", defaults, config.DefaultSettings())
	}

	a := NewAppManager(content, quietSettings(), &testTorch{}, timer.NewManualScheduler())
	for _, lang := range []string{"en", "pt", "es", "ru"} {
		i18n.SetLang(lang)
		text, err := a.aboutText()
		if err != nil || text == "" {
			t.Errorf("about text for %s: %q, %v", lang, text, err)
		}
	}
	i18n.SetLang("en")
}

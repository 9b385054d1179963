// Package main contains the application wiring and the AppManager which
// coordinates the timer controller, the torch, the alert chime and the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: a single command-loop goroutine (see `commandLoop`)
//     runs every controller operation. UI commands arrive on `cmdCh`;
//     countdown callbacks from the TickerScheduler arrive on `callbackCh`.
//     The controller has no mutex, so never call it from anywhere else.
//   - `cmdCh` drops commands when it stays full for a short while to avoid
//     blocking the UI. `callbackCh` never drops; the scheduler goroutine waits.
//   - The view is set once from CreateMainWindow, before Start launches the
//     loop, and is only read from the loop afterwards.
package main

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"TorchTimer/config"
	"TorchTimer/control"
	"TorchTimer/i18n"
	"TorchTimer/timer"
	"TorchTimer/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// AppManager is the main application struct, holding all state.
type AppManager struct {
	mainWindow fyne.Window
	view       *ui.View
	controller *timer.Controller
	settings   config.Settings

	cmdCh      chan control.Command
	callbackCh chan func()
	cmdCtx       context.Context
	cmdCancel    context.CancelFunc
	startOnce    sync.Once
	shutdownOnce sync.Once

	lastTorchErr error

	audioReady  bool
	speakerLock sync.Mutex
	content     config.AppContentReader // Embedded file system for assets
}

// NewAppManager creates a new application manager. A nil scheduler selects
// the real-time TickerScheduler feeding the command loop.
func NewAppManager(content config.AppContentReader, settings config.Settings, device timer.Torch, scheduler timer.Scheduler) *AppManager {
	a := &AppManager{settings: settings, content: content}

	// Use a larger buffer for the command channel to reduce drops under brief bursts.
	a.cmdCh = make(chan control.Command, 256)
	a.callbackCh = make(chan func(), 256)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())

	if scheduler == nil {
		scheduler = timer.NewTickerScheduler(a.post)
	}
	a.controller = timer.New(device, scheduler)
	a.controller.Subscribe(a.onEvent)

	if settings.Alert.Enabled {
		a.initAudio()
	}
	return a
}

// Start launches the command loop.
func (a *AppManager) Start() {
	a.startOnce.Do(func() {
		go a.commandLoop()
	})
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	// Try to enqueue the command but avoid blocking UI indefinitely. If the
	// channel stays full for the configured short timeout, drop and log.
	select {
	case a.cmdCh <- cmd:
	case <-time.After(150 * time.Millisecond):
		log.Printf("EnqueueCommand timeout: dropping %v command", cmd.Type)
	}
}

// post runs fn on the command loop. It returns false once the loop is gone.
func (a *AppManager) post(fn func()) bool {
	if a.cmdCtx.Err() != nil {
		return false
	}
	select {
	case a.callbackCh <- fn:
		return true
	case <-a.cmdCtx.Done():
		return false
	}
}

func (a *AppManager) commandLoop() {
	torchErrs := a.controller.Errors()
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case err := <-torchErrs:
			a.onTorchError(err)
		case fn := <-a.callbackCh:
			fn()
		case cmd := <-a.cmdCh:
			a.handle(cmd)
			// send reply if requested
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- nil:
				default:
				}
			}
		}
	}
}

func (a *AppManager) handle(cmd control.Command) {
	c := a.controller
	switch cmd.Type {
	case control.CmdToggle:
		// the start control is not clickable once the timer ran out
		if s := c.Snapshot(); s.Running || s.StartEnabled {
			c.Toggle()
		}
	case control.CmdStart:
		c.Start()
	case control.CmdPause:
		c.Pause()
	case control.CmdReset:
		c.Reset()
	case control.CmdIncrease:
		c.IncreaseByOneMinute()
	case control.CmdDecrease:
		c.DecreaseByOneMinute()
	case control.CmdTorchOn:
		c.ManualTorchOn()
	case control.CmdTorchOff:
		c.ManualTorchOff()
	default:
		log.Printf("Unknown command %v", cmd.Type)
	}
}

// onTorchError reports a failed torch switch in the status line.
func (a *AppManager) onTorchError(err error) {
	a.lastTorchErr = err
	if a.view != nil {
		a.view.ShowStatus(i18n.T("Torch error") + ": " + err.Error())
	}
}

func (a *AppManager) onEvent(e timer.Event) {
	if a.view != nil {
		a.view.UpdateDisplay(e.Snapshot)
	}
	if e.Type == timer.EventExpired {
		a.PlaySound()
	}
}

// InitialSnapshot returns the controller state before the loop starts.
func (a *AppManager) InitialSnapshot() timer.Snapshot {
	return a.controller.Snapshot()
}

// SetView sets the view updated on every controller event.
func (a *AppManager) SetView(v *ui.View) {
	a.view = v
}

func (a *AppManager) initAudio() {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v\n", err)
		return
	}
	a.audioReady = true
}

// chime builds three short beeps at the configured pitch and volume.
func chime(alert config.AlertSettings) (beep.Streamer, error) {
	tone := func() (beep.Streamer, error) {
		sine, err := generators.SineTone(sampleRate, alert.FrequencyHz)
		if err != nil {
			return nil, err
		}
		return beep.Take(sampleRate.N(200*time.Millisecond), sine), nil
	}

	var parts []beep.Streamer
	for i := 0; i < 3; i++ {
		t, err := tone()
		if err != nil {
			return nil, err
		}
		parts = append(parts, t, beep.Silence(sampleRate.N(100*time.Millisecond)))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   alert.Volume,
	}, nil
}

// PlaySound plays the expiry chime.
func (a *AppManager) PlaySound() {
	if !a.audioReady {
		return
	}
	s, err := chime(a.settings.Alert)
	if err != nil {
		log.Printf("Failed to build chime: %v", err)
		return
	}

	a.speakerLock.Lock()
	defer a.speakerLock.Unlock()

	speaker.Play(s)
}

// HandleKeyRune handles key presses for the application.
func (a *AppManager) HandleKeyRune(r rune) {
	var cmd control.CommandType

	switch r {
	case ' ':
		cmd = control.CmdToggle
	case 's', 'S':
		cmd = control.CmdStart
	case 'p', 'P':
		cmd = control.CmdPause
	case 'r', 'R':
		cmd = control.CmdReset
	case '+', '=':
		cmd = control.CmdIncrease
	case '-', '_':
		cmd = control.CmdDecrease
	case 'o', 'O':
		cmd = control.CmdTorchOn
	case 'f', 'F':
		cmd = control.CmdTorchOff
	default:
		return
	}
	a.EnqueueCommand(control.Command{Type: cmd})
}

// aboutText returns the about dialog text for the current language.
func (a *AppManager) aboutText() (string, error) {
	bytes, err := a.content.ReadFile("assets/dialogue_about.json")
	if err != nil {
		return "", err
	}

	var dialogues map[string]string
	if err := json.Unmarshal(bytes, &dialogues); err != nil {
		return "", err
	}
	if text, ok := dialogues[i18n.GetLang()]; ok {
		return text, nil
	}
	return dialogues["en"], nil
}

// ShowInfoDialog shows a dialog with the given title and content.
func (a *AppManager) ShowInfoDialog(title, contentFile string, minSize fyne.Size) {
	var contentText string
	if title == i18n.T("About TorchTimer") {
		text, err := a.aboutText()
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		contentText = text
	} else {
		bytes, err := a.content.ReadFile(contentFile)
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		contentText = string(bytes)
	}

	text := widget.NewLabel(contentText)
	text.Wrapping = fyne.TextWrapWord

	scrollableContent := container.NewVScroll(text)
	scrollableContent.SetMinSize(minSize)

	dialog.ShowCustom(title, i18n.T("Close"), scrollableContent, a.mainWindow)
}

// Shutdown switches the torch off, cancels the countdown and stops the
// command loop. Later calls do nothing.
func (a *AppManager) Shutdown() {
	a.shutdownOnce.Do(func() {
		done := make(chan struct{})
		if a.post(func() {
			a.controller.Shutdown()
			close(done)
		}) {
			select {
			case <-done:
			case <-time.After(time.Second):
				log.Println("Shutdown timeout: command loop not responding")
			}
		}
		a.cmdCancel()
	})
}

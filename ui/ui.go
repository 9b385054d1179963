package ui

import (
	"image/color"
	"time"

	"TorchTimer/control"
	"TorchTimer/i18n"
	"TorchTimer/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is what the window needs from the application.
type App interface {
	EnqueueCommand(cmd control.Command)
	HandleKeyRune(rune)
	ShowInfoDialog(title, contentFile string, minSize fyne.Size)
	InitialSnapshot() timer.Snapshot
	SetView(*View)
}

// View renders controller snapshots. It never reads the controller itself.
type View struct {
	formatter *timer.Formatter

	timeText       *canvas.Text
	startButton    *widget.Button
	resetButton    *widget.Button
	increaseButton *widget.Button
	decreaseButton *widget.Button
	torchOnButton  *widget.Button
	torchOffButton *widget.Button
	statusText     *widget.Label
	content        fyne.CanvasObject
}

// send enqueues a command and waits briefly for the loop to handle it.
func send(a App, t control.CommandType) {
	reply := make(chan error, 1)
	a.EnqueueCommand(control.Command{Type: t, Reply: reply})
	select {
	case <-reply:
	case <-time.After(200 * time.Millisecond):
	}
}

// NewView builds the widgets. Call Render before showing it.
func NewView(a App, formatter *timer.Formatter) *View {
	v := &View{formatter: formatter}

	v.timeText = canvas.NewText("--:--", theme.Color(theme.ColorNameForeground))
	v.timeText.TextStyle.Monospace = true
	v.timeText.TextSize = FontSizeTime
	v.timeText.Alignment = fyne.TextAlignCenter

	v.startButton = widget.NewButton(i18n.T("start"), func() { send(a, control.CmdToggle) })
	v.startButton.Importance = widget.HighImportance
	v.resetButton = widget.NewButton(i18n.T("reset"), func() { send(a, control.CmdReset) })
	v.resetButton.Hide()

	v.decreaseButton = widget.NewButton(i18n.T("-1 min"), func() { send(a, control.CmdDecrease) })
	v.increaseButton = widget.NewButton(i18n.T("+1 min"), func() { send(a, control.CmdIncrease) })

	v.torchOnButton = widget.NewButton(i18n.T("Torch on"), func() { send(a, control.CmdTorchOn) })
	v.torchOffButton = widget.NewButton(i18n.T("Torch off"), func() { send(a, control.CmdTorchOff) })

	v.statusText = widget.NewLabel("")
	v.statusText.Alignment = fyne.TextAlignCenter
	v.statusText.Wrapping = fyne.TextWrapWord
	v.statusText.Hide()

	buttonsSpacer := canvas.NewRectangle(color.Transparent)
	buttonsSpacer.SetMinSize(fyne.NewSize(ControlButtonsGap, 0))

	controlButtons := container.NewHBox(
		layout.NewSpacer(),
		v.startButton,
		buttonsSpacer,
		v.resetButton,
		layout.NewSpacer(),
	)
	adjustButtons := container.NewGridWithColumns(2, v.decreaseButton, v.increaseButton)
	torchButtons := container.NewGridWithColumns(2, v.torchOnButton, v.torchOffButton)

	aboutIcon := widget.NewIcon(theme.QuestionIcon())
	helpButton := NewTappableContainer(aboutIcon, func() {
		a.ShowInfoDialog(i18n.T("About TorchTimer"), "", fyne.NewSize(300, 200))
	}, nil)
	header := container.NewHBox(layout.NewSpacer(), helpButton)

	v.content = container.NewVBox(
		header,
		layout.NewSpacer(),
		container.New(layout.NewCenterLayout(), v.timeText),
		adjustButtons,
		controlButtons,
		layout.NewSpacer(),
		v.statusText,
		torchButtons,
	)
	return v
}

// CanvasObject returns the root of the view.
func (v *View) CanvasObject() fyne.CanvasObject {
	return v.content
}

// Render applies s to the widgets. It must run on the Fyne goroutine.
func (v *View) Render(s timer.Snapshot) {
	v.timeText.Text = v.formatter.Format(s.Remaining)
	if s.TorchOn {
		v.timeText.Color = theme.Color(theme.ColorNamePrimary)
	} else {
		v.timeText.Color = theme.Color(theme.ColorNameForeground)
	}
	v.timeText.Refresh()

	if s.Running {
		v.startButton.SetText(i18n.T("pause"))
	} else {
		v.startButton.SetText(i18n.T("start"))
	}
	if s.StartEnabled {
		v.startButton.Enable()
	} else {
		v.startButton.Disable()
	}

	if s.ResetVisible {
		v.resetButton.Show()
	} else {
		v.resetButton.Hide()
	}

	if !s.TorchAvailable {
		v.torchOnButton.SetText(i18n.T("No flash"))
		v.torchOnButton.Disable()
		v.torchOffButton.Disable()
	}
}

// ShowStatus shows text above the torch buttons from any goroutine. An empty
// text hides the line.
func (v *View) ShowStatus(text string) {
	fyne.Do(func() {
		v.setStatus(text)
	})
}

func (v *View) setStatus(text string) {
	v.statusText.SetText(text)
	if text == "" {
		v.statusText.Hide()
	} else {
		v.statusText.Show()
	}
}

// UpdateDisplay renders s from any goroutine.
func (v *View) UpdateDisplay(s timer.Snapshot) {
	fyne.Do(func() {
		v.Render(s)
	})
}

// CreateMainWindow builds the single screen of the application.
func CreateMainWindow(a App, fyneApp fyne.App, formatter *timer.Formatter) fyne.Window {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "TorchTimer"
	}
	w := fyneApp.NewWindow(title)

	view := NewView(a, formatter)
	view.Render(a.InitialSnapshot())
	a.SetView(view)

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)
	w.SetContent(view.CanvasObject())
	w.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	return w
}

type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewHBox(t.Content, layout.NewSpacer()))
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

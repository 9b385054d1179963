package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// UI constants
const (
	FontSizeTime float32 = 72.0 // Countdown display

	// Dimensions
	WindowWidth       = 360
	WindowHeight      = 480
	ControlButtonsGap = 5
)

var (
	// TorchColor tints the countdown while the torch is lit.
	TorchColor = color.NRGBA{R: 0xff, G: 0xc1, B: 0x07, A: 0xff}
)

// CustomTheme is the default theme with the torch amber as primary color.
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme() fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme()}
}

// Color returns the amber primary and defers everything else.
func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNamePrimary {
		return TorchColor
	}
	return t.Theme.Color(name, variant)
}

// Size enlarges text so the controls are usable on a phone.
func (t *CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		return t.Theme.Size(name) + 2
	}
	return t.Theme.Size(name)
}

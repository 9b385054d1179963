package main

import (
	"embed"
	"log"

	"TorchTimer/config"
	"TorchTimer/i18n"
	"TorchTimer/timer"
	"TorchTimer/torch"
	"TorchTimer/ui"

	"fyne.io/fyne/v2/app"
)

//go:embed assets/*
var content embed.FS

const appName = "TorchTimer"

func main() {
	fyneApp := app.NewWithID("com.example.torchtimer")
	fyneApp.Settings().SetTheme(ui.NewCustomTheme())

	settings := loadSettings()
	if settings.Language != "" {
		i18n.SetLang(settings.Language)
	}

	device, err := torch.Open(settings.TorchConfig())
	if err != nil {
		log.Printf("Torch disabled: %v", err)
		device = torch.Unavailable{}
	}
	defer func() {
		if err := device.Close(); err != nil {
			log.Printf("Failed to close torch: %v", err)
		}
	}()

	a := NewAppManager(content, settings, device, nil)

	w := ui.CreateMainWindow(a, fyneApp, timer.NewFormatter(i18n.Tag()))
	a.mainWindow = w
	w.SetOnClosed(a.Shutdown)

	a.Start()
	w.ShowAndRun()
}

// loadSettings reads the user settings, writing a first copy when missing.
func loadSettings() config.Settings {
	defaults := config.LoadDefaults(content)

	path, err := config.DefaultPath(appName)
	if err != nil {
		log.Printf("Using default settings. %v", err)
		return defaults.ApplyEnv()
	}

	settings, found, err := config.Load(path, defaults)
	if err != nil {
		log.Printf("Using default settings. %v", err)
	} else if !found {
		if err := config.Save(path, settings); err != nil {
			log.Printf("Failed to save settings: %v", err)
		} else {
			log.Printf("Wrote default settings to %s", path)
		}
	}
	return settings.ApplyEnv()
}

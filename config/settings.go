// Package config reads and writes the user settings file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"TorchTimer/torch"

	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"

	envLang  = "TORCHTIMER_LANG"
	envTorch = "TORCHTIMER_TORCH"
)

// AppContentReader defines the interface for reading content from the embedded file system.
type AppContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Settings holds everything the user can configure.
type Settings struct {
	Language string        `yaml:"language"`
	Torch    TorchSettings `yaml:"torch"`
	Alert    AlertSettings `yaml:"alert"`
}

// TorchSettings selects the flash device.
type TorchSettings struct {
	Backend string `yaml:"backend"`
	LED     string `yaml:"led"`
	GPIOPin string `yaml:"gpio_pin"`
	RPIOPin int    `yaml:"rpio_pin"`
}

// AlertSettings configures the chime played on expiry.
type AlertSettings struct {
	Enabled     bool    `yaml:"enabled"`
	FrequencyHz float64 `yaml:"frequency_hz"`
	Volume      float64 `yaml:"volume"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Torch: TorchSettings{Backend: torch.BackendAuto},
		Alert: AlertSettings{
			Enabled:     true,
			FrequencyHz: 880,
			Volume:      0,
		},
	}
}

// LoadDefaults reads assets/settings.yaml on top of the built-in defaults.
func LoadDefaults(reader AppContentReader) Settings {
	settings := DefaultSettings()
	data, err := reader.ReadFile("assets/settings.yaml")
	if err != nil {
		log.Printf("Failed to read default settings: %v", err)
		return settings
	}
	if err := decode(data, &settings); err != nil {
		log.Printf("Failed to parse default settings: %v", err)
		return DefaultSettings()
	}
	return settings
}

// DefaultPath returns the settings file location for appName.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// Load reads the settings at path over base. A missing file is not an
// error; found is false so the caller can write a first copy.
func Load(path string, base Settings) (settings Settings, found bool, err error) {
	settings = base
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, false, nil
		}
		return settings, false, fmt.Errorf("read settings file: %w", err)
	}
	if err := decode(data, &settings); err != nil {
		return base, true, fmt.Errorf("parse settings yaml: %w", err)
	}
	return settings, true, nil
}

// Save writes settings to path, creating the directory if needed.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from TORCHTIMER_* environment variables.
func (s Settings) ApplyEnv() Settings {
	if lang := strings.TrimSpace(os.Getenv(envLang)); lang != "" {
		s.Language = lang
	}
	if backend := strings.TrimSpace(os.Getenv(envTorch)); backend != "" {
		s.Torch.Backend = backend
	}
	return s
}

// TorchConfig converts settings to a torch.Config.
func (s Settings) TorchConfig() torch.Config {
	return torch.Config{
		Backend: s.Torch.Backend,
		LED:     s.Torch.LED,
		GPIOPin: s.Torch.GPIOPin,
		RPIOPin: s.Torch.RPIOPin,
	}
}

func decode(data []byte, settings *Settings) error {
	if err := yaml.Unmarshal(data, settings); err != nil {
		return err
	}
	sanitize(settings)
	return nil
}

// sanitize replaces out of range values with defaults.
func sanitize(s *Settings) {
	def := DefaultSettings()
	if strings.TrimSpace(s.Torch.Backend) == "" {
		s.Torch.Backend = def.Torch.Backend
	}
	if s.Alert.FrequencyHz < 20 || s.Alert.FrequencyHz > 20000 {
		s.Alert.FrequencyHz = def.Alert.FrequencyHz
	}
	if s.Alert.Volume < -5 || s.Alert.Volume > 2 {
		s.Alert.Volume = def.Alert.Volume
	}
	if s.Torch.RPIOPin < 0 {
		s.Torch.RPIOPin = 0
	}
}

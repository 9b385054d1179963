// Package torch implements the flash devices the timer can drive: Linux LED
// class devices and GPIO pins through periph, Raspberry Pi pins through
// go-rpio, and a stand-in for hosts without any light.
package torch

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	// ErrAccess matches every AccessError.
	ErrAccess = errors.New("torch access failed")

	// ErrUnavailable is returned by devices that have no light to drive.
	ErrUnavailable = errors.New("torch unavailable")
)

// AccessError reports a mode change the device rejected.
type AccessError struct {
	Device string
	On     bool
	Err    error
}

func (e *AccessError) Error() string {
	mode := "off"
	if e.On {
		mode = "on"
	}
	return fmt.Sprintf("torch %s: switch %s: %v", e.Device, mode, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrAccess) true for any AccessError.
func (e *AccessError) Is(target error) bool { return target == ErrAccess }

// Device is a light that can be switched on and off.
type Device interface {
	Available() bool
	SetTorch(on bool) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendAuto  = "auto"
	BackendSysfs = "sysfs"
	BackendGPIO  = "gpio"
	BackendRPIO  = "rpio"
	BackendNone  = "none"
)

// Config selects and parameterises a backend.
type Config struct {
	Backend string
	LED     string // sysfs LED name, empty to probe
	GPIOPin string // periph pin name, e.g. "GPIO17"
	RPIOPin int    // BCM pin number
}

// Open returns the device described by cfg. The auto backend never fails: it
// falls back to an unavailable device when no flash LED is found.
func Open(cfg Config) (Device, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch backend {
	case "", BackendAuto:
		d, err := openSysfs(cfg.LED)
		if err != nil {
			log.Printf("No flash LED found, torch disabled. %v", err)
			return Unavailable{}, nil
		}
		return d, nil
	case BackendSysfs:
		return openSysfs(cfg.LED)
	case BackendGPIO:
		return openGPIO(cfg.GPIOPin)
	case BackendRPIO:
		return openRPIO(cfg.RPIOPin)
	case BackendNone:
		return Unavailable{}, nil
	}
	return nil, fmt.Errorf("unknown torch backend %q", cfg.Backend)
}

// Unavailable is the device used when the host has no torch.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) SetTorch(on bool) error {
	return &AccessError{Device: "none", On: on, Err: ErrUnavailable}
}

func (Unavailable) Close() error { return nil }

package torch

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
	"periph.io/x/periph/host/sysfs"
)

var (
	hostOnce sync.Once
	hostErr  error
)

func initHost() error {
	hostOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			hostErr = fmt.Errorf("init periph host: %w", err)
		}
	})
	return hostErr
}

// flashHints are substrings of LED class names used for camera flashes.
var flashHints = []string{"flash", "torch"}

// pinOut is the part of gpio.PinOut both periph backends use.
type pinOut interface {
	Out(l gpio.Level) error
}

// pinDevice drives a light wired to a periph output.
type pinDevice struct {
	name string
	pin  pinOut
}

func (d *pinDevice) Available() bool { return true }

func (d *pinDevice) SetTorch(on bool) error {
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := d.pin.Out(level); err != nil {
		return &AccessError{Device: d.name, On: on, Err: err}
	}
	return nil
}

func (d *pinDevice) Close() error {
	if err := d.pin.Out(gpio.Low); err != nil {
		return &AccessError{Device: d.name, On: false, Err: err}
	}
	return nil
}

// openSysfs opens an LED class device. With an empty name the first LED whose
// name looks like a camera flash is used.
func openSysfs(name string) (Device, error) {
	if err := initHost(); err != nil {
		return nil, err
	}
	if name == "" {
		led := findFlashLED(sysfs.LEDs)
		if led == nil {
			return nil, errors.New("no flash LED in /sys/class/leds")
		}
		return &pinDevice{name: led.Name(), pin: led}, nil
	}
	led, err := sysfs.LEDByName(name)
	if err != nil {
		return nil, fmt.Errorf("open LED %q: %w", name, err)
	}
	return &pinDevice{name: led.Name(), pin: led}, nil
}

func findFlashLED(leds []*sysfs.LED) *sysfs.LED {
	for _, led := range leds {
		if isFlashName(led.Name()) {
			return led
		}
	}
	return nil
}

func isFlashName(name string) bool {
	name = strings.ToLower(name)
	for _, hint := range flashHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

// openGPIO opens a periph registered pin and drives it low.
func openGPIO(name string) (Device, error) {
	if name == "" {
		return nil, errors.New("gpio backend needs a pin name")
	}
	if err := initHost(); err != nil {
		return nil, err
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio pin %q not found", name)
	}
	d := &pinDevice{name: p.Name(), pin: p}
	if err := d.SetTorch(false); err != nil {
		return nil, err
	}
	return d, nil
}

package torch

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// rpioDevice drives a BCM pin through /dev/gpiomem.
type rpioDevice struct {
	mu  sync.Mutex
	pin rpio.Pin
}

func openRPIO(bcm int) (Device, error) {
	if bcm <= 0 {
		return nil, fmt.Errorf("rpio backend needs a BCM pin, got %d", bcm)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio memory: %w", err)
	}
	pin := rpio.Pin(bcm)
	pin.Output()
	pin.Low()
	return &rpioDevice{pin: pin}, nil
}

func (d *rpioDevice) Available() bool { return true }

func (d *rpioDevice) SetTorch(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if on {
		d.pin.High()
	} else {
		d.pin.Low()
	}
	return nil
}

func (d *rpioDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pin.Low()
	return rpio.Close()
}

//go:build !linux

package torch

import "errors"

func openRPIO(int) (Device, error) {
	return nil, errors.New("rpio backend is only supported on linux")
}

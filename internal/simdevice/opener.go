package simdevice

import (
	"fmt"
	"sync"

	"scancam/internal/camera"
)

// Opener hands out one simulated camera at a time. A second Open before the
// first device is released fails with camera.ErrDeviceUnavailable.
type Opener struct {
	mu      sync.Mutex
	opts    Options
	current *Device
	opened  int
}

func NewOpener(opts Options) *Opener { return &Opener{opts: opts} }

func (o *Opener) Open() (camera.Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		return nil, fmt.Errorf("simulated camera busy: %w", camera.ErrDeviceUnavailable)
	}
	d := NewDevice(o.opts)
	d.onClose = func() {
		o.mu.Lock()
		if o.current == d {
			o.current = nil
		}
		o.mu.Unlock()
	}
	o.current = d
	o.opened++
	return d, nil
}

// Current returns the device currently handed out, if any.
func (o *Opener) Current() *Device {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Opened counts successful opens.
func (o *Opener) Opened() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened
}

package v4l2dev

import (
	"fmt"

	"scancam/internal/camera"
)

// Opener opens a fixed device path. Any failure is reported as
// camera.ErrDeviceUnavailable.
type Opener struct {
	Path    string
	Options Options
}

func (o Opener) Open() (camera.Device, error) {
	d, err := Open(o.Path, o.Options)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", camera.ErrDeviceUnavailable, err)
	}
	return d, nil
}

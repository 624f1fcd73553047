package ambient

import (
	"fmt"
	"strings"
)

// FrontLightMode is the user preference for the torch.
type FrontLightMode string

const (
	// ModeOn turns the torch on whenever camera parameters are applied.
	ModeOn FrontLightMode = "on"
	// ModeAuto lets the Controller drive the torch from light readings.
	ModeAuto FrontLightMode = "auto"
	// ModeOff leaves the torch to explicit callers.
	ModeOff FrontLightMode = "off"
)

// ParseFrontLightMode accepts on/auto/off, case-insensitively. The empty
// string maps to ModeOff.
func ParseFrontLightMode(s string) (FrontLightMode, error) {
	switch FrontLightMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeOff:
		return ModeOff, nil
	case ModeOn:
		return ModeOn, nil
	case ModeAuto:
		return ModeAuto, nil
	}
	return ModeOff, fmt.Errorf("unknown front light mode %q", s)
}

// TorchOnStart reports whether the torch should be lit as soon as the
// camera is configured.
func (m FrontLightMode) TorchOnStart() bool { return m == ModeOn }

package camera

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"scancam/internal/geometry"
)

const (
	minPreviewPixels    = 480 * 320
	maxAspectDistortion = 0.15
)

// Flash and focus mode values understood by ConfigurationManager.
const (
	FlashModeOff   = "off"
	FlashModeTorch = "torch"
	FocusModeAuto  = "auto"
	FocusModeMacro = "macro"
)

// Display reports the size of the screen the preview is shown on.
type Display interface {
	ScreenSize() (geometry.Size, bool)
}

// FixedDisplay is a Display with a constant size.
type FixedDisplay geometry.Size

func (d FixedDisplay) ScreenSize() (geometry.Size, bool) {
	s := geometry.Size(d)
	return s, !s.IsZero()
}

// ConfigurationManager is the default ConfigProvider. It picks a preview size
// matching the screen aspect ratio, sets focus and torch modes and reads the
// torch state back from the device parameters. Safe for concurrent use.
type ConfigurationManager struct {
	mu           sync.RWMutex
	display      Display
	initialTorch bool
	screen       geometry.Size
	resolution   geometry.Size
	log          zerolog.Logger
}

// NewConfigurationManager builds a provider for display. initialTorch is
// applied whenever desired parameters are set (front light mode "on").
func NewConfigurationManager(display Display, initialTorch bool, log *zerolog.Logger) *ConfigurationManager {
	c := &ConfigurationManager{display: display, initialTorch: initialTorch, log: zerolog.Nop()}
	if log != nil {
		c.log = log.With().Str("component", "camera_config").Logger()
	}
	return c
}

// ScreenSize returns the screen size recorded at init time.
func (c *ConfigurationManager) ScreenSize() (geometry.Size, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.screen, !c.screen.IsZero()
}

// CameraResolution returns the chosen preview size.
func (c *ConfigurationManager) CameraResolution() (geometry.Size, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolution, !c.resolution.IsZero()
}

// InitFromCameraParameters reads the display and device once and picks the
// preview size.
func (c *ConfigurationManager) InitFromCameraParameters(d Device) error {
	params, err := d.Parameters()
	if err != nil {
		return fmt.Errorf("read camera parameters: %w", err)
	}
	screen, ok := c.display.ScreenSize()
	if !ok {
		return errors.New("screen size unknown")
	}
	best := findBestPreviewSize(params, screen)
	c.mu.Lock()
	c.screen = screen
	c.resolution = best
	c.mu.Unlock()
	c.log.Info().Str("screen", screen.String()).Str("camera", best.String()).Msg("camera resolution selected")
	return nil
}

// SetDesiredCameraParameters applies preview size, torch and, outside safe
// mode, focus mode.
func (c *ConfigurationManager) SetDesiredCameraParameters(d Device, safeMode bool) error {
	params, err := d.Parameters()
	if err != nil {
		return fmt.Errorf("read camera parameters: %w", err)
	}
	if params == nil {
		return errors.New("device returned no parameters")
	}
	if safeMode {
		c.log.Warn().Msg("in camera config safe mode, most settings will not be honored")
	}
	setFlash(params, c.initialTorch)
	if !safeMode {
		if mode := pickValue(params.Values(KeyFocusModeValues), FocusModeAuto, FocusModeMacro); mode != "" {
			params.Set(KeyFocusMode, mode)
		}
	}
	if res, ok := c.CameraResolution(); ok {
		params.Set(KeyPreviewSize, formatSize(res))
	}
	if err := d.SetParameters(params); err != nil {
		return err
	}
	// The driver may have adjusted the preview size.
	if after, err := d.Parameters(); err == nil {
		if actual, ok := parseSize(after.Get(KeyPreviewSize)); ok {
			c.mu.Lock()
			if !actual.Equals(c.resolution) {
				c.log.Warn().Str("wanted", c.resolution.String()).Str("actual", actual.String()).Msg("camera said it supported preview size, but after setting it, preview size differs")
				c.resolution = actual
			}
			c.mu.Unlock()
		}
	}
	return nil
}

// TorchState reads flash-mode from the device.
func (c *ConfigurationManager) TorchState(d Device) bool {
	if d == nil {
		return false
	}
	params, err := d.Parameters()
	if err != nil || params == nil {
		return false
	}
	mode := params.Get(KeyFlashMode)
	return mode == FlashModeTorch || mode == "on"
}

// SetTorch writes flash-mode. Failures are logged; the torch simply stays as
// it was.
func (c *ConfigurationManager) SetTorch(d Device, on bool) {
	params, err := d.Parameters()
	if err != nil || params == nil {
		c.log.Warn().Err(err).Msg("torch: cannot read parameters")
		return
	}
	if !setFlash(params, on) {
		c.log.Debug().Msg("torch: flash mode not supported")
		return
	}
	if err := d.SetParameters(params); err != nil {
		c.log.Warn().Err(err).Bool("on", on).Msg("torch: camera rejected flash mode")
	}
}

func setFlash(p Parameters, on bool) bool {
	want := FlashModeOff
	if on {
		want = FlashModeTorch
	}
	supported := p.Values(KeyFlashModeValues)
	if len(supported) > 0 && !p.Supports(KeyFlashModeValues, want) {
		if !on || !p.Supports(KeyFlashModeValues, "on") {
			return false
		}
		want = "on"
	}
	p.Set(KeyFlashMode, want)
	return true
}

func pickValue(supported []string, wanted ...string) string {
	for _, w := range wanted {
		for _, s := range supported {
			if s == w {
				return w
			}
		}
	}
	return ""
}

func parseSize(v string) (geometry.Size, bool) {
	w, h, ok := strings.Cut(strings.TrimSpace(v), "x")
	if !ok {
		return geometry.Size{}, false
	}
	wi, err1 := strconv.Atoi(w)
	hi, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || wi <= 0 || hi <= 0 {
		return geometry.Size{}, false
	}
	return geometry.NewSize(wi, hi), true
}

func formatSize(s geometry.Size) string { return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height) }

// findBestPreviewSize prefers an exact match for the screen, then the largest
// size whose aspect ratio is close to the screen's, then the current size.
// Sensor sizes are landscape, so the screen is compared in landscape too.
func findBestPreviewSize(params Parameters, screen geometry.Size) geometry.Size {
	current, haveCurrent := parseSize(params.Get(KeyPreviewSize))
	var sizes []geometry.Size
	for _, v := range params.Values(KeyPreviewSizeValues) {
		if s, ok := parseSize(v); ok {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 0 {
		if haveCurrent {
			return current
		}
		return screen
	}
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Width*sizes[i].Height > sizes[j].Width*sizes[j].Height
	})
	if !screen.Landscape() {
		screen.Exchange()
	}
	screenAspect := float64(screen.Width) / float64(screen.Height)
	var candidates []geometry.Size
	for _, s := range sizes {
		if s.Width*s.Height < minPreviewPixels {
			continue
		}
		flipped := s
		if !flipped.Landscape() {
			flipped.Exchange()
		}
		aspect := float64(flipped.Width) / float64(flipped.Height)
		if math.Abs(aspect-screenAspect) > maxAspectDistortion {
			continue
		}
		if flipped.Equals(screen) {
			return s
		}
		candidates = append(candidates, s)
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	if haveCurrent {
		return current
	}
	return sizes[0]
}

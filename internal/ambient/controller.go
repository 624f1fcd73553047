package ambient

import (
	"sync"

	"github.com/rs/zerolog"
)

// Default hysteresis thresholds in lux.
const (
	DefaultTooDarkLux      = 45.0
	DefaultBrightEnoughLux = 450.0
)

// Torch is the actuator the controller drives. *camera.Manager satisfies it.
type Torch interface {
	SetTorch(on bool)
}

// LightSensor delivers lux readings to one subscriber at a time.
type LightSensor interface {
	Subscribe(fn func(lux float64)) error
	Unsubscribe()
}

// SensorSource returns the default light sensor, or false if the platform
// has none.
type SensorSource func() (LightSensor, bool)

// State of a Controller.
type State string

const (
	StateInactive   State = "inactive"
	StateSubscribed State = "subscribed"
)

// Config holds the controller policy. Zero thresholds take the defaults.
type Config struct {
	Mode            FrontLightMode
	TooDarkLux      float64
	BrightEnoughLux float64
	Sensors         SensorSource
	Logger          *zerolog.Logger
}

// Controller switches the torch on when it is too dark and off again once it
// is bright enough. Readings between the two thresholds change nothing.
type Controller struct {
	mu      sync.Mutex
	mode    FrontLightMode
	tooDark float64
	bright  float64
	sensors SensorSource
	torch   Torch
	sensor  LightSensor
	state   State
	log     zerolog.Logger
}

// New builds an inactive controller.
func New(cfg Config) *Controller {
	c := &Controller{
		mode:    cfg.Mode,
		tooDark: cfg.TooDarkLux,
		bright:  cfg.BrightEnoughLux,
		sensors: cfg.Sensors,
		state:   StateInactive,
		log:     zerolog.Nop(),
	}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("component", "ambient").Logger()
	}
	if c.tooDark <= 0 {
		c.tooDark = DefaultTooDarkLux
	}
	if c.bright <= 0 {
		c.bright = DefaultBrightEnoughLux
	}
	if c.tooDark >= c.bright {
		c.log.Warn().Float64("too_dark", c.tooDark).Float64("bright_enough", c.bright).Msg("thresholds overlap, using defaults")
		c.tooDark, c.bright = DefaultTooDarkLux, DefaultBrightEnoughLux
	}
	return c
}

// Start subscribes to the light sensor when the mode is auto and a sensor
// exists. Otherwise the controller stays inactive. Calling Start while
// subscribed is a no-op.
func (c *Controller) Start(torch Torch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubscribed {
		return nil
	}
	if c.mode != ModeAuto {
		c.log.Debug().Str("mode", string(c.mode)).Msg("front light not automatic")
		return nil
	}
	if c.sensors == nil {
		c.log.Debug().Msg("no light sensor")
		return nil
	}
	sensor, ok := c.sensors()
	if !ok || sensor == nil {
		c.log.Debug().Msg("no light sensor")
		return nil
	}
	c.torch = torch
	if err := sensor.Subscribe(c.OnReading); err != nil {
		c.torch = nil
		return err
	}
	c.sensor = sensor
	c.state = StateSubscribed
	c.log.Info().Float64("too_dark", c.tooDark).Float64("bright_enough", c.bright).Msg("ambient light control started")
	return nil
}

// OnReading applies one lux sample.
func (c *Controller) OnReading(lux float64) {
	c.mu.Lock()
	torch := c.torch
	tooDark, bright := c.tooDark, c.bright
	c.mu.Unlock()
	if torch == nil {
		return
	}
	switch {
	case lux <= tooDark:
		c.log.Debug().Float64("lux", lux).Msg("too dark, torch on")
		torch.SetTorch(true)
	case lux >= bright:
		c.log.Debug().Float64("lux", lux).Msg("bright enough, torch off")
		torch.SetTorch(false)
	}
}

// Stop unsubscribes and forgets the torch. Safe to call repeatedly.
func (c *Controller) Stop() {
	c.mu.Lock()
	sensor := c.sensor
	c.sensor = nil
	c.torch = nil
	c.state = StateInactive
	c.mu.Unlock()
	if sensor != nil {
		sensor.Unsubscribe()
		c.log.Info().Msg("ambient light control stopped")
	}
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Thresholds returns the effective too-dark and bright-enough values.
func (c *Controller) Thresholds() (tooDark, brightEnough float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tooDark, c.bright
}

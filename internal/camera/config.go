package camera

import (
	"time"

	"github.com/rs/zerolog"

	"scancam/internal/geometry"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultFramingFraction   = geometry.DefaultFramingFraction
	defaultAutoFocusInterval = 2 * time.Second
)

// Config encapsulates all collaborators and tunables for Manager construction.
type Config struct {
	Opener   Opener
	Provider ConfigProvider
	// AutoFocus builds the focus driver when preview starts. Nil uses
	// DefaultAutoFocus with AutoFocusInterval.
	AutoFocus         AutoFocusFactory
	AutoFocusInterval time.Duration
	// FramingFraction is the share of the shorter screen side covered by
	// the square framing rect. Values outside (0,1] use 2/3.
	FramingFraction float64
	Publisher       EventPublisher
	Logger          *zerolog.Logger
}

// NewWithConfig constructs a Manager from Config.
func NewWithConfig(cfg Config) *Manager {
	m := &Manager{
		opener:    cfg.Opener,
		provider:  cfg.Provider,
		fraction:  cfg.FramingFraction,
		publisher: cfg.Publisher,
		paramMode: ParamModeNone,
	}
	if m.fraction <= 0 || m.fraction > 1 {
		m.fraction = defaultFramingFraction
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "camera").Logger()
	} else {
		m.log = zerolog.Nop()
	}
	interval := cfg.AutoFocusInterval
	if interval <= 0 {
		interval = defaultAutoFocusInterval
	}
	m.autoFocusFactory = cfg.AutoFocus
	if m.autoFocusFactory == nil {
		m.autoFocusFactory = DefaultAutoFocus(interval, m.log)
	}
	m.preview = newPreviewCallback(m.provider, m.log)
	m.lifecycle = newLifecycle(func(s State) {
		setStateGauge(s)
		m.log.Debug().Str("state", string(s)).Msg("camera state")
	})
	setStateGauge(StateClosed)
	return m
}

package camera

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// AutoFocusManager runs a focus cycle on a fixed interval while started.
type AutoFocusManager struct {
	mu       sync.Mutex
	dev      Focuser
	interval time.Duration
	sched    *cron.Cron
	log      zerolog.Logger
}

// NewAutoFocusManager builds a driver for dev. interval is rounded by the
// scheduler to whole seconds.
func NewAutoFocusManager(dev Focuser, interval time.Duration, log zerolog.Logger) *AutoFocusManager {
	if interval <= 0 {
		interval = defaultAutoFocusInterval
	}
	return &AutoFocusManager{dev: dev, interval: interval, log: log}
}

// DefaultAutoFocus returns a factory that drives devices implementing Focuser
// whose focus mode is auto or macro. Other devices get a no-op driver.
func DefaultAutoFocus(interval time.Duration, log zerolog.Logger) AutoFocusFactory {
	return func(d Device) AutoFocus {
		f, ok := d.(Focuser)
		if !ok {
			return noopAutoFocus{}
		}
		params, err := d.Parameters()
		if err != nil || params == nil {
			return noopAutoFocus{}
		}
		switch params.Get(KeyFocusMode) {
		case FocusModeAuto, FocusModeMacro:
			return NewAutoFocusManager(f, interval, log)
		}
		log.Debug().Str("focus_mode", params.Get(KeyFocusMode)).Msg("auto-focus not used for this focus mode")
		return noopAutoFocus{}
	}
}

// Start triggers one focus cycle immediately and then one per interval.
func (a *AutoFocusManager) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sched != nil {
		return
	}
	a.focus()
	a.sched = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	a.sched.Schedule(cron.Every(a.interval), cron.FuncJob(a.focus))
	a.sched.Start()
}

// Stop cancels the schedule and waits for a running cycle to finish.
func (a *AutoFocusManager) Stop() {
	a.mu.Lock()
	sched := a.sched
	a.sched = nil
	a.mu.Unlock()
	if sched == nil {
		return
	}
	<-sched.Stop().Done()
}

func (a *AutoFocusManager) focus() {
	if err := a.dev.AutoFocus(); err != nil {
		// Some drivers fail transiently; the next tick retries.
		a.log.Warn().Err(err).Msg("unexpected exception while focusing")
	}
}

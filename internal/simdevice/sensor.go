package simdevice

import (
	"errors"
	"sync"
	"time"

	"scancam/internal/ambient"
)

// LightSensor replays a fixed list of lux readings in a loop.
type LightSensor struct {
	mu       sync.Mutex
	readings []float64
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewLightSensor replays readings every interval (default 200ms).
func NewLightSensor(interval time.Duration, readings ...float64) *LightSensor {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &LightSensor{readings: readings, interval: interval}
}

func (s *LightSensor) Subscribe(fn func(lux float64)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return errors.New("light sensor already subscribed")
	}
	if len(s.readings) == 0 {
		return errors.New("light sensor has no readings")
	}
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.stop, fn)
	return nil
}

func (s *LightSensor) Unsubscribe() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		close(stop)
		s.wg.Wait()
	}
}

func (s *LightSensor) run(stop <-chan struct{}, fn func(float64)) {
	defer s.wg.Done()
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for i := 0; ; i++ {
		fn(s.readings[i%len(s.readings)])
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}

// Source adapts s to ambient.SensorSource. A nil sensor reports absence.
func Source(s *LightSensor) ambient.SensorSource {
	return func() (ambient.LightSensor, bool) {
		if s == nil {
			return nil, false
		}
		return s, true
	}
}

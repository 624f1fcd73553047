// Package capture drives the scan cycle: preview, one frame to the decode
// worker, and a new request after every failed decode.
package capture

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scancam/internal/camera"
	"scancam/internal/decode"
	"scancam/internal/luminance"
)

// Camera is the part of *camera.Manager the loop uses.
type Camera interface {
	StartPreview() error
	StopPreview()
	RequestPreviewFrame(h camera.FrameHandler, tag int)
	BuildLuminanceSource(data []byte, width, height int) (*luminance.PlanarYUV, error)
}

// State of a Loop.
type State string

const (
	StateIdle    State = "idle"
	StatePreview State = "preview"
	StateSuccess State = "success"
	StateDone    State = "done"
)

const quitTimeout = 500 * time.Millisecond

// Config configures a Loop. Decode.Sink and Decode.Source are filled in by
// New; Source defaults to Camera.
type Config struct {
	Camera   Camera
	Decode   decode.Config
	OnResult func(decode.Result)
	Logger   *zerolog.Logger
}

// Loop owns the decode worker and keeps exactly one frame request in flight
// while scanning.
type Loop struct {
	mu       sync.Mutex
	cam      Camera
	worker   *decode.Worker
	handler  *decode.Handler
	onResult func(decode.Result)
	state    State
	seq      int
	last     *decode.Result
	log      zerolog.Logger
}

// New builds an idle loop and its worker. The worker goroutine starts with
// Start.
func New(cfg Config) *Loop {
	l := &Loop{cam: cfg.Camera, onResult: cfg.OnResult, state: StateIdle, log: zerolog.Nop()}
	if cfg.Logger != nil {
		l.log = cfg.Logger.With().Str("component", "capture").Logger()
	}
	dc := cfg.Decode
	dc.Sink = l
	if dc.Source == nil {
		dc.Source = cfg.Camera
	}
	if dc.Logger == nil {
		dc.Logger = cfg.Logger
	}
	l.worker = decode.NewWorker(dc)
	return l
}

// Start launches the worker, starts preview and requests the first frame.
func (l *Loop) Start() error {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return nil
	}
	go l.worker.Run()
	l.handler = l.worker.Handler()
	l.state = StateSuccess
	l.mu.Unlock()

	if err := l.cam.StartPreview(); err != nil {
		return err
	}
	l.restartPreviewAndDecode()
	return nil
}

// Restart resumes scanning after a successful decode.
func (l *Loop) Restart() { l.restartPreviewAndDecode() }

func (l *Loop) restartPreviewAndDecode() {
	l.mu.Lock()
	if l.state != StateSuccess {
		l.mu.Unlock()
		return
	}
	l.state = StatePreview
	l.mu.Unlock()
	l.requestFrame()
}

func (l *Loop) requestFrame() {
	l.mu.Lock()
	if l.state != StatePreview {
		l.mu.Unlock()
		return
	}
	l.seq++
	tag, h := l.seq, l.handler
	l.mu.Unlock()
	l.cam.RequestPreviewFrame(h, tag)
}

// DecodeSucceeded records the result and stops requesting frames until
// Restart.
func (l *Loop) DecodeSucceeded(r decode.Result) {
	l.mu.Lock()
	if l.state != StatePreview {
		l.mu.Unlock()
		return
	}
	l.state = StateSuccess
	l.last = &r
	onResult := l.onResult
	l.mu.Unlock()
	l.log.Info().Str("format", r.Format.String()).Int("tag", r.Tag).Msg("decode succeeded")
	if onResult != nil {
		onResult(r)
	}
}

// DecodeFailed asks for the next frame. Requests are one-shot, so without
// this the loop would stall.
func (l *Loop) DecodeFailed() { l.requestFrame() }

// Stop quits the worker, waits briefly for it and stops preview. Safe to
// call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.state == StateDone {
		l.mu.Unlock()
		return
	}
	l.state = StateDone
	h := l.handler
	l.mu.Unlock()

	l.cam.StopPreview()
	if h == nil {
		return
	}
	h.Quit()
	select {
	case <-h.Done():
	case <-time.After(quitTimeout):
		l.log.Warn().Dur("timeout", quitTimeout).Msg("decode worker did not quit in time")
	}
}

// State returns the loop state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// LastResult returns the most recent successful decode.
func (l *Loop) LastResult() (decode.Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last == nil {
		return decode.Result{}, false
	}
	return *l.last, true
}

// Hints returns the worker's decoder hints.
func (l *Loop) Hints() decode.Hints { return l.worker.Hints() }

// Package scanner runs the camera manager, the capture loop and the ambient
// light controller as one service. It is what the HTTP API drives.
package scanner

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scancam/internal/ambient"
	"scancam/internal/camera"
	"scancam/internal/capture"
	"scancam/internal/decode"
	"scancam/pkg/types"
)

const defaultRescanDelay = time.Second

// Config wires a Service.
type Config struct {
	Camera *camera.Manager
	// Decode is handed to every capture loop the service starts. Sink and
	// Source are set by the loop.
	Decode decode.Config
	// Ambient is optional.
	Ambient *ambient.Controller
	Surface camera.Surface
	// RescanDelay is how long scanning pauses after a decode. Zero uses one
	// second, negative stops after the first result until the next
	// StartPreview.
	RescanDelay time.Duration
	Logger      *zerolog.Logger
}

// Service owns one scan session at a time.
type Service struct {
	// opMu serializes start/stop/close. mu guards the fields below it and is
	// never held while calling into the loop, which waits on the worker.
	opMu sync.Mutex

	mu      sync.Mutex
	loop    *capture.Loop
	last    *types.ScanResult
	waiters map[chan types.ScanResult]struct{}
	closed  bool
	done    chan struct{}

	cam      *camera.Manager
	ambient  *ambient.Controller
	decode   decode.Config
	surface  camera.Surface
	rescan   time.Duration
	started  time.Time
	log      zerolog.Logger
	loggerIn *zerolog.Logger
}

// New returns an idle service. Nothing is opened until StartPreview.
func New(cfg Config) *Service {
	s := &Service{
		cam:      cfg.Camera,
		ambient:  cfg.Ambient,
		decode:   cfg.Decode,
		surface:  cfg.Surface,
		rescan:   cfg.RescanDelay,
		started:  time.Now(),
		waiters:  make(map[chan types.ScanResult]struct{}),
		done:     make(chan struct{}),
		log:      zerolog.Nop(),
		loggerIn: cfg.Logger,
	}
	if s.rescan == 0 {
		s.rescan = defaultRescanDelay
	}
	if cfg.Logger != nil {
		s.log = cfg.Logger.With().Str("component", "scanner").Logger()
	}
	return s
}

// StartPreview opens the camera if needed, starts the ambient controller and
// begins scanning. Calling it while scanning is a no-op.
func (s *Service) StartPreview() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	running := s.loop != nil
	s.mu.Unlock()
	if running {
		return nil
	}

	if err := s.cam.OpenDriver(s.surface); err != nil {
		return err
	}
	if s.ambient != nil {
		if err := s.ambient.Start(s.cam); err != nil {
			// The torch just stays where the configuration put it.
			s.log.Warn().Err(err).Msg("ambient light controller not started")
		}
	}
	loop := capture.New(capture.Config{
		Camera:   s.cam,
		Decode:   s.decode,
		OnResult: s.onResult,
		Logger:   s.loggerIn,
	})
	// Published before Start so a decode on the first frame can re-arm.
	s.mu.Lock()
	s.loop = loop
	s.mu.Unlock()
	if err := loop.Start(); err != nil {
		s.stopLocked()
		return err
	}
	s.log.Info().Str("session_id", s.cam.Snapshot().SessionID).Msg("scanning started")
	return nil
}

// StopPreview stops scanning and the ambient controller. The camera stays
// open so the next StartPreview is fast.
func (s *Service) StopPreview() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.stopLocked()
	return nil
}

func (s *Service) stopLocked() {
	s.mu.Lock()
	loop := s.loop
	s.loop = nil
	s.mu.Unlock()
	if s.ambient != nil {
		s.ambient.Stop()
	}
	if loop != nil {
		loop.Stop()
		s.log.Info().Msg("scanning stopped")
	}
}

// Close stops scanning, releases the camera and fails pending NextResult
// calls with ErrClosed. Safe to call more than once.
func (s *Service) Close() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.stopLocked()
	s.cam.CloseDriver()
	return nil
}

func (s *Service) onResult(r decode.Result) {
	sr := types.ScanResult{Text: r.Text, Format: r.Format.String(), Tag: r.Tag}
	s.mu.Lock()
	s.last = &sr
	for ch := range s.waiters {
		ch <- sr
		delete(s.waiters, ch)
	}
	loop := s.loop
	s.mu.Unlock()

	if loop == nil || s.rescan < 0 {
		return
	}
	// Restart is a no-op once the loop has been stopped.
	time.AfterFunc(s.rescan, loop.Restart)
}

// NextResult blocks until the next successful decode, ctx is done or the
// service is closed.
func (s *Service) NextResult(ctx context.Context) (types.ScanResult, error) {
	ch := make(chan types.ScanResult, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return types.ScanResult{}, ErrClosed
	}
	s.waiters[ch] = struct{}{}
	s.mu.Unlock()

	select {
	case r := <-ch:
		return r, nil
	case <-ctx.Done():
		s.dropWaiter(ch)
		return types.ScanResult{}, ctx.Err()
	case <-s.done:
		s.dropWaiter(ch)
		return types.ScanResult{}, ErrClosed
	}
}

func (s *Service) dropWaiter(ch chan types.ScanResult) {
	s.mu.Lock()
	delete(s.waiters, ch)
	s.mu.Unlock()
}

// SetTorch switches the torch and returns the resulting state.
func (s *Service) SetTorch(on bool) (bool, error) {
	if !s.cam.IsOpen() {
		return false, ErrNotOpen
	}
	s.cam.SetTorch(on)
	return s.cam.TorchState(), nil
}

// Framing returns both framing rectangles, omitting those not yet known.
func (s *Service) Framing() types.FramingResponse {
	var resp types.FramingResponse
	if r, ok := s.cam.FramingRect(); ok {
		resp.Screen = toRect(r)
	}
	if r, ok := s.cam.FramingRectInPreview(); ok {
		resp.Preview = toRect(r)
	}
	return resp
}

// SetFraming requests a manual framing rectangle of the given screen size.
// Before the camera is configured the request is kept and applied on open.
func (s *Service) SetFraming(width, height int) (types.FramingResponse, error) {
	if width <= 0 || height <= 0 {
		return types.FramingResponse{}, invalidArgument("width and height must be positive")
	}
	s.cam.SetManualFramingRect(width, height)
	return s.Framing(), nil
}

// Ready reports whether the camera is open.
func (s *Service) Ready() bool { return s.cam.IsOpen() }

// Status assembles the camera, ambient and scan state.
func (s *Service) Status() types.StatusResponse {
	snap := s.cam.Snapshot()
	now := time.Now()
	st := types.StatusResponse{
		State:          string(snap.State),
		Open:           snap.Open,
		Previewing:     snap.Previewing,
		Torch:          snap.Torch,
		ParamMode:      string(snap.ParamMode),
		SessionID:      snap.SessionID,
		FramePending:   snap.FramePending,
		UptimeSeconds:  int64(now.Sub(s.started).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	if snap.FramingRect != nil {
		st.Framing = toRect(*snap.FramingRect)
	}
	if snap.PreviewRect != nil {
		st.PreviewFraming = toRect(*snap.PreviewRect)
	}
	if s.ambient != nil {
		st.Ambient = string(s.ambient.State())
	}

	s.mu.Lock()
	loop := s.loop
	if s.last != nil {
		last := *s.last
		st.LastResult = &last
	}
	s.mu.Unlock()
	if loop != nil {
		st.Scan = string(loop.State())
	} else {
		st.Scan = string(capture.StateIdle)
	}
	return st
}

func toRect(r image.Rectangle) *types.Rect {
	return &types.Rect{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

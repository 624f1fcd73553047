package camera

import (
	"errors"
	"sync"

	"scancam/internal/geometry"
)

// fakeDevice is an in-memory camera handle used by tests.
type fakeDevice struct {
	mu         sync.Mutex
	params     Parameters
	reject     func(p Parameters) error
	bindErr    error
	surface    Surface
	previewing bool
	starts     int
	stops      int
	released   int
	callback   PreviewCallback
	setCalls   []string
	focusCalls int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{params: Parameters{
		KeyPreviewSize:       "1280x720",
		KeyPreviewSizeValues: "1920x1080,1280x720,640x480,320x240",
		KeyFlashMode:         FlashModeOff,
		KeyFlashModeValues:   "off,torch",
		KeyFocusMode:         "fixed",
		KeyFocusModeValues:   "auto,fixed",
	}}
}

func (d *fakeDevice) SetPreviewDisplay(s Surface) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bindErr != nil {
		return d.bindErr
	}
	d.surface = s
	return nil
}

func (d *fakeDevice) Parameters() (Parameters, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.params.Clone(), nil
}

func (d *fakeDevice) SetParameters(p Parameters) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setCalls = append(d.setCalls, p.Flatten())
	if d.reject != nil {
		if err := d.reject(p); err != nil {
			return err
		}
	}
	d.params = p.Clone()
	return nil
}

func (d *fakeDevice) StartPreview() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.previewing = true
	d.starts++
	return nil
}

func (d *fakeDevice) StopPreview() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.previewing = false
	d.stops++
	return nil
}

func (d *fakeDevice) SetOneShotPreviewCallback(cb PreviewCallback) {
	d.mu.Lock()
	d.callback = cb
	d.mu.Unlock()
}

func (d *fakeDevice) Release() error {
	d.mu.Lock()
	d.released++
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) AutoFocus() error {
	d.mu.Lock()
	d.focusCalls++
	d.mu.Unlock()
	return nil
}

// deliver emulates the hardware firing the armed one-shot callback.
func (d *fakeDevice) deliver(data []byte) bool {
	d.mu.Lock()
	cb := d.callback
	d.callback = nil
	d.mu.Unlock()
	if cb == nil {
		return false
	}
	cb.OnPreviewFrame(data)
	return true
}

// fakeProvider is a ConfigProvider with fixed geometry.
type fakeProvider struct {
	mu         sync.Mutex
	screen     geometry.Size
	resolution geometry.Size
	torch      bool
	desiredErr func(safe bool) error
	inits      int
	calls      []string
}

func (p *fakeProvider) ScreenSize() (geometry.Size, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.screen, !p.screen.IsZero()
}

func (p *fakeProvider) CameraResolution() (geometry.Size, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolution, !p.resolution.IsZero()
}

func (p *fakeProvider) TorchState(Device) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.torch
}

func (p *fakeProvider) SetTorch(_ Device, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.torch = on
	p.calls = append(p.calls, "torch")
}

func (p *fakeProvider) InitFromCameraParameters(Device) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inits++
	return nil
}

func (p *fakeProvider) SetDesiredCameraParameters(d Device, safe bool) error {
	if p.desiredErr != nil {
		if err := p.desiredErr(safe); err != nil {
			return err
		}
	}
	params, _ := d.Parameters()
	if safe {
		params.Set("mode", "safe")
	} else {
		params.Set("mode", "desired")
	}
	return d.SetParameters(params)
}

// recordingAutoFocus logs Start/Stop calls into a shared slice.
type recordingAutoFocus struct {
	mu  *sync.Mutex
	log *[]string
}

func (r recordingAutoFocus) Start() { r.mu.Lock(); *r.log = append(*r.log, "af_start"); r.mu.Unlock() }
func (r recordingAutoFocus) Stop()  { r.mu.Lock(); *r.log = append(*r.log, "af_stop"); r.mu.Unlock() }

type afRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (a *afRecorder) factory(Device) AutoFocus { return recordingAutoFocus{mu: &a.mu, log: &a.calls} }

func (a *afRecorder) snapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

var errRejected = errors.New("rejected")

type testRig struct {
	m   *Manager
	dev *fakeDevice
	p   *fakeProvider
	af  *afRecorder
	pub *MemoryPublisher
}

func newRig() *testRig {
	dev := newFakeDevice()
	p := &fakeProvider{screen: geometry.NewSize(1080, 1920), resolution: geometry.NewSize(1920, 1080)}
	af := &afRecorder{}
	pub := NewMemoryPublisher()
	m := NewWithConfig(Config{
		Opener:    OpenerFunc(func() (Device, error) { return dev, nil }),
		Provider:  p,
		AutoFocus: af.factory,
		Publisher: pub,
	})
	return &testRig{m: m, dev: dev, p: p, af: af, pub: pub}
}

type frameSink struct {
	mu     sync.Mutex
	frames []Frame
	tags   []int
}

func (s *frameSink) HandleFrame(tag int, f Frame) {
	s.mu.Lock()
	s.frames = append(s.frames, f)
	s.tags = append(s.tags, tag)
	s.mu.Unlock()
}

func (s *frameSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

package camera

import (
	"sync"

	"github.com/rs/zerolog"
)

// StartPreview asks the hardware to begin drawing preview frames. It is a
// no-op unless the device is open and not already previewing.
func (m *Manager) StartPreview() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil || m.stateLocked() == StatePreviewing {
		return nil
	}
	if err := m.device.StartPreview(); err != nil {
		return err
	}
	if m.stateLocked() == StateOpened {
		m.fire(evConfigure)
	}
	m.fire(evStartPreview)
	m.autoFocus = m.autoFocusFactory(m.device)
	m.autoFocus.Start()
	m.publish("preview_start", nil)
	return nil
}

// StopPreview tells the camera to stop drawing preview frames and drops any
// pending frame request. Safe to call repeatedly.
func (m *Manager) StopPreview() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopPreviewLocked()
}

func (m *Manager) stopPreviewLocked() {
	if m.autoFocus != nil {
		m.autoFocus.Stop()
		m.autoFocus = nil
	}
	if m.device == nil || m.stateLocked() != StatePreviewing {
		return
	}
	if err := m.device.StopPreview(); err != nil {
		m.log.Warn().Err(err).Msg("camera stop preview failed")
	}
	m.preview.setHandler(nil, 0)
	m.fire(evStopPreview)
	m.publish("preview_stop", nil)
}

// SetTorch switches the torch. Auto-focus is paused across the switch so the
// brightness jump does not start a focus hunt.
func (m *Manager) SetTorch(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil {
		return
	}
	if on == m.provider.TorchState(m.device) {
		return
	}
	if m.autoFocus != nil {
		m.autoFocus.Stop()
	}
	m.provider.SetTorch(m.device, on)
	if m.autoFocus != nil {
		m.autoFocus.Start()
	}
	state := "off"
	if on {
		state = "on"
	}
	torchSwitchesTotal.WithLabelValues(state).Inc()
	m.log.Debug().Bool("on", on).Msg("camera event=torch")
	m.publish("torch", map[string]any{"on": on})
}

// TorchState reports the torch as seen by the configuration provider; false
// while closed.
func (m *Manager) TorchState() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil {
		return false
	}
	return m.provider.TorchState(m.device)
}

// RequestPreviewFrame hands the next preview frame to h, tagged with tag.
// The request fires once; each further frame must be requested again. It is
// ignored unless previewing.
func (m *Manager) RequestPreviewFrame(h FrameHandler, tag int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil || m.stateLocked() != StatePreviewing {
		m.log.Debug().Msg("camera frame request ignored, not previewing")
		return
	}
	m.preview.setHandler(h, tag)
	m.device.SetOneShotPreviewCallback(m.preview)
	m.publish("frame_requested", map[string]any{"tag": tag})
}

// previewCallback forwards exactly one frame to the registered handler and
// then forgets it.
type previewCallback struct {
	mu       sync.Mutex
	provider ConfigProvider
	handler  FrameHandler
	tag      int
	log      zerolog.Logger
}

func newPreviewCallback(p ConfigProvider, log zerolog.Logger) *previewCallback {
	return &previewCallback{provider: p, log: log}
}

func (p *previewCallback) setHandler(h FrameHandler, tag int) {
	p.mu.Lock()
	p.handler = h
	p.tag = tag
	p.mu.Unlock()
}

func (p *previewCallback) pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handler != nil
}

func (p *previewCallback) OnPreviewFrame(data []byte) {
	p.mu.Lock()
	h, tag := p.handler, p.tag
	p.handler = nil
	p.mu.Unlock()
	if h == nil {
		p.log.Debug().Msg("got preview callback, but no handler for it")
		return
	}
	res, ok := p.provider.CameraResolution()
	if !ok {
		p.log.Warn().Msg("preview frame dropped, camera resolution unknown")
		return
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	framesDeliveredTotal.Inc()
	h.HandleFrame(tag, Frame{Data: buf, Width: res.Width, Height: res.Height})
}

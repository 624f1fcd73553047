package camera

import (
	"image"

	"scancam/internal/geometry"
	"scancam/internal/luminance"
)

// FramingRect returns the scan region in display coordinates. ok is false
// while the camera is closed or the screen size is not yet known.
func (m *Manager) FramingRect() (image.Rectangle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.framingRectLocked()
}

func (m *Manager) framingRectLocked() (image.Rectangle, bool) {
	if m.framingRectValid {
		return m.framingRect, true
	}
	if m.device == nil {
		return image.Rectangle{}, false
	}
	screen, ok := m.provider.ScreenSize()
	if !ok || screen.IsZero() {
		// Called early, before init even finished.
		return image.Rectangle{}, false
	}
	m.framingRect = geometry.FramingRect(screen, m.fraction)
	m.framingRectValid = true
	m.log.Debug().Str("rect", m.framingRect.String()).Msg("calculated framing rect")
	return m.framingRect, true
}

// FramingRectInPreview is FramingRect in raw preview frame coordinates.
func (m *Manager) FramingRectInPreview() (image.Rectangle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.framingRectInPreviewLocked()
}

func (m *Manager) framingRectInPreviewLocked() (image.Rectangle, bool) {
	if m.previewRectValid {
		return m.framingRectInPreview, true
	}
	rect, ok := m.framingRectLocked()
	if !ok {
		return image.Rectangle{}, false
	}
	cam, camOK := m.provider.CameraResolution()
	screen, screenOK := m.provider.ScreenSize()
	if !camOK || !screenOK || cam.IsZero() || screen.IsZero() {
		return image.Rectangle{}, false
	}
	// Framing rects live in the portrait-normalized screen frame.
	m.framingRectInPreview = geometry.ProjectToPreview(rect, cam, screen.Portrait())
	m.previewRectValid = true
	return m.framingRectInPreview, true
}

// SetManualFramingRect overrides the computed scan region. Before the first
// open the request is stored and applied once when the device is opened.
func (m *Manager) SetManualFramingRect(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		m.requestedWidth = width
		m.requestedHeight = height
		return
	}
	m.setManualFramingRectLocked(width, height)
}

func (m *Manager) setManualFramingRectLocked(width, height int) {
	screen, ok := m.provider.ScreenSize()
	if !ok || screen.IsZero() {
		m.log.Warn().Int("width", width).Int("height", height).Msg("manual framing rect ignored, screen size unknown")
		return
	}
	m.framingRect = geometry.ClampedRect(screen, width, height)
	m.framingRectValid = true
	m.previewRectValid = false
	m.log.Debug().Str("rect", m.framingRect.String()).Msg("calculated manual framing rect")
}

// BuildLuminanceSource returns a luminance view over the framing region of a
// raw preview frame. It returns nil, nil while no framing rect is available.
func (m *Manager) BuildLuminanceSource(data []byte, width, height int) (*luminance.PlanarYUV, error) {
	rect, ok := m.FramingRectInPreview()
	if !ok {
		return nil, nil
	}
	return luminance.NewPlanarYUV(data, width, height, rect)
}

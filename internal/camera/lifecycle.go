package camera

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OpenDriver opens the camera if needed, binds it to surface and applies the
// desired parameters. Only a failed acquisition or a failed bind is returned;
// rejected parameters degrade the device (see ParamMode) but never close it.
func (m *Manager) OpenDriver(surface Surface) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	startTs := time.Now()

	dev := m.device
	acquired := false
	if dev == nil {
		m.publish("open_start", nil)
		var err error
		dev, err = m.opener.Open()
		if err != nil || dev == nil {
			opensTotal.WithLabelValues("unavailable").Inc()
			m.publish("open_failed", map[string]any{"error": fmt.Sprint(err)})
			m.log.Error().Err(err).Msg("camera event=open_failed")
			if err != nil {
				return fmt.Errorf("open camera: %w: %v", ErrDeviceUnavailable, err)
			}
			return fmt.Errorf("open camera: %w", ErrDeviceUnavailable)
		}
		m.device = dev
		m.sessionID = uuid.NewString()
		m.paramMode = ParamModeNone
		acquired = true
		m.fire(evOpen)
	}

	if err := dev.SetPreviewDisplay(surface); err != nil {
		if acquired {
			m.releaseLocked()
		}
		opensTotal.WithLabelValues("bind_failed").Inc()
		return fmt.Errorf("bind preview surface: %w", err)
	}

	if !m.initialized {
		m.initialized = true
		if err := m.provider.InitFromCameraParameters(dev); err != nil {
			m.log.Warn().Err(err).Msg("camera event=init_params_failed")
		}
		if m.requestedWidth > 0 && m.requestedHeight > 0 {
			m.setManualFramingRectLocked(m.requestedWidth, m.requestedHeight)
			m.requestedWidth = 0
			m.requestedHeight = 0
		}
	}

	m.applyParametersLocked(dev)

	if m.stateLocked() == StateOpened {
		m.fire(evConfigure)
	}
	opensTotal.WithLabelValues("ok").Inc()
	m.log.Info().Str("session", m.sessionID).Str("param_mode", string(m.paramMode)).
		Dur("dur", time.Since(startTs)).Msg("camera event=open_ready")
	m.publish("open_ready", map[string]any{"param_mode": string(m.paramMode)})
	return nil
}

// applyParametersLocked runs the two-step fallback: desired parameters, then
// the saved known-good set plus safe-mode parameters, then nothing.
func (m *Manager) applyParametersLocked(dev Device) {
	var saved string
	haveSaved := false
	if p, err := dev.Parameters(); err == nil && p != nil {
		saved = p.Flatten()
		haveSaved = true
	}

	err := m.provider.SetDesiredCameraParameters(dev, false)
	if err == nil {
		m.paramMode = ParamModeDesired
		return
	}
	rej := paramsRejectedError{err: err}
	m.log.Warn().Err(rej).Msg("camera event=params_rejected, setting only minimal safe-mode parameters")
	m.publish("params_rejected", map[string]any{"error": err.Error()})

	if !haveSaved {
		m.markUnconfigured(nil)
		return
	}
	m.log.Info().Str("params", saved).Msg("camera resetting to saved parameters")
	restored, err := dev.Parameters()
	if err != nil || restored == nil {
		restored = Parameters{}
	}
	restored.Unflatten(saved)
	if err := dev.SetParameters(restored); err != nil {
		m.markUnconfigured(err)
		return
	}
	if err := m.provider.SetDesiredCameraParameters(dev, true); err != nil {
		m.markUnconfigured(paramsRejectedError{safeMode: true, err: err})
		return
	}
	m.paramMode = ParamModeSafe
	paramFallbacksTotal.WithLabelValues("safe_mode").Inc()
	m.publish("params_safe_mode", nil)
}

func (m *Manager) markUnconfigured(err error) {
	m.paramMode = ParamModeUnconfigured
	paramFallbacksTotal.WithLabelValues("unconfigured").Inc()
	ev := m.log.Warn()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("camera event=params_unconfigured, rejected even safe-mode parameters")
	m.publish("params_unconfigured", nil)
}

// CloseDriver releases the camera. Calling it on a closed manager is a no-op.
func (m *Manager) CloseDriver() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil {
		return
	}
	if m.stateLocked() == StatePreviewing {
		m.stopPreviewLocked()
	}
	m.releaseLocked()
}

func (m *Manager) releaseLocked() {
	if err := m.device.Release(); err != nil {
		m.log.Warn().Err(err).Msg("camera release failed")
	}
	m.publish("close", nil)
	m.log.Info().Str("session", m.sessionID).Msg("camera event=close")
	m.device = nil
	m.sessionID = ""
	m.paramMode = ParamModeNone
	// Forget any scanning rect requested for this session.
	m.framingRectValid = false
	m.previewRectValid = false
	if m.stateLocked() != StateClosed {
		m.fire(evClose)
	}
}

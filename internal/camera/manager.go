package camera

import (
	"image"
	"sync"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
)

// Manager wraps the camera device and expects to be the only one talking to
// it. Every exported method takes mu for its full duration.
type Manager struct {
	mu sync.Mutex

	opener           Opener
	provider         ConfigProvider
	autoFocusFactory AutoFocusFactory
	publisher        EventPublisher
	log              zerolog.Logger
	fraction         float64

	device      Device
	sessionID   string
	lifecycle   *fsm.FSM
	autoFocus   AutoFocus
	preview     *previewCallback
	initialized bool
	paramMode   ParamMode

	framingRect          image.Rectangle
	framingRectValid     bool
	framingRectInPreview image.Rectangle
	previewRectValid     bool

	requestedWidth  int
	requestedHeight int
}

// New builds a Manager with default tunables.
func New(opener Opener, provider ConfigProvider) *Manager {
	return NewWithConfig(Config{Opener: opener, Provider: provider})
}

// SetEventPublisher swaps the event sink.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	m.publisher = p
}

// IsOpen reports whether a device handle is currently owned.
func (m *Manager) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.device != nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() State { return State(m.lifecycle.Current()) }

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State        State
	Open         bool
	Previewing   bool
	Torch        bool
	ParamMode    ParamMode
	SessionID    string
	FramingRect  *image.Rectangle
	PreviewRect  *image.Rectangle
	FramePending bool
}

// Snapshot returns the current state. Framing rects are computed if the
// geometry is known.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.stateLocked()
	s := Snapshot{
		State:        st,
		Open:         m.device != nil,
		Previewing:   st == StatePreviewing,
		ParamMode:    m.paramMode,
		SessionID:    m.sessionID,
		FramePending: m.preview.pending(),
	}
	if m.device != nil {
		s.Torch = m.provider.TorchState(m.device)
	}
	if r, ok := m.framingRectLocked(); ok {
		s.FramingRect = &r
	}
	if r, ok := m.framingRectInPreviewLocked(); ok {
		s.PreviewRect = &r
	}
	return s
}

func (m *Manager) fire(event string) {
	if err := m.lifecycle.Event(event); err != nil {
		m.log.Warn().Err(err).Str("event", event).Str("state", m.lifecycle.Current()).Msg("camera invalid transition")
	}
}

func (m *Manager) publish(name string, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	m.publisher.Publish(Event{Name: name, SessionID: m.sessionID, Fields: fields})
}

package ambient

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type torchRecorder struct {
	mu    sync.Mutex
	on    bool
	calls []bool
}

func (t *torchRecorder) SetTorch(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.on = on
	t.calls = append(t.calls, on)
}

func (t *torchRecorder) state() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on, len(t.calls)
}

type fakeSensor struct {
	mu           sync.Mutex
	fn           func(float64)
	subErr       error
	unsubscribes int
}

func (s *fakeSensor) Subscribe(fn func(float64)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subErr != nil {
		return s.subErr
	}
	s.fn = fn
	return nil
}

func (s *fakeSensor) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
	s.unsubscribes++
}

func (s *fakeSensor) emit(lux float64) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(lux)
	}
}

func withSensor(s *fakeSensor) SensorSource {
	return func() (LightSensor, bool) { return s, true }
}

func TestController_Thresholds(t *testing.T) {
	cases := []struct {
		lux    float64
		start  bool
		want   bool
		called bool
	}{
		{lux: 44.9, start: false, want: true, called: true},
		{lux: 45.0, start: false, want: true, called: true},
		{lux: 300, start: false, want: false, called: false},
		{lux: 300, start: true, want: true, called: false},
		{lux: 450.0, start: true, want: false, called: true},
		{lux: 450.1, start: true, want: false, called: true},
	}
	for _, tc := range cases {
		s := &fakeSensor{}
		c := New(Config{Mode: ModeAuto, Sensors: withSensor(s)})
		torch := &torchRecorder{on: tc.start}
		require.NoError(t, c.Start(torch))
		s.emit(tc.lux)
		on, n := torch.state()
		assert.Equal(t, tc.want, on, "lux %v", tc.lux)
		assert.Equal(t, tc.called, n > 0, "lux %v", tc.lux)
	}
}

func TestController_DeadBandHoldsTorchOn(t *testing.T) {
	s := &fakeSensor{}
	c := New(Config{Mode: ModeAuto, Sensors: withSensor(s)})
	torch := &torchRecorder{}
	require.NoError(t, c.Start(torch))

	s.emit(10)
	for _, lux := range []float64{46, 100, 300, 449.9} {
		s.emit(lux)
		on, _ := torch.state()
		require.True(t, on, "torch flipped off at %v", lux)
	}
	s.emit(450)
	on, n := torch.state()
	assert.False(t, on)
	assert.Equal(t, 2, n)
}

func TestController_InertWithoutAutoOrSensor(t *testing.T) {
	s := &fakeSensor{}
	for _, mode := range []FrontLightMode{ModeOn, ModeOff} {
		c := New(Config{Mode: mode, Sensors: withSensor(s)})
		require.NoError(t, c.Start(&torchRecorder{}))
		assert.Equal(t, StateInactive, c.State())
	}

	c := New(Config{Mode: ModeAuto, Sensors: func() (LightSensor, bool) { return nil, false }})
	torch := &torchRecorder{}
	require.NoError(t, c.Start(torch))
	assert.Equal(t, StateInactive, c.State())
	c.OnReading(1)
	_, n := torch.state()
	assert.Zero(t, n)

	c = New(Config{Mode: ModeAuto})
	require.NoError(t, c.Start(torch))
	assert.Equal(t, StateInactive, c.State())
}

func TestController_SubscribeError(t *testing.T) {
	s := &fakeSensor{subErr: errors.New("busy")}
	c := New(Config{Mode: ModeAuto, Sensors: withSensor(s)})
	require.Error(t, c.Start(&torchRecorder{}))
	assert.Equal(t, StateInactive, c.State())
}

func TestController_StopIdempotent(t *testing.T) {
	s := &fakeSensor{}
	c := New(Config{Mode: ModeAuto, Sensors: withSensor(s)})
	torch := &torchRecorder{}
	require.NoError(t, c.Start(torch))
	require.Equal(t, StateSubscribed, c.State())

	c.Stop()
	c.Stop()
	assert.Equal(t, StateInactive, c.State())
	assert.Equal(t, 1, s.unsubscribes)

	c.OnReading(1)
	_, n := torch.state()
	assert.Zero(t, n)
}

func TestNew_ThresholdDefaults(t *testing.T) {
	lo, hi := New(Config{}).Thresholds()
	assert.Equal(t, DefaultTooDarkLux, lo)
	assert.Equal(t, DefaultBrightEnoughLux, hi)

	lo, hi = New(Config{TooDarkLux: 500, BrightEnoughLux: 100}).Thresholds()
	assert.Equal(t, DefaultTooDarkLux, lo)
	assert.Equal(t, DefaultBrightEnoughLux, hi)

	lo, hi = New(Config{TooDarkLux: 10, BrightEnoughLux: 100}).Thresholds()
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 100.0, hi)
}

func TestParseFrontLightMode(t *testing.T) {
	for in, want := range map[string]FrontLightMode{"": ModeOff, "AUTO": ModeAuto, " on ": ModeOn, "off": ModeOff} {
		got, err := ParseFrontLightMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFrontLightMode("sometimes")
	assert.Error(t, err)
	assert.True(t, ModeOn.TorchOnStart())
	assert.False(t, ModeAuto.TorchOnStart())
}

package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"scancam/internal/camera"
	"scancam/pkg/types"
)

type mockService struct {
	status     types.StatusResponse
	ready      bool
	torch      bool
	torchErr   error
	framing    types.FramingResponse
	framingErr error
	previewErr error
	result     *types.ScanResult
	started    int
	stopped    int
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) SetTorch(on bool) (bool, error) {
	if m.torchErr != nil {
		return false, m.torchErr
	}
	m.torch = on
	return on, nil
}
func (m *mockService) Framing() types.FramingResponse { return m.framing }
func (m *mockService) SetFraming(w, h int) (types.FramingResponse, error) {
	if m.framingErr != nil {
		return types.FramingResponse{}, m.framingErr
	}
	m.framing.Screen = &types.Rect{Right: w, Bottom: h}
	return m.framing, nil
}
func (m *mockService) StartPreview() error { m.started++; return m.previewErr }
func (m *mockService) StopPreview() error  { m.stopped++; return nil }
func (m *mockService) NextResult(ctx context.Context) (types.ScanResult, error) {
	if m.result != nil {
		return *m.result, nil
	}
	<-ctx.Done()
	return types.ScanResult{}, ctx.Err()
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "previewing", Open: true, Torch: true}}
	w := do(t, NewMux(svc), http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "previewing" || !body.Open || !body.Torch {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestReadyz(t *testing.T) {
	w := do(t, NewMux(&mockService{ready: true}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	w = do(t, NewMux(&mockService{}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not open") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestTorchHandler(t *testing.T) {
	svc := &mockService{}
	w := do(t, NewMux(svc), http.MethodPost, "/torch", `{"on":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.TorchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !body.On || !svc.torch {
		t.Fatalf("torch not switched on: %+v", body)
	}
}

func TestTorchHandler_RequiresJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/torch", strings.NewReader(`{"on":true}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestTorchHandler_BadJSON(t *testing.T) {
	w := do(t, NewMux(&mockService{}), http.MethodPost, "/torch", `{"on":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusBadRequest || body.Error == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestTorchHandler_BodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	w := do(t, NewMux(&mockService{}), http.MethodPost, "/torch", `{"on":true,"padding":"xxxxxxxxxxxxxxxx"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestFramingHandlers(t *testing.T) {
	svc := &mockService{framing: types.FramingResponse{Screen: &types.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}}}
	h := NewMux(svc)
	w := do(t, h, http.MethodGet, "/framing", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got types.FramingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.Screen == nil || got.Screen.Right != 3 || got.Preview != nil {
		t.Fatalf("unexpected framing: %+v", got)
	}

	w = do(t, h, http.MethodPost, "/framing", `{"width":300,"height":200}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.Screen.Width() != 300 || got.Screen.Height() != 200 {
		t.Fatalf("unexpected framing: %+v", got.Screen)
	}
}

func TestFramingHandler_RejectsNonPositive(t *testing.T) {
	w := do(t, NewMux(&mockService{}), http.MethodPost, "/framing", `{"width":0,"height":200}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPreviewHandlers(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "idle"}}
	h := NewMux(svc)
	if w := do(t, h, http.MethodPost, "/preview/start", ""); w.Code != http.StatusOK {
		t.Fatalf("start status=%d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/preview/stop", ""); w.Code != http.StatusOK {
		t.Fatalf("stop status=%d", w.Code)
	}
	if svc.started != 1 || svc.stopped != 1 {
		t.Fatalf("started=%d stopped=%d", svc.started, svc.stopped)
	}
}

func TestScanNext_ReturnsResult(t *testing.T) {
	svc := &mockService{result: &types.ScanResult{Text: "hello", Format: "QR_CODE", Tag: 3}}
	w := do(t, NewMux(svc), http.MethodGet, "/scan/next", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got types.ScanResult
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.Text != "hello" || got.Format != "QR_CODE" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestScanNext_Timeout(t *testing.T) {
	start := time.Now()
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/scan/next?timeout=20ms", "")
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status=%d", w.Code)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not honored")
	}
}

func TestScanNext_CapAppliesToLongerTimeout(t *testing.T) {
	SetScanWaitTimeout(20 * time.Millisecond)
	defer SetScanWaitTimeout(0)
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/scan/next?timeout=1h", "")
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestScanNext_InvalidTimeout(t *testing.T) {
	w := do(t, NewMux(&mockService{}), http.MethodGet, "/scan/next?timeout=soon", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestScanNext_ServerShutdownReleasesWaiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	SetBaseContext(ctx)
	defer SetBaseContext(nil)
	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- do(t, NewMux(&mockService{}), http.MethodGet, "/scan/next?timeout=10s", "")
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case w := <-done:
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status=%d", w.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter not released on shutdown")
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"device unavailable", camera.ErrDeviceUnavailable, http.StatusServiceUnavailable},
		{"wrapped unavailable", errors.Join(errors.New("open /dev/video0"), camera.ErrDeviceUnavailable), http.StatusServiceUnavailable},
		{"http error", mockHTTPError{msg: "too small", code: http.StatusBadRequest}, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{previewErr: tc.err, torchErr: tc.err}
			h := NewMux(svc)
			if w := do(t, h, http.MethodPost, "/preview/start", ""); w.Code != tc.want {
				t.Fatalf("preview status=%d want %d", w.Code, tc.want)
			}
			if w := do(t, h, http.MethodPost, "/torch", `{"on":false}`); w.Code != tc.want {
				t.Fatalf("torch status=%d want %d", w.Code, tc.want)
			}
		})
	}
}

func TestCORS_Enabled(t *testing.T) {
	SetCORSOptions(true, []string{"http://example.com"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	req := httptest.NewRequest(http.MethodOptions, "/torch", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestCORS_DisabledByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin=%q", got)
	}
}

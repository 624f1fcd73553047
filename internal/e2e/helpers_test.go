package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scancam/internal/ambient"
	"scancam/internal/camera"
	"scancam/internal/decode"
	"scancam/internal/geometry"
	"scancam/internal/httpapi"
	"scancam/internal/scanner"
	"scancam/internal/simdevice"
)

type rigOptions struct {
	markEvery int
	reject    func(camera.Parameters) error
	readings  []float64
	mode      ambient.FrontLightMode
	screen    geometry.Size
}

// newServer wires the HTTP API over a scanner backed by the simulated camera.
func newServer(t *testing.T, o rigOptions) (*httptest.Server, *scanner.Service, *simdevice.Opener) {
	t.Helper()
	opener := simdevice.NewOpener(simdevice.Options{
		FrameInterval: 2 * time.Millisecond,
		MarkEvery:     o.markEvery,
		Reject:        o.reject,
	})
	screen := o.screen
	if screen.IsZero() {
		screen = geometry.NewSize(1080, 1920)
	}
	cam := camera.NewWithConfig(camera.Config{
		Opener:   opener,
		Provider: camera.NewConfigurationManager(camera.FixedDisplay(screen), o.mode.TorchOnStart(), nil),
	})
	var sensors ambient.SensorSource
	if len(o.readings) > 0 {
		sensors = simdevice.Source(simdevice.NewLightSensor(time.Millisecond, o.readings...))
	}
	svc := scanner.New(scanner.Config{
		Camera: cam,
		Decode: decode.Config{
			Decoder:        simdevice.Decoder{Text: "e2e"},
			Preferences:    decode.Preferences{Decode1D: true, DecodeQR: true},
			RotatePortrait: true,
		},
		Ambient:     ambient.New(ambient.Config{Mode: o.mode, Sensors: sensors}),
		RescanDelay: 5 * time.Millisecond,
	})
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
	})
	return srv, svc, opener
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func httpPostJSON(t *testing.T, url string, body []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

package e2e

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"scancam/internal/ambient"
	"scancam/internal/camera"
	"scancam/internal/geometry"
	"scancam/pkg/types"
)

func decodeStatus(t *testing.T, body []byte) types.StatusResponse {
	t.Helper()
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("status json: %v body=%s", err, string(body))
	}
	return st
}

// TestE2E_ScanFlow drives a full scan over HTTP: start, wait for a result,
// then stop.
func TestE2E_ScanFlow(t *testing.T) {
	srv, _, opener := newServer(t, rigOptions{markEvery: 4, mode: ambient.ModeOff})

	resp, body := httpPostJSON(t, srv.URL+"/preview/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: %d %s", resp.StatusCode, string(body))
	}
	st := decodeStatus(t, body)
	if !st.Previewing || st.Framing == nil || st.Framing.Width() != 720 {
		t.Fatalf("unexpected status after start: %+v", st)
	}

	resp, body = httpGet(t, srv.URL+"/scan/next?timeout=5s")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan/next: %d %s", resp.StatusCode, string(body))
	}
	var res types.ScanResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.Text != "e2e" || res.Format != "QR_CODE" {
		t.Fatalf("unexpected result: %+v", res)
	}

	resp, body = httpPostJSON(t, srv.URL+"/preview/stop", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop: %d %s", resp.StatusCode, string(body))
	}
	if st := decodeStatus(t, body); st.Previewing || !st.Open {
		t.Fatalf("unexpected status after stop: %+v", st)
	}
	if opener.Opened() != 1 {
		t.Fatalf("opened=%d", opener.Opened())
	}
}

// TestE2E_ConcurrentWaitersShareResult checks that every waiter blocked on
// /scan/next receives the same decode.
func TestE2E_ConcurrentWaitersShareResult(t *testing.T) {
	srv, svc, _ := newServer(t, rigOptions{markEvery: 25, mode: ambient.ModeOff})

	const waiters = 4
	var wg sync.WaitGroup
	tags := make(chan int, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, body := httpGet(t, srv.URL+"/scan/next?timeout=5s")
			if resp.StatusCode != http.StatusOK {
				t.Errorf("scan/next: %d %s", resp.StatusCode, string(body))
				return
			}
			var res types.ScanResult
			_ = json.Unmarshal(body, &res)
			tags <- res.Tag
		}()
	}
	// Let the waiters register before frames start flowing.
	time.Sleep(50 * time.Millisecond)
	if err := svc.StartPreview(); err != nil {
		t.Fatalf("start: %v", err)
	}
	wg.Wait()
	close(tags)
	first := -1
	for tag := range tags {
		if first == -1 {
			first = tag
		}
		if tag != first {
			t.Fatalf("waiters saw different results: %d vs %d", tag, first)
		}
	}
}

// TestE2E_RejectedParametersStillServe verifies that a device refusing every
// parameter set still opens and reports the unconfigured mode.
func TestE2E_RejectedParametersStillServe(t *testing.T) {
	srv, _, _ := newServer(t, rigOptions{
		reject: func(camera.Parameters) error { return errors.New("refused") },
		mode:   ambient.ModeOff,
	})
	resp, body := httpPostJSON(t, srv.URL+"/preview/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: %d %s", resp.StatusCode, string(body))
	}
	if st := decodeStatus(t, body); st.ParamMode != string(camera.ParamModeUnconfigured) || !st.Open {
		t.Fatalf("unexpected status: %+v", st)
	}
	resp, _ = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz: %d", resp.StatusCode)
	}
}

// TestE2E_AmbientLightDrivesTorch checks the hysteresis end to end: a dark
// reading switches the torch on, visible through /status.
func TestE2E_AmbientLightDrivesTorch(t *testing.T) {
	srv, _, _ := newServer(t, rigOptions{readings: []float64{5}, mode: ambient.ModeAuto})
	resp, body := httpPostJSON(t, srv.URL+"/preview/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: %d %s", resp.StatusCode, string(body))
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, body = httpGet(t, srv.URL+"/status")
		st := decodeStatus(t, body)
		if st.Torch && st.Ambient == string(ambient.StateSubscribed) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("torch never switched on: %+v", st)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestE2E_ManualTorchOnModeOn verifies the initial torch from front light
// mode "on" and a manual switch off.
func TestE2E_ManualTorchOnModeOn(t *testing.T) {
	srv, _, _ := newServer(t, rigOptions{mode: ambient.ModeOn})
	if resp, body := httpPostJSON(t, srv.URL+"/preview/start", nil); !decodeStatus(t, body).Torch {
		t.Fatalf("torch should start on: %d %s", resp.StatusCode, string(body))
	}
	resp, body := httpPostJSON(t, srv.URL+"/torch", []byte(`{"on":false}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("torch: %d %s", resp.StatusCode, string(body))
	}
	var tr types.TorchResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.On {
		t.Fatalf("unexpected torch response: %s", string(body))
	}
}

// TestE2E_ManualFraming sets a framing size before the camera opens and
// checks it is applied once configured.
func TestE2E_ManualFraming(t *testing.T) {
	srv, _, _ := newServer(t, rigOptions{mode: ambient.ModeOff})
	resp, body := httpPostJSON(t, srv.URL+"/framing", []byte(`{"width":500,"height":300}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("framing: %d %s", resp.StatusCode, string(body))
	}
	httpPostJSON(t, srv.URL+"/preview/start", nil)
	_, body = httpGet(t, srv.URL+"/framing")
	var fr types.FramingResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		t.Fatalf("json: %v", err)
	}
	if fr.Screen == nil || fr.Screen.Width() != 500 || fr.Screen.Height() != 300 || fr.Preview == nil {
		t.Fatalf("unexpected framing: %s", string(body))
	}
}

func TestE2E_LandscapeScreenDecodes(t *testing.T) {
	srv, _, _ := newServer(t, rigOptions{markEvery: 3, mode: ambient.ModeOff, screen: geometry.NewSize(1920, 1080)})

	resp, body := httpPostJSON(t, srv.URL+"/preview/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: %d %s", resp.StatusCode, string(body))
	}
	st := decodeStatus(t, body)
	if st.Framing == nil || st.Framing.Width() != 720 || st.PreviewFraming == nil {
		t.Fatalf("unexpected framing: %+v", st)
	}

	resp, body = httpGet(t, srv.URL+"/scan/next?timeout=5s")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("scan/next on landscape screen: %d %s", resp.StatusCode, string(body))
	}
	var res types.ScanResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("json: %v", err)
	}
	if res.Text != "e2e" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

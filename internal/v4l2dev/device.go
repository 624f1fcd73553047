// Package v4l2dev adapts a V4L2 capture device to camera.Device. Frames are
// captured as YUYV and handed to the preview callback as NV21.
package v4l2dev

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scancam/internal/camera"
	"scancam/internal/geometry"
)

// V4L2 constants used by the device.
const (
	pixFmtYUYV uint32 = 0x56595559

	cidFocusAuto      uint32 = 0x009a090c
	cidAutoFocusStart uint32 = 0x009a091c
	cidFlashLEDMode   uint32 = 0x009c0901

	flashLEDNone  int32 = 0
	flashLEDTorch int32 = 2
)

// ErrClosed is returned by calls on a released device.
var ErrClosed = errors.New("v4l2 device closed")

// stream is the subset of a V4L2 handle the device drives.
type stream interface {
	SetImageFormat(format, width, height uint32) (uint32, uint32, uint32, error)
	StartStreaming() error
	StopStreaming() error
	// WaitForFrame returns false when the timeout expired without a frame.
	WaitForFrame(timeoutSec uint32) (bool, error)
	ReadFrame() ([]byte, error)
	SetControl(id uint32, value int32) error
	Close() error
}

// Options configure a device.
type Options struct {
	// WaitTimeout bounds a single frame wait. Defaults to one second.
	WaitTimeout time.Duration
	Logger      *zerolog.Logger
}

// Device implements camera.Device and camera.Focuser over a V4L2 stream.
type Device struct {
	mu        sync.Mutex
	s         stream
	params    camera.Parameters
	width     int
	height    int
	streaming bool
	closed    bool
	callback  camera.PreviewCallback
	stop      chan struct{}
	wg        sync.WaitGroup
	waitSec   uint32
	log       zerolog.Logger
}

func newDevice(s stream, sizes []geometry.Size, opts Options) (*Device, error) {
	if len(sizes) == 0 {
		return nil, errors.New("device reports no discrete YUYV frame sizes")
	}
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Width*sizes[i].Height > sizes[j].Width*sizes[j].Height
	})
	vals := make([]string, 0, len(sizes))
	for _, sz := range sizes {
		vals = append(vals, formatWxH(sz.Width, sz.Height))
	}
	waitSec := uint32(opts.WaitTimeout / time.Second)
	if waitSec == 0 {
		waitSec = 1
	}
	d := &Device{
		s: s,
		params: camera.Parameters{
			camera.KeyPreviewSizeValues: strings.Join(vals, ","),
			camera.KeyFlashMode:         camera.FlashModeOff,
			camera.KeyFlashModeValues:   "off,torch",
			camera.KeyFocusMode:         "fixed",
			camera.KeyFocusModeValues:   "auto,fixed",
			camera.KeyPreviewFormat:     "yuv420sp",
		},
		waitSec: waitSec,
		log:     zerolog.Nop(),
	}
	if opts.Logger != nil {
		d.log = opts.Logger.With().Str("component", "v4l2dev").Logger()
	}
	if err := d.setSize(sizes[0].Width, sizes[0].Height); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) setSize(w, h int) error {
	pf, aw, ah, err := d.s.SetImageFormat(pixFmtYUYV, uint32(w), uint32(h))
	if err != nil {
		return fmt.Errorf("set image format %dx%d: %w", w, h, err)
	}
	if pf != pixFmtYUYV {
		return fmt.Errorf("driver switched pixel format to %08x", pf)
	}
	d.width, d.height = int(aw), int(ah)
	d.params.Set(camera.KeyPreviewSize, formatWxH(d.width, d.height))
	return nil
}

// SetPreviewDisplay is a no-op: frames are consumed, not rendered.
func (d *Device) SetPreviewDisplay(camera.Surface) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return nil
}

func (d *Device) Parameters() (camera.Parameters, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	return d.params.Clone(), nil
}

// SetParameters applies the changed preview size, flash mode and focus mode.
// Control failures are returned so the caller can fall back.
func (d *Device) SetParameters(p camera.Parameters) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if v := p.Get(camera.KeyPreviewSize); v != "" && v != d.params.Get(camera.KeyPreviewSize) {
		if d.streaming {
			return errors.New("cannot change preview size while streaming")
		}
		w, h, err := parseWxH(v)
		if err != nil {
			return err
		}
		if err := d.setSize(w, h); err != nil {
			return err
		}
	}
	if v := p.Get(camera.KeyFlashMode); v != d.params.Get(camera.KeyFlashMode) {
		mode := flashLEDNone
		if v == camera.FlashModeTorch || v == "on" {
			mode = flashLEDTorch
		}
		if err := d.s.SetControl(cidFlashLEDMode, mode); err != nil {
			return fmt.Errorf("flash mode %q: %w", v, err)
		}
	}
	if v := p.Get(camera.KeyFocusMode); v != d.params.Get(camera.KeyFocusMode) {
		var auto int32
		if v == camera.FocusModeAuto || v == camera.FocusModeMacro {
			auto = 1
		}
		if err := d.s.SetControl(cidFocusAuto, auto); err != nil {
			return fmt.Errorf("focus mode %q: %w", v, err)
		}
	}
	size := d.params.Get(camera.KeyPreviewSize)
	d.params = p.Clone()
	d.params.Set(camera.KeyPreviewSize, size)
	return nil
}

func (d *Device) StartPreview() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.streaming {
		return nil
	}
	if err := d.s.StartStreaming(); err != nil {
		return fmt.Errorf("start streaming: %w", err)
	}
	d.streaming = true
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go d.capture(d.stop)
	return nil
}

func (d *Device) StopPreview() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.callback = nil
	wasStreaming := d.streaming
	d.streaming = false
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	if !wasStreaming {
		return nil
	}
	return d.s.StopStreaming()
}

func (d *Device) SetOneShotPreviewCallback(cb camera.PreviewCallback) {
	d.mu.Lock()
	d.callback = cb
	d.mu.Unlock()
}

// AutoFocus starts a single focus run.
func (d *Device) AutoFocus() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return d.s.SetControl(cidAutoFocusStart, 1)
}

func (d *Device) Release() error {
	err := d.StopPreview()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if cerr := d.s.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (d *Device) capture(stop <-chan struct{}) {
	defer d.wg.Done()
	for {
		select {
		case <-stop:
			return
		default:
		}
		ok, err := d.s.WaitForFrame(d.waitSec)
		if err != nil {
			d.log.Error().Err(err).Msg("wait for frame")
			return
		}
		if !ok {
			continue
		}
		raw, err := d.s.ReadFrame()
		if err != nil {
			d.log.Warn().Err(err).Msg("read frame")
			continue
		}
		d.mu.Lock()
		cb := d.callback
		d.callback = nil
		w, h := d.width, d.height
		d.mu.Unlock()
		if cb == nil || len(raw) < w*h*2 {
			continue
		}
		cb.OnPreviewFrame(yuyvToNV21(raw, w, h))
	}
}

// yuyvToNV21 copies the luma plane and subsamples chroma from even rows into
// an interleaved VU plane.
func yuyvToNV21(raw []byte, w, h int) []byte {
	out := make([]byte, w*h+2*((w+1)/2)*((h+1)/2))
	for i := 0; i < w*h; i++ {
		out[i] = raw[2*i]
	}
	uv := out[w*h:]
	stride := 2 * ((w + 1) / 2)
	for y := 0; y < h; y += 2 {
		row := (y / 2) * stride
		for x := 0; x+1 < w; x += 2 {
			base := (y*w + x) * 2
			uv[row+x] = raw[base+3]
			uv[row+x+1] = raw[base+1]
		}
	}
	return out
}

func formatWxH(w, h int) string { return strconv.Itoa(w) + "x" + strconv.Itoa(h) }

func parseWxH(v string) (int, int, error) {
	ws, hs, ok := strings.Cut(v, "x")
	if !ok {
		return 0, 0, fmt.Errorf("bad preview size %q", v)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("bad preview size %q: %w", v, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("bad preview size %q: %w", v, err)
	}
	return w, h, nil
}

var (
	_ camera.Device  = (*Device)(nil)
	_ camera.Focuser = (*Device)(nil)
)

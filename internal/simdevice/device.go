// Package simdevice is an in-process camera and light sensor. Frames are
// delivered from a ticker goroutine, the way real hardware calls back on its
// own thread.
package simdevice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"scancam/internal/camera"
	"scancam/internal/geometry"
)

// ErrReleased is returned by calls on a released device.
var ErrReleased = errors.New("simulated camera released")

// Options configure a simulated camera.
type Options struct {
	// Sizes are the supported preview sizes, landscape. Defaults to
	// 1920x1080, 1280x720 and 640x480.
	Sizes []geometry.Size
	// FrameInterval is the delay between frames. Defaults to 33ms.
	FrameInterval time.Duration
	// MarkEvery makes every n-th frame a bright frame that Decoder accepts.
	// Zero never marks.
	MarkEvery int
	// Reject, when set, is consulted on every SetParameters call.
	Reject func(camera.Parameters) error

	Logger *zerolog.Logger
}

func (o *Options) defaults() {
	if len(o.Sizes) == 0 {
		o.Sizes = []geometry.Size{{Width: 1920, Height: 1080}, {Width: 1280, Height: 720}, {Width: 640, Height: 480}}
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = 33 * time.Millisecond
	}
}

// Device implements camera.Device and camera.Focuser.
type Device struct {
	mu       sync.Mutex
	opts     Options
	params   camera.Parameters
	surface  camera.Surface
	callback camera.PreviewCallback
	released bool
	frames   int
	focuses  int
	stop     chan struct{}
	wg       sync.WaitGroup
	log      zerolog.Logger
	onClose  func()
}

// NewDevice returns an open simulated camera.
func NewDevice(opts Options) *Device {
	opts.defaults()
	sizes := make([]string, 0, len(opts.Sizes))
	for _, s := range opts.Sizes {
		sizes = append(sizes, fmt.Sprintf("%dx%d", s.Width, s.Height))
	}
	d := &Device{
		opts: opts,
		params: camera.Parameters{
			camera.KeyPreviewSize:       sizes[0],
			camera.KeyPreviewSizeValues: strings.Join(sizes, ","),
			camera.KeyFlashMode:         camera.FlashModeOff,
			camera.KeyFlashModeValues:   "off,torch",
			camera.KeyFocusMode:         "fixed",
			camera.KeyFocusModeValues:   "auto,macro,fixed",
			camera.KeyPreviewFormat:     "yuv420sp",
		},
		log: zerolog.Nop(),
	}
	if opts.Logger != nil {
		d.log = opts.Logger.With().Str("component", "simdevice").Logger()
	}
	return d
}

func (d *Device) SetPreviewDisplay(s camera.Surface) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return ErrReleased
	}
	d.surface = s
	return nil
}

func (d *Device) Parameters() (camera.Parameters, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return nil, ErrReleased
	}
	return d.params.Clone(), nil
}

// SetParameters accepts any preview size from the supported list and any
// listed flash or focus mode.
func (d *Device) SetParameters(p camera.Parameters) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return ErrReleased
	}
	if d.opts.Reject != nil {
		if err := d.opts.Reject(p); err != nil {
			return err
		}
	}
	for _, k := range [][2]string{
		{camera.KeyPreviewSize, camera.KeyPreviewSizeValues},
		{camera.KeyFlashMode, camera.KeyFlashModeValues},
		{camera.KeyFocusMode, camera.KeyFocusModeValues},
	} {
		if v := p.Get(k[0]); v != "" && !d.params.Supports(k[1], v) {
			return fmt.Errorf("unsupported %s %q", k[0], v)
		}
	}
	d.params = p.Clone()
	return nil
}

// StartPreview starts the frame ticker.
func (d *Device) StartPreview() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return ErrReleased
	}
	if d.stop != nil {
		return nil
	}
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go d.run(d.stop)
	return nil
}

// StopPreview stops the ticker and drops any armed callback.
func (d *Device) StopPreview() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.callback = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// SetOneShotPreviewCallback arms cb for the next frame.
func (d *Device) SetOneShotPreviewCallback(cb camera.PreviewCallback) {
	d.mu.Lock()
	d.callback = cb
	d.mu.Unlock()
}

func (d *Device) AutoFocus() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return ErrReleased
	}
	d.focuses++
	return nil
}

// Release stops preview and marks the device unusable.
func (d *Device) Release() error {
	_ = d.StopPreview()
	d.mu.Lock()
	already := d.released
	d.released = true
	onClose := d.onClose
	d.mu.Unlock()
	if !already && onClose != nil {
		onClose()
	}
	return nil
}

// Stats reports delivered frames and focus cycles.
func (d *Device) Stats() (frames, focuses int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames, d.focuses
}

func (d *Device) run(stop <-chan struct{}) {
	defer d.wg.Done()
	t := time.NewTicker(d.opts.FrameInterval)
	defer t.Stop()
	seq := 0
	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}
		seq++
		d.mu.Lock()
		cb := d.callback
		d.callback = nil
		size := d.params.Get(camera.KeyPreviewSize)
		if cb != nil {
			d.frames++
		}
		d.mu.Unlock()
		if cb == nil {
			continue
		}
		w, h, err := parseWxH(size)
		if err != nil {
			d.log.Warn().Err(err).Msg("bad preview size")
			continue
		}
		mark := d.opts.MarkEvery > 0 && seq%d.opts.MarkEvery == 0
		cb.OnPreviewFrame(nv21Frame(w, h, mark))
	}
}

// nv21Frame returns a grey frame, or a white one when marked.
func nv21Frame(w, h int, mark bool) []byte {
	buf := make([]byte, w*h*3/2)
	y := byte(0x40)
	if mark {
		y = 0xFF
	}
	for i := 0; i < w*h; i++ {
		buf[i] = y
	}
	for i := w * h; i < len(buf); i++ {
		buf[i] = 0x80
	}
	return buf
}

func parseWxH(v string) (int, int, error) {
	ws, hs, ok := strings.Cut(v, "x")
	if !ok {
		return 0, 0, fmt.Errorf("preview size %q", v)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

var (
	_ camera.Device  = (*Device)(nil)
	_ camera.Focuser = (*Device)(nil)
)

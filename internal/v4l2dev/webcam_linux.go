//go:build linux

package v4l2dev

import (
	"fmt"

	"github.com/blackjack/webcam"

	"scancam/internal/geometry"
)

type webcamStream struct {
	cam *webcam.Webcam
}

func (w webcamStream) SetImageFormat(f, width, height uint32) (uint32, uint32, uint32, error) {
	pf, aw, ah, err := w.cam.SetImageFormat(webcam.PixelFormat(f), width, height)
	return uint32(pf), aw, ah, err
}

func (w webcamStream) StartStreaming() error { return w.cam.StartStreaming() }
func (w webcamStream) StopStreaming() error  { return w.cam.StopStreaming() }

func (w webcamStream) WaitForFrame(timeoutSec uint32) (bool, error) {
	err := w.cam.WaitForFrame(timeoutSec)
	switch err.(type) {
	case nil:
		return true, nil
	case *webcam.Timeout:
		return false, nil
	default:
		return false, err
	}
}

func (w webcamStream) ReadFrame() ([]byte, error) { return w.cam.ReadFrame() }

func (w webcamStream) SetControl(id uint32, value int32) error {
	return w.cam.SetControl(webcam.ControlID(id), value)
}

func (w webcamStream) Close() error { return w.cam.Close() }

// Open opens the capture device at path. The device must offer YUYV at one
// or more discrete frame sizes.
func Open(path string, opts Options) (*Device, error) {
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	pf := webcam.PixelFormat(pixFmtYUYV)
	if _, ok := cam.GetSupportedFormats()[pf]; !ok {
		cam.Close()
		return nil, fmt.Errorf("%s: YUYV not supported", path)
	}
	var sizes []geometry.Size
	for _, fs := range cam.GetSupportedFrameSizes(pf) {
		if fs.StepWidth == 0 && fs.StepHeight == 0 {
			sizes = append(sizes, geometry.NewSize(int(fs.MaxWidth), int(fs.MaxHeight)))
		}
	}
	d, err := newDevice(webcamStream{cam: cam}, sizes, opts)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

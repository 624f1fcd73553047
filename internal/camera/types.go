package camera

import "scancam/internal/geometry"

// Surface is the render target preview frames are drawn into. It is opaque to
// the Manager and handed to the Device as is.
type Surface any

// PreviewCallback receives raw preview frames from the device. The device
// invokes it from its own goroutine.
type PreviewCallback interface {
	OnPreviewFrame(data []byte)
}

// Device is an acquired camera handle.
type Device interface {
	SetPreviewDisplay(s Surface) error
	Parameters() (Parameters, error)
	// SetParameters applies p; an error means the hardware rejected it.
	SetParameters(p Parameters) error
	StartPreview() error
	StopPreview() error
	// SetOneShotPreviewCallback arms cb for exactly the next frame. The
	// device drops the callback once it has fired.
	SetOneShotPreviewCallback(cb PreviewCallback)
	Release() error
}

// Focuser is implemented by devices that can run a focus cycle on demand.
type Focuser interface {
	AutoFocus() error
}

// Opener discovers and opens a camera. A nil Device with a nil error means no
// camera is available.
type Opener interface {
	Open() (Device, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func() (Device, error)

func (f OpenerFunc) Open() (Device, error) { return f() }

// ConfigProvider knows the screen and sensor geometry and how to apply
// parameters to a device.
type ConfigProvider interface {
	ScreenSize() (geometry.Size, bool)
	CameraResolution() (geometry.Size, bool)
	TorchState(d Device) bool
	SetTorch(d Device, on bool)
	InitFromCameraParameters(d Device) error
	SetDesiredCameraParameters(d Device, safeMode bool) error
}

// AutoFocus drives periodic focusing while preview is running.
type AutoFocus interface {
	Start()
	Stop()
}

// AutoFocusFactory builds the auto-focus driver for a device when preview
// starts.
type AutoFocusFactory func(d Device) AutoFocus

type noopAutoFocus struct{}

func (noopAutoFocus) Start() {}
func (noopAutoFocus) Stop()  {}

// Frame is one raw preview frame. Data is owned by the receiver.
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// FrameHandler consumes a requested preview frame tagged with the value
// passed to RequestPreviewFrame.
type FrameHandler interface {
	HandleFrame(tag int, f Frame)
}

// FrameHandlerFunc adapts a function to FrameHandler.
type FrameHandlerFunc func(tag int, f Frame)

func (fn FrameHandlerFunc) HandleFrame(tag int, f Frame) { fn(tag, f) }

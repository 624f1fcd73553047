package geometry

import (
	"image"
	"math"
)

// DefaultFramingFraction is the share of the shorter screen side used for the
// square scan region.
const DefaultFramingFraction = 2.0 / 3.0

// FocusSize returns the square region of side floor(min(w,h) * fraction).
func FocusSize(screen Size, fraction float64) Size {
	// 2/3 is not exact in binary; nudge so exact multiples do not floor low.
	side := int(math.Floor(float64(screen.Min())*fraction + 1e-9))
	return Size{Width: side, Height: side}
}

// Centered returns a rectangle of the given extent centered in bounds.
func Centered(bounds, extent Size) image.Rectangle {
	left := (bounds.Width - extent.Width) / 2
	top := (bounds.Height - extent.Height) / 2
	return image.Rect(left, top, left+extent.Width, top+extent.Height)
}

// FramingRect computes the square scan region for a screen. The screen is
// normalized to portrait before centering, so a landscape report from the
// display still yields coordinates in the portrait frame the sensor is
// rotated against.
func FramingRect(screen Size, fraction float64) image.Rectangle {
	return Centered(screen.Portrait(), FocusSize(screen, fraction))
}

// ClampedRect centers a requested extent in the screen, clamping each side to
// the screen bounds. Like FramingRect it works in the portrait-normalized
// screen, so width runs along the shorter side.
func ClampedRect(screen Size, width, height int) image.Rectangle {
	screen = screen.Portrait()
	if width > screen.Width {
		width = screen.Width
	}
	if height > screen.Height {
		height = screen.Height
	}
	return Centered(screen, Size{Width: width, Height: height})
}

// ProjectToPreview maps a display rectangle into raw-frame coordinates. The
// sensor frame is rotated 90 degrees relative to the display, so the x axis
// scales by camera height and the y axis by camera width.
func ProjectToPreview(r image.Rectangle, camera, screen Size) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{
			X: r.Min.X * camera.Height / screen.Width,
			Y: r.Min.Y * camera.Width / screen.Height,
		},
		Max: image.Point{
			X: r.Max.X * camera.Height / screen.Width,
			Y: r.Max.Y * camera.Width / screen.Height,
		},
	}
}

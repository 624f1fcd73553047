// Package luminance exposes the greyscale plane of raw preview frames to the
// decoder without copying the frame.
package luminance

import (
	"fmt"
	"image"
)

// PlanarYUV is a cropped view over the Y plane of a planar or semi-planar
// YUV frame (NV21, YV12, ...). Only the first dataWidth*dataHeight bytes of
// the buffer are read.
type PlanarYUV struct {
	data       []byte
	dataWidth  int
	dataHeight int
	crop       image.Rectangle
}

// NewPlanarYUV validates that crop lies inside the frame and returns a view.
func NewPlanarYUV(data []byte, dataWidth, dataHeight int, crop image.Rectangle) (*PlanarYUV, error) {
	if dataWidth <= 0 || dataHeight <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", dataWidth, dataHeight)
	}
	if len(data) < dataWidth*dataHeight {
		return nil, fmt.Errorf("frame buffer too short: %d < %d", len(data), dataWidth*dataHeight)
	}
	if crop.Empty() || !crop.In(image.Rect(0, 0, dataWidth, dataHeight)) {
		return nil, fmt.Errorf("crop rectangle %v must fit within image data %dx%d", crop, dataWidth, dataHeight)
	}
	return &PlanarYUV{data: data, dataWidth: dataWidth, dataHeight: dataHeight, crop: crop}, nil
}

func (p *PlanarYUV) Width() int  { return p.crop.Dx() }
func (p *PlanarYUV) Height() int { return p.crop.Dy() }

// Crop returns the crop rectangle in frame coordinates.
func (p *PlanarYUV) Crop() image.Rectangle { return p.crop }

// Row copies row y of the crop into row, allocating when row is too small.
func (p *PlanarYUV) Row(y int, row []byte) ([]byte, error) {
	if y < 0 || y >= p.Height() {
		return nil, fmt.Errorf("requested row is outside the image: %d", y)
	}
	w := p.Width()
	if cap(row) < w {
		row = make([]byte, w)
	}
	row = row[:w]
	off := (y+p.crop.Min.Y)*p.dataWidth + p.crop.Min.X
	copy(row, p.data[off:off+w])
	return row, nil
}

// Matrix returns the cropped luminance bytes, row-major.
func (p *PlanarYUV) Matrix() []byte {
	w, h := p.Width(), p.Height()
	if w == p.dataWidth && h == p.dataHeight {
		return p.data[:w*h]
	}
	out := make([]byte, w*h)
	off := p.crop.Min.Y*p.dataWidth + p.crop.Min.X
	for y := 0; y < h; y++ {
		copy(out[y*w:(y+1)*w], p.data[off:off+w])
		off += p.dataWidth
	}
	return out
}

// Gray renders the crop as a greyscale image, mostly for debugging.
func (p *PlanarYUV) Gray() *image.Gray {
	w, h := p.Width(), p.Height()
	return &image.Gray{Pix: p.Matrix(), Stride: w, Rect: image.Rect(0, 0, w, h)}
}

package simdevice

import (
	"scancam/internal/decode"
	"scancam/internal/luminance"
)

// Decoder recognises the white frames produced with Options.MarkEvery and
// reports them as a QR code carrying Text.
type Decoder struct {
	Text string
}

func (d Decoder) Decode(src *luminance.PlanarYUV, hints decode.Hints) (decode.Result, error) {
	if len(hints.PossibleFormats) > 0 && !hints.PossibleFormats.Has(decode.QRCode) {
		return decode.Result{}, decode.ErrNotFound
	}
	m := src.Matrix()
	if len(m) == 0 {
		return decode.Result{}, decode.ErrNotFound
	}
	for i := 0; i < len(m); i += 97 {
		if m[i] != 0xFF {
			return decode.Result{}, decode.ErrNotFound
		}
	}
	c := src.Crop()
	if hints.ResultPointCallback != nil {
		hints.ResultPointCallback(decode.ResultPoint{X: float64(c.Min.X), Y: float64(c.Min.Y)})
	}
	text := d.Text
	if text == "" {
		text = "scancam"
	}
	return decode.Result{
		Text:   text,
		Format: decode.QRCode,
		Points: []decode.ResultPoint{{X: 0, Y: 0}, {X: float64(src.Width()), Y: float64(src.Height())}},
	}, nil
}

package decode

import "fmt"

// ResultPoint is a point of interest reported while decoding, in luminance
// source coordinates.
type ResultPoint struct {
	X, Y float64
}

// ResultPointCallback observes result points as the decoder finds them.
type ResultPointCallback func(ResultPoint)

// Hints is the set of decoder hints the worker passes with every frame.
type Hints struct {
	PossibleFormats     FormatSet
	CharacterSet        string
	TryHarder           bool
	PureBarcode         bool
	ResultPointCallback ResultPointCallback
}

func (h Hints) String() string {
	return fmt.Sprintf("Hints{formats=%s charset=%q try_harder=%t pure=%t result_points=%t}",
		h.PossibleFormats, h.CharacterSet, h.TryHarder, h.PureBarcode, h.ResultPointCallback != nil)
}

// Preferences are the stored format class toggles.
type Preferences struct {
	Decode1D         bool
	DecodeQR         bool
	DecodeDataMatrix bool
}

// Formats returns the union of the enabled format classes.
func (p Preferences) Formats() FormatSet {
	s := NewFormatSet()
	if p.Decode1D {
		s.Add(OneDFormats())
	}
	if p.DecodeQR {
		s.Add(QRCodeFormats())
	}
	if p.DecodeDataMatrix {
		s.Add(DataMatrixFormats())
	}
	return s
}

// buildHints starts from base, then sets the possible formats (explicit
// formats win over prefs), the character set when given and the result point
// callback.
func buildHints(base Hints, formats FormatSet, prefs Preferences, charset string, cb ResultPointCallback) Hints {
	h := base
	if len(formats) == 0 {
		formats = prefs.Formats()
	}
	h.PossibleFormats = NewFormatSet()
	h.PossibleFormats.Add(formats)
	if charset != "" {
		h.CharacterSet = charset
	}
	h.ResultPointCallback = cb
	return h
}

package decode

import (
	"fmt"
	"sort"
	"strings"
)

// Format is a barcode symbology.
type Format int

const (
	UPCA Format = iota + 1
	UPCE
	EAN13
	EAN8
	RSS14
	RSSExpanded
	Code39
	Code93
	Code128
	ITF
	Codabar
	QRCode
	DataMatrix
)

var formatNames = map[Format]string{
	UPCA:        "UPC_A",
	UPCE:        "UPC_E",
	EAN13:       "EAN_13",
	EAN8:        "EAN_8",
	RSS14:       "RSS_14",
	RSSExpanded: "RSS_EXPANDED",
	Code39:      "CODE_39",
	Code93:      "CODE_93",
	Code128:     "CODE_128",
	ITF:         "ITF",
	Codabar:     "CODABAR",
	QRCode:      "QR_CODE",
	DataMatrix:  "DATA_MATRIX",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a name such as "QR_CODE" or "ean-13" to a Format.
func ParseFormat(s string) (Format, error) {
	want := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for f, n := range formatNames {
		if n == want {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown barcode format %q", s)
}

// FormatSet is an unordered set of formats.
type FormatSet map[Format]struct{}

// NewFormatSet returns a set holding fs.
func NewFormatSet(fs ...Format) FormatSet {
	s := make(FormatSet, len(fs))
	for _, f := range fs {
		s[f] = struct{}{}
	}
	return s
}

// Add merges other into s.
func (s FormatSet) Add(other FormatSet) {
	for f := range other {
		s[f] = struct{}{}
	}
}

func (s FormatSet) Has(f Format) bool {
	_, ok := s[f]
	return ok
}

// Slice returns the formats in declaration order.
func (s FormatSet) Slice() []Format {
	out := make([]Format, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s FormatSet) String() string {
	names := make([]string, 0, len(s))
	for _, f := range s.Slice() {
		names = append(names, f.String())
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// ParseFormats parses a list of names into a set.
func ParseFormats(names []string) (FormatSet, error) {
	s := NewFormatSet()
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		s[f] = struct{}{}
	}
	return s, nil
}

// ProductFormats are the retail 1D symbologies.
func ProductFormats() FormatSet { return NewFormatSet(UPCA, UPCE, EAN13, EAN8, RSS14, RSSExpanded) }

// OneDFormats are all supported linear symbologies.
func OneDFormats() FormatSet {
	s := ProductFormats()
	s.Add(NewFormatSet(Code39, Code93, Code128, ITF, Codabar))
	return s
}

func QRCodeFormats() FormatSet     { return NewFormatSet(QRCode) }
func DataMatrixFormats() FormatSet { return NewFormatSet(DataMatrix) }

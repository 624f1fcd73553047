// Package geometry holds the small value types used to describe screen and
// sensor extents and the framing rectangles derived from them.
package geometry

import "fmt"

// Size is a 2D extent in pixels.
type Size struct {
	Width  int
	Height int
}

// NewSize returns a Size with the given extent.
func NewSize(width, height int) Size { return Size{Width: width, Height: height} }

// Set overwrites both dimensions.
func (s *Size) Set(width, height int) {
	s.Width = width
	s.Height = height
}

// Exchange swaps width and height in place.
func (s *Size) Exchange() {
	s.Width, s.Height = s.Height, s.Width
}

// Swapped returns a copy with width and height exchanged.
func (s Size) Swapped() Size { return Size{Width: s.Height, Height: s.Width} }

// EqualsWH reports whether s has exactly the given extent.
func (s Size) EqualsWH(width, height int) bool {
	return s.Width == width && s.Height == height
}

// Equals reports value equality.
func (s Size) Equals(o Size) bool { return s.EqualsWH(o.Width, o.Height) }

// Hash is consistent with Equals.
func (s Size) Hash() int { return s.Width*32713 + s.Height }

// IsZero reports whether either dimension is unset.
func (s Size) IsZero() bool { return s.Width <= 0 || s.Height <= 0 }

// Landscape reports whether the extent is wider than it is tall.
func (s Size) Landscape() bool { return s.Width > s.Height }

// Portrait returns the extent with the longer side as height.
func (s Size) Portrait() Size {
	if s.Landscape() {
		return s.Swapped()
	}
	return s
}

// Min returns the shorter side.
func (s Size) Min() int {
	if s.Width < s.Height {
		return s.Width
	}
	return s.Height
}

func (s Size) String() string { return fmt.Sprintf("Size(%d, %d)", s.Width, s.Height) }

package geometry

import (
	"image"
	"testing"
)

func TestSizeExchangeAndEquality(t *testing.T) {
	s := NewSize(1920, 1080)
	s.Exchange()
	if !s.EqualsWH(1080, 1920) {
		t.Fatalf("exchange: got %v", s)
	}
	o := NewSize(1080, 1920)
	if !s.Equals(o) || s.Hash() != o.Hash() {
		t.Fatalf("equal sizes must hash equally: %v %v", s, o)
	}
	s.Set(3, 4)
	if s.Equals(o) {
		t.Fatalf("set did not overwrite: %v", s)
	}
	if got := s.String(); got != "Size(3, 4)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestFramingRectPortrait(t *testing.T) {
	r := FramingRect(NewSize(1080, 1920), DefaultFramingFraction)
	want := image.Rect(180, 600, 900, 1320)
	if r != want {
		t.Fatalf("got %v want %v", r, want)
	}
}

func TestFramingRectLandscapeNormalized(t *testing.T) {
	cases := []Size{{1920, 1080}, {800, 480}, {1001, 999}, {640, 7}}
	for _, screen := range cases {
		r := FramingRect(screen, DefaultFramingFraction)
		side := screen.Min() * 2 / 3
		if r.Dx() != side || r.Dy() != side {
			t.Fatalf("%v: side %dx%d want %d", screen, r.Dx(), r.Dy(), side)
		}
		portrait := screen.Swapped()
		if r.Min.X != (portrait.Width-side)/2 || r.Min.Y != (portrait.Height-side)/2 {
			t.Fatalf("%v: not centered in portrait extent: %v", screen, r)
		}
	}
}

func TestClampedRect(t *testing.T) {
	r := ClampedRect(NewSize(400, 800), 1000, 200)
	if r != image.Rect(0, 300, 400, 500) {
		t.Fatalf("got %v", r)
	}
}

func TestSizePortrait(t *testing.T) {
	for _, c := range []struct{ in, want Size }{
		{NewSize(1920, 1080), NewSize(1080, 1920)},
		{NewSize(1080, 1920), NewSize(1080, 1920)},
		{NewSize(500, 500), NewSize(500, 500)},
	} {
		if got := c.in.Portrait(); got != c.want {
			t.Fatalf("%v.Portrait() = %v want %v", c.in, got, c.want)
		}
	}
}

func TestClampedRectLandscapeNormalized(t *testing.T) {
	got := ClampedRect(NewSize(800, 400), 1000, 200)
	want := ClampedRect(NewSize(400, 800), 1000, 200)
	if got != want {
		t.Fatalf("landscape %v, portrait %v", got, want)
	}
	// Same frame as FramingRect, so both fit the portrait extent.
	bounds := image.Rect(0, 0, 400, 800)
	if !got.In(bounds) || !FramingRect(NewSize(800, 400), DefaultFramingFraction).In(bounds) {
		t.Fatalf("rects outside portrait extent: %v", got)
	}
}

func TestProjectToPreview(t *testing.T) {
	r := image.Rect(180, 600, 900, 1320)
	got := ProjectToPreview(r, NewSize(1280, 720), NewSize(1080, 1920))
	want := image.Rect(180*720/1080, 600*1280/1920, 900*720/1080, 1320*1280/1920)
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

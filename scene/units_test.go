package scene

import (
	"math"
	"strings"
	"testing"
)

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want Length
	}{
		{"40", Length{40, UnitNone}},
		{"-450.5", Length{-450.5, UnitNone}},
		{"40px", Length{40, UnitNone}},
		{"12pt", Length{12, UnitPT}},
		{"1.5x", Length{1.5, UnitFactor}},
		{" 3X ", Length{3, UnitFactor}},
	}
	for _, c := range cases {
		got, err := ParseLength(c.in)
		if err != nil || got != c.want {
			t.Fatalf("ParseLength(%q) = %+v, %v; want %+v", c.in, got, err, c.want)
		}
	}
	if _, err := ParseLength("abc"); err == nil {
		t.Fatalf("expected error for non-numeric length")
	}
}

func TestLengthCanvas(t *testing.T) {
	// 11 号字、两倍缩放：字高 22 个画布单位。
	if got := (Length{2, UnitFactor}).Canvas(11, 2); math.Abs(got-44) > 1e-9 {
		t.Fatalf("2x line height = %g, want 44", got)
	}
	if got := (Length{12, UnitPT}).Canvas(11, 2); got != 24 {
		t.Fatalf("12pt = %g, want 24", got)
	}
	if got := (Length{40, UnitNone}).Canvas(11, 2); got != 40 {
		t.Fatalf("40 = %g, want 40", got)
	}
}

func TestTextExtentsWithUnits(t *testing.T) {
	src := `scene A v1 {
  resources {
    font Body { family: "SimHei" size: 10pt }
  }
  canvas 100 100 zoom 2 {
    text Body at 0 0 width 200pt line-height 1.5x { "x" }
  }
}`
	s, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	it := s.Items[0]
	if it.Font.Size != 10 || it.Width != 400 || it.LineHeight != 30 {
		t.Fatalf("unexpected extents: size=%g width=%g line-height=%g", it.Font.Size, it.Width, it.LineHeight)
	}

	bad := `scene A v1 {
  canvas 100 100 {
    text at 0 0 width 2x { "x" }
  }
}`
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Fatalf("factor width should be rejected")
	}
}

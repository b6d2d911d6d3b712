package turtle

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const eps = 1e-6

func near(a, b Vec) bool { return a.Dist(b) < eps }

func TestForwardDrawsOnlyWhenDown(t *testing.T) {
	d := NewDrawing()
	p := NewPen(d, nil)
	p.Forward(10)
	p.PenUp()
	p.Forward(10)
	ops := d.Ops()
	if len(ops) != 1 {
		t.Fatalf("expected 1 stroke, got %d", len(ops))
	}
	if !near(ops[0].Points[1], Vec{X: 10}) {
		t.Fatalf("unexpected stroke end %v", ops[0].Points[1])
	}
	if !near(p.Position(), Vec{X: 20}) {
		t.Fatalf("unexpected position %v", p.Position())
	}
}

func TestHeadingNormalized(t *testing.T) {
	p := NewPen(nil, nil)
	p.Right(90)
	if p.Heading() != 270 {
		t.Fatalf("expected heading 270, got %g", p.Heading())
	}
	p.Left(450)
	if math.Abs(p.Heading()-0) > eps && math.Abs(p.Heading()-360) > eps {
		t.Fatalf("expected heading 0, got %g", p.Heading())
	}
}

func TestCircleSemicircle(t *testing.T) {
	p := NewPen(nil, nil)
	p.Circle(10, 180)
	if got := p.Position(); got.Dist(Vec{Y: 20}) > 1e-3 {
		t.Fatalf("positive radius semicircle should end at (0,20), got %v", got)
	}
	if math.Abs(p.Heading()-180) > 1e-6 {
		t.Fatalf("heading after semicircle = %g, want 180", p.Heading())
	}

	q := NewPen(nil, nil)
	q.SetHeading(90)
	q.Circle(-24, 180)
	if got := q.Position(); got.Dist(Vec{X: 48}) > 1e-3 {
		t.Fatalf("negative radius semicircle should end at (48,0), got %v", got)
	}
}

func TestFillReservedBeneathLaterStrokes(t *testing.T) {
	d := NewDrawing()
	p := NewPen(d, nil)
	p.SetFillColor(MustColor("#46BFC7"))
	p.BeginFill()
	for i := 0; i < 4; i++ {
		p.Forward(10)
		p.Left(90)
	}
	p.EndFill()
	ops := d.Ops()
	if len(ops) != 2 {
		t.Fatalf("expected fill + stroke, got %d ops", len(ops))
	}
	if ops[0].Kind != OpFill || ops[1].Kind != OpStroke {
		t.Fatalf("unexpected op order: %v then %v", ops[0].Kind, ops[1].Kind)
	}
	if len(ops[0].Points) != 5 {
		t.Fatalf("fill polygon should carry 5 points, got %d", len(ops[0].Points))
	}
}

func TestStateRestoreLeavesNoTrace(t *testing.T) {
	d := NewDrawing()
	p := NewPen(d, nil)
	p.Goto(3, 4)
	p.SetHeading(45)
	s := p.State()

	p.SetPenColor(Gray)
	p.Forward(100)
	p.Hide()
	p.PenUp()
	before := d.Len()
	p.Restore(s)
	if d.Len() != before {
		t.Fatalf("restore must not draw")
	}
	if p.State() != s {
		t.Fatalf("state mismatch after restore: %+v vs %+v", p.State(), s)
	}
}

func TestWriteMoveAdvancesByWidth(t *testing.T) {
	d := NewDrawing()
	p := NewPen(d, CellMeasurer{})
	p.PenUp()
	w := p.Write("ab骑", Font{Family: "SimHei", Size: 10}, AlignLeft, true)
	if w != 20 {
		t.Fatalf("expected width 20, got %g", w)
	}
	if p.X() != 20 {
		t.Fatalf("expected cursor at 20, got %g", p.X())
	}
	ops := d.Ops()
	if len(ops) != 1 || ops[0].Kind != OpText {
		t.Fatalf("expected exactly one text op, got %+v", ops)
	}
}

func TestClearKeepsShapes(t *testing.T) {
	d := NewDrawing()
	if err := d.AddShape("dot", newTestImage()); err != nil {
		t.Fatalf("AddShape: %v", err)
	}
	if err := d.Stamp("dot", Vec{}); err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	d.Clear()
	if len(d.Ops()) != 0 || d.Clears() != 1 {
		t.Fatalf("clear should empty the list and count once")
	}
	if _, ok := d.Shape("dot"); !ok {
		t.Fatalf("shape registry must survive clear")
	}
	if err := d.Stamp("missing", Vec{}); err == nil {
		t.Fatalf("stamping an unregistered shape should fail")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string][4]uint8{
		"#46BFC7": {0x46, 0xbf, 0xc7, 0xff},
		"#fff":    {255, 255, 255, 255},
		"red":     {255, 0, 0, 255},
		"Orange":  {255, 165, 0, 255},
	}
	for in, want := range cases {
		c, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got := [4]uint8{c.R, c.G, c.B, c.A}; got != want {
			t.Fatalf("ParseColor(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("expected error for short hex")
	}
	if _, err := ParseColor("not-a-colour"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestWriteDebugJSON(t *testing.T) {
	d := NewDrawing()
	p := NewPen(d, nil)
	p.Forward(5)
	path := filepath.Join(t.TempDir(), "drawing.json")
	if err := WriteDebugJSON(d, path); err != nil {
		t.Fatalf("WriteDebugJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"kind": "stroke"`) {
		t.Fatalf("debug JSON should name op kinds, got %s", data)
	}
}

func newTestImage() image.Image { return image.NewRGBA(image.Rect(0, 0, 2, 2)) }

package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/lingnan/turtle"
)

func TestDefaultScene(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if s.Name != "Lingnan" || s.Title == "" {
		t.Fatalf("unexpected meta: name=%q title=%q", s.Name, s.Title)
	}
	if strings.Join(s.Keywords, ",") != "骑楼,醒狮,粤语" {
		t.Fatalf("unexpected keywords %v", s.Keywords)
	}
	if fb := s.Fonts["Body"].Fallbacks; len(fb) != 2 || fb[0] != "Microsoft YaHei" {
		t.Fatalf("unexpected Body fallbacks %v", fb)
	}
	if c := s.Colors["Window"]; c != turtle.MustColor("#46BFC7") {
		t.Fatalf("six-digit colour resource = %v", c)
	}
	if s.Width != 1800 || s.Height != 1000 || s.Zoom != 2 {
		t.Fatalf("unexpected canvas %gx%g zoom %g", s.Width, s.Height, s.Zoom)
	}
	q := s.Qilou
	if q == nil {
		t.Fatalf("expected a qilou statement")
	}
	if q.Origin != (turtle.Vec{X: -800, Y: -300}) || q.Columns != 3 || q.Floors != 2 {
		t.Fatalf("unexpected qilou %+v", q)
	}
	if q.Label != "岭南骑楼" || q.LabelFont.Family != "LiSu" {
		t.Fatalf("unexpected label %q in %+v", q.Label, q.LabelFont)
	}
	want := Rect{Min: turtle.Vec{X: -840, Y: -310}, Max: turtle.Vec{X: -250, Y: 150}}
	if q.Hotspot != want {
		t.Fatalf("hotspot = %+v, want %+v", q.Hotspot, want)
	}
	if q.WindowColor != turtle.MustColor("#46BFC7") {
		t.Fatalf("window colour not resolved from resources: %v", q.WindowColor)
	}

	kinds := make([]ItemKind, 0, len(s.Items))
	for _, it := range s.Items {
		kinds = append(kinds, it.Kind)
	}
	got := make([]string, len(kinds))
	for i, k := range kinds {
		got[i] = string(k)
	}
	if strings.Join(got, ",") != "qilou,label,text,image,text,text,text,label" {
		t.Fatalf("unexpected item order %v", got)
	}
	notice := s.Items[len(s.Items)-1]
	if notice.Align != turtle.AlignCenter || !notice.Move || notice.Color != turtle.Gray {
		t.Fatalf("unexpected notice item %+v", notice)
	}
	if body := s.Items[2]; body.Width != 500 || body.LineHeight != 40 || body.Font.Size != 11 {
		t.Fatalf("unexpected body text item %+v", body)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"missing canvas": `scene A v1 { meta { title: "x" } }`,
		"unknown font": `scene A v1 {
  canvas 100 100 {
    text Missing at 0 0 { "x" }
  }
}`,
		"unknown image": `scene A v1 {
  canvas 100 100 {
    image Lion at 0 0
  }
}`,
		"bad floors": `scene A v1 {
  canvas 100 100 {
    qilou at 0 0 floors 1
  }
}`,
		"unknown argument": `scene A v1 {
  canvas 100 100 {
    qilou at 0 0 towers 3
  }
}`,
		"missing value": `scene A v1 {
  canvas 100 100 {
    qilou at 0
  }
}`,
		"bad zoom": `scene A v1 {
  canvas 100 100 zoom 0 { }
}`,
	}
	for name, src := range cases {
		if _, err := Load(strings.NewReader(src)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadBadFloorsIsValidationError(t *testing.T) {
	src := `scene A v1 {
  canvas 100 100 {
    qilou at 0 0 floors 1
  }
}`
	_, err := Load(strings.NewReader(src))
	if !errors.Is(err, ErrInvalidFloors) {
		t.Fatalf("expected ErrInvalidFloors, got %v", err)
	}
}

func TestParseColumnsAndFloors(t *testing.T) {
	cols := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true}, {" 4 ", 4, true}, {"0", 0, false}, {"-2", 0, false}, {"abc", 0, false}, {"", 0, false}, {"2.5", 0, false},
	}
	for _, c := range cols {
		n, err := ParseColumns(c.in)
		if c.ok && (err != nil || n != c.want) {
			t.Fatalf("ParseColumns(%q) = %d, %v", c.in, n, err)
		}
		if !c.ok && !errors.Is(err, ErrInvalidColumns) {
			t.Fatalf("ParseColumns(%q) expected ErrInvalidColumns, got %v", c.in, err)
		}
	}
	// 列数允许 1，层数必须大于 1。
	if _, err := ParseFloors("1"); !errors.Is(err, ErrInvalidFloors) {
		t.Fatalf("ParseFloors(1) expected ErrInvalidFloors, got %v", err)
	}
	if n, err := ParseFloors("2"); err != nil || n != 2 {
		t.Fatalf("ParseFloors(2) = %d, %v", n, err)
	}
}

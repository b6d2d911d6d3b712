package fonts

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"
)

func TestResolveFallsBackToGoFonts(t *testing.T) {
	c := NewCatalog(Options{})
	fam, style, err := c.Resolve("SimHei", "italic")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if style != canvas.FontItalic {
		t.Fatalf("expected italic style, got %v", style)
	}
	face := fam.Face(12, canvas.Black, style, canvas.FontNormal)
	if w := face.TextWidth("Lingnan"); w <= 0 {
		t.Fatalf("expected positive text width, got %g", w)
	}

	again, _, err := c.Resolve("SimHei", "italic")
	if err != nil || again != fam {
		t.Fatalf("second resolve should hit the cache")
	}
	other, _, _ := c.Resolve("LiSu", "normal")
	if other != fam {
		t.Fatalf("all fallbacks should share the embedded family")
	}
}

func TestRegisterTakesPriority(t *testing.T) {
	c := NewCatalog(Options{})
	fallback, _, _ := c.Resolve("Body", "")

	data, err := Load("embed:gobold.ttf")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Register("Body", data); err != nil {
		t.Fatalf("register: %v", err)
	}
	fam, style, err := c.Resolve("body", "bold")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fam == fallback {
		t.Fatalf("registered font should replace the cached fallback")
	}
	if style != canvas.FontRegular {
		t.Fatalf("registered fonts load as regular, got %v", style)
	}
	if err := c.Register("", data); err == nil {
		t.Fatalf("expected error for empty family")
	}
}

func TestFilesOptionReportsMissingFile(t *testing.T) {
	c := NewCatalog(Options{Files: map[string]string{"Body": "does/not/exist.ttf"}})
	if _, _, err := c.Resolve("Body", ""); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"goregular", "embed:gobolditalic", "GoItalic.ttf"} {
		if data, err := Load(name); err != nil || len(data) == 0 {
			t.Fatalf("Load(%q): %v", name, err)
		}
	}
	if _, err := Load("embed:Inter-Regular.ttf"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
}

func TestParseStyle(t *testing.T) {
	cases := map[string]canvas.FontStyle{
		"":            canvas.FontRegular,
		"normal":      canvas.FontRegular,
		"bold":        canvas.FontBold,
		"italic":      canvas.FontItalic,
		"bold italic": canvas.FontBold | canvas.FontItalic,
	}
	for in, want := range cases {
		if got := ParseStyle(in); got != want {
			t.Fatalf("ParseStyle(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGoFontFallbackWarnsOncePerFamily(t *testing.T) {
	var buf bytes.Buffer
	c := NewCatalog(Options{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	for _, req := range [][2]string{{"SimHei", "normal"}, {"SimHei", "bold"}, {"simhei", "italic"}, {"LiSu", ""}} {
		if _, _, err := c.Resolve(req[0], req[1]); err != nil {
			t.Fatalf("resolve %v: %v", req, err)
		}
	}
	if n := strings.Count(buf.String(), "level=WARN"); n != 2 {
		t.Fatalf("expected one warning per family, got %d:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "family=SimHei") || !strings.Contains(buf.String(), "family=LiSu") {
		t.Fatalf("warnings should name the family:\n%s", buf.String())
	}
}

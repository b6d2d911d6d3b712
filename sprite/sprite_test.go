package sprite

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ByLCY/lingnan/turtle"
)

func pngAsset(t *testing.T, name string, w, h int) Asset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return Asset{Name: name, Base64: base64.StdEncoding.EncodeToString(buf.Bytes())}
}

func TestDecodeEmbeddedLionDance(t *testing.T) {
	a, err := Lookup(LionDance)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	img, err := Decode(a)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("empty image bounds %v", img.Bounds())
	}
}

func TestLookupAcceptsBareName(t *testing.T) {
	a, err := Lookup("liondance.gif")
	if err != nil || a.Name != LionDance {
		t.Fatalf("Lookup(bare) = %q, %v", a.Name, err)
	}
	if _, err := Lookup("embed:missing.png"); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("expected ErrUnknownAsset, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"bad base64":   "%%%not-base64%%%",
		"not an image": base64.StdEncoding.EncodeToString([]byte("hello qilou")),
		"truncated":    base64.StdEncoding.EncodeToString([]byte("GIF89a\x01")),
		"empty":        "",
	}
	for name, data := range cases {
		if _, err := Decode(Asset{Name: name, Base64: data}); !errors.Is(err, ErrDecode) {
			t.Fatalf("%s: expected ErrDecode, got %v", name, err)
		}
	}
}

func TestShowStampsCentredOnce(t *testing.T) {
	d := turtle.NewDrawing()
	a := pngAsset(t, "embed:dot.png", 4, 6)
	pos := turtle.Vec{X: 200, Y: 230}

	s, err := Show(d, pos, a)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if s.Pos != pos || s.Bounds().Dx() != 4 || s.Bounds().Dy() != 6 {
		t.Fatalf("unexpected sprite %+v bounds %v", s, s.Bounds())
	}
	first, _ := d.Shape(a.Name)

	// 第二次使用不同的数据，已注册的图片保持不变。
	if _, err := Show(d, turtle.Vec{}, pngAsset(t, a.Name, 8, 8)); err != nil {
		t.Fatalf("show again: %v", err)
	}
	again, _ := d.Shape(a.Name)
	if again != first {
		t.Fatalf("shape should be registered once")
	}
	ops := d.Ops()
	if len(ops) != 2 || ops[0].Kind != turtle.OpStamp || ops[0].Points[0] != pos {
		t.Fatalf("unexpected ops %+v", ops)
	}
}

func TestShowFailsWithoutTouchingDrawing(t *testing.T) {
	d := turtle.NewDrawing()
	if _, err := Show(d, turtle.Vec{}, Asset{Name: "broken", Base64: "AAAA"}); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("failed show must not stamp")
	}
}

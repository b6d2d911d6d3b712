// Package sprite 负责把内嵌的 base64 图片解码并贴到画布上。
package sprite

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/lingnan/turtle"
)

// ErrDecode 表示图片数据无法解码为可显示的图像。
var ErrDecode = errors.New("sprite: decode failed")

// ErrUnknownAsset 表示引用了不存在的内嵌资源。
var ErrUnknownAsset = errors.New("sprite: unknown asset")

const embedPrefix = "embed:"

// LionDance 是内嵌醒狮动图的资源名。
const LionDance = embedPrefix + "liondance.gif"

//go:embed assets/liondance.gif.b64
var lionDanceB64 string

var builtin = map[string]string{
	LionDance: lionDanceB64,
}

// Asset 是一张待显示的图片：名称加上 base64 编码的数据。
type Asset struct {
	Name   string
	Base64 string
}

// Lookup 按 "embed:xxx" 形式的资源名查找内嵌图片。
func Lookup(src string) (Asset, error) {
	name := strings.TrimSpace(src)
	if !strings.HasPrefix(name, embedPrefix) {
		name = embedPrefix + name
	}
	data, ok := builtin[name]
	if !ok {
		return Asset{}, fmt.Errorf("%w: %s", ErrUnknownAsset, src)
	}
	return Asset{Name: name, Base64: data}, nil
}

// Sprite 是已贴到画布上的图片句柄。
type Sprite struct {
	Name  string
	Pos   turtle.Vec
	Image image.Image
}

// Bounds 返回图片尺寸（像素）。
func (s *Sprite) Bounds() image.Rectangle { return s.Image.Bounds() }

var signatures = []struct {
	format string
	magic  []byte
}{
	{"gif", []byte("GIF87a")},
	{"gif", []byte("GIF89a")},
	{"png", []byte("\x89PNG\r\n\x1a\n")},
	{"jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"bmp", []byte("BM")},
}

func sniff(b []byte) string {
	for _, s := range signatures {
		if bytes.HasPrefix(b, s.magic) {
			return s.format
		}
	}
	if len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP" {
		return "webp"
	}
	return ""
}

// Decode 解码 base64 数据并校验图片签名，任何失败都包装为 ErrDecode。
func Decode(a Asset) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(a.Base64), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: base64: %v", ErrDecode, a.Name, err)
	}
	if sniff(raw) == "" {
		return nil, fmt.Errorf("%w: %s: 不支持的图片格式", ErrDecode, a.Name)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, a.Name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s: 空白的 %s 图片", ErrDecode, a.Name, format)
	}
	return img, nil
}

// Show 解码 a 并以 pos 为中心贴到画布上。同名图片只注册一次。
func Show(d *turtle.Drawing, pos turtle.Vec, a Asset) (*Sprite, error) {
	img, ok := d.Shape(a.Name)
	if !ok {
		decoded, err := Decode(a)
		if err != nil {
			return nil, err
		}
		if err := d.AddShape(a.Name, decoded); err != nil {
			return nil, err
		}
		img = decoded
	}
	if err := d.Stamp(a.Name, pos); err != nil {
		return nil, err
	}
	return &Sprite{Name: a.Name, Pos: pos, Image: img}, nil
}

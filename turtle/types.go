package turtle

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// 坐标约定：原点位于画布中心，y 轴向上，朝向以度为单位、自正东方向逆时针增长。

// Vec 表示画布上的一个点。
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add 返回两个向量之和。
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub 返回两个向量之差。
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// Dist 返回到另一点的距离。
func (v Vec) Dist(o Vec) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

func (v Vec) String() string { return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y) }

// Font 描述文本字体，Size 以磅为单位，由渲染器结合缩放系数换算为画布单位。
type Font struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Style  string  `json:"style,omitempty"` // normal/bold/italic/bold italic
}

// Align 文本相对落笔点的水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign 解析 left/center/right，未知值按 left 处理。
func ParseAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

// Common colours used throughout the scene.
var (
	Black = color.RGBA{0, 0, 0, 255}
	White = color.RGBA{255, 255, 255, 255}
	Gray  = colornames.Gray
)

// ParseColor 支持 #rgb、#rrggbb、#rrggbbaa 以及 SVG 颜色名（gray、orange 等）。
func ParseColor(value string) (color.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return color.RGBA{}, fmt.Errorf("颜色值为空")
	}
	if !strings.HasPrefix(v, "#") {
		if c, ok := colornames.Map[v]; ok {
			return c, nil
		}
		return color.RGBA{}, fmt.Errorf("未知颜色名 %s", value)
	}
	hex := v[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return color.RGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

// MustColor is ParseColor for compile-time constants.
func MustColor(value string) color.RGBA {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

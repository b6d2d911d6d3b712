package turtle

import (
	"golang.org/x/text/width"
)

// Measurer 测量文本在某字体下的水平步进宽度（画布单位）。
// 渲染器实现它以保证排版宽度与最终输出逐字一致。
type Measurer interface {
	TextWidth(text string, font Font) float64
}

// CellMeasurer 是不依赖字形文件的确定性测量：半角字符占 Narrow×Size，
// 全角/宽字符（CJK、全角标点）占 Wide×Size。零值使用 0.5 与 1.0。
type CellMeasurer struct {
	Narrow float64
	Wide   float64
	Zoom   float64
}

// TextWidth 实现 Measurer。
func (m CellMeasurer) TextWidth(text string, font Font) float64 {
	narrow, wide, zoom := m.Narrow, m.Wide, m.Zoom
	if narrow <= 0 {
		narrow = 0.5
	}
	if wide <= 0 {
		wide = 1
	}
	if zoom <= 0 {
		zoom = 1
	}
	size := font.Size * zoom
	total := 0.0
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += wide * size
		default:
			total += narrow * size
		}
	}
	return total
}

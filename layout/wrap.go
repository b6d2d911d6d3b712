package layout

import "strings"

// Glyph 是一行中的单个字符及其相对行首的水平偏移。
type Glyph struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
}

// Line 表示排版后的一行；Width 为该行字形宽度之和。
type Line struct {
	Glyphs []Glyph `json:"glyphs"`
	Width  float64 `json:"width"`
}

// Content 返回该行拼接后的文本。
func (l Line) Content() string {
	var b strings.Builder
	for _, g := range l.Glyphs {
		b.WriteString(g.Text)
	}
	return b.String()
}

// Wrap 按字符贪心换行：逐字测量宽度，若加入当前字符会使行宽超过 maxWidth
// 则先换行。显式 '\n' 总是强制换行；单个字符本身超过 maxWidth 时独占一行。
// '\r' 被忽略，空字符串返回 nil。
func Wrap(text string, maxWidth float64, measure func(string) float64) []Line {
	if text == "" {
		return nil
	}
	lines := []Line{{}}
	cur := &lines[0]
	newline := func() {
		lines = append(lines, Line{})
		cur = &lines[len(lines)-1]
	}
	for _, r := range text {
		switch r {
		case '\r':
			continue
		case '\n':
			newline()
			continue
		}
		ch := string(r)
		w := measure(ch)
		if len(cur.Glyphs) > 0 && cur.Width+w > maxWidth {
			newline()
		}
		cur.Glyphs = append(cur.Glyphs, Glyph{Text: ch, X: cur.Width, Width: w})
		cur.Width += w
	}
	return lines
}

package layout

import (
	"image/color"

	"github.com/ByLCY/lingnan/turtle"
)

// Options 控制一次文本输出的字体、行高、最大行宽与颜色。
type Options struct {
	Font       turtle.Font
	LineHeight float64
	MaxWidth   float64
	Color      color.Color
}

// DefaultOptions 返回默认排版参数：黑体 12 号、行高 30、行宽 500、黑色。
func DefaultOptions() Options {
	return Options{
		Font:       turtle.Font{Family: "SimHei", Size: 12, Style: "normal"},
		LineHeight: 30,
		MaxWidth:   500,
		Color:      turtle.Black,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Font.Family == "" {
		o.Font.Family = def.Font.Family
	}
	if o.Font.Size <= 0 {
		o.Font.Size = def.Font.Size
	}
	if o.LineHeight <= 0 {
		o.LineHeight = def.LineHeight
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = def.MaxWidth
	}
	if o.Color == nil {
		o.Color = def.Color
	}
	return o
}

// Writer 在画笔当前位置输出自动换行的文本。
type Writer struct {
	pen *turtle.Pen
}

// NewWriter 创建绑定到 pen 的 Writer。
func NewWriter(pen *turtle.Pen) *Writer { return &Writer{pen: pen} }

// Write 从光标位置开始逐字输出 text，第 i 行位于起点下方 i*LineHeight 处。
// 结束后画笔的位置、朝向、颜色、落笔状态与可见性恢复为调用前的值。
// 返回排版得到的行，便于调用方计算占用高度。
func (w *Writer) Write(text string, opts Options) []Line {
	opts = opts.withDefaults()
	saved := w.pen.State()
	defer w.pen.Restore(saved)

	lines := Wrap(text, opts.MaxWidth, func(ch string) float64 {
		return w.pen.Measure(ch, opts.Font)
	})
	if len(lines) == 0 {
		return nil
	}

	w.pen.SetPenColor(opts.Color)
	w.pen.Hide()
	w.pen.PenUp()
	origin := saved.Pos
	for i, line := range lines {
		y := origin.Y - float64(i)*opts.LineHeight
		for _, g := range line.Glyphs {
			w.pen.Goto(origin.X+g.X, y)
			w.pen.Write(g.Text, opts.Font, turtle.AlignLeft, false)
		}
	}
	return lines
}

package turtle

import (
	"image/color"
	"math"
)

// Pen 是绘图光标：位置、朝向、落笔状态、线色、填充色、线宽与可见性。
// 一个 Pen 只属于一个调用方，所有绘制操作都会读取并修改它。
type Pen struct {
	drawing  *Drawing
	measurer Measurer

	pos       Vec
	heading   float64
	down      bool
	penColor  color.RGBA
	fillColor color.RGBA
	width     float64
	visible   bool

	filling  bool
	fillSlot int
	fillPath []Vec
}

// State 是画笔状态快照，供文本排版在结束时原样恢复。
type State struct {
	Pos     Vec
	Heading float64
	Color   color.RGBA
	Down    bool
	Visible bool
}

// NewPen 创建位于原点、朝向正东、落笔、黑色、线宽 1 的画笔。
// measurer 为空时使用 CellMeasurer。
func NewPen(d *Drawing, m Measurer) *Pen {
	if d == nil {
		d = NewDrawing()
	}
	if m == nil {
		m = CellMeasurer{}
	}
	return &Pen{
		drawing:   d,
		measurer:  m,
		down:      true,
		penColor:  Black,
		fillColor: White,
		width:     1,
		visible:   true,
		fillSlot:  -1,
	}
}

// Drawing 返回画笔所在的画布。
func (p *Pen) Drawing() *Drawing { return p.drawing }

func (p *Pen) Position() Vec { return p.pos }
func (p *Pen) X() float64 { return p.pos.X }
func (p *Pen) Y() float64 { return p.pos.Y }
func (p *Pen) Heading() float64 { return p.heading }
func (p *Pen) IsDown() bool { return p.down }
func (p *Pen) IsVisible() bool { return p.visible }
func (p *Pen) PenColor() color.RGBA { return p.penColor }
func (p *Pen) FillColor() color.RGBA { return p.fillColor }
func (p *Pen) Width() float64 { return p.width }

func (p *Pen) PenUp() { p.down = false }
func (p *Pen) PenDown() { p.down = true }
func (p *Pen) Show() { p.visible = true }
func (p *Pen) Hide() { p.visible = false }

func (p *Pen) SetPenColor(c color.Color) { p.penColor = toRGBA(c) }
func (p *Pen) SetFillColor(c color.Color) { p.fillColor = toRGBA(c) }

// SetWidth 设置线宽，非正值按 1 处理。
func (p *Pen) SetWidth(w float64) {
	if w <= 0 {
		w = 1
	}
	p.width = w
}

func (p *Pen) SetHeading(h float64) { p.heading = normalizeHeading(h) }
func (p *Pen) Left(deg float64) { p.SetHeading(p.heading + deg) }
func (p *Pen) Right(deg float64) { p.SetHeading(p.heading - deg) }

// Forward 沿当前朝向前进，落笔时留下线段。
func (p *Pen) Forward(dist float64) {
	rad := p.heading * math.Pi / 180
	p.moveTo(Vec{X: p.pos.X + dist*math.Cos(rad), Y: p.pos.Y + dist*math.Sin(rad)})
}

// Backward 沿当前朝向后退。
func (p *Pen) Backward(dist float64) { p.Forward(-dist) }

// Goto 移动到绝对坐标，落笔时留下线段。
func (p *Pen) Goto(x, y float64) { p.moveTo(Vec{X: x, Y: y}) }

// GotoVec 同 Goto。
func (p *Pen) GotoVec(v Vec) { p.moveTo(v) }

// Home 抬笔回到原点并朝向正东。
func (p *Pen) Home() {
	down := p.down
	p.down = false
	p.moveTo(Vec{})
	p.down = down
	p.heading = 0
}

func (p *Pen) moveTo(to Vec) {
	if p.down && to != p.pos {
		p.drawing.stroke(p.pos, to, p.penColor, p.width)
	}
	if p.filling {
		p.fillPath = append(p.fillPath, to)
	}
	p.pos = to
}

// Circle 以 radius 为半径画弧，radius 为正时圆心在左侧（逆时针），
// extent 为弧度数（单位：度）。弧线按步进折线近似，结束时朝向旋转 extent。
func (p *Pen) Circle(radius, extent float64) {
	frac := math.Abs(extent) / 360
	steps := 1 + int(math.Min(11+math.Abs(radius)/6, 59)*frac)
	w := extent / float64(steps)
	w2 := w / 2
	l := 2 * radius * math.Sin(w2*math.Pi/180)
	if radius < 0 {
		l, w, w2 = -l, -w, -w2
	}
	p.Left(w2)
	for i := 0; i < steps; i++ {
		p.Forward(l)
		p.Left(w)
	}
	p.Left(-w2)
}

// BeginFill 开始记录填充轮廓。填充多边形在此刻占位，之后绘制的线条叠在其上方。
func (p *Pen) BeginFill() {
	p.filling = true
	p.fillPath = []Vec{p.pos}
	p.fillSlot = p.drawing.reserveFill()
}

// EndFill 以当前填充色闭合并填充自 BeginFill 以来经过的轮廓。
func (p *Pen) EndFill() {
	if !p.filling {
		return
	}
	if len(p.fillPath) > 2 {
		pts := make([]Vec, len(p.fillPath))
		copy(pts, p.fillPath)
		p.drawing.fill(p.fillSlot, pts, p.fillColor)
	}
	p.filling = false
	p.fillPath = nil
	p.fillSlot = -1
}

// Filling 报告是否处于填充记录中。
func (p *Pen) Filling() bool { return p.filling }

// Measure 返回文本在给定字体下的水平步进宽度，不产生任何绘制痕迹。
func (p *Pen) Measure(text string, font Font) float64 {
	if text == "" {
		return 0
	}
	return p.measurer.TextWidth(text, font)
}

// Write 以当前线色在落笔点书写文本并返回文本宽度。
// move 为 true 时光标移动到文本末端（落笔状态下会留下线段）。
func (p *Pen) Write(text string, font Font, align Align, move bool) float64 {
	width := p.Measure(text, font)
	p.drawing.text(p.pos, text, font, align, p.penColor)
	if move {
		end := p.pos.X
		switch align {
		case AlignLeft:
			end += width
		case AlignCenter:
			end += width / 2
		}
		p.moveTo(Vec{X: end, Y: p.pos.Y})
	}
	return width
}

// State 记录当前画笔状态。
func (p *Pen) State() State {
	return State{Pos: p.pos, Heading: p.heading, Color: p.penColor, Down: p.down, Visible: p.visible}
}

// Restore 恢复 State 记录的状态，不留下任何绘制痕迹。
func (p *Pen) Restore(s State) {
	p.pos = s.Pos
	p.heading = s.Heading
	p.penColor = s.Color
	p.down = s.Down
	p.visible = s.Visible
}

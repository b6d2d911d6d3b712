// Package qilou 绘制岭南骑楼立面：柱廊、窗户、栏杆与屋顶按网格逐格组合。
//
// 每个单元格占 180 宽、190 高。列为外层循环、层为内层循环，
// 每一格的起点都由网格起点加固定偏移得到，不依赖上一格结束时的光标位置。
package qilou

import (
	"fmt"
	"image/color"

	"github.com/ByLCY/lingnan/shape"
	"github.com/ByLCY/lingnan/turtle"
)

// 单元格尺寸。
const (
	BayWidth    = 180.0
	FloorHeight = 190.0
	Lintel      = 165.0
	ArchA       = 82.5
	ArchB       = 45.0
	RidgeStep   = 40.0
	RidgeAngle  = 80.0
)

// RoofKind 表示单元格顶部的屋顶样式。
type RoofKind int

const (
	RoofNone  RoofKind = iota // 非顶层
	RoofRidge                 // 锯齿瓦脊
	RoofLabel                 // 居中牌匾
)

func (k RoofKind) String() string {
	switch k {
	case RoofRidge:
		return "ridge"
	case RoofLabel:
		return "label"
	default:
		return "none"
	}
}

// Unit 是网格中的一个单元格。
type Unit struct {
	Column  int
	Floor   int
	Offset  turtle.Vec // 相对网格起点
	Extra   bool       // 首列首层加宽的柱子
	Windows bool       // 非地面层才有窗户和栏杆
	Roof    RoofKind
}

// Plan 返回 columns×floors 网格的绘制顺序，不做参数校验。
func Plan(columns, floors int) []Unit {
	units := make([]Unit, 0, max(columns*floors, 0))
	for c := 0; c < columns; c++ {
		for f := 0; f < floors; f++ {
			u := Unit{
				Column:  c,
				Floor:   f,
				Offset:  turtle.Vec{X: float64(c) * BayWidth, Y: float64(f) * FloorHeight},
				Extra:   c == 0 && f == 0,
				Windows: f != 0,
			}
			if f == floors-1 {
				u.Roof = RoofRidge
				if c == columns/2 {
					u.Roof = RoofLabel
				}
			}
			units = append(units, u)
		}
	}
	return units
}

// Options 控制骑楼的配色与牌匾文字。
type Options struct {
	Label        string
	LabelFont    turtle.Font
	WindowColor  color.Color
	RidgeColor   color.Color
	RailingColor color.Color
}

// DefaultOptions 返回默认配色：青色窗户、红色牌匾、灰色栏杆。
func DefaultOptions() Options {
	return Options{
		Label:        "岭南骑楼",
		LabelFont:    turtle.Font{Family: "LiSu", Size: 12, Style: "normal"},
		WindowColor:  turtle.MustColor("#46BFC7"),
		RidgeColor:   turtle.MustColor("red"),
		RailingColor: turtle.Gray,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Label == "" {
		o.Label = def.Label
	}
	if o.LabelFont.Family == "" {
		o.LabelFont.Family = def.LabelFont.Family
	}
	if o.LabelFont.Size <= 0 {
		o.LabelFont.Size = def.LabelFont.Size
	}
	if o.WindowColor == nil {
		o.WindowColor = def.WindowColor
	}
	if o.RidgeColor == nil {
		o.RidgeColor = def.RidgeColor
	}
	if o.RailingColor == nil {
		o.RailingColor = def.RailingColor
	}
	return o
}

// Composer 用一支画笔绘制骑楼。
type Composer struct {
	pen   *turtle.Pen
	shape *shape.Drawer
	opts  Options
}

// New 创建绑定到 pen 的 Composer。
func New(pen *turtle.Pen, opts Options) *Composer {
	return &Composer{pen: pen, shape: shape.New(pen), opts: opts.withDefaults()}
}

// Options 返回生效的配置。
func (q *Composer) Options() Options { return q.opts }

// Draw 以当前光标位置为网格左下角绘制 columns 列 floors 层的骑楼。
// 结束时光标位于 (起点.X + columns*180, 起点.Y)。
func (q *Composer) Draw(columns, floors int) error {
	start := q.pen.Position()
	for _, u := range Plan(columns, floors) {
		origin := start.Add(u.Offset)
		q.pen.PenUp()
		q.pen.GotoVec(origin)
		if err := q.drawUnit(u); err != nil {
			return fmt.Errorf("第 %d 列第 %d 层: %w", u.Column+1, u.Floor+1, err)
		}
		q.pen.PenUp()
		q.pen.Goto(origin.X, origin.Y+FloorHeight)
		if u.Floor == floors-1 {
			q.pen.Goto(start.X+float64(u.Column+1)*BayWidth, start.Y)
		}
	}
	return nil
}

func (q *Composer) drawUnit(u Unit) error {
	origin, err := q.DrawPillars(u.Extra)
	if err != nil {
		return err
	}
	if u.Windows {
		q.pen.Goto(origin.X+25, origin.Y+100)
		if err := q.DrawWindow(true); err != nil {
			return err
		}
		q.pen.Goto(origin.X+95, origin.Y+115)
		if err := q.DrawWindow(false); err != nil {
			return err
		}
		q.pen.Goto(origin.X, origin.Y)
		q.DrawRailing()
	}
	if u.Roof != RoofNone {
		q.pen.Goto(origin.X-15, origin.Y+240)
		if err := q.DrawRoof(u.Roof); err != nil {
			return err
		}
	}
	return nil
}

// DrawPillars 在光标处画一对柱子、横梁与拱券，返回本格起点（调用时的光标位置），
// 后续的窗户、栏杆与屋顶都以它为参照。结束时光标抬起，位于拱券左端，即起点 + (0, 130)。
// extra 为 true 时左侧下柱加宽一倍。
func (q *Composer) DrawPillars(extra bool) (turtle.Vec, error) {
	s := q.pen.Position()
	q.singlePillar(extra)
	q.pen.Goto(s.X+BayWidth, s.Y)
	q.singlePillar(false)

	q.pen.Goto(s.X, s.Y+120+10+60)
	q.shape.Line(Lintel, 0, nil)

	q.pen.Goto(s.X, s.Y+120+10)
	q.pen.SetHeading(90)
	center := turtle.Vec{X: s.X + ArchA, Y: s.Y + 130}
	if err := q.shape.HalfEllipse(ArchA, ArchB, center, shape.Up); err != nil {
		return s, fmt.Errorf("拱券: %w", err)
	}
	q.pen.PenUp()
	return s, nil
}

func (q *Composer) singlePillar(extra bool) {
	s := q.pen.Position()
	q.pen.SetWidth(3)

	// 下柱
	q.pen.SetHeading(180)
	q.shape.Rect(15, 120, nil, nil)
	if extra {
		q.pen.Goto(s.X-15, s.Y)
		q.pen.SetHeading(180)
		q.shape.Rect(15, 120, nil, nil)
	}

	// 柱间短柱
	q.pen.Goto(s.X-20, s.Y+120)
	q.pen.SetHeading(90)
	q.shape.Rect(10, 25, nil, nil)

	// 上柱
	q.pen.Goto(s.X-15, s.Y+130)
	q.pen.SetHeading(90)
	q.shape.Rect(60, 15, nil, nil)
}

// DrawWindow 画一组窗户：四块填色方格、外框与拱形窗楣。
// 左窗的方格向上排列、右窗向下排列，两者的调用偏移相差 15 以对齐。
// 结束时光标抬起、朝向正东，位于窗楣底边右端：
// 左窗为起点 + (34, 25)，右窗为起点 + (34, 10)。
func (q *Composer) DrawWindow(left bool) error {
	s := q.pen.Position()
	q.pen.SetWidth(1)
	if left {
		q.pen.SetHeading(90)
	} else {
		q.pen.SetHeading(0)
	}

	const pane, gap = 15.0, 15 * 1.5
	for i, d := range []turtle.Vec{{}, {X: gap}, {X: -gap, Y: -gap}, {X: gap}} {
		if i > 0 {
			p := q.pen.Position()
			q.pen.Goto(p.X+d.X, p.Y+d.Y)
		}
		if err := q.shape.Polygon(pane, 4, nil, q.opts.WindowColor); err != nil {
			return fmt.Errorf("窗格: %w", err)
		}
	}

	q.pen.SetWidth(2)
	frame := turtle.Vec{X: s.X - 5, Y: s.Y + 5}
	lintel := turtle.Vec{X: s.X + 6, Y: s.Y + 10}
	if left {
		frame.Y, lintel.Y = s.Y+20, s.Y+25
	}
	q.pen.GotoVec(frame)
	q.pen.SetHeading(0)
	if err := q.shape.Polygon(48, 4, nil, nil); err != nil {
		return fmt.Errorf("窗框: %w", err)
	}

	q.pen.GotoVec(frame)
	q.pen.PenDown()
	q.pen.SetHeading(90)
	q.pen.Circle(-24, 180)
	q.pen.PenUp()

	q.pen.GotoVec(lintel)
	q.pen.SetFillColor(q.opts.WindowColor)
	q.pen.BeginFill()
	q.pen.PenDown()
	q.pen.SetHeading(90)
	q.pen.Circle(-14, 180)
	q.pen.PenUp()
	q.pen.GotoVec(lintel)
	q.pen.SetHeading(0)
	q.pen.PenDown()
	q.pen.Forward(28)
	q.pen.EndFill()
	q.pen.PenUp()
	q.pen.SetFillColor(turtle.White)
	return nil
}

// DrawRailing 画两条扶手与八组栏杆花纹，结束于起点左侧 15 处。
func (q *Composer) DrawRailing() {
	s := q.pen.Position()
	q.pen.SetHeading(0)
	q.pen.SetWidth(3)
	q.pen.PenDown()
	q.pen.Forward(Lintel)
	q.pen.PenUp()
	q.pen.Goto(s.X, s.Y+40)
	q.pen.PenDown()
	q.pen.Forward(Lintel)
	q.pen.PenUp()

	q.pen.SetWidth(1)
	q.pen.GotoVec(s)
	q.pen.SetHeading(0)
	for i := 0; i < 8; i++ {
		q.railingPattern()
	}
	q.pen.Goto(s.X-15, s.Y)
}

// 一组花纹宽 20：一对相背的半圆、一根竖杆与两道短横。
func (q *Composer) railingPattern() {
	s := q.pen.Position()
	q.pen.SetPenColor(q.opts.RailingColor)

	q.pen.PenDown()
	q.pen.Circle(10, 180)
	q.pen.SetHeading(0)
	q.pen.Circle(10, 180)
	q.pen.PenUp()

	q.pen.Goto(s.X+20, s.Y)
	q.pen.PenDown()
	q.pen.Circle(-10, 180)
	q.pen.SetHeading(180)
	q.pen.Circle(-10, 180)
	q.pen.PenUp()

	q.pen.Goto(s.X+20, s.Y)
	q.pen.SetHeading(90)
	q.pen.PenDown()
	q.pen.Forward(40)
	q.pen.PenUp()

	for _, d := range []turtle.Vec{{X: -10, Y: -10}, {X: -5, Y: -20}} {
		p := q.pen.Position()
		q.pen.Goto(p.X+d.X, p.Y+d.Y)
		q.pen.SetHeading(0)
		q.pen.Backward(5)
		q.pen.PenDown()
		q.pen.Forward(10)
		q.pen.PenUp()
	}

	q.pen.Goto(s.X+20, s.Y)
}

// DrawRoof 画屋顶：两侧角柱、上下檐线，以及牌匾或锯齿瓦脊。
func (q *Composer) DrawRoof(kind RoofKind) error {
	s := q.pen.Position()
	q.pen.SetHeading(0)
	q.pen.SetWidth(3)

	q.shape.Rect(15, 50, nil, nil)
	q.pen.Goto(s.X+BayWidth, s.Y)
	q.shape.Rect(15, 50, nil, nil)
	q.pen.Goto(s.X+15, s.Y-10)
	q.shape.Line(Lintel, 0, nil)
	border := q.pen.X()
	q.pen.Goto(q.pen.X(), q.pen.Y()-40)
	q.shape.Line(Lintel, 180, nil)

	switch kind {
	case RoofLabel:
		p := q.pen.Position()
		q.pen.Goto(p.X+5, p.Y+5)
		q.pen.SetHeading(90)
		q.shape.Rect(30, Lintel-10, nil, q.opts.RidgeColor)
		p = q.pen.Position()
		q.pen.Goto(p.X+ArchA, p.Y)
		q.pen.Write(q.opts.Label, q.opts.LabelFont, turtle.AlignCenter, false)
		q.pen.Goto(s.X+15, s.Y-10)
	case RoofRidge:
		q.pen.SetWidth(1)
		q.zigzag(border, RidgeAngle)
		q.pen.Goto(s.X+15, s.Y-10)
		q.zigzag(border, -RidgeAngle)
	default:
		return fmt.Errorf("%w: unexpected roof kind %v", shape.ErrInvalidArgument, kind)
	}
	return nil
}

// zigzag 从光标处交替以 ±angle 前进 RidgeStep，直到越过 border。
func (q *Composer) zigzag(border, angle float64) {
	q.pen.SetHeading(0)
	q.pen.PenDown()
	for q.pen.X() <= border {
		q.pen.SetHeading(angle)
		q.pen.Forward(RidgeStep)
		q.pen.SetHeading(-angle)
		q.pen.Forward(RidgeStep)
	}
	q.pen.PenUp()
}

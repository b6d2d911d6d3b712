// Package shape 提供基于画笔的基础图形：直线、正多边形、矩形与半椭圆。
// 所有操作结束时画笔处于抬笔状态；带填充的操作结束后填充色复位为白色。
package shape

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/ByLCY/lingnan/turtle"
)

// ErrInvalidArgument 表示几何参数不合法（例如未知的半椭圆方向）。
var ErrInvalidArgument = errors.New("shape: invalid argument")

// Direction 是半椭圆的开口方向。
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection 将 "up"/"down" 解析为 Direction。
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unexpected direction %q, should be 'up' or 'down'", ErrInvalidArgument, s)
	}
}

// Drawer 在给定画笔上绘制基础图形。
type Drawer struct {
	pen *turtle.Pen
}

// New 创建绑定到 pen 的 Drawer。
func New(pen *turtle.Pen) *Drawer { return &Drawer{pen: pen} }

// Pen 返回底层画笔。
func (d *Drawer) Pen() *turtle.Pen { return d.pen }

// Line 设置朝向后从当前位置画出 length 长的线段，结束时光标位于线段末端。
func (d *Drawer) Line(length, heading float64, stroke color.Color) {
	d.pen.SetPenColor(orBlack(stroke))
	d.pen.SetHeading(heading)
	d.pen.PenDown()
	d.pen.Forward(length)
	d.pen.PenUp()
}

// Polygon 从当前位置与朝向画正多边形，每条边后右转 360/sides 度。
// fill 为 nil 时不填充。结束时光标回到起点与起始朝向。
func (d *Drawer) Polygon(side float64, sides int, stroke, fill color.Color) error {
	if sides < 3 {
		return fmt.Errorf("%w: polygon needs at least 3 sides, got %d", ErrInvalidArgument, sides)
	}
	turn := 360 / float64(sides)
	d.filled(stroke, fill, func() {
		for i := 0; i < sides; i++ {
			d.pen.Forward(side)
			d.pen.Right(turn)
		}
	})
	return nil
}

// Rect 以两条边长交替前进两轮、每次右转 90 度，恰好回到起点。
func (d *Drawer) Rect(w, h float64, stroke, fill color.Color) {
	d.filled(stroke, fill, func() {
		for i := 0; i < 2; i++ {
			d.pen.Forward(w)
			d.pen.Right(90)
			d.pen.Forward(h)
			d.pen.Right(90)
		}
	})
}

// HalfEllipse 以 1 度步进采样参数方程 x=a·cosθ、y=b·sinθ 描出半个椭圆。
// Up 从右顶点出发（θ∈[0,180]），Down 从左顶点出发（θ∈[180,360]）。
func (d *Drawer) HalfEllipse(a, b float64, center turtle.Vec, dir Direction) error {
	var start int
	switch dir {
	case Up:
		start = 0
	case Down:
		start = 180
	default:
		return fmt.Errorf("%w: unexpected direction %q, should be 'up' or 'down'", ErrInvalidArgument, string(dir))
	}
	d.pen.PenUp()
	d.pen.GotoVec(ellipsePoint(a, b, center, start))
	d.pen.PenDown()
	for theta := start + 1; theta <= start+180; theta++ {
		d.pen.GotoVec(ellipsePoint(a, b, center, theta))
	}
	d.pen.PenUp()
	return nil
}

func ellipsePoint(a, b float64, center turtle.Vec, deg int) turtle.Vec {
	rad := float64(deg) * math.Pi / 180
	return turtle.Vec{X: center.X + a*math.Cos(rad), Y: center.Y + b*math.Sin(rad)}
}

func (d *Drawer) filled(stroke, fill color.Color, trace func()) {
	d.pen.SetPenColor(orBlack(stroke))
	d.pen.PenDown()
	if fill != nil {
		d.pen.SetFillColor(fill)
		d.pen.BeginFill()
	}
	trace()
	if fill != nil {
		d.pen.EndFill()
	}
	d.pen.PenUp()
	d.pen.SetFillColor(turtle.White)
}

func orBlack(c color.Color) color.Color {
	if c == nil {
		return turtle.Black
	}
	return c
}

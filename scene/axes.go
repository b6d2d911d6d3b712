package scene

import (
	"strconv"

	"github.com/ByLCY/lingnan/turtle"
)

var axisFont = turtle.Font{Family: "Times New Roman", Size: 8, Style: "normal"}

// DrawAxes 以灰色画出带箭头、刻度与数字标签的平面直角坐标系，用于调试定位。
// 画笔状态在结束后恢复。
func (a *Assembler) DrawAxes(length, tick, labelOffset float64) {
	pen := a.pen
	saved := pen.State()
	defer pen.Restore(saved)

	pen.SetPenColor(turtle.Gray)
	pen.SetWidth(1)

	axis := func(from turtle.Vec, heading float64, arrows [2]float64) {
		pen.PenUp()
		pen.GotoVec(from)
		pen.SetHeading(heading)
		pen.PenDown()
		pen.Forward(2 * length)
		for _, h := range arrows {
			pen.SetHeading(h)
			pen.Forward(10)
			pen.Backward(10)
		}
		pen.PenUp()
	}
	axis(turtle.Vec{X: -length}, 0, [2]float64{135, 225})
	axis(turtle.Vec{Y: -length}, 90, [2]float64{225, 315})

	for v := -length; v <= length; v += tick {
		if v == 0 {
			continue
		}
		label := strconv.FormatFloat(v, 'f', -1, 64)

		pen.Goto(v, 0)
		pen.SetHeading(90)
		pen.PenDown()
		pen.Forward(10)
		pen.Backward(20)
		pen.PenUp()
		pen.Goto(v, -labelOffset)
		pen.Write(label, axisFont, turtle.AlignCenter, false)

		pen.Goto(0, v)
		pen.SetHeading(0)
		pen.PenDown()
		pen.Forward(10)
		pen.Backward(20)
		pen.PenUp()
		pen.Goto(-labelOffset, v)
		pen.Write(label, axisFont, turtle.AlignRight, false)
	}

	italic := turtle.Font{Family: "Times New Roman", Size: 10, Style: "italic"}
	pen.Goto(length+labelOffset, 0)
	pen.Write("x", italic, turtle.AlignLeft, false)
	pen.Goto(0, length+labelOffset)
	pen.Write("y", italic, turtle.AlignLeft, false)
}

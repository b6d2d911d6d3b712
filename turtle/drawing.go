package turtle

import (
	"fmt"
	"image"
	"image/color"
)

// OpKind 区分显示列表中的绘制指令。
type OpKind int

const (
	OpStroke OpKind = iota // 线段
	OpFill                 // 填充多边形
	OpText                 // 文本
	OpStamp                // 贴图
)

func (k OpKind) String() string {
	switch k {
	case OpStroke:
		return "stroke"
	case OpFill:
		return "fill"
	case OpText:
		return "text"
	case OpStamp:
		return "stamp"
	default:
		return "unknown"
	}
}

// MarshalText keeps the debug JSON readable.
func (k OpKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Op 是一条已经确定坐标的绘制指令。
type Op struct {
	Kind   OpKind     `json:"kind"`
	Points []Vec      `json:"points,omitempty"`
	Color  color.RGBA `json:"color"`
	Width  float64    `json:"width,omitempty"`
	Text   string     `json:"text,omitempty"`
	Font   Font       `json:"font,omitempty"`
	Align  Align      `json:"align,omitempty"`
	Shape  string     `json:"shape,omitempty"`
}

// Drawing 是画笔的绘制表面：按顺序保存的显示列表与贴图注册表。
// 渲染器在绘制结束后一次性消费它。
type Drawing struct {
	ops    []Op
	shapes map[string]image.Image
	clears int
}

// NewDrawing 创建空白画布。
func NewDrawing() *Drawing {
	return &Drawing{shapes: map[string]image.Image{}}
}

// Ops 返回当前显示列表；未闭合的填充占位不会出现在结果中。
func (d *Drawing) Ops() []Op {
	out := make([]Op, 0, len(d.ops))
	for _, op := range d.ops {
		if op.Kind == OpFill && len(op.Points) == 0 {
			continue
		}
		out = append(out, op)
	}
	return out
}

// Len 返回显示列表长度（含填充占位）。
func (d *Drawing) Len() int { return len(d.ops) }

// Clear 清空显示列表，已注册的贴图保持可用。
func (d *Drawing) Clear() {
	d.ops = d.ops[:0]
	d.clears++
}

// Clears 返回 Clear 被调用的次数。
func (d *Drawing) Clears() int { return d.clears }

// AddShape 注册贴图，同名重复注册时保留首次注册的图片。
func (d *Drawing) AddShape(name string, img image.Image) error {
	if name == "" {
		return fmt.Errorf("贴图名称不能为空")
	}
	if img == nil {
		return fmt.Errorf("贴图 %s 为空", name)
	}
	if _, ok := d.shapes[name]; ok {
		return nil
	}
	d.shapes[name] = img
	return nil
}

// Shape 按名称查找已注册贴图。
func (d *Drawing) Shape(name string) (image.Image, bool) {
	img, ok := d.shapes[name]
	return img, ok
}

// Stamp 在 pos 处居中放置已注册的贴图。
func (d *Drawing) Stamp(name string, pos Vec) error {
	if _, ok := d.shapes[name]; !ok {
		return fmt.Errorf("贴图 %s 未注册", name)
	}
	d.ops = append(d.ops, Op{Kind: OpStamp, Points: []Vec{pos}, Shape: name})
	return nil
}

func (d *Drawing) stroke(from, to Vec, c color.RGBA, width float64) {
	// 与上一段同色同宽且首尾相接时合并成折线，减少输出体积。
	if n := len(d.ops); n > 0 {
		last := &d.ops[n-1]
		if last.Kind == OpStroke && last.Color == c && last.Width == width &&
			last.Points[len(last.Points)-1] == from {
			last.Points = append(last.Points, to)
			return
		}
	}
	d.ops = append(d.ops, Op{Kind: OpStroke, Points: []Vec{from, to}, Color: c, Width: width})
}

func (d *Drawing) reserveFill() int {
	d.ops = append(d.ops, Op{Kind: OpFill})
	return len(d.ops) - 1
}

func (d *Drawing) fill(slot int, points []Vec, c color.RGBA) {
	if slot < 0 || slot >= len(d.ops) || d.ops[slot].Kind != OpFill {
		d.ops = append(d.ops, Op{Kind: OpFill, Points: points, Color: c})
		return
	}
	d.ops[slot].Points = points
	d.ops[slot].Color = c
}

func (d *Drawing) text(pos Vec, s string, font Font, align Align, c color.RGBA) {
	d.ops = append(d.ops, Op{Kind: OpText, Points: []Vec{pos}, Text: s, Font: font, Align: align, Color: c})
}

package scene

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ByLCY/lingnan/binding"
	"github.com/ByLCY/lingnan/layout"
	"github.com/ByLCY/lingnan/logging"
	"github.com/ByLCY/lingnan/qilou"
	"github.com/ByLCY/lingnan/sprite"
	"github.com/ByLCY/lingnan/turtle"
)

// Prompter 是模态输入对话框。TextInput 的 ok 为 false 表示用户取消。
type Prompter interface {
	TextInput(title, prompt string) (value string, ok bool, err error)
	ShowError(title, message string)
}

// Options 配置 Assembler。
type Options struct {
	// Measurer 测量文字宽度，为空时使用 turtle.CellMeasurer。
	Measurer turtle.Measurer
	// Data 以 data 为根绑定到场景文本中的 ${...}。
	Data any
	// Debug 为 true 时先画坐标轴。
	Debug  bool
	Logger *slog.Logger
}

// Assembler 持有唯一的画笔与画布，按场景描述依次绘制。
type Assembler struct {
	scene    *Scene
	drawing  *turtle.Drawing
	pen      *turtle.Pen
	composer *qilou.Composer
	writer   *layout.Writer
	data     any
	debug    bool
	logger   *slog.Logger

	columns, floors int
}

// NewAssembler 为场景创建画笔与画布。
func NewAssembler(s *Scene, opts Options) (*Assembler, error) {
	if s == nil {
		return nil, fmt.Errorf("场景为空")
	}
	d := turtle.NewDrawing()
	pen := turtle.NewPen(d, opts.Measurer)
	a := &Assembler{
		scene:   s,
		drawing: d,
		pen:     pen,
		writer:  layout.NewWriter(pen),
		data:    opts.Data,
		debug:   opts.Debug,
		logger:  logging.Or(opts.Logger),
	}
	if q := s.Qilou; q != nil {
		a.composer = qilou.New(pen, qilou.Options{
			Label:        q.Label,
			LabelFont:    q.LabelFont,
			WindowColor:  q.WindowColor,
			RidgeColor:   q.RidgeColor,
			RailingColor: q.RailingColor,
		})
		a.columns, a.floors = q.Columns, q.Floors
	}
	return a, nil
}

// Scene 返回场景描述。
func (a *Assembler) Scene() *Scene { return a.scene }

// Drawing 返回画布。
func (a *Assembler) Drawing() *turtle.Drawing { return a.drawing }

// Pen 返回画笔。
func (a *Assembler) Pen() *turtle.Pen { return a.pen }

// Size 返回当前骑楼的列数与层数。
func (a *Assembler) Size() (columns, floors int) { return a.columns, a.floors }

// Draw 按顺序绘制场景中的全部内容，结束时画笔回到原点并隐藏。
func (a *Assembler) Draw() error {
	start := time.Now()
	a.pen.PenUp()
	if a.debug {
		a.DrawAxes(800, 50, 20)
	}
	for i, item := range a.scene.Items {
		if err := a.drawItem(item); err != nil {
			return fmt.Errorf("绘制第 %d 项 %s 失败: %w", i+1, item.Kind, err)
		}
	}
	a.pen.Home()
	a.pen.Hide()
	a.logger.Debug("主体绘制完成", "elapsed", time.Since(start), "ops", a.drawing.Len())
	return nil
}

func (a *Assembler) drawItem(item Item) error {
	switch item.Kind {
	case ItemQilou:
		return a.drawQilou(a.columns, a.floors)
	case ItemText:
		a.pen.PenUp()
		a.pen.GotoVec(item.Pos)
		a.writer.Write(a.interpolate(item.Text), layout.Options{
			Font:       item.Font,
			LineHeight: item.LineHeight,
			MaxWidth:   item.Width,
			Color:      item.Color,
		})
	case ItemLabel:
		a.pen.PenUp()
		a.pen.GotoVec(item.Pos)
		a.pen.SetPenColor(item.Color)
		a.pen.Write(a.interpolate(item.Text), item.Font, item.Align, item.Move)
	case ItemImage:
		res, ok := a.scene.Images[item.Image]
		if !ok {
			return fmt.Errorf("图片资源 %s 未声明", item.Image)
		}
		asset, err := sprite.Lookup(res.Src)
		if err != nil {
			return err
		}
		if _, err := sprite.Show(a.drawing, item.Pos, asset); err != nil {
			return err
		}
	default:
		return fmt.Errorf("未知的绘制项 %q", item.Kind)
	}
	return nil
}

func (a *Assembler) drawQilou(columns, floors int) error {
	if a.composer == nil {
		return fmt.Errorf("场景中没有骑楼")
	}
	a.pen.PenUp()
	a.pen.GotoVec(a.scene.Qilou.Origin)
	return a.composer.Draw(columns, floors)
}

func (a *Assembler) interpolate(text string) string {
	return binding.Interpolate(text, map[string]any{
		"qilou": map[string]any{"columns": a.columns, "floors": a.floors},
		"data":  a.data,
	})
}

// HandleClick 处理画布点击。点击落在骑楼热区内时依次询问列数和层数，
// 输入无效时提示错误并重新询问，任一步取消都不改变画布。
// 两个数都有效时清空画布并以新规模重画骑楼，返回 true。
func (a *Assembler) HandleClick(x, y float64, p Prompter) (bool, error) {
	a.logger.Debug("clicked", "x", x, "y", y)
	q := a.scene.Qilou
	if q == nil || !q.Hotspot.Contains(turtle.Vec{X: x, Y: y}) {
		return false, nil
	}

	columns, ok, err := ask(p, "列", "输入骑楼的列数", ParseColumns)
	if err != nil || !ok {
		return false, err
	}
	floors, ok, err := ask(p, "层", "输入骑楼的层数", ParseFloors)
	if err != nil || !ok {
		return false, err
	}

	start := time.Now()
	a.drawing.Clear()
	a.pen.Show()
	a.columns, a.floors = columns, floors
	if err := a.drawQilou(columns, floors); err != nil {
		return true, fmt.Errorf("重画骑楼失败: %w", err)
	}
	a.logger.Info("骑楼已重画", "columns", columns, "floors", floors, "elapsed", time.Since(start))
	return true, nil
}

func ask(p Prompter, title, prompt string, parse func(string) (int, error)) (int, bool, error) {
	for {
		input, ok, err := p.TextInput(title, prompt)
		if err != nil {
			return 0, false, fmt.Errorf("读取%s失败: %w", title, err)
		}
		if !ok {
			return 0, false, nil
		}
		n, err := parse(input)
		if err == nil {
			return n, true, nil
		}
		p.ShowError("错误", dialogMessage(err))
	}
}

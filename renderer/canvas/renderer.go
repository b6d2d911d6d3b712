package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/lingnan/fonts"
	"github.com/ByLCY/lingnan/logging"
	"github.com/ByLCY/lingnan/renderer"
	"github.com/ByLCY/lingnan/turtle"
)

// MmToPt 换算字号：画布单位按毫米处理，字体系统使用磅。
const MmToPt = 2.834645669291339

// Format 是输出文件格式。
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat 解析 svg/pdf/png，大小写不敏感。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatSVG, FormatPDF, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（可选 svg/pdf/png）", s)
	}
}

// Options configures the canvas renderer.
type Options struct {
	Width, Height float64 // 画布尺寸，与画笔坐标同单位
	Zoom          float64 // 字号放大倍数：s 磅的文字占 s*Zoom 个画布单位
	Format        Format
	Resolution    float64 // PNG 每画布单位的像素数
	Background    color.Color
	Title         string
	Keywords      []string // 写入 PDF 元数据
	Fonts         *fonts.Catalog
	Logger        *slog.Logger
}

// DefaultOptions 返回 1800×1000、两倍字号、白底的 SVG 输出配置。
func DefaultOptions() Options {
	return Options{
		Width:      1800,
		Height:     1000,
		Zoom:       2,
		Format:     FormatSVG,
		Resolution: 1,
		Background: turtle.White,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.Zoom <= 0 {
		o.Zoom = def.Zoom
	}
	if o.Format == "" {
		o.Format = def.Format
	}
	if o.Resolution <= 0 {
		o.Resolution = def.Resolution
	}
	if o.Background == nil {
		o.Background = def.Background
	}
	if o.Fonts == nil {
		o.Fonts = fonts.NewCatalog(fonts.Options{System: true, Logger: o.Logger})
	}
	return o
}

// Renderer draws turtle display lists via github.com/tdewolff/canvas.
// It also measures text with the same font faces so wrapping matches the output.
type Renderer struct {
	opts   Options
	logger *slog.Logger

	faceMu sync.Mutex
	faces  map[faceKey]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ turtle.Measurer   = (*Renderer)(nil)
)

type faceKey struct {
	family string
	size   float64
	style  string
	color  color.RGBA
}

// New creates a renderer with the given options.
func New(opts Options) *Renderer {
	opts = opts.withDefaults()
	return &Renderer{
		opts:   opts,
		logger: logging.Or(opts.Logger),
		faces:  map[faceKey]*canvas.FontFace{},
	}
}

// Options 返回生效的配置。
func (r *Renderer) Options() Options { return r.opts }

// TextWidth 实现 turtle.Measurer，返回画布单位下的文本步进宽度。
func (r *Renderer) TextWidth(text string, font turtle.Font) float64 {
	if text == "" {
		return 0
	}
	face, err := r.fontFace(font, turtle.Black)
	if err != nil {
		r.logger.Warn("测量文本失败，使用估算宽度", "family", font.Family, "err", err)
		return turtle.CellMeasurer{Zoom: r.opts.Zoom}.TextWidth(text, font)
	}
	return face.TextWidth(text)
}

// Render 按格式输出整张画布。
func (r *Renderer) Render(d *turtle.Drawing) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("渲染内容为空")
	}
	c, err := r.Canvas(d)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch r.opts.Format {
	case FormatSVG:
		writer := svg.New(&buf, c.W, c.H, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPDF:
		writer := pdf.New(&buf, c.W, c.H, nil)
		writer.SetInfo(r.opts.Title, "", strings.Join(r.opts.Keywords, ", "), "", "lingnan")
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case FormatPNG:
		img := rasterizer.Draw(c, canvas.DPMM(r.opts.Resolution), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.opts.Format)
	}
	return buf.Bytes(), nil
}

// Canvas 把显示列表绘制到一张新画布上。画笔原点位于画布中心，y 轴向上。
func (r *Renderer) Canvas(d *turtle.Drawing) (*canvas.Canvas, error) {
	c := canvas.New(r.opts.Width, r.opts.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI)

	ctx.SetFillColor(r.opts.Background)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(r.opts.Width, r.opts.Height))

	ctx.SetStrokeCapper(canvas.RoundCap)
	ctx.SetStrokeJoiner(canvas.RoundJoin)
	for i, op := range d.Ops() {
		if err := r.drawOp(ctx, d, op); err != nil {
			return nil, fmt.Errorf("绘制第 %d 条指令（%s）失败: %w", i, op.Kind, err)
		}
	}
	return c, nil
}

func (r *Renderer) drawOp(ctx *canvas.Context, d *turtle.Drawing, op turtle.Op) error {
	switch op.Kind {
	case turtle.OpStroke:
		if len(op.Points) < 2 {
			return nil
		}
		w := op.Width
		if w <= 0 {
			w = 1
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(op.Color)
		ctx.SetStrokeWidth(w)
		ctx.DrawPath(0, 0, r.path(op.Points, false))
	case turtle.OpFill:
		if len(op.Points) < 3 {
			return nil
		}
		ctx.SetFillColor(op.Color)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, r.path(op.Points, true))
	case turtle.OpText:
		return r.drawText(ctx, op)
	case turtle.OpStamp:
		img, ok := d.Shape(op.Shape)
		if !ok {
			return fmt.Errorf("贴图 %s 未注册", op.Shape)
		}
		b := img.Bounds()
		p := r.toCanvas(op.Points[0])
		ctx.DrawImage(p.X-float64(b.Dx())/2, p.Y-float64(b.Dy())/2, img, canvas.DPMM(1))
	}
	return nil
}

func (r *Renderer) drawText(ctx *canvas.Context, op turtle.Op) error {
	if op.Text == "" {
		return nil
	}
	face, err := r.fontFace(op.Font, op.Color)
	if err != nil {
		return err
	}
	var align canvas.TextAlign
	switch op.Align {
	case turtle.AlignCenter:
		align = canvas.Center
	case turtle.AlignRight:
		align = canvas.Right
	default:
		align = canvas.Left
	}
	// 落笔点是文字底部，基线位于其上方一个下降部的距离。
	p := r.toCanvas(op.Points[0])
	baseline := p.Y + face.Metrics().Descent
	ctx.DrawText(p.X, baseline, canvas.NewTextLine(face, op.Text, align))
	return nil
}

func (r *Renderer) toCanvas(v turtle.Vec) turtle.Vec {
	return turtle.Vec{X: v.X + r.opts.Width/2, Y: v.Y + r.opts.Height/2}
}

func (r *Renderer) path(points []turtle.Vec, closed bool) *canvas.Path {
	p := &canvas.Path{}
	for i, pt := range points {
		c := r.toCanvas(pt)
		if i == 0 {
			p.MoveTo(c.X, c.Y)
			continue
		}
		p.LineTo(c.X, c.Y)
	}
	if closed {
		p.Close()
	}
	return p
}

func (r *Renderer) fontFace(font turtle.Font, col color.RGBA) (*canvas.FontFace, error) {
	size := font.Size
	if size <= 0 {
		size = 12
	}
	key := faceKey{family: font.Family, size: size, style: font.Style, color: col}

	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	family, style, err := r.opts.Fonts.Resolve(font.Family, font.Style)
	if err != nil {
		return nil, err
	}
	// s 磅的文字在画布上占 s*Zoom 个单位（单位按毫米计）。
	face := family.Face(size*r.opts.Zoom*MmToPt, col, style, canvas.FontNormal)
	r.faces[key] = face
	return face, nil
}

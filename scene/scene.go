// Package scene 把场景描述装配成一幅岭南风情画：骑楼、醒狮图片与几段说明文字，
// 并处理点击骑楼后重新输入列数、层数的 DIY 交互。
package scene

import (
	_ "embed"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/lingnan/dsl"
	"github.com/ByLCY/lingnan/turtle"
)

//go:embed lingnan.scene
var defaultScene string

// ItemKind 区分画布上的绘制项。
type ItemKind string

const (
	ItemQilou ItemKind = "qilou"
	ItemText  ItemKind = "text"
	ItemLabel ItemKind = "label"
	ItemImage ItemKind = "image"
)

// Scene 是解析后的场景描述。
type Scene struct {
	Name       string
	Title      string
	Keywords   []string
	Width      float64
	Height     float64
	Zoom       float64
	Background color.RGBA

	Fonts  map[string]FontResource
	Colors map[string]color.RGBA
	Images map[string]ImageResource

	Qilou *QilouSpec
	Items []Item
}

// FontResource 是 resources 中声明的字体。
type FontResource struct {
	Name string
	Font turtle.Font
	Src  string // 可选的字体文件路径
	// Fallbacks 是找不到 Family 时依次尝试的系统字体。
	Fallbacks []string
}

// ImageResource 是 resources 中声明的图片。
type ImageResource struct {
	Name string
	Src  string
}

// Rect 是闭区间矩形。
type Rect struct {
	Min, Max turtle.Vec
}

// Contains 判断点是否落在矩形内（含边界）。
func (r Rect) Contains(p turtle.Vec) bool {
	return r.Min.X <= p.X && p.X <= r.Max.X && r.Min.Y <= p.Y && p.Y <= r.Max.Y
}

// QilouSpec 描述骑楼的位置、规模、牌匾与点击热区。
type QilouSpec struct {
	Origin       turtle.Vec
	Columns      int
	Floors       int
	Label        string
	LabelFont    turtle.Font
	Hotspot      Rect
	WindowColor  color.Color
	RidgeColor   color.Color
	RailingColor color.Color
}

// Item 是 canvas 段落中的一条绘制语句。
type Item struct {
	Kind       ItemKind
	Pos        turtle.Vec
	Font       turtle.Font
	Width      float64
	LineHeight float64
	Align      turtle.Align
	Color      color.RGBA
	Move       bool
	Text       string
	Image      string // 图片资源名
}

// Default 返回内置的岭南场景。
func Default() (*Scene, error) {
	s, err := Load(strings.NewReader(defaultScene))
	if err != nil {
		return nil, fmt.Errorf("内置场景无效: %w", err)
	}
	return s, nil
}

// LoadFile 从文件读取场景描述。
func LoadFile(path string) (*Scene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开场景文件 %s: %w", path, err)
	}
	defer file.Close()
	return Load(file)
}

// Load 解析场景描述。
func Load(r io.Reader) (*Scene, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析场景失败: %w", err)
	}
	return Build(doc)
}

// Build 把 DSL 语法树转换为 Scene。
func Build(doc *dsl.Document) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("场景为空")
	}
	s := &Scene{
		Name:       doc.Name,
		Width:      1800,
		Height:     1000,
		Zoom:       2,
		Background: turtle.White,
		Fonts:      map[string]FontResource{},
		Colors:     map[string]color.RGBA{},
		Images:     map[string]ImageResource{},
	}
	collectMeta(doc, s)
	if err := collectResources(doc, s); err != nil {
		return nil, err
	}

	var canvas *dsl.CanvasSection
	for _, section := range doc.Sections {
		if section.Canvas != nil {
			canvas = section.Canvas
			break
		}
	}
	if canvas == nil {
		return nil, fmt.Errorf("场景中缺少 canvas 段落")
	}
	if err := s.applyCanvasSpec(canvas.Params); err != nil {
		return nil, err
	}
	if canvas.Block == nil {
		return s, nil
	}
	for _, stmt := range canvas.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		if err := s.addItem(stmt.Command); err != nil {
			return nil, fmt.Errorf("第 %d 行 %s: %w", stmt.Command.Pos.Line, stmt.Command.Name, err)
		}
	}
	return s, nil
}

func collectMeta(doc *dsl.Document, s *Scene) {
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				s.Title = valueToString(stmt.Assignment.Value)
			case "keywords":
				s.Keywords = append(s.Keywords, valueToStrings(stmt.Assignment.Value)...)
			}
		}
	}
}

func collectResources(doc *dsl.Document, s *Scene) error {
	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil || len(stmt.Command.Args) == 0 {
				continue
			}
			cmd := stmt.Command
			name := cmd.Args[0].Value
			switch cmd.Name {
			case "font":
				font, err := parseFontResource(cmd)
				if err != nil {
					return fmt.Errorf("字体 %s: %w", name, err)
				}
				s.Fonts[name] = font
			case "color":
				value := cmd.Args[len(cmd.Args)-1].Value
				c, err := turtle.ParseColor(value)
				if err != nil {
					return fmt.Errorf("颜色 %s: %w", name, err)
				}
				s.Colors[name] = c
			case "image":
				img := ImageResource{Name: name}
				for _, a := range blockAssignments(cmd.Block) {
					if a.Key == "src" {
						img.Src = valueToString(a.Value)
					}
				}
				if img.Src == "" {
					return fmt.Errorf("图片 %s 缺少 src", name)
				}
				s.Images[name] = img
			}
		}
	}
	return nil
}

func parseFontResource(cmd *dsl.Command) (FontResource, error) {
	name := cmd.Args[0].Value
	font := FontResource{Name: name, Font: turtle.Font{Family: name, Size: 12, Style: "normal"}}
	for _, a := range blockAssignments(cmd.Block) {
		value := valueToString(a.Value)
		switch a.Key {
		case "family":
			font.Font.Family = value
		case "size":
			// 字号本身以磅计，12 与 12pt 等价。
			size, err := ParseLength(value)
			if err != nil {
				return font, err
			}
			if size.Unit == UnitFactor || size.Value <= 0 {
				return font, fmt.Errorf("字号 %q 无效", value)
			}
			font.Font.Size = size.Value
		case "style":
			font.Font.Style = value
		case "src":
			font.Src = value
		case "fallbacks":
			font.Fallbacks = valueToStrings(a.Value)
		}
	}
	return font, nil
}

func (s *Scene) applyCanvasSpec(params []*dsl.Token) error {
	var dims []float64
	i := 0
	for ; i < len(params) && params[i].Type == "Number" && len(dims) < 2; i++ {
		v, err := parseNumber(params[i].Value)
		if err != nil {
			return err
		}
		dims = append(dims, v)
	}
	if len(dims) == 2 {
		s.Width, s.Height = dims[0], dims[1]
	}
	_, attrs, err := parseArgs(params[i:], false, map[string]int{"zoom": 1, "background": 1})
	if err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	if v, ok := attrs["zoom"]; ok {
		if s.Zoom, err = parseNumber(v[0]); err != nil {
			return fmt.Errorf("canvas zoom: %w", err)
		}
	}
	if v, ok := attrs["background"]; ok {
		if s.Background, err = s.resolveColor(v[0]); err != nil {
			return fmt.Errorf("canvas background: %w", err)
		}
	}
	if s.Width <= 0 || s.Height <= 0 || s.Zoom <= 0 {
		return fmt.Errorf("canvas 尺寸无效: %gx%g zoom %g", s.Width, s.Height, s.Zoom)
	}
	return nil
}

var arity = map[string]int{
	"at":          2,
	"hotspot":     4,
	"columns":     1,
	"floors":      1,
	"label":       1,
	"font":        1,
	"window":      1,
	"ridge":       1,
	"railing":     1,
	"width":       1,
	"line-height": 1,
	"align":       1,
	"color":       1,
	"move":        1,
}

func (s *Scene) addItem(cmd *dsl.Command) error {
	switch ItemKind(cmd.Name) {
	case ItemQilou:
		return s.addQilou(cmd)
	case ItemText, ItemLabel:
		return s.addText(cmd)
	case ItemImage:
		return s.addImage(cmd)
	default:
		return fmt.Errorf("未知的绘制语句")
	}
}

func (s *Scene) addQilou(cmd *dsl.Command) error {
	if s.Qilou != nil {
		return fmt.Errorf("每个场景只能有一座骑楼")
	}
	_, attrs, err := parseArgs(cmd.Args, false, arity)
	if err != nil {
		return err
	}
	q := &QilouSpec{
		Origin:  turtle.Vec{X: -800, Y: -300},
		Columns: 3,
		Floors:  2,
		Hotspot: Rect{Min: turtle.Vec{X: -840, Y: -310}, Max: turtle.Vec{X: -250, Y: 150}},
	}
	if v, ok := attrs["at"]; ok {
		if q.Origin, err = parseVec(v); err != nil {
			return err
		}
	}
	if v, ok := attrs["columns"]; ok {
		if q.Columns, err = ParseColumns(v[0]); err != nil {
			return err
		}
	}
	if v, ok := attrs["floors"]; ok {
		if q.Floors, err = ParseFloors(v[0]); err != nil {
			return err
		}
	}
	if v, ok := attrs["label"]; ok {
		q.Label = v[0]
	}
	if v, ok := attrs["font"]; ok {
		if q.LabelFont, err = s.resolveFont(v[0]); err != nil {
			return err
		}
	}
	if v, ok := attrs["hotspot"]; ok {
		a, err := parseVec(v[:2])
		if err != nil {
			return err
		}
		b, err := parseVec(v[2:])
		if err != nil {
			return err
		}
		q.Hotspot = Rect{
			Min: turtle.Vec{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
			Max: turtle.Vec{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
		}
	}
	for key, dst := range map[string]*color.Color{"window": &q.WindowColor, "ridge": &q.RidgeColor, "railing": &q.RailingColor} {
		if v, ok := attrs[key]; ok {
			c, err := s.resolveColor(v[0])
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = c
		}
	}
	s.Qilou = q
	s.Items = append(s.Items, Item{Kind: ItemQilou, Pos: q.Origin})
	return nil
}

func (s *Scene) addText(cmd *dsl.Command) error {
	fontName, attrs, err := parseArgs(cmd.Args, true, arity)
	if err != nil {
		return err
	}
	item := Item{Kind: ItemKind(cmd.Name), Color: turtle.Black}
	if item.Font, err = s.resolveFont(fontName); err != nil {
		return err
	}
	if v, ok := attrs["at"]; ok {
		if item.Pos, err = parseVec(v); err != nil {
			return err
		}
	}
	if v, ok := attrs["width"]; ok {
		if item.Width, err = parseExtent(v[0], item.Font.Size, s.Zoom, false); err != nil {
			return err
		}
	}
	if v, ok := attrs["line-height"]; ok {
		if item.LineHeight, err = parseExtent(v[0], item.Font.Size, s.Zoom, true); err != nil {
			return err
		}
	}
	if v, ok := attrs["align"]; ok {
		item.Align = turtle.ParseAlign(v[0])
	}
	if v, ok := attrs["color"]; ok {
		if item.Color, err = s.resolveColor(v[0]); err != nil {
			return err
		}
	}
	if v, ok := attrs["move"]; ok {
		if item.Move, err = strconv.ParseBool(v[0]); err != nil {
			return fmt.Errorf("move 取值无效: %w", err)
		}
	}
	item.Text = extractText(cmd.Block)
	s.Items = append(s.Items, item)
	return nil
}

func (s *Scene) addImage(cmd *dsl.Command) error {
	name, attrs, err := parseArgs(cmd.Args, true, arity)
	if err != nil {
		return err
	}
	if _, ok := s.Images[name]; !ok {
		return fmt.Errorf("图片资源 %s 未声明", name)
	}
	item := Item{Kind: ItemImage, Image: name}
	if v, ok := attrs["at"]; ok {
		if item.Pos, err = parseVec(v); err != nil {
			return err
		}
	}
	s.Items = append(s.Items, item)
	return nil
}

func (s *Scene) resolveFont(name string) (turtle.Font, error) {
	if name == "" {
		return turtle.Font{Family: "SimHei", Size: 12, Style: "normal"}, nil
	}
	f, ok := s.Fonts[name]
	if !ok {
		return turtle.Font{}, fmt.Errorf("字体资源 %s 未声明", name)
	}
	return f.Font, nil
}

func (s *Scene) resolveColor(value string) (color.RGBA, error) {
	if c, ok := s.Colors[value]; ok {
		return c, nil
	}
	return turtle.ParseColor(value)
}

// parseArgs 读取 "key v1 v2 ..." 形式的参数，每个 key 的取值个数由 arity 给出。
// allowName 为 true 时，第一个不是 key 的标识符视为资源名。
func parseArgs(args []*dsl.Token, allowName bool, arity map[string]int) (string, map[string][]string, error) {
	result := map[string][]string{}
	var name string
	cursor := 0
	if allowName && len(args) > 0 && args[0].Type == "Ident" {
		if _, isKey := arity[args[0].Value]; !isKey {
			name = args[0].Value
			cursor = 1
		}
	}
	for cursor < len(args) {
		key := args[cursor].Value
		n, ok := arity[key]
		if !ok {
			return "", nil, fmt.Errorf("未知参数 %q", key)
		}
		if cursor+n >= len(args) {
			return "", nil, fmt.Errorf("参数 %s 需要 %d 个值", key, n)
		}
		values := make([]string, 0, n)
		for _, lx := range args[cursor+1 : cursor+1+n] {
			values = append(values, lx.Value)
		}
		result[key] = values
		cursor += 1 + n
	}
	return name, result, nil
}

func parseVec(values []string) (turtle.Vec, error) {
	if len(values) != 2 {
		return turtle.Vec{}, fmt.Errorf("坐标需要两个数值")
	}
	x, err := parseNumber(values[0])
	if err != nil {
		return turtle.Vec{}, err
	}
	y, err := parseNumber(values[1])
	if err != nil {
		return turtle.Vec{}, err
	}
	return turtle.Vec{X: x, Y: y}, nil
}

func blockAssignments(block *dsl.Block) []*dsl.Assignment {
	if block == nil {
		return nil
	}
	var out []*dsl.Assignment
	for _, stmt := range block.Statements {
		if stmt.Assignment != nil {
			out = append(out, stmt.Assignment)
		}
	}
	return out
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(stmt.Text.Value)
		}
	}
	return builder.String()
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return *val.String
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Ident != nil:
		return *val.Ident
	default:
		return ""
	}
}

// valueToStrings 展开列表；单个值视为只有一个元素的列表。
func valueToStrings(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.List == nil {
		if v := valueToString(val); v != "" {
			return []string{v}
		}
		return nil
	}
	out := make([]string, 0, len(val.List))
	for _, item := range val.List {
		if v := valueToString(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

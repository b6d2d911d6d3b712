// Package fonts 把场景里的字体族名解析为可用的 canvas 字体。
//
// 查找顺序：显式注册的字体文件、系统字体、常见中文字体，最后是内置的 Go 字体。
package fonts

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/lingnan/logging"
)

// CJKFallbacks 是系统中找不到指定字体时依次尝试的中文字体。
var CJKFallbacks = []string{
	"Noto Sans CJK SC",
	"Source Han Sans SC",
	"WenQuanYi Zen Hei",
	"SimHei",
}

// Options 配置字体目录。
type Options struct {
	// System 为 true 时查找系统字体。
	System bool
	// Files 按字体族名注入 TTF/OTF 文件路径。
	Files map[string]string
	// Fallbacks 按字体族名给出优先于 CJKFallbacks 尝试的系统字体。
	Fallbacks map[string][]string
	// Logger 为空时使用 logging.Logger()。
	Logger *slog.Logger
}

type entry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
	source string
}

// Catalog 缓存已解析的字体族，可被多个渲染调用共享。
type Catalog struct {
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	blobs    map[string][]byte
	resolved map[string]entry
	fallback *canvas.FontFamily
	warned   map[string]bool
}

// NewCatalog 创建字体目录。
func NewCatalog(opts Options) *Catalog {
	return &Catalog{
		opts:     opts,
		logger:   logging.Or(opts.Logger),
		blobs:    map[string][]byte{},
		resolved: map[string]entry{},
		warned:   map[string]bool{},
	}
}

// Register 以字体族名注入字体数据，优先级最高。
func (c *Catalog) Register(family string, data []byte) error {
	if family == "" || len(data) == 0 {
		return fmt.Errorf("注册字体失败: 名称或数据为空")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blobs[strings.ToLower(family)] = data
	for key := range c.resolved {
		if strings.HasPrefix(key, strings.ToLower(family)+"|") {
			delete(c.resolved, key)
		}
	}
	return nil
}

// Resolve 返回 family 对应的字体族以及实际可用的样式。
// 请求的样式不可用时退回常规体。内置 Go 字体总能解析成功。
func (c *Catalog) Resolve(family, style string) (*canvas.FontFamily, canvas.FontStyle, error) {
	want := ParseStyle(style)
	key := fmt.Sprintf("%s|%d", strings.ToLower(family), want)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.resolved[key]; ok {
		return e.family, e.style, nil
	}

	e, err := c.lookup(family, want)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	c.logger.Debug("字体已解析", "family", family, "style", style, "source", e.source)
	c.resolved[key] = e
	return e.family, e.style, nil
}

func (c *Catalog) lookup(name string, want canvas.FontStyle) (entry, error) {
	if data, ok := c.blobs[strings.ToLower(name)]; ok {
		fam := canvas.NewFontFamily(name)
		if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return entry{}, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
		return entry{family: fam, style: canvas.FontRegular, source: "registered"}, nil
	}
	if path, ok := c.opts.Files[name]; ok && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return entry{}, fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
		}
		fam := canvas.NewFontFamily(name)
		if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return entry{}, fmt.Errorf("加载字体 %s 失败: %w", path, err)
		}
		return entry{family: fam, style: canvas.FontRegular, source: path}, nil
	}

	if c.opts.System {
		candidates := append([]string{name}, c.opts.Fallbacks[name]...)
		candidates = append(candidates, CJKFallbacks...)
		for _, cand := range candidates {
			if cand == "" {
				continue
			}
			if e, ok := loadSystem(cand, want); ok {
				return e, nil
			}
		}
	}
	// Go 字体没有中文字形，中文会显示为方框，每个字体族只提示一次。
	if key := strings.ToLower(name); !c.warned[key] {
		c.warned[key] = true
		c.logger.Warn("字体不可用，改用不含中文字形的内置 Go 字体；可在场景中用 src 指定字体文件",
			"family", name, "system", c.opts.System)
	}

	fam, err := c.goFamily()
	if err != nil {
		return entry{}, err
	}
	return entry{family: fam, style: want, source: "embed:gofont"}, nil
}

func loadSystem(name string, want canvas.FontStyle) (entry, bool) {
	fam := canvas.NewFontFamily(name)
	if err := fam.LoadSystemFont(name, want); err == nil {
		return entry{family: fam, style: want, source: "system:" + name}, true
	}
	if want == canvas.FontRegular {
		return entry{}, false
	}
	if err := fam.LoadSystemFont(name, canvas.FontRegular); err == nil {
		return entry{family: fam, style: canvas.FontRegular, source: "system:" + name}, true
	}
	return entry{}, false
}

// goFamily 加载内置 Go 字体的四种样式，调用方需持有锁。
func (c *Catalog) goFamily() (*canvas.FontFamily, error) {
	if c.fallback != nil {
		return c.fallback, nil
	}
	fam := canvas.NewFontFamily("lingnan-fallback")
	for name, style := range map[string]canvas.FontStyle{
		"goregular":    canvas.FontRegular,
		"gobold":       canvas.FontBold,
		"goitalic":     canvas.FontItalic,
		"gobolditalic": canvas.FontBold | canvas.FontItalic,
	} {
		data, err := Load(name)
		if err != nil {
			return nil, err
		}
		if err := fam.LoadFont(data, 0, style); err != nil {
			return nil, fmt.Errorf("加载内置字体 %s 失败: %w", name, err)
		}
	}
	c.fallback = fam
	return fam, nil
}

// ParseStyle 把 normal/bold/italic/"bold italic" 映射为 canvas 字体样式。
func ParseStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	if strings.Contains(s, "bold") {
		result = canvas.FontBold
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

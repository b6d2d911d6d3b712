package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ByLCY/lingnan/console"
	"github.com/ByLCY/lingnan/fonts"
	"github.com/ByLCY/lingnan/logging"
	"github.com/ByLCY/lingnan/renderer"
	canvasrenderer "github.com/ByLCY/lingnan/renderer/canvas"
	"github.com/ByLCY/lingnan/scene"
	"github.com/ByLCY/lingnan/turtle"
)

type config struct {
	scenePath   string
	outputPath  string
	format      string
	dataJSON    string
	debug       bool
	debugJSON   string
	interactive bool
	verbose     bool
	columns     string
	floors      string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.scenePath, "scene", "", "场景描述文件路径（默认使用内置岭南场景）")
	flag.StringVar(&cfg.outputPath, "out", "output/lingnan.svg", "输出文件路径")
	flag.StringVar(&cfg.format, "format", "", "输出格式 svg/pdf/png（默认按输出文件扩展名）")
	flag.StringVar(&cfg.dataJSON, "data", "", "绑定到场景文本的 JSON 数据")
	flag.BoolVar(&cfg.debug, "debug", false, "绘制坐标轴并输出调试日志")
	flag.StringVar(&cfg.debugJSON, "debug-json", "", "显示列表调试 JSON 输出路径")
	flag.BoolVar(&cfg.interactive, "interactive", false, "在终端中模拟点击骑楼，DIY 列数与层数")
	flag.BoolVar(&cfg.verbose, "v", false, "输出调试日志")
	flag.StringVar(&cfg.columns, "columns", "", "骑楼列数，覆盖场景中的设置")
	flag.StringVar(&cfg.floors, "floors", "", "骑楼层数，覆盖场景中的设置")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose || cfg.debug {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("生成画面失败: %v", err)
	}
}

// run 串联场景加载、绘制与渲染。
func run(ctx context.Context, cfg config) error {
	var data any
	if cfg.dataJSON != "" {
		if err := json.Unmarshal([]byte(cfg.dataJSON), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}

	s, baseDir, err := loadScene(cfg.scenePath)
	if err != nil {
		return err
	}
	if err := applySize(s, cfg.columns, cfg.floors); err != nil {
		return err
	}

	format, err := outputFormat(cfg.format, cfg.outputPath)
	if err != nil {
		return err
	}
	catalog, err := fontCatalog(s, baseDir)
	if err != nil {
		return err
	}
	r := canvasrenderer.New(canvasrenderer.Options{
		Width:      s.Width,
		Height:     s.Height,
		Zoom:       s.Zoom,
		Format:     format,
		Background: s.Background,
		Title:      s.Title,
		Keywords:   s.Keywords,
		Fonts:      catalog,
	})

	a, err := scene.NewAssembler(s, scene.Options{Measurer: r, Data: data, Debug: cfg.debug})
	if err != nil {
		return err
	}
	if err := a.Draw(); err != nil {
		return fmt.Errorf("绘制场景失败: %w", err)
	}

	output := func() error {
		return writeOutput(a.Drawing(), r, cfg.outputPath, cfg.debugJSON)
	}
	if err := output(); err != nil {
		return err
	}
	if !cfg.interactive {
		return nil
	}

	fmt.Println("输入 click X Y 点击画布（骑楼热区内可 DIY），render 重新输出，quit 退出。")
	loop := &console.Loop{
		Console: console.New(os.Stdin, os.Stdout),
		Target:  a,
		Render:  output,
	}
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func loadScene(path string) (*scene.Scene, string, error) {
	if path == "" {
		s, err := scene.Default()
		return s, ".", err
	}
	s, err := scene.LoadFile(path)
	return s, filepath.Dir(path), err
}

// applySize 用命令行参数覆盖骑楼规模，校验规则与点击输入一致。
func applySize(s *scene.Scene, columns, floors string) error {
	if columns == "" && floors == "" {
		return nil
	}
	if s.Qilou == nil {
		return fmt.Errorf("场景中没有骑楼，无法设置列数与层数")
	}
	if columns != "" {
		n, err := scene.ParseColumns(columns)
		if err != nil {
			return fmt.Errorf("-columns: %w", err)
		}
		s.Qilou.Columns = n
	}
	if floors != "" {
		n, err := scene.ParseFloors(floors)
		if err != nil {
			return fmt.Errorf("-floors: %w", err)
		}
		s.Qilou.Floors = n
	}
	return nil
}

func outputFormat(flagValue, outputPath string) (canvasrenderer.Format, error) {
	if flagValue != "" {
		return canvasrenderer.ParseFormat(flagValue)
	}
	ext := filepath.Ext(outputPath)
	if ext == "" {
		return canvasrenderer.FormatSVG, nil
	}
	return canvasrenderer.ParseFormat(ext)
}

// fontCatalog 注册场景中带 src 的字体资源，相对路径以场景文件所在目录为准。
func fontCatalog(s *scene.Scene, baseDir string) (*fonts.Catalog, error) {
	files := map[string]string{}
	fallbacks := map[string][]string{}
	var embedded []scene.FontResource
	for _, f := range s.Fonts {
		if len(f.Fallbacks) > 0 {
			fallbacks[f.Font.Family] = f.Fallbacks
		}
		switch {
		case f.Src == "":
		case strings.HasPrefix(f.Src, "embed:"):
			embedded = append(embedded, f)
		case filepath.IsAbs(f.Src):
			files[f.Font.Family] = f.Src
		default:
			files[f.Font.Family] = filepath.Join(baseDir, f.Src)
		}
	}
	catalog := fonts.NewCatalog(fonts.Options{System: true, Files: files, Fallbacks: fallbacks})
	for _, f := range embedded {
		data, err := fonts.Load(f.Src)
		if err != nil {
			return nil, fmt.Errorf("字体 %s: %w", f.Name, err)
		}
		if err := catalog.Register(f.Font.Family, data); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

func writeOutput(d *turtle.Drawing, r renderer.Renderer, outputPath, debugPath string) error {
	if debugPath != "" {
		if err := writeDebug(d, debugPath); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := r.Render(d)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	logging.Logger().Info("已输出画面", "path", outputPath, "ops", d.Len())
	return nil
}

func writeDebug(d *turtle.Drawing, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := turtle.WriteDebugJSON(d, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// Package console 在终端里模拟画布点击与模态输入框。
//
// 命令逐行读取，一次只处理一个事件：
//
//	click X Y   在画笔坐标 (X, Y) 处点击
//	render      重新输出当前画面
//	quit        退出
//
// 输入框读取期间输入 :cancel 或遇到 EOF 视为取消。
// 读取在后台 goroutine 中进行，等待输入时 context 取消会立即生效。
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/ByLCY/lingnan/logging"
	"github.com/ByLCY/lingnan/scene"
)

const cancelWord = ":cancel"

type readResult struct {
	text string
	err  error
}

// Console 共享同一个输入源，命令与输入框回答交替读取。
type Console struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan readResult

	// ctx 由 Loop.Run 设置，使 TextInput 也能被取消。
	ctx context.Context
}

var _ scene.Prompter = (*Console)(nil)

// New 创建读取 in、输出到 out 的控制台。
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, ctx: context.Background()}
}

// start 启动唯一的读取 goroutine。输入结束后发送最后的错误并关闭通道。
func (c *Console) start() {
	c.once.Do(func() {
		c.lines = make(chan readResult)
		go func() {
			defer close(c.lines)
			scanner := bufio.NewScanner(c.in)
			for scanner.Scan() {
				c.lines <- readResult{text: scanner.Text()}
			}
			if err := scanner.Err(); err != nil {
				c.lines <- readResult{err: err}
			}
		}()
	})
}

func (c *Console) readLine(ctx context.Context) (string, error) {
	c.start()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		if r.err != nil {
			return "", r.err
		}
		return strings.TrimSpace(r.text), nil
	}
}

// TextInput 显示标题与提示并读取一行回答。
func (c *Console) TextInput(title, prompt string) (string, bool, error) {
	fmt.Fprintf(c.out, "[%s] %s: ", title, prompt)
	line, err := c.readLine(c.ctx)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(c.out)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if line == cancelWord {
		return "", false, nil
	}
	return line, true, nil
}

// ShowError 输出错误提示。
func (c *Console) ShowError(title, message string) {
	fmt.Fprintf(c.out, "%s: %s\n", title, message)
}

// Clicker 处理点击，返回是否重画。
type Clicker interface {
	HandleClick(x, y float64, p scene.Prompter) (bool, error)
}

// Loop 把控制台命令分发给 Clicker。
type Loop struct {
	Console *Console
	Target  Clicker
	// Render 在重画后或收到 render 命令时调用，可为空。
	Render func() error
	Logger *slog.Logger
}

// Run 逐条处理命令直到 quit、EOF 或 ctx 被取消。
func (l *Loop) Run(ctx context.Context) error {
	if l.Console == nil || l.Target == nil {
		return fmt.Errorf("控制台未初始化")
	}
	logger := logging.Or(l.Logger)
	l.Console.ctx = ctx
	defer func() { l.Console.ctx = context.Background() }()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(l.Console.out, "> ")
		line, err := l.Console.readLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("读取命令失败: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "render":
			if err := l.render(); err != nil {
				return err
			}
		case "click":
			x, y, err := parsePoint(fields[1:])
			if err != nil {
				l.Console.ShowError("错误", err.Error())
				continue
			}
			redrawn, err := l.Target.HandleClick(x, y, l.Console)
			if err != nil {
				return fmt.Errorf("处理点击失败: %w", err)
			}
			logger.Debug("点击", "x", x, "y", y, "redrawn", redrawn)
			if redrawn {
				if err := l.render(); err != nil {
					return err
				}
			}
		default:
			l.Console.ShowError("错误", fmt.Sprintf("未知命令 %q（可用 click X Y / render / quit）", fields[0]))
		}
	}
}

func (l *Loop) render() error {
	if l.Render == nil {
		return nil
	}
	if err := l.Render(); err != nil {
		return fmt.Errorf("输出画面失败: %w", err)
	}
	return nil
}

func parsePoint(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("用法: click X Y")
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("无效的坐标 %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("无效的坐标 %q", args[1])
	}
	return x, y, nil
}

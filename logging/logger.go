// Package logging 保存整个程序共享的 slog 日志器，默认不输出任何内容。
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all records. Enabled reports false so callers
// skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop 返回丢弃所有输出的日志器。
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(Nop())
}

// SetLogger 设置全局日志器，传入 nil 恢复静默。
//
// 使用的级别：
//   - [slog.LevelDebug]: 绘制耗时、字体解析来源
//   - [slog.LevelInfo]: 输出文件、重绘事件
//   - [slog.LevelWarn]: 字体回退等非致命问题
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器。
func Logger() *slog.Logger { return loggerPtr.Load() }

// Or 在 l 为空时返回全局日志器。
func Or(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Logger()
	}
	return l
}

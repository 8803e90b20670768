// Package logging 提供画布各组件共用的结构化日志接口。
//
// 画布内部的失败（渐变解析、图片加载、快照）都属于静默降级：
// 不向宿主返回错误，只在这里留下记录。
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger 是组件依赖的最小日志接口，参数为 key-value 对。
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter 把 *slog.Logger 适配为 Logger。
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter 包装给定的 slog.Logger；为 nil 时使用 slog.Default()。
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// With 返回附带固定字段的子 Logger。
func (s *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// Default 输出文本格式日志到 stderr，级别为 Info。
func Default() Logger {
	return New(os.Stderr, slog.LevelInfo)
}

// New 以文本格式写入 w，debug 级别时附带源码位置。
func New(w io.Writer, level slog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	return &SlogAdapter{logger: slog.New(handler)}
}

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// Nop 丢弃所有日志。
func Nop() Logger { return nop{} }

// OrNop 在 l 为 nil 时返回 Nop()。
func OrNop(l Logger) Logger {
	if l == nil {
		return nop{}
	}
	return l
}

package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是对局服务各层共用的日志接口。
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	// WithContext 带上 ctx 中的 trace/session 标识
	WithContext(ctx context.Context) Logger
}

var nop = NewZapLogger(nil)

// Nop 丢弃全部输出。
func Nop() Logger {
	return nop
}

package logx

import (
	"context"

	"go.uber.org/zap"

	"PlanetWars/modules/kit/tracex"
)

// ZapLogger 用 zap 实现 Logger，nil 接收者等价于 Nop。
type ZapLogger struct {
	l *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{l: l}
}

func (z *ZapLogger) base() *zap.Logger {
	if z == nil || z.l == nil {
		return zap.NewNop()
	}
	return z.l
}

func (z *ZapLogger) With(fields ...zap.Field) Logger {
	return &ZapLogger{l: z.base().With(fields...)}
}

// WithContext 把 ctx 里的 trace_id/span_id/session_id 挂到日志上。
func (z *ZapLogger) WithContext(ctx context.Context) Logger {
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return &ZapLogger{l: z.base()}
	}
	return &ZapLogger{l: z.base().With(fields...)}
}

func contextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	for _, kv := range []struct {
		key  string
		from func(context.Context) (string, bool)
	}{
		{"trace_id", tracex.TraceIDFrom},
		{"span_id", tracex.SpanIDFrom},
		{"session_id", tracex.SessionIDFrom},
	} {
		if v, ok := kv.from(ctx); ok {
			fields = append(fields, zap.String(kv.key, v))
		}
	}
	return fields
}

func (z *ZapLogger) Debug(msg string, fields ...zap.Field) { z.base().Debug(msg, fields...) }
func (z *ZapLogger) Info(msg string, fields ...zap.Field)  { z.base().Info(msg, fields...) }
func (z *ZapLogger) Warn(msg string, fields ...zap.Field)  { z.base().Warn(msg, fields...) }
func (z *ZapLogger) Error(msg string, fields ...zap.Field) { z.base().Error(msg, fields...) }

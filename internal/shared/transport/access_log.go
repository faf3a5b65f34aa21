package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"PlanetWars/modules/kit/logx"
	"PlanetWars/modules/kit/tracex"
)

// codeUnset 表示 handler 没有显式给出业务码，由中间件按 HTTP 状态兜底。
const codeUnset BizCode = -1

// Access 是一次请求（HTTP 请求或一条 ws 报文）的访问记录。
type Access struct {
	action string
	room   string
	code   BizCode
	reason string
	start  time.Time
}

type accessKey struct{}

// Begin 在 parent 上挂一条新的访问记录，并生成 trace id。
func Begin(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.WithSpanID(tracex.WithTraceID(parent, tracex.NewTraceID()), "edge")
	return context.WithValue(ctx, accessKey{}, &Access{action: action, code: codeUnset, start: time.Now()})
}

func accessFrom(ctx context.Context) *Access {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(accessKey{}).(*Access)
	return a
}

// SetRoom 记录本次访问落到的房间。
func SetRoom(ctx context.Context, room string) {
	if a := accessFrom(ctx); a != nil {
		a.room = room
	}
}

// Result 记录业务码，err 非空时作为失败原因。
func Result(ctx context.Context, code int, err error) {
	a := accessFrom(ctx)
	if a == nil {
		return
	}
	a.code = BizCode(code)
	if err != nil {
		a.reason = err.Error()
	}
}

// CodeOf 返回已记录的业务码，未记录时 ok=false。
func CodeOf(ctx context.Context) (code int, ok bool) {
	a := accessFrom(ctx)
	if a == nil || a.code == codeUnset {
		return 0, false
	}
	return int(a.code), true
}

// Finish 输出访问日志，通常在请求结束时 defer 调用。
func Finish(ctx context.Context, l logx.Logger) {
	a := accessFrom(ctx)
	if a == nil || l == nil {
		return
	}
	code := a.code
	if code == codeUnset {
		code = SystemError
	}

	fields := []zap.Field{zap.Duration("latency", time.Since(a.start))}
	if a.room != "" {
		fields = append(fields, zap.String("room", a.room))
	}
	if code == OK {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if a.reason != "" {
			fields = append(fields, zap.String("error_reason", a.reason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, l, a.action, int(code), fields...)
}

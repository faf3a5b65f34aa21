package logx

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// RejectLog 描述一次被规则拒绝的操作（例如被丢弃的出兵指令）。
type RejectLog struct {
	Action  string
	Reason  string
	Message string
}

// SysLog 描述一次技术错误或结构性不一致。
type SysLog struct {
	Action string
	Err    error
}

func NewRejectLog(action, reason, message string) RejectLog {
	return RejectLog{Action: action, Reason: reason, Message: message}
}

func NewSysLog(action string, err error) SysLog {
	return SysLog{Action: action, Err: err}
}

// ReportAccessWithLoggerContext 记录访问日志：
// - biz_code == 0: INFO
// - biz_code  1~499: WARN
// - biz_code >= 500: ERROR
func ReportAccessWithLoggerContext(ctx context.Context, l Logger, action string, bizCode int, fields ...zap.Field) {
	if l == nil {
		return
	}
	base := append([]zap.Field{
		zap.String("log_type", "access"),
		zap.String("action", action),
		zap.Int("biz_code", bizCode),
	}, fields...)
	withCtx := l.WithContext(ctx)
	switch {
	case bizCode == 0:
		withCtx.Info("access", base...)
	case bizCode >= 500:
		withCtx.Error("access", base...)
	default:
		withCtx.Warn("access", base...)
	}
}

// ReportBizWithLoggerContext 记录规则拒绝：DEBUG、err_type=biz、不带堆栈。
// 出兵指令被拒绝属于正常对局行为，所以只打 debug。
func ReportBizWithLoggerContext(ctx context.Context, l Logger, rej RejectLog, fields ...zap.Field) {
	if l == nil {
		return
	}
	action := rej.Action
	if action == "" {
		action = "biz_reject"
	}
	base := []zap.Field{
		zap.String("err_type", "biz"),
		zap.String("action", action),
	}
	if rej.Reason != "" {
		base = append(base, zap.String("reason", rej.Reason))
	}
	if rej.Message != "" {
		base = append(base, zap.String("biz_message", rej.Message))
	}
	base = append(base, fields...)

	msg := action
	switch {
	case rej.Reason != "" && rej.Message != "":
		msg = fmt.Sprintf("%s, reason:%s, msg:%s", action, rej.Reason, rej.Message)
	case rej.Reason != "":
		msg = fmt.Sprintf("%s, reason:%s", action, rej.Reason)
	case rej.Message != "":
		msg = fmt.Sprintf("%s, msg:%s", action, rej.Message)
	}
	l.WithContext(ctx).Debug(msg, base...)
}

// ReportSysErrorWithLoggerContext 记录技术错误：ERROR、err_type=sys，可附带栈信息。
func ReportSysErrorWithLoggerContext(ctx context.Context, l Logger, sys SysLog, fields ...zap.Field) {
	if sys.Err == nil || l == nil {
		return
	}
	action := sys.Action
	if action == "" {
		action = "sys_error"
	}

	meta := BuildErrorLog(sys.Err)
	base := []zap.Field{
		zap.String("err_type", "sys"),
		zap.String("action", action),
	}
	if meta.Code != "" {
		base = append(base, zap.String("error_code", meta.Code))
	}
	if len(meta.CauseChain) != 0 {
		base = append(base, zap.Strings("cause_chain", meta.CauseChain))
	}
	if len(meta.Data) != 0 {
		base = append(base, zap.Any("error_data", meta.Data))
	}
	if meta.Origin != "" {
		base = append(base, zap.String("origin_caller", meta.Origin))
	}
	if meta.Stack != "" {
		base = append(base, zap.String("stack_origin", meta.Stack))
	}
	base = append(base, fields...)

	finalMsg := fmt.Sprintf("%s, error:%s", action, meta.Error)
	if meta.Reason != "" {
		finalMsg = fmt.Sprintf("%s, reason:%s, error:%s", action, meta.Reason, meta.Error)
	}
	l.WithContext(ctx).Error(finalMsg, base...)
}

package protocol

import "PlanetWars/modules/kit/errx"

// 协议类错误：回复 error 报文，回合不推进，会话继续。
var (
	ErrBadJSON         = errx.NewBiz("BAD_JSON", "报文不是合法的 JSON 对象")
	ErrUnknownType     = errx.NewBiz("UNKNOWN_TYPE", "未知的报文类型")
	ErrSchemaViolation = errx.NewBiz("SCHEMA_VIOLATION", "报文结构不合法")
	ErrNotStarted      = errx.NewBiz("NOT_STARTED", "对局尚未开始")
	ErrAlreadyStarted  = errx.NewBiz("ALREADY_STARTED", "对局已经开始")
	ErrTerminated      = errx.NewBiz("TERMINATED", "对局已经结束")
	ErrUnknownPlayer   = errx.NewBiz("UNKNOWN_PLAYER", "玩家不在本局")
	ErrBadRoster       = errx.NewBiz("BAD_ROSTER", "开局玩家列表不合法")
)

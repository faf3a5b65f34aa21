package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 业务码沿用 HTTP 语义分段：0 成功，4xx 调用方问题，5xx 服务端问题。
const (
	OK           = 0
	InvalidParam = 400
	Unauthorized = 401
	NotFound     = 404
	Conflict     = 409
	SystemError  = 500
	Timeout      = 504
)

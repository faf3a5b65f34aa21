package errx

// 跨包统一的系统类错误码。
//
// 约束：
// - 这里只放技术类错误码（告警、排障用）
// - 对局规则类错误码（例如 NOT_OWNER）由各自的领域包定义

const (
	// CodeInternal 表示不可预期的内部错误（兜底）。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 表示依赖不可用（mongo/mysql/下游连接等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 表示 actor 请求或依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeInvariant 表示对局状态的结构性不一致（理论上不可达）。
	CodeInvariant Code = "INVARIANT_VIOLATION"
	// CodeReqParamError 表示入站报文不合法。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrInvariant   = NewSys(CodeInvariant, "对局状态不一致")
	ErrReqParamERR = NewBiz(CodeReqParamError, "请求参数错误")
)

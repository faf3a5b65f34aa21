package errx

import (
	"errors"
	"testing"
)

type testReason string

func (r testReason) ReasonCode() string { return string(r) }

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("NOT_OWNER", "x").WithData("planet", 1).WithCause(errors.New("cause1"))
	e2 := NewBiz("NOT_OWNER", "x2").WithData("planet", 2)
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true, e1=%v e2=%v", e1, e2)
	}
	if errors.Is(e1, NewBiz("ZERO_SHIPS", "")) {
		t.Fatalf("期望不同 code 不相等")
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("bad move")
	err := NewBiz("INSUFFICIENT_SHIPS", "兵力不足").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	sys := ErrInvariant.WithCause(errors.New("fleet turns < 1"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	sys2 := ErrInternal.WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层系统错误不重复捕获栈，got=%v", got)
	}
	if !sys2.IsSys() {
		t.Fatalf("期望 IsSys")
	}
}

func TestError_派生不影响哨兵(t *testing.T) {
	derived := ErrReqParamERR.WithReason(testReason("BAD_JSON")).WithMsg("报文无法解析")
	if ErrReqParamERR.Reason() != "" || ErrReqParamERR.Msg() != "请求参数错误" {
		t.Fatalf("期望哨兵错误不被派生修改, got reason=%q msg=%q", ErrReqParamERR.Reason(), ErrReqParamERR.Msg())
	}
	if derived.Reason() != "BAD_JSON" {
		t.Fatalf("reason=%q", derived.Reason())
	}
	data := derived.Data()
	data["reason"] = "mutated"
	if derived.Reason() != "BAD_JSON" {
		t.Fatalf("期望 Data 返回拷贝")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Fatalf("nil -> %q", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("plain -> %q", got)
	}
	wrapped := errors.Join(errors.New("ctx"), ErrTimeout)
	if got := CodeOf(wrapped); got != CodeTimeout {
		t.Fatalf("wrapped -> %q", got)
	}
}

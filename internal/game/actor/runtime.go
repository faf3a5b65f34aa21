package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"PlanetWars/internal/game/actors"
	"PlanetWars/internal/game/session"
	"PlanetWars/internal/shared/transport"
	"PlanetWars/modules/kit/errx"
	"PlanetWars/modules/kit/tracex"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 是对局 actor 系统的外部入口，HTTP/WS 层只和它打交道。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	// manager 只做路由和房间表，不做重活
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 先停 manager（连带停掉所有对局并关闭连接），再关 actor 系统。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	// 注册一个 future 作为 Sender，等对方 Respond 或超时
	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func ask[T any](ctx context.Context, r *Runtime, msg any) (T, error) {
	var zero T
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	resp, ok := res.(T)
	if !ok {
		return zero, &RuntimeError{
			Code:    transport.SystemError,
			Message: "actor 返回类型非法",
		}
	}
	return resp, nil
}

// Open 为房间创建对局，房间已被占用时返回 actors.ErrRoomBusy。
func (r *Runtime) Open(ctx context.Context, room string, sender session.Sender) error {
	if room == "" || sender == nil {
		return &RuntimeError{Code: transport.InvalidParam, Message: "room 和 sender 不能为空"}
	}
	resp, err := ask[*actors.OpenSessionResp](ctx, r, &actors.OpenSession{Room: room, Sender: sender})
	if err != nil {
		return err
	}
	return resp.Err
}

// Deliver 把一条入站报文交给对局，返回的协议错误已经回复给客户端。
func (r *Runtime) Deliver(ctx context.Context, room string, raw []byte) error {
	traceID, _ := tracex.TraceIDFrom(ctx)
	resp, err := ask[*actors.DeliverResp](ctx, r, &actors.Deliver{Room: room, Raw: raw, TraceID: traceID})
	if err != nil {
		return err
	}
	return resp.Err
}

// Detach 通知连接已断开，不等待结果。
func (r *Runtime) Detach(room string, sender session.Sender) {
	if r == nil || r.root == nil {
		return
	}
	r.root.Send(r.manager, &actors.Detach{Room: room, Sender: sender})
}

func (r *Runtime) Sessions(ctx context.Context) ([]string, error) {
	resp, err := ask[*actors.ListSessionsResp](ctx, r, &actors.ListSessions{})
	if err != nil {
		return nil, err
	}
	return resp.Rooms, nil
}

func (r *Runtime) Snapshot(ctx context.Context, room string) (*actors.SnapshotResp, error) {
	resp, err := ask[*actors.SnapshotResp](ctx, r, &actors.SnapshotReq{Room: room})
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp, nil
}

// CodeFromError 把 runtime/对局错误映射成业务码。
func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	switch {
	case errors.Is(err, actors.ErrRoomNotFound):
		return transport.NotFound
	case errors.Is(err, actors.ErrRoomBusy):
		return transport.Conflict
	}
	var xe *errx.Error
	if errors.As(err, &xe) && !xe.IsSys() {
		return transport.InvalidParam
	}
	return transport.SystemError
}

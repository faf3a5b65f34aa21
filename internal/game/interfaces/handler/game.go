package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	gameactor "PlanetWars/internal/game/actor"
	"PlanetWars/internal/game/actors"
	"PlanetWars/internal/game/protocol"
	"PlanetWars/internal/game/record"
	"PlanetWars/internal/game/session"
	"PlanetWars/internal/shared/security"
	"PlanetWars/internal/shared/transport"
	"PlanetWars/internal/shared/transport/ws"
	"PlanetWars/modules/kit/errx"
	"PlanetWars/modules/kit/logx"
	"PlanetWars/modules/kit/tracex"
)

// Runtime 是 handler 用到的对局运行时能力，由 *actor.Runtime 实现。
type Runtime interface {
	Open(ctx context.Context, room string, sender session.Sender) error
	Deliver(ctx context.Context, room string, raw []byte) error
	Detach(room string, sender session.Sender)
	Sessions(ctx context.Context) ([]string, error)
	Snapshot(ctx context.Context, room string) (*actors.SnapshotResp, error)
}

type Game struct {
	rt      Runtime
	records record.Repository
	ws      *ws.Server
	secret  func() string
	log     logx.Logger
}

type response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

// NewGame 中 secret 每次接入时读取，支持配置热更新；返回空串表示不校验 token。
func NewGame(rt Runtime, records record.Repository, wsServer *ws.Server, secret func() string, l logx.Logger) *Game {
	if l == nil {
		l = logx.Nop()
	}
	if secret == nil {
		secret = func() string { return "" }
	}
	return &Game{
		rt:      rt,
		records: records,
		ws:      wsServer,
		secret:  secret,
		log:     l,
	}
}

func (g *Game) RegisterRoutes(r gin.IRouter) {
	r.GET("/games", g.list)
	r.GET("/games/:id", g.snapshot)
	r.GET("/games/:id/records", g.matchRecords)
	r.GET("/ws/games/:id", g.connect)
}

func (g *Game) list(c *gin.Context) {
	rooms, err := g.rt.Sessions(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response{Code: transport.OK, Data: gin.H{"rooms": rooms}})
}

func (g *Game) snapshot(c *gin.Context) {
	resp, err := g.rt.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	data := gin.H{"room": resp.Room, "phase": resp.Phase, "started": resp.Started}
	if resp.Started {
		data["snapshot"] = resp.Snapshot
	}
	c.JSON(http.StatusOK, response{Code: transport.OK, Data: data})
}

func (g *Game) matchRecords(c *gin.Context) {
	if g.records == nil {
		g.fail(c, errx.ErrUnavailable.WithMsg("record store disabled"))
		return
	}
	recs, err := g.records.ListBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	if recs == nil {
		recs = []record.MatchRecord{}
	}
	c.JSON(http.StatusOK, response{Code: transport.OK, Data: gin.H{"records": recs}})
}

// connect 把 ws 连接绑定到房间：一个房间同一时刻只有一条连接。
func (g *Game) connect(c *gin.Context) {
	room := c.Param("id")
	if secret := g.secret(); secret != "" {
		if err := security.VerifyRoom(secret, c.Query("token"), room); err != nil {
			transport.Result(c.Request.Context(), transport.Unauthorized, err)
			c.JSON(http.StatusUnauthorized, response{Code: transport.Unauthorized, Msg: "invalid room token"})
			return
		}
	}

	conn, err := g.ws.Upgrade(c.Writer, c.Request)
	if err != nil {
		// Upgrade 已经写过响应
		return
	}
	conn.SetProperty(ws.PropertyRoom, room)
	sender := &connSender{conn: conn}

	// 升级后脱离 HTTP 请求的生命周期
	ctx := tracex.WithSessionID(context.Background(), room)
	if err := g.rt.Open(ctx, room, sender); err != nil {
		_ = conn.Push(protocol.NewErrorMessage(err.Error()))
		conn.Run(func([]byte) {})
		conn.Close()
		logx.ReportBizWithLoggerContext(ctx, g.log, logx.NewRejectLog("ws open", string(errx.CodeOf(err)), err.Error()))
		return
	}

	conn.Run(func(data []byte) {
		g.deliver(room, data)
	})
	go func() {
		<-conn.Done()
		g.rt.Detach(room, sender)
		g.log.WithContext(ctx).Info("ws connection closed", zap.String("remote", conn.Addr()))
	}()
	g.log.WithContext(ctx).Info("ws connection opened", zap.String("remote", conn.Addr()))
}

// deliver 每条入站报文一条 access 日志，协议错误已由会话回复给客户端。
func (g *Game) deliver(room string, data []byte) {
	ctx := transport.Begin(tracex.WithSessionID(context.Background(), room), "WS game.message")
	transport.SetRoom(ctx, room)
	defer transport.Finish(ctx, g.log)

	err := g.rt.Deliver(ctx, room, data)
	transport.Result(ctx, gameactor.CodeFromError(err), err)
}

func (g *Game) fail(c *gin.Context, err error) {
	code := gameactor.CodeFromError(err)
	status := http.StatusInternalServerError
	switch {
	case code == transport.NotFound:
		status = http.StatusNotFound
	case code == transport.Timeout:
		status = http.StatusGatewayTimeout
	case code < transport.SystemError:
		status = http.StatusBadRequest
	}
	if code >= transport.SystemError {
		logx.ReportSysErrorWithLoggerContext(c.Request.Context(), g.log, logx.NewSysLog(c.FullPath(), err))
	}
	transport.Result(c.Request.Context(), code, err)
	c.JSON(status, response{Code: code, Msg: err.Error()})
}

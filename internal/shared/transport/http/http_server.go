package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"

	"PlanetWars/internal/shared/transport/http/middleware"
	"PlanetWars/modules/kit/logx"
)

// Timeouts 是监听层超时；ws 升级后由 gorilla 清掉连接上的 deadline。
type Timeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      15 * time.Second,
		Idle:       60 * time.Second,
	}
}

type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
}

// NewHttpServer 在 engine 上挂 CORS、访问日志和 /healthz；engine 为 nil 时新建一个带 Recovery 的。
func NewHttpServer(addr string, engine *gin.Engine, l logx.Logger) *Server {
	return NewHttpServerWithTimeouts(addr, engine, l, DefaultTimeouts())
}

func NewHttpServerWithTimeouts(addr string, engine *gin.Engine, l logx.Logger, to Timeouts) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.Cors(), middleware.AccessLog(l))
	engine.GET("/healthz", healthz)

	return &Server{
		engine: engine,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: to.ReadHeader,
			ReadTimeout:       to.Read,
			WriteTimeout:      to.Write,
			IdleTimeout:       to.Idle,
		},
	}
}

func healthz(c *gin.Context) {
	c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
}

// Start 阻塞监听，Shutdown 后返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

// Routes 是业务路由的挂载点。
func (s *Server) Routes() gin.IRouter {
	return s.engine
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}

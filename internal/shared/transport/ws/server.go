package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"PlanetWars/modules/kit/logx"
)

type Server struct {
	upgrader websocket.Upgrader
	opts     Options
	log      logx.Logger
}

func NewServer(opts Options, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		opts: opts,
		log:  l,
	}
}

// Upgrade 把 HTTP 请求升级成 Conn，调用方负责 Run。
func (s *Server) Upgrade(resp http.ResponseWriter, req *http.Request) (*Conn, error) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Warn("websocket upgrade error", zap.Error(err))
		return nil, err
	}
	s.log.Debug("websocket upgrade success", zap.String("remote", wsConn.RemoteAddr().String()))
	return NewConn(wsConn, s.opts, s.log), nil
}

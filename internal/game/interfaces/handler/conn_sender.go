package handler

import (
	"PlanetWars/internal/game/protocol"
	"PlanetWars/internal/game/session"
	"PlanetWars/internal/shared/transport/ws"
)

// connSender 让 ws 连接满足 session.Sender。
type connSender struct {
	conn *ws.Conn
}

var _ session.Sender = (*connSender)(nil)

func (s *connSender) Send(msg protocol.Outbound) error {
	return s.conn.Push(msg)
}

func (s *connSender) Close() {
	s.conn.Close()
}

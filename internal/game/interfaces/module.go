package interfaces

import (
	"github.com/gin-gonic/gin"

	"PlanetWars/internal/game/interfaces/handler"
	"PlanetWars/internal/game/record"
	"PlanetWars/internal/shared/transport/ws"
	"PlanetWars/modules/kit/logx"
)

type Module struct {
	game *handler.Game
}

func New(rt handler.Runtime, records record.Repository, wsServer *ws.Server, secret func() string, l logx.Logger) *Module {
	return &Module{game: handler.NewGame(rt, records, wsServer, secret, l)}
}

func (m *Module) Register(r gin.IRouter) {
	m.game.RegisterRoutes(r)
}

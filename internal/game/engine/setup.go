package engine

import (
	"fmt"
	"math/rand/v2"

	"PlanetWars/internal/game/domain"
)

// MapConfig 描述开局地图。
type MapConfig struct {
	PlanetCount  int
	Width        float64
	Height       float64
	InitialShips int
}

func DefaultMapConfig() MapConfig {
	return MapConfig{PlanetCount: 10, Width: 50, Height: 50, InitialShips: 5}
}

// NewGame 生成开局状态：行星随机落在 Width x Height 内，
// 最后 len(players) 颗行星按倒序分给玩家（最后一颗给 players[0]），其余归中立方。
func NewGame(players []domain.PlayerID, cfg MapConfig, rng *rand.Rand) (*domain.State, error) {
	roster, err := domain.NewRoster(players)
	if err != nil {
		return nil, err
	}
	if len(players) > cfg.PlanetCount {
		return nil, domain.ErrTooManyPlayers.
			WithData("players", len(players)).
			WithData("planets", cfg.PlanetCount)
	}

	neutralCount := cfg.PlanetCount - len(players)
	planets := make([]domain.Planet, cfg.PlanetCount)
	for i := range planets {
		owner := domain.Neutral
		if i >= neutralCount {
			owner = players[cfg.PlanetCount-i-1]
		}
		planets[i] = domain.Planet{
			ID:    domain.PlanetID(i),
			Name:  fmt.Sprintf("planet%d", i),
			Pos:   domain.Position{X: rng.Float64() * cfg.Width, Y: rng.Float64() * cfg.Height},
			Owner: owner,
			Ships: cfg.InitialShips,
		}
	}
	registry, err := domain.NewRegistry(planets)
	if err != nil {
		return nil, err
	}
	return &domain.State{
		Roster:  roster,
		Planets: registry,
		Fleets:  domain.NewLedger(),
	}, nil
}

package engine

import (
	"PlanetWars/internal/game/domain"
	"PlanetWars/modules/kit/errx"
)

// 出兵指令的拒绝原因，按校验顺序排列。
var (
	ErrSameSourceTarget  = errx.NewBiz("SAME_SOURCE_TARGET", "出发地与目的地相同")
	ErrZeroShips         = errx.NewBiz("ZERO_SHIPS", "出兵数量必须大于 0")
	ErrUnknownSource     = errx.NewBiz("UNKNOWN_SOURCE", "出发行星不存在")
	ErrNotOwner          = errx.NewBiz("NOT_OWNER", "出发行星不归你所有")
	ErrUnknownTarget     = errx.NewBiz("UNKNOWN_TARGET", "目标行星不存在")
	ErrInsufficientShips = errx.NewBiz("INSUFFICIENT_SHIPS", "出发行星兵力不足")
)

// View 是校验需要读取的状态。Committed 返回本回合已接受指令在该行星上预扣的兵力。
type View interface {
	Planet(id domain.PlanetID) (domain.Planet, bool)
	Committed(id domain.PlanetID) int
}

// ValidatedOrder 是通过校验、等待下回合发射的出兵指令。
type ValidatedOrder struct {
	Player domain.PlayerID
	Source domain.PlanetID
	Target domain.PlanetID
	Ships  int
	Turns  int
}

// Validate 依次检查一条指令，遇到第一个失败即返回。不修改状态。
func Validate(v View, player domain.PlayerID, m domain.Move) (ValidatedOrder, error) {
	if m.Source == m.Target {
		return ValidatedOrder{}, ErrSameSourceTarget.WithData("planet", int(m.Source))
	}
	if m.Ships <= 0 {
		return ValidatedOrder{}, ErrZeroShips.WithData("ships", m.Ships)
	}
	source, ok := v.Planet(m.Source)
	if !ok {
		return ValidatedOrder{}, ErrUnknownSource.WithData("planet", int(m.Source))
	}
	if source.Owner != player || player.IsNeutral() {
		return ValidatedOrder{}, ErrNotOwner.WithData("planet", int(m.Source))
	}
	target, ok := v.Planet(m.Target)
	if !ok {
		return ValidatedOrder{}, ErrUnknownTarget.WithData("planet", int(m.Target))
	}
	if available := source.Ships - v.Committed(m.Source); m.Ships > available {
		return ValidatedOrder{}, ErrInsufficientShips.
			WithData("planet", int(m.Source)).
			WithData("requested", m.Ships).
			WithData("available", available)
	}
	return ValidatedOrder{
		Player: player,
		Source: source.ID,
		Target: target.ID,
		Ships:  m.Ships,
		Turns:  domain.TravelTurns(source.Pos, target.Pos),
	}, nil
}

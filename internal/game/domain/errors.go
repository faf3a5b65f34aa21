package domain

import "PlanetWars/modules/kit/errx"

var (
	ErrNoPlayers        = errx.NewBiz("NO_PLAYERS", "玩家列表为空")
	ErrReservedPlayerID = errx.NewBiz("RESERVED_PLAYER_ID", "玩家 id 必须 >= 1")
	ErrDuplicatePlayer  = errx.NewBiz("DUPLICATE_PLAYER", "玩家 id 重复")
	ErrTooManyPlayers   = errx.NewBiz("TOO_MANY_PLAYERS", "玩家数量超过行星数量")

	// ErrInvariant 表示状态不满足不变量，属于系统类错误。
	ErrInvariant = errx.ErrInvariant
)

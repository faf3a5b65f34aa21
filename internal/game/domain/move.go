package domain

// Move 是玩家提交的一条出兵指令（未校验）。
type Move struct {
	Source PlanetID
	Target PlanetID
	Ships  int
}

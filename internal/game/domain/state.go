package domain

// State 是一局游戏某一回合结束时的完整状态，只归属一个 Session。
type State struct {
	Turn    int
	Roster  *Roster
	Planets *Registry
	Fleets  *Ledger
}

// CheckInvariants 返回第一个被破坏的不变量：
// - 兵力非负
// - 在途舰队剩余回合 >= 1，兵力 > 0，起止行星存在
// - 行星/舰队的 owner 都在名单里，舰队不属于中立方
func (s *State) CheckInvariants() error {
	for _, p := range s.Planets.planets {
		if p.Ships < 0 {
			return ErrInvariant.WithMsg("negative ships").WithData("planet", int(p.ID))
		}
		if !s.Roster.Contains(p.Owner) {
			return ErrInvariant.WithMsg("planet owner not in roster").
				WithData("planet", int(p.ID)).WithData("owner", int64(p.Owner))
		}
	}
	for _, f := range s.Fleets.fleets {
		if f.Turns < 1 || f.Ships < 1 {
			return ErrInvariant.WithMsg("fleet with no turns or ships").WithData("fleet", int64(f.ID))
		}
		if s.Planets.At(f.Source) == nil || s.Planets.At(f.Target) == nil {
			return ErrInvariant.WithMsg("fleet references unknown planet").WithData("fleet", int64(f.ID))
		}
		if f.Owner.IsNeutral() || !s.Roster.Contains(f.Owner) {
			return ErrInvariant.WithMsg("fleet owner not a roster player").
				WithData("fleet", int64(f.ID)).WithData("owner", int64(f.Owner))
		}
	}
	return nil
}

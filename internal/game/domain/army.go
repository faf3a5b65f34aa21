package domain

// Army 是结算战斗时某一方在某颗行星上的兵力合计，只在一回合结算内存在。
type Army struct {
	Owner PlayerID
	Ships int
}

// Armies 是一颗行星本回合的参战方，第一项总是驻军（即使 0 兵）。
type Armies []Army

func SeedArmies(p Planet) Armies {
	return Armies{{Owner: p.Owner, Ships: p.Ships}}
}

// Merge 把到达的舰队并入同 owner 的部队，没有则新增一方。
func (a *Armies) Merge(owner PlayerID, ships int) {
	for i := range *a {
		if (*a)[i].Owner == owner {
			(*a)[i].Ships += ships
			return
		}
	}
	*a = append(*a, Army{Owner: owner, Ships: ships})
}

package engine

import (
	"slices"

	"PlanetWars/internal/game/domain"
)

// resolveFight 结算一颗行星上的参战方，返回新的 owner 与兵力：
// - 只有一方：该方直接占有（含无人到达的情况）
// - 多方：按兵力降序，第一减第二为剩余兵力；剩余为 0（含并列第一）则变中立 0 兵
// 第三名及以后的兵力随前两名一起抵消。
func resolveFight(armies domain.Armies) (domain.PlayerID, int) {
	if len(armies) == 1 {
		return armies[0].Owner, armies[0].Ships
	}
	sorted := slices.Clone(armies)
	slices.SortStableFunc(sorted, func(a, b domain.Army) int {
		return b.Ships - a.Ships
	})
	surplus := sorted[0].Ships - sorted[1].Ships
	if surplus == 0 {
		return domain.Neutral, 0
	}
	return sorted[0].Owner, surplus
}

// duplicateOwner 检查同一行星上是否有两支同 owner 的部队。
// Merge 保证不会出现，出现即说明状态已损坏。
func duplicateOwner(armies domain.Armies) (domain.PlayerID, bool) {
	seen := make(map[domain.PlayerID]struct{}, len(armies))
	for _, a := range armies {
		if _, ok := seen[a.Owner]; ok {
			return a.Owner, true
		}
		seen[a.Owner] = struct{}{}
	}
	return 0, false
}

// remerge 把同 owner 的部队重新合并。
func remerge(armies domain.Armies) domain.Armies {
	out := make(domain.Armies, 0, len(armies))
	for _, a := range armies {
		out.Merge(a.Owner, a.Ships)
	}
	return out
}

package engine

import (
	"testing"

	"PlanetWars/internal/game/domain"
)

func TestResolveFight(t *testing.T) {
	cases := []struct {
		name      string
		armies    domain.Armies
		wantOwner domain.PlayerID
		wantShips int
	}{
		{"garrison only", domain.Armies{{Owner: p1, Ships: 7}}, p1, 7},
		{"empty neutral garrison", domain.Armies{{Owner: n, Ships: 0}}, n, 0},
		{"attacker wins", domain.Armies{{Owner: n, Ships: 2}, {Owner: p1, Ships: 5}}, p1, 3},
		{"defender holds", domain.Armies{{Owner: p2, Ships: 9}, {Owner: p1, Ships: 5}}, p2, 4},
		{"tie", domain.Armies{{Owner: p2, Ships: 5}, {Owner: p1, Ships: 5}}, n, 0},
		{"top tie with third", domain.Armies{{Owner: n, Ships: 1}, {Owner: p1, Ships: 5}, {Owner: p2, Ships: 5}}, n, 0},
		{"zero garrison vs arrival", domain.Armies{{Owner: n, Ships: 0}, {Owner: p1, Ships: 4}}, p1, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			owner, ships := resolveFight(tc.armies)
			if owner != tc.wantOwner || ships != tc.wantShips {
				t.Fatalf("got=(%v,%d) want=(%v,%d)", owner, ships, tc.wantOwner, tc.wantShips)
			}
		})
	}
}

func TestResolveFight_不修改入参顺序(t *testing.T) {
	armies := domain.Armies{{Owner: n, Ships: 1}, {Owner: p1, Ships: 5}}
	resolveFight(armies)
	if armies[0].Owner != n {
		t.Fatalf("armies 被原地排序: %+v", armies)
	}
}

func TestDuplicateOwner与Remerge(t *testing.T) {
	armies := domain.Armies{{Owner: p1, Ships: 2}, {Owner: p2, Ships: 3}, {Owner: p1, Ships: 4}}
	owner, dup := duplicateOwner(armies)
	if !dup || owner != p1 {
		t.Fatalf("期望检出重复 owner, got=(%v,%v)", owner, dup)
	}
	merged := remerge(armies)
	if len(merged) != 2 || merged[0].Ships != 6 {
		t.Fatalf("merged=%+v", merged)
	}
	if _, dup := duplicateOwner(merged); dup {
		t.Fatalf("合并后不应再有重复")
	}
}

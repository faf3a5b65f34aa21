package domain

import (
	"errors"
	"testing"
)

func TestNewRoster_追加中立方并校验id(t *testing.T) {
	r, err := NewRoster([]PlayerID{3, 7})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	ids := r.IDs()
	if len(ids) != 3 || ids[2] != Neutral {
		t.Fatalf("期望中立方在最后, got=%v", ids)
	}
	n, _ := r.Get(Neutral)
	if !n.Moved || !n.Dead {
		t.Fatalf("期望中立方 moved/dead 恒为 true, got=%+v", *n)
	}
	if got := r.Pending(); len(got) != 2 {
		t.Fatalf("期望 2 个玩家待提交, got=%v", got)
	}

	cases := []struct {
		name string
		ids  []PlayerID
		want error
	}{
		{"empty", nil, ErrNoPlayers},
		{"zero", []PlayerID{0}, ErrReservedPlayerID},
		{"neutral", []PlayerID{Neutral}, ErrReservedPlayerID},
		{"dup", []PlayerID{1, 1}, ErrDuplicatePlayer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRoster(tc.ids)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want=%v got=%v", tc.want, err)
			}
		})
	}
}

func TestTravelTurns(t *testing.T) {
	if got := TravelTurns(Position{0, 0}, Position{3, 4}); got != 5 {
		t.Fatalf("(0,0)->(3,4) 期望 5 回合, got=%d", got)
	}
	if got := TravelTurns(Position{0, 0}, Position{1, 1}); got != 2 {
		t.Fatalf("ceil(1.414) 期望 2, got=%d", got)
	}
	if got := TravelTurns(Position{2, 2}, Position{2, 2}); got != 1 {
		t.Fatalf("重合点期望按 1 回合处理, got=%d", got)
	}
}

func TestLedger_Travel(t *testing.T) {
	l := NewLedger()
	a := l.Launch(0, 1, 1, 5, 1)
	b := l.Launch(1, 0, 2, 3, 2)
	if a.ID != 0 || b.ID != 1 || l.NextID() != 2 {
		t.Fatalf("舰队 id 应单调递增: a=%d b=%d next=%d", a.ID, b.ID, l.NextID())
	}

	var arrived []Fleet
	l.Travel(func(f Fleet) { arrived = append(arrived, f) })
	if len(arrived) != 1 || arrived[0].ID != a.ID || arrived[0].Turns != 0 {
		t.Fatalf("期望 a 到达, got=%+v", arrived)
	}
	left := l.Fleets()
	if len(left) != 1 || left[0].ID != b.ID || left[0].Turns != 1 {
		t.Fatalf("期望 b 剩 1 回合, got=%+v", left)
	}
	if l.InFlight(2) != 1 || l.InFlight(1) != 0 {
		t.Fatalf("InFlight 统计错误")
	}
}

func TestRestoreLedger_拒绝非法舰队(t *testing.T) {
	if _, err := RestoreLedger([]Fleet{{ID: 0, Ships: 1, Turns: 0}}, 1); !errors.Is(err, ErrInvariant) {
		t.Fatalf("turns=0 应被拒绝, err=%v", err)
	}
	if _, err := RestoreLedger([]Fleet{{ID: 4, Ships: 1, Turns: 1}}, 4); !errors.Is(err, ErrInvariant) {
		t.Fatalf("id >= nextID 应被拒绝, err=%v", err)
	}
}

func TestArmies_Merge按owner合并(t *testing.T) {
	a := SeedArmies(Planet{Owner: Neutral, Ships: 0})
	a.Merge(1, 4)
	a.Merge(2, 3)
	a.Merge(1, 2)
	if len(a) != 3 {
		t.Fatalf("期望 3 方（驻军 0 兵也算一方）, got=%+v", a)
	}
	if a[1].Owner != 1 || a[1].Ships != 6 {
		t.Fatalf("期望玩家 1 合计 6, got=%+v", a[1])
	}
}

func TestState_CheckInvariants(t *testing.T) {
	roster, _ := NewRoster([]PlayerID{1})
	planets, err := NewRegistry([]Planet{
		{ID: 0, Owner: 1, Ships: 5},
		{ID: 1, Owner: Neutral, Ships: 5},
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	s := &State{Roster: roster, Planets: planets, Fleets: NewLedger()}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("合法状态报错: %v", err)
	}

	s.Fleets.Launch(0, 1, 9, 1, 1)
	if err := s.CheckInvariants(); !errors.Is(err, ErrInvariant) {
		t.Fatalf("未知 owner 的舰队应报不变量错误, err=%v", err)
	}

	s.Fleets = NewLedger()
	s.Planets.At(1).Ships = -1
	if err := s.CheckInvariants(); !errors.Is(err, ErrInvariant) {
		t.Fatalf("负兵力应报不变量错误, err=%v", err)
	}
}

func TestNewRegistry_id必须等于下标(t *testing.T) {
	if _, err := NewRegistry([]Planet{{ID: 1}}); !errors.Is(err, ErrInvariant) {
		t.Fatalf("err=%v", err)
	}
}

package domain

type FleetID int64

// Fleet 是在途舰队，Turns 为剩余航行回合，留在账本里时恒 >= 1。
type Fleet struct {
	ID     FleetID
	Source PlanetID
	Target PlanetID
	Owner  PlayerID
	Ships  int
	Turns  int
}

// Ledger 按出发顺序保存在途舰队，nextID 单调递增。
type Ledger struct {
	fleets []Fleet
	nextID FleetID
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// RestoreLedger 从快照恢复账本，nextID 不能小于已有舰队 id。
func RestoreLedger(fleets []Fleet, nextID FleetID) (*Ledger, error) {
	l := &Ledger{fleets: make([]Fleet, 0, len(fleets)), nextID: nextID}
	for _, f := range fleets {
		if f.Turns < 1 || f.Ships < 1 {
			return nil, ErrInvariant.WithMsg("fleet must have ships and remaining turns").WithData("fleet", int64(f.ID))
		}
		if f.ID >= nextID {
			return nil, ErrInvariant.WithMsg("fleet id is not below next id").WithData("fleet", int64(f.ID))
		}
		l.fleets = append(l.fleets, f)
	}
	return l, nil
}

func (l *Ledger) Launch(source, target PlanetID, owner PlayerID, ships, turns int) Fleet {
	f := Fleet{
		ID:     l.nextID,
		Source: source,
		Target: target,
		Owner:  owner,
		Ships:  ships,
		Turns:  turns,
	}
	l.nextID++
	l.fleets = append(l.fleets, f)
	return f
}

// Travel 让所有舰队前进一回合，到达的舰队交给 arrive 并移出账本。
func (l *Ledger) Travel(arrive func(f Fleet)) {
	kept := l.fleets[:0]
	for _, f := range l.fleets {
		f.Turns--
		if f.Turns > 0 {
			kept = append(kept, f)
			continue
		}
		arrive(f)
	}
	clear(l.fleets[len(kept):])
	l.fleets = kept
}

func (l *Ledger) Fleets() []Fleet {
	out := make([]Fleet, len(l.fleets))
	copy(out, l.fleets)
	return out
}

func (l *Ledger) Len() int {
	return len(l.fleets)
}

func (l *Ledger) NextID() FleetID {
	return l.nextID
}

func (l *Ledger) InFlight(owner PlayerID) int {
	n := 0
	for _, f := range l.fleets {
		if f.Owner == owner {
			n++
		}
	}
	return n
}

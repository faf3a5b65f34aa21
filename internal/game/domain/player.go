package domain

import "strconv"

// PlayerID 是对局内的玩家标识。真实玩家 id 必须 >= 1，Neutral 是唯一的保留值。
type PlayerID int64

// Neutral 是中立方：不出兵、不增长，永远算作已出局。
const Neutral PlayerID = -1

func (p PlayerID) IsNeutral() bool {
	return p == Neutral
}

func (p PlayerID) String() string {
	if p.IsNeutral() {
		return "neutral"
	}
	return strconv.FormatInt(int64(p), 10)
}

type Player struct {
	ID    PlayerID
	Moved bool // 本回合已提交指令
	Dead  bool
}

// Roster 是对局的玩家名单，顺序为开局顺序，中立方在最后。
type Roster struct {
	players []Player
	index   map[PlayerID]int
}

// NewRoster 校验玩家 id 并追加中立方。
func NewRoster(ids []PlayerID) (*Roster, error) {
	if len(ids) == 0 {
		return nil, ErrNoPlayers
	}
	players := make([]Player, 0, len(ids)+1)
	for _, id := range ids {
		players = append(players, Player{ID: id})
	}
	players = append(players, Player{ID: Neutral, Moved: true, Dead: true})
	return RestoreRoster(players)
}

// RestoreRoster 从快照恢复名单，中立方必须存在且只出现一次。
func RestoreRoster(players []Player) (*Roster, error) {
	r := &Roster{
		players: make([]Player, 0, len(players)),
		index:   make(map[PlayerID]int, len(players)),
	}
	for _, p := range players {
		if !p.ID.IsNeutral() && p.ID < 1 {
			return nil, ErrReservedPlayerID.WithData("player", int64(p.ID))
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, ErrDuplicatePlayer.WithData("player", int64(p.ID))
		}
		if p.ID.IsNeutral() {
			p.Moved, p.Dead = true, true
		}
		r.index[p.ID] = len(r.players)
		r.players = append(r.players, p)
	}
	if _, ok := r.index[Neutral]; !ok {
		return nil, ErrInvariant.WithMsg("roster has no neutral player")
	}
	return r, nil
}

// Get 返回名单内玩家的指针，调用方可直接修改 Moved/Dead。
func (r *Roster) Get(id PlayerID) (*Player, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return &r.players[i], true
}

func (r *Roster) Contains(id PlayerID) bool {
	_, ok := r.index[id]
	return ok
}

// Players 返回名单拷贝（含中立方）。
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Roster) IDs() []PlayerID {
	out := make([]PlayerID, len(r.players))
	for i, p := range r.players {
		out[i] = p.ID
	}
	return out
}

// Pending 返回还欠本回合指令的玩家（未出局且未提交）。
func (r *Roster) Pending() []PlayerID {
	out := make([]PlayerID, 0, len(r.players))
	for _, p := range r.players {
		if !p.Dead && !p.Moved {
			out = append(out, p.ID)
		}
	}
	return out
}

// Alive 返回未出局的真实玩家 id。
func (r *Roster) Alive() []PlayerID {
	out := make([]PlayerID, 0, len(r.players))
	for _, p := range r.players {
		if !p.ID.IsNeutral() && !p.Dead {
			out = append(out, p.ID)
		}
	}
	return out
}

// Each 依次回调名单内每个玩家（含中立方），fn 可修改玩家状态。
func (r *Roster) Each(fn func(p *Player)) {
	for i := range r.players {
		fn(&r.players[i])
	}
}

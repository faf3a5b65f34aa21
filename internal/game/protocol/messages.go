package protocol

import (
	"PlanetWars/internal/game/domain"
)

const (
	TypeStart  = "start"
	TypeAction = "action"
	TypeState  = "state"
	TypeError  = "error"
	TypeStop   = "stop"
)

// Inbound 是校验并解码后的入站报文，只有 *StartMessage 和 *ActionMessage 两种。
type Inbound interface {
	inbound()
}

type StartMessage struct {
	Players []domain.PlayerID `mapstructure:"players"`
}

type ActionMessage struct {
	Player domain.PlayerID `mapstructure:"player"`
	Action Action          `mapstructure:"action"`
}

type Action struct {
	Moves []MoveBody `mapstructure:"moves"`
}

type MoveBody struct {
	Source int `mapstructure:"source"`
	Target int `mapstructure:"target"`
	Ships  int `mapstructure:"ships"`
}

func (*StartMessage) inbound()  {}
func (*ActionMessage) inbound() {}

// Moves 转成领域层的指令，顺序保持不变。
func (m *ActionMessage) Moves() []domain.Move {
	out := make([]domain.Move, 0, len(m.Action.Moves))
	for _, mv := range m.Action.Moves {
		out = append(out, domain.Move{
			Source: domain.PlanetID(mv.Source),
			Target: domain.PlanetID(mv.Target),
			Ships:  mv.Ships,
		})
	}
	return out
}

// Outbound 是发给传输层的报文，序列化后带 type 字段。
type Outbound interface {
	MessageType() string
}

type StateMessage struct {
	Type    string            `json:"type"`
	Turn    int               `json:"turn"`
	Players []domain.PlayerID `json:"players"`
	State   StateBody         `json:"state"`
}

type StateBody struct {
	Players []domain.PlayerID `json:"players"`
	Planets []PlanetBody      `json:"planets"`
	Moves   []FleetBody       `json:"moves"`
}

type PlanetBody struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	X      float64         `json:"x"`
	Y      float64         `json:"y"`
	Player domain.PlayerID `json:"player"`
	Ships  int             `json:"ships"`
}

type FleetBody struct {
	ID     int64           `json:"id"`
	Source int             `json:"source"`
	Target int             `json:"target"`
	Player domain.PlayerID `json:"player"`
	Ships  int             `json:"ships"`
	Turns  int             `json:"turns"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type StopMessage struct {
	Type string `json:"type"`
}

func (StateMessage) MessageType() string { return TypeState }
func (ErrorMessage) MessageType() string { return TypeError }
func (StopMessage) MessageType() string  { return TypeStop }

// NewStateMessage 把回合结束时的状态转成 state 报文，players 为还欠指令的玩家。
func NewStateMessage(s *domain.State) StateMessage {
	msg := StateMessage{
		Type:    TypeState,
		Turn:    s.Turn,
		Players: s.Roster.Pending(),
		State: StateBody{
			Players: s.Roster.IDs(),
			Planets: make([]PlanetBody, 0, s.Planets.Len()),
			Moves:   make([]FleetBody, 0, s.Fleets.Len()),
		},
	}
	for _, p := range s.Planets.Planets() {
		msg.State.Planets = append(msg.State.Planets, PlanetBody{
			ID:     int(p.ID),
			Name:   p.Name,
			X:      p.Pos.X,
			Y:      p.Pos.Y,
			Player: p.Owner,
			Ships:  p.Ships,
		})
	}
	for _, f := range s.Fleets.Fleets() {
		msg.State.Moves = append(msg.State.Moves, FleetBody{
			ID:     int64(f.ID),
			Source: int(f.Source),
			Target: int(f.Target),
			Player: f.Owner,
			Ships:  f.Ships,
			Turns:  f.Turns,
		})
	}
	return msg
}

func NewErrorMessage(content string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Content: content}
}

func NewStopMessage() StopMessage {
	return StopMessage{Type: TypeStop}
}

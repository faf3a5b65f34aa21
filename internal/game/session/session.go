package session

import (
	"context"
	"math/rand/v2"

	"go.uber.org/zap"

	"PlanetWars/internal/game/domain"
	"PlanetWars/internal/game/engine"
	"PlanetWars/internal/game/protocol"
	"PlanetWars/internal/game/snapshot"
	"PlanetWars/modules/kit/errx"
	"PlanetWars/modules/kit/logx"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingOrders
	PhaseProcessing
	PhaseBroadcast
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingOrders:
		return "awaiting_orders"
	case PhaseProcessing:
		return "processing"
	case PhaseBroadcast:
		return "broadcast"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

const DefaultMaxTurns = 200

// Sender 是会话唯一依赖的传输能力。
type Sender interface {
	Send(msg protocol.Outbound) error
	Close()
}

type Config struct {
	Map      engine.MapConfig
	MaxTurns int
	// Seed 为 0 时随机生成地图。
	Seed uint64
}

func DefaultConfig() Config {
	return Config{Map: engine.DefaultMapConfig(), MaxTurns: DefaultMaxTurns}
}

// Outcome 是对局结束时的结果，Winner 为 Neutral 表示没有唯一胜者。
type Outcome struct {
	Turn    int
	Reason  string
	Winner  domain.PlayerID
	Players []domain.PlayerID
	Alive   []domain.PlayerID
}

const (
	ReasonMaxTurns     = "max_turns"
	ReasonLastStanding = "last_standing"
)

// Session 是一局游戏的回合门控状态机。
// 不加锁：同一时刻只允许一个调用方（所属 actor）驱动它。
// 日志里的 session_id 由调用方通过 tracex.WithSessionID 放进 ctx。
type Session struct {
	id     string
	cfg    Config
	sender Sender
	log    logx.Logger
	rng    *rand.Rand

	engine  *engine.Engine
	phase   Phase
	outcome Outcome
}

func New(id string, cfg Config, sender Sender, l logx.Logger) *Session {
	if l == nil {
		l = logx.Nop()
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Session{
		id:     id,
		cfg:    cfg,
		sender: sender,
		log:    l,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		phase:  PhaseIdle,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Done() bool {
	return s.phase == PhaseTerminated
}

// Turn 返回已结算的回合数，未开局时为 0。
func (s *Session) Turn() int {
	if s.engine == nil {
		return 0
	}
	return s.engine.State().Turn
}

// Outcome 只在 Done() 之后有意义。
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// HandleMessage 是传输层的入口：解析、分发，协议错误回复 error 报文。
func (s *Session) HandleMessage(ctx context.Context, raw []byte) error {
	msg, err := protocol.Parse(raw)
	if err != nil {
		s.reject(ctx, "parse", err)
		return err
	}
	switch m := msg.(type) {
	case *protocol.StartMessage:
		err = s.Start(ctx, m.Players)
	case *protocol.ActionMessage:
		_, err = s.Submit(ctx, m.Player, m.Moves())
	}
	return err
}

// Start 生成开局地图并广播第 0 回合的状态。
func (s *Session) Start(ctx context.Context, players []domain.PlayerID) error {
	if s.phase != PhaseIdle {
		err := protocol.ErrAlreadyStarted
		if s.phase == PhaseTerminated {
			err = protocol.ErrTerminated
		}
		s.reject(ctx, "start", err)
		return err
	}
	state, err := engine.NewGame(players, s.cfg.Map, s.rng)
	if err != nil {
		err = protocol.ErrBadRoster.WithCause(err)
		s.reject(ctx, "start", err)
		return err
	}
	s.engine = engine.New(state, s.log)
	s.phase = PhaseAwaitingOrders

	s.log.WithContext(ctx).Info("session started",
		zap.Int("players", len(players)),
		zap.Int("planets", state.Planets.Len()),
	)
	s.send(ctx, protocol.NewStateMessage(state))
	return nil
}

// Submit 排队一个玩家本回合的指令并标记已出手；所有存活玩家都出手后推进一回合。
// 同一回合内多次提交会追加到队列。非法指令静默丢弃，只体现在返回值里。
func (s *Session) Submit(ctx context.Context, player domain.PlayerID, moves []domain.Move) (engine.QueueResult, error) {
	if s.phase != PhaseAwaitingOrders {
		err := s.phaseError()
		s.reject(ctx, "submit", err)
		return engine.QueueResult{}, err
	}
	p, ok := s.engine.State().Roster.Get(player)
	if !ok || player.IsNeutral() {
		err := protocol.ErrUnknownPlayer.WithData("player", int64(player))
		s.reject(ctx, "submit", err)
		return engine.QueueResult{}, err
	}

	res := s.engine.Queue(ctx, player, moves)
	p.Moved = true

	if pending := s.engine.State().Roster.Pending(); len(pending) > 0 {
		s.log.WithContext(ctx).Debug("waiting for players",
			zap.Stringer("player", player),
			zap.Int("pending", len(pending)),
		)
		return res, nil
	}
	s.advance(ctx)
	return res, nil
}

// ExpireRound 处理回合超时：turn 还是当前回合时，未出手的存活玩家按空指令弃权，然后推进。
// 超时信号过期（回合已推进或会话已结束）时返回 false。
func (s *Session) ExpireRound(ctx context.Context, turn int) bool {
	if s.phase != PhaseAwaitingOrders || s.Turn() != turn {
		return false
	}
	roster := s.engine.State().Roster
	forfeited := roster.Pending()
	for _, id := range forfeited {
		p, _ := roster.Get(id)
		p.Moved = true
	}
	s.log.WithContext(ctx).Info("round deadline expired",
		zap.Int("turn", turn),
		zap.Int("forfeited", len(forfeited)),
	)
	s.advance(ctx)
	return true
}

func (s *Session) advance(ctx context.Context) {
	s.phase = PhaseProcessing
	report := s.engine.Advance(ctx)
	state := s.engine.State()

	s.phase = PhaseBroadcast
	s.send(ctx, protocol.NewStateMessage(state))

	alive := state.Roster.Alive()
	switch {
	case report.Turn >= s.cfg.MaxTurns:
		s.terminate(ctx, ReasonMaxTurns, alive)
	case len(alive) < 2:
		s.terminate(ctx, ReasonLastStanding, alive)
	default:
		s.phase = PhaseAwaitingOrders
	}
}

func (s *Session) terminate(ctx context.Context, reason string, alive []domain.PlayerID) {
	state := s.engine.State()
	winner := domain.Neutral
	if len(alive) == 1 {
		winner = alive[0]
	}
	players := make([]domain.PlayerID, 0, len(state.Roster.IDs()))
	for _, id := range state.Roster.IDs() {
		if !id.IsNeutral() {
			players = append(players, id)
		}
	}
	s.outcome = Outcome{Turn: state.Turn, Reason: reason, Winner: winner, Players: players, Alive: alive}
	s.phase = PhaseTerminated

	s.log.WithContext(ctx).Info("session terminated",
		zap.String("reason", reason),
		zap.Int("turn", state.Turn),
		zap.Stringer("winner", winner),
	)
	s.send(ctx, protocol.NewStopMessage())
	s.sender.Close()
}

// Snapshot 返回当前状态快照，未开局时 ok 为 false。
func (s *Session) Snapshot() (snapshot.SnapshotV1, bool) {
	if s.engine == nil {
		return snapshot.SnapshotV1{}, false
	}
	return snapshot.FromState(s.id, s.engine.State()), true
}

// Restore 用快照替换一个尚未开局的会话的状态，不广播。
// 快照不带已入队的指令，所以恢复后存活玩家都要重新提交本回合指令。
func (s *Session) Restore(snap snapshot.SnapshotV1) error {
	if s.phase != PhaseIdle {
		return protocol.ErrAlreadyStarted
	}
	state, err := snap.ToState()
	if err != nil {
		return err
	}
	state.Roster.Each(func(p *domain.Player) {
		if !p.Dead {
			p.Moved = false
		}
	})
	s.engine = engine.New(state, s.log)
	s.phase = PhaseAwaitingOrders
	if alive := state.Roster.Alive(); state.Turn >= s.cfg.MaxTurns || len(alive) < 2 {
		s.phase = PhaseTerminated
	}
	return nil
}

// Resume 恢复快照并把当前状态推给客户端，已经终局的快照不恢复。
func (s *Session) Resume(ctx context.Context, snap snapshot.SnapshotV1) error {
	if err := s.Restore(snap); err != nil {
		return err
	}
	if s.Done() {
		s.engine = nil
		s.phase = PhaseIdle
		return protocol.ErrTerminated
	}
	s.send(ctx, protocol.NewStateMessage(s.engine.State()))
	return nil
}

func (s *Session) phaseError() *errx.Error {
	switch s.phase {
	case PhaseIdle:
		return protocol.ErrNotStarted
	case PhaseTerminated:
		return protocol.ErrTerminated
	default:
		return errx.ErrInternal.WithData("phase", s.phase.String())
	}
}

func (s *Session) reject(ctx context.Context, action string, err error) {
	logx.ReportBizWithLoggerContext(ctx, s.log, logx.NewRejectLog(action, string(errx.CodeOf(err)), err.Error()),
		zap.String("phase", s.phase.String()))
	s.send(ctx, protocol.NewErrorMessage(err.Error()))
}

func (s *Session) send(ctx context.Context, msg protocol.Outbound) {
	if err := s.sender.Send(msg); err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, s.log,
			logx.NewSysLog("send."+msg.MessageType(), errx.ErrUnavailable.WithCause(err)))
	}
}

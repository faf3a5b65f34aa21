package engine

import (
	"context"

	"go.uber.org/zap"

	"PlanetWars/internal/game/domain"
	"PlanetWars/modules/kit/errx"
	"PlanetWars/modules/kit/logx"
)

// Engine 推进一局游戏的回合。不做并发保护，只由所属 Session 串行调用。
type Engine struct {
	state     *domain.State
	queued    []ValidatedOrder
	committed map[domain.PlanetID]int
	log       logx.Logger
}

func New(state *domain.State, l logx.Logger) *Engine {
	if l == nil {
		l = logx.Nop()
	}
	return &Engine{
		state:     state,
		committed: make(map[domain.PlanetID]int),
		log:       l,
	}
}

func (e *Engine) State() *domain.State {
	return e.state
}

func (e *Engine) Planet(id domain.PlanetID) (domain.Planet, bool) {
	return e.state.Planets.Get(id)
}

func (e *Engine) Committed(id domain.PlanetID) int {
	return e.committed[id]
}

// Queued 返回本回合已接受、尚未发射的指令。
func (e *Engine) Queued() []ValidatedOrder {
	out := make([]ValidatedOrder, len(e.queued))
	copy(out, e.queued)
	return out
}

// Rejection 记录一条被丢弃的指令及原因。
type Rejection struct {
	Index int
	Move  domain.Move
	Err   error
}

type QueueResult struct {
	Accepted []ValidatedOrder
	Rejected []Rejection
}

// Queue 逐条校验并排队，非法指令被丢弃，其余照常接受。
func (e *Engine) Queue(ctx context.Context, player domain.PlayerID, moves []domain.Move) QueueResult {
	var res QueueResult
	for i, m := range moves {
		order, err := Validate(e, player, m)
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Index: i, Move: m, Err: err})
			logx.ReportBizWithLoggerContext(ctx, e.log, logx.NewRejectLog("move_dropped", string(errx.CodeOf(err)), err.Error()),
				zap.Stringer("player", player),
				zap.Int("index", i),
			)
			continue
		}
		e.queued = append(e.queued, order)
		e.committed[order.Source] += order.Ships
		res.Accepted = append(res.Accepted, order)
	}
	return res
}

// RoundReport 汇总一回合的结算结果，供日志与回放使用。
type RoundReport struct {
	Turn     int
	Launched []domain.Fleet
	Arrived  int
	Battles  []Battle
}

// Battle 是一颗行星上发生的多方交战。
type Battle struct {
	Planet domain.PlanetID
	Armies domain.Armies
	Owner  domain.PlayerID
	Ships  int
}

// Advance 结算一整个回合：增长、发射、驻军入列、航行、交战、存活判定。
// 中间状态不对外可见，返回时回合数已 +1。
func (e *Engine) Advance(ctx context.Context) RoundReport {
	s := e.state
	s.Turn++
	report := RoundReport{Turn: s.Turn}

	// 1. 增长
	for id := 0; id < s.Planets.Len(); id++ {
		if p := s.Planets.At(domain.PlanetID(id)); !p.Owner.IsNeutral() {
			p.Ships++
		}
	}

	// 2. 发射
	for _, o := range e.queued {
		source := s.Planets.At(o.Source)
		if source == nil {
			e.reportInconsistency(ctx, "launch", errx.ErrInvariant.WithMsg("queued move references missing source").
				WithData("planet", int(o.Source)))
			continue
		}
		source.Ships -= o.Ships
		report.Launched = append(report.Launched, s.Fleets.Launch(o.Source, o.Target, o.Player, o.Ships, o.Turns))
	}
	e.queued = e.queued[:0]
	clear(e.committed)

	// 3. 驻军入列
	armies := make([]domain.Armies, s.Planets.Len())
	for id := range armies {
		armies[id] = domain.SeedArmies(*s.Planets.At(domain.PlanetID(id)))
	}

	// 4. 航行
	s.Fleets.Travel(func(f domain.Fleet) {
		if s.Planets.At(f.Target) == nil {
			e.reportInconsistency(ctx, "arrive", errx.ErrInvariant.WithMsg("fleet arrived at missing planet").
				WithData("fleet", int64(f.ID)).WithData("planet", int(f.Target)))
			return
		}
		armies[f.Target].Merge(f.Owner, f.Ships)
		report.Arrived++
	})

	// 5. 交战
	report.Battles = e.fight(ctx, armies)

	// 6. 存活判定：有行星或有在途舰队即存活，存活者下回合需要重新提交
	s.Roster.Each(func(p *domain.Player) {
		if p.ID.IsNeutral() {
			return
		}
		p.Dead = s.Planets.OwnedBy(p.ID) == 0 && s.Fleets.InFlight(p.ID) == 0
		if !p.Dead {
			p.Moved = false
		}
	})

	e.log.WithContext(ctx).Debug("round advanced",
		zap.Int("turn", report.Turn),
		zap.Int("launched", len(report.Launched)),
		zap.Int("arrived", report.Arrived),
		zap.Int("battles", len(report.Battles)),
	)
	return report
}

// fight 按行星结算参战方，armies 下标即 PlanetID。
func (e *Engine) fight(ctx context.Context, armies []domain.Armies) []Battle {
	var battles []Battle
	for id, a := range armies {
		if owner, dup := duplicateOwner(a); dup {
			e.reportInconsistency(ctx, "fight", errx.ErrInvariant.WithMsg("two armies share an owner").
				WithData("planet", id).WithData("owner", int64(owner)))
			a = remerge(a)
		}
		p := e.state.Planets.At(domain.PlanetID(id))
		p.Owner, p.Ships = resolveFight(a)
		if len(a) > 1 {
			battles = append(battles, Battle{Planet: p.ID, Armies: a, Owner: p.Owner, Ships: p.Ships})
		}
	}
	return battles
}

func (e *Engine) reportInconsistency(ctx context.Context, step string, err error) {
	logx.ReportSysErrorWithLoggerContext(ctx, e.log, logx.NewSysLog("advance."+step, err),
		zap.Int("turn", e.state.Turn))
}

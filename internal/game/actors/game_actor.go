package actors

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"PlanetWars/internal/game/record"
	"PlanetWars/internal/game/replay"
	"PlanetWars/internal/game/session"
	"PlanetWars/internal/game/snapshot"
	"PlanetWars/modules/kit/errx"
	"PlanetWars/modules/kit/logx"
	"PlanetWars/modules/kit/tracex"
)

const saveTimeout = 3 * time.Second

// Deps 是所有对局 actor 共用的依赖。
type Deps struct {
	Session session.Config
	// RoundTimeout 为 0 时不设回合超时。
	RoundTimeout time.Duration
	// ReplayDir 为空时不写回放。
	ReplayDir string
	// SnapshotDir 非空时，未结束的对局在 actor 停止时落快照，同房间再次接入时续局。
	SnapshotDir string
	Records     record.Repository
	Logger      logx.Logger
	Now         func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type State int

const (
	None State = iota
	Running
	Stopping
	Stopped
)

// GameActor 独占一个 Session，邮箱保证同一时刻只处理一条消息。
type GameActor struct {
	state     State
	room      string
	deps      Deps
	sender    session.Sender
	sess      *session.Session
	startedAt time.Time

	deadline     *time.Timer
	deadlineTurn int
	log          logx.Logger
}

func NewGameActor(room string, sender session.Sender, deps Deps) *GameActor {
	deps = deps.withDefaults()
	if deps.ReplayDir != "" {
		sender = replay.NewTeeSender(sender, filepath.Clean(deps.ReplayDir), room, deps.Logger)
	}
	return &GameActor{
		state:  None,
		room:   room,
		deps:   deps,
		sender: sender,
		sess:   session.New(room, deps.Session, sender, deps.Logger),
		log:    deps.Logger,
	}
}

func (g *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		g.state = Running
		g.resume(ctx)
		return
	case *actor.Stopping:
		g.stopDeadline()
		if !g.sess.Done() {
			// 连接断开或进程退出，对局没有正常结束
			g.saveSnapshot()
			g.sender.Close()
		}
		g.state = Stopping
		return
	case *actor.Stopped:
		g.stopDeadline()
		g.state = Stopped
		return
	case *Deliver:
		if msg == nil {
			ctx.Respond(&DeliverResp{Err: errx.ErrReqParamERR})
			return
		}
		c := g.context(msg.TraceID)
		wasIdle := g.sess.Phase() == session.PhaseIdle
		err := g.sess.HandleMessage(c, msg.Raw)
		if wasIdle && g.sess.Phase() != session.PhaseIdle {
			g.startedAt = g.deps.Now()
		}
		ctx.Respond(&DeliverResp{Err: err})
		g.afterMessage(ctx, c)
	case roundDeadline:
		c := g.context("")
		if g.sess.ExpireRound(c, msg.Turn) {
			g.afterMessage(ctx, c)
		}
	case *SnapshotReq:
		snap, ok := g.sess.Snapshot()
		ctx.Respond(&SnapshotResp{
			Room:     g.room,
			Phase:    g.sess.Phase().String(),
			Started:  ok,
			Snapshot: snap,
		})
	default:
		return
	}
}

func (g *GameActor) context(traceID string) context.Context {
	c := tracex.WithSessionID(context.Background(), g.room)
	if traceID != "" {
		c = tracex.WithTraceID(c, traceID)
	}
	return c
}

// afterMessage 在每次驱动会话后执行：结束则落战绩并自停，否则按需重置回合超时。
func (g *GameActor) afterMessage(ctx actor.Context, c context.Context) {
	if g.sess.Done() {
		g.stopDeadline()
		g.saveRecord(c)
		ctx.Stop(ctx.Self())
		return
	}
	if g.sess.Phase() != session.PhaseAwaitingOrders || g.deps.RoundTimeout <= 0 {
		return
	}
	if g.deadline != nil && g.deadlineTurn == g.sess.Turn() {
		return
	}
	g.armDeadline(ctx)
}

func (g *GameActor) armDeadline(ctx actor.Context) {
	g.stopDeadline()
	turn := g.sess.Turn()
	self := ctx.Self()
	root := ctx.ActorSystem().Root
	g.deadlineTurn = turn
	g.deadline = time.AfterFunc(g.deps.RoundTimeout, func() {
		root.Send(self, roundDeadline{Turn: turn})
	})
}

func (g *GameActor) stopDeadline() {
	if g.deadline == nil {
		return
	}
	g.deadline.Stop()
	g.deadline = nil
}

func (g *GameActor) saveRecord(c context.Context) {
	if g.deps.Records == nil {
		return
	}
	rec := record.New(g.room, g.sess.Outcome(), g.startedAt, g.deps.Now())
	saveCtx, cancel := context.WithTimeout(c, saveTimeout)
	defer cancel()
	if err := g.deps.Records.Save(saveCtx, rec); err != nil {
		logx.ReportSysErrorWithLoggerContext(c, g.log, logx.NewSysLog("record.save", err),
			zap.String("record_id", rec.ID))
		return
	}
	g.log.WithContext(c).Info("match record saved",
		zap.String("record_id", rec.ID),
		zap.Int64("winner", rec.Winner),
		zap.Int("turns", rec.Turns),
	)
}

func (g *GameActor) snapshotPath() string {
	return filepath.Join(filepath.Clean(g.deps.SnapshotDir), snapshot.FileName(g.room))
}

// resume 读取房间快照续局，读到即删，避免对局结束后被再次恢复。
func (g *GameActor) resume(ctx actor.Context) {
	if g.deps.SnapshotDir == "" {
		return
	}
	c := g.context("")
	path := g.snapshotPath()
	snap, err := snapshot.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(c, g.log, logx.NewSysLog("snapshot.read", err), zap.String("path", path))
		return
	}
	if err := os.Remove(path); err != nil {
		logx.ReportSysErrorWithLoggerContext(c, g.log, logx.NewSysLog("snapshot.remove", err), zap.String("path", path))
	}
	if err := g.sess.Resume(c, snap); err != nil {
		logx.ReportBizWithLoggerContext(c, g.log, logx.NewRejectLog("snapshot.resume", string(errx.CodeOf(err)), err.Error()))
		return
	}
	g.startedAt = g.deps.Now()
	g.log.WithContext(c).Info("match resumed from snapshot", zap.Int("turn", g.sess.Turn()))
	g.afterMessage(ctx, c)
}

func (g *GameActor) saveSnapshot() {
	if g.deps.SnapshotDir == "" {
		return
	}
	snap, ok := g.sess.Snapshot()
	if !ok {
		return
	}
	c := g.context("")
	path := g.snapshotPath()
	if err := snapshot.WriteFile(path, snap); err != nil {
		logx.ReportSysErrorWithLoggerContext(c, g.log, logx.NewSysLog("snapshot.write", err), zap.String("path", path))
		return
	}
	g.log.WithContext(c).Info("match snapshot saved", zap.Int("turn", snap.Header.Turn), zap.String("path", path))
}

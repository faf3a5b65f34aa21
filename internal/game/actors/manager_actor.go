package actors

import (
	"slices"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"PlanetWars/internal/game/session"
	"PlanetWars/modules/kit/errx"
)

type room struct {
	pid    *actor.PID
	sender session.Sender
}

// ManagerActor 只做路由和房间表维护，对局逻辑都在子 actor 里。
type ManagerActor struct {
	deps  Deps
	rooms map[string]room
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:  deps.withDefaults(),
		rooms: make(map[string]room),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *OpenSession:
		if msg == nil || msg.Room == "" || msg.Sender == nil {
			ctx.Respond(&OpenSessionResp{Err: errx.ErrReqParamERR})
			return
		}
		if _, ok := m.rooms[msg.Room]; ok {
			ctx.Respond(&OpenSessionResp{Err: ErrRoomBusy.WithData("room", msg.Room)})
			return
		}
		m.spawn(ctx, msg.Room, msg.Sender)
		ctx.Respond(&OpenSessionResp{})
	case *Deliver:
		if pid := m.lookup(msg.Room); pid != nil {
			ctx.Forward(pid)
			return
		}
		ctx.Respond(&DeliverResp{Err: ErrRoomNotFound.WithData("room", msg.Room)})
	case *SnapshotReq:
		if pid := m.lookup(msg.Room); pid != nil {
			ctx.Forward(pid)
			return
		}
		ctx.Respond(&SnapshotResp{Room: msg.Room, Err: ErrRoomNotFound.WithData("room", msg.Room)})
	case *ListSessions:
		rooms := make([]string, 0, len(m.rooms))
		for id := range m.rooms {
			rooms = append(rooms, id)
		}
		slices.Sort(rooms)
		ctx.Respond(&ListSessionsResp{Rooms: rooms})
	case *Detach:
		r, ok := m.rooms[msg.Room]
		if !ok || r.sender != msg.Sender {
			return
		}
		ctx.Stop(r.pid)
	case *actor.Terminated:
		for id, r := range m.rooms {
			if r.pid.Id == msg.Who.Id {
				delete(m.rooms, id)
				m.deps.Logger.Debug("game actor terminated", zap.String("room", id))
				break
			}
		}
	default:
		return
	}
}

func (m *ManagerActor) lookup(id string) *actor.PID {
	if r, ok := m.rooms[id]; ok {
		return r.pid
	}
	return nil
}

func (m *ManagerActor) spawn(ctx actor.Context, id string, sender session.Sender) {
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(id, sender, m.deps)
	})
	// ManagerActor 创建子 actor，子 actor 停止时会收到 Terminated
	pid := ctx.Spawn(props)
	m.rooms[id] = room{pid: pid, sender: sender}
}

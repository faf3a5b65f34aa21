package actor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"PlanetWars/internal/game/actors"
	"PlanetWars/internal/game/infra/persistence/memory"
	"PlanetWars/internal/game/protocol"
	"PlanetWars/internal/game/session"
	"PlanetWars/internal/game/snapshot"
	"PlanetWars/internal/shared/transport"
)

type chanSender struct {
	mu     sync.Mutex
	msgs   []protocol.Outbound
	states chan protocol.StateMessage
	closed chan struct{}
	once   sync.Once
}

func newChanSender() *chanSender {
	return &chanSender{states: make(chan protocol.StateMessage, 64), closed: make(chan struct{})}
}

func (c *chanSender) Send(msg protocol.Outbound) error {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
	if st, ok := msg.(protocol.StateMessage); ok {
		c.states <- st
	}
	return nil
}

func (c *chanSender) Close() {
	c.once.Do(func() { close(c.closed) })
}

func (c *chanSender) last() protocol.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.msgs) == 0 {
		return nil
	}
	return c.msgs[len(c.msgs)-1]
}

func (c *chanSender) waitState(t *testing.T, turn int) protocol.StateMessage {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case st := <-c.states:
			if st.Turn == turn {
				return st
			}
		case <-deadline:
			t.Fatalf("no state for turn %d", turn)
		}
	}
}

func (c *chanSender) waitClosed(t *testing.T) {
	t.Helper()
	select {
	case <-c.closed:
	case <-time.After(3 * time.Second):
		t.Fatalf("sender was not closed")
	}
}

func newRuntime(t *testing.T, deps actors.Deps) *Runtime {
	t.Helper()
	if deps.Session.MaxTurns == 0 {
		deps.Session = session.DefaultConfig()
		deps.Session.Seed = 11
	}
	rt := NewRuntime(deps, time.Second)
	t.Cleanup(rt.Shutdown)
	return rt
}

func deliver(t *testing.T, rt *Runtime, room, raw string) error {
	t.Helper()
	return rt.Deliver(context.Background(), room, []byte(raw))
}

func waitRooms(t *testing.T, rt *Runtime, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		rooms, err := rt.Sessions(context.Background())
		if err != nil {
			t.Fatalf("sessions: %v", err)
		}
		if len(rooms) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("rooms did not reach %d", want)
}

func TestRuntime_完整对局并落战绩(t *testing.T) {
	repo := memory.NewMatchRepository()
	cfg := session.DefaultConfig()
	cfg.MaxTurns = 2
	cfg.Seed = 3
	rt := newRuntime(t, actors.Deps{Session: cfg, Records: repo})
	out := newChanSender()
	ctx := context.Background()

	if err := rt.Open(ctx, "room-a", out); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := deliver(t, rt, "room-a", `{"type":"start","players":[1,2]}`); err != nil {
		t.Fatalf("start: %v", err)
	}
	out.waitState(t, 0)

	snap, err := rt.Snapshot(ctx, "room-a")
	if err != nil || !snap.Started || snap.Phase != session.PhaseAwaitingOrders.String() {
		t.Fatalf("snapshot: %+v err=%v", snap, err)
	}

	for turn := 1; turn <= 2; turn++ {
		_ = deliver(t, rt, "room-a", `{"type":"action","player":1,"action":{"moves":[]}}`)
		_ = deliver(t, rt, "room-a", `{"type":"action","player":2,"action":{"moves":[]}}`)
		out.waitState(t, turn)
	}
	out.waitClosed(t)
	if _, ok := out.last().(protocol.StopMessage); !ok {
		t.Fatalf("last message should be stop, got %T", out.last())
	}
	waitRooms(t, rt, 0)

	recs, err := repo.ListBySession(ctx, "room-a")
	if err != nil || len(recs) != 1 {
		t.Fatalf("records = %v err=%v", recs, err)
	}
	if recs[0].Reason != session.ReasonMaxTurns || recs[0].Turns != 2 {
		t.Fatalf("unexpected record: %+v", recs[0])
	}

	err = deliver(t, rt, "room-a", `{"type":"action","player":1,"action":{"moves":[]}}`)
	if !errors.Is(err, actors.ErrRoomNotFound) || CodeFromError(err) != transport.NotFound {
		t.Fatalf("deliver after end: %v", err)
	}
}

func TestRuntime_房间占用与协议错误(t *testing.T) {
	rt := newRuntime(t, actors.Deps{})
	ctx := context.Background()
	first, second := newChanSender(), newChanSender()

	if err := rt.Open(ctx, "room-b", first); err != nil {
		t.Fatalf("open: %v", err)
	}
	err := rt.Open(ctx, "room-b", second)
	if !errors.Is(err, actors.ErrRoomBusy) || CodeFromError(err) != transport.Conflict {
		t.Fatalf("second open: %v", err)
	}

	err = deliver(t, rt, "room-b", `{"type":"nope"}`)
	if !errors.Is(err, protocol.ErrUnknownType) || CodeFromError(err) != transport.InvalidParam {
		t.Fatalf("unknown type: %v", err)
	}
	if _, ok := first.last().(protocol.ErrorMessage); !ok {
		t.Fatalf("protocol error should be answered with an error message")
	}
}

func TestRuntime_回合超时(t *testing.T) {
	rt := newRuntime(t, actors.Deps{RoundTimeout: 50 * time.Millisecond})
	out := newChanSender()
	_ = rt.Open(context.Background(), "room-c", out)
	_ = deliver(t, rt, "room-c", `{"type":"start","players":[1,2]}`)

	out.waitState(t, 0)
	// 没人出手，超时后自动推进两回合
	out.waitState(t, 1)
	out.waitState(t, 2)
}

func TestRuntime_断线停止对局(t *testing.T) {
	rt := newRuntime(t, actors.Deps{})
	out := newChanSender()
	_ = rt.Open(context.Background(), "room-d", out)
	_ = deliver(t, rt, "room-d", `{"type":"start","players":[1,2]}`)

	// 其他 sender 的断线不影响本房间
	rt.Detach("room-d", newChanSender())
	rt.Detach("room-d", out)
	out.waitClosed(t)
	waitRooms(t, rt, 0)
}

func TestRuntime_断线落快照重连续局(t *testing.T) {
	dir := t.TempDir()
	rt := newRuntime(t, actors.Deps{SnapshotDir: dir})
	ctx := context.Background()

	first := newChanSender()
	_ = rt.Open(ctx, "room-e", first)
	_ = deliver(t, rt, "room-e", `{"type":"start","players":[1,2]}`)
	first.waitState(t, 0)
	_ = deliver(t, rt, "room-e", `{"type":"action","player":1,"action":{"moves":[]}}`)
	_ = deliver(t, rt, "room-e", `{"type":"action","player":2,"action":{"moves":[]}}`)
	first.waitState(t, 1)

	rt.Detach("room-e", first)
	first.waitClosed(t)
	waitRooms(t, rt, 0)

	path := filepath.Join(dir, snapshot.FileName("room-e"))
	snap, err := snapshot.ReadFile(path)
	if err != nil || snap.Header.Turn != 1 {
		t.Fatalf("snapshot file: turn=%d err=%v", snap.Header.Turn, err)
	}

	second := newChanSender()
	if err := rt.Open(ctx, "room-e", second); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	second.waitState(t, 1)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("snapshot should be consumed on resume, stat err=%v", err)
	}
	if err := deliver(t, rt, "room-e", `{"type":"start","players":[1,2]}`); !errors.Is(err, protocol.ErrAlreadyStarted) {
		t.Fatalf("resumed match should reject start: %v", err)
	}
	_ = deliver(t, rt, "room-e", `{"type":"action","player":1,"action":{"moves":[]}}`)
	_ = deliver(t, rt, "room-e", `{"type":"action","player":2,"action":{"moves":[]}}`)
	second.waitState(t, 2)
}

func TestTimeoutFromContext(t *testing.T) {
	rt := &Runtime{timeout: time.Second}
	if got := rt.timeoutFromContext(context.Background()); got != time.Second {
		t.Fatalf("no deadline: %v", got)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if got := rt.timeoutFromContext(ctx); got > 100*time.Millisecond {
		t.Fatalf("deadline should cap timeout: %v", got)
	}
}

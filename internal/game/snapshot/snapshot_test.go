package snapshot

import (
	"bytes"
	"context"
	"math/rand/v2"
	"path/filepath"
	"reflect"
	"testing"

	"PlanetWars/internal/game/domain"
	"PlanetWars/internal/game/engine"
)

func playedState(t *testing.T) *domain.State {
	t.Helper()
	s, err := engine.NewGame([]domain.PlayerID{1, 2}, engine.DefaultMapConfig(), rand.New(rand.NewPCG(7, 7)))
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	e := engine.New(s, nil)
	e.Queue(context.Background(), 1, []domain.Move{{Source: 9, Target: 0, Ships: 3}})
	e.Queue(context.Background(), 2, []domain.Move{{Source: 8, Target: 1, Ships: 2}})
	e.Advance(context.Background())
	return e.State()
}

func TestRoundTrip_State(t *testing.T) {
	state := playedState(t)
	snap := FromState("room-1", state)

	restored, err := snap.ToState()
	if err != nil {
		t.Fatalf("to state: %v", err)
	}
	again := FromState("room-1", restored)
	if !reflect.DeepEqual(snap, again) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", snap, again)
	}
}

func TestRoundTrip_Encoded(t *testing.T) {
	snap := FromState("room-2", playedState(t))

	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(snap, got) {
		t.Fatalf("encoded round trip mismatch:\n%+v\n%+v", snap, got)
	}

	path := filepath.Join(t.TempDir(), "snap", "room-2.json.zst")
	if err := WriteFile(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}
	fromFile, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(snap, fromFile) {
		t.Fatalf("file round trip mismatch")
	}
}

func TestToState_RejectsBrokenSnapshot(t *testing.T) {
	snap := FromState("room-3", playedState(t))
	snap.Planets[0].Owner = 42
	if _, err := snap.ToState(); err == nil {
		t.Fatalf("expected unknown owner to be rejected")
	}

	snap = FromState("room-3", playedState(t))
	snap.Header.Version = 9
	if _, err := snap.ToState(); err == nil {
		t.Fatalf("expected version mismatch to be rejected")
	}
}

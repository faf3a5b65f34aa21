package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"PlanetWars/internal/game/record"
	"PlanetWars/internal/game/session"
)

func TestMatchRepository_SaveAndList(t *testing.T) {
	repo := NewMatchRepository()
	ctx := context.Background()
	now := time.Now()

	a := record.New("room-1", session.Outcome{Turn: 3, Reason: session.ReasonMaxTurns, Winner: -1}, now, now)
	b := record.New("room-2", session.Outcome{Turn: 5}, now, now)
	for _, r := range []record.MatchRecord{a, b} {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.ListBySession(ctx, "room-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("unexpected records: %+v", got)
	}
	if none, _ := repo.ListBySession(ctx, "room-x"); len(none) != 0 {
		t.Fatalf("unknown session should be empty")
	}
}

func TestMatchRepository_RejectsInvalid(t *testing.T) {
	err := NewMatchRepository().Save(context.Background(), record.MatchRecord{})
	if !errors.Is(err, record.ErrInvalidRecord) {
		t.Fatalf("err = %v", err)
	}
}

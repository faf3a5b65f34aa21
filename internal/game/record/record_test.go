package record

import (
	"errors"
	"testing"
	"time"

	"PlanetWars/internal/game/domain"
	"PlanetWars/internal/game/session"
)

func TestNew_FromOutcome(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CST", 8*3600))
	oc := session.Outcome{
		Turn:    37,
		Reason:  session.ReasonLastStanding,
		Winner:  2,
		Players: []domain.PlayerID{1, 2},
		Alive:   []domain.PlayerID{2},
	}
	r := New("room-1", oc, start, start.Add(time.Minute))

	if err := r.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if r.Winner != 2 || r.Turns != 37 || len(r.Players) != 2 || len(r.Alive) != 1 {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.StartedAt.Location() != time.UTC {
		t.Fatalf("times must be stored in UTC")
	}
	if other := New("room-1", oc, start, start); other.ID == r.ID {
		t.Fatalf("record ids must be unique")
	}
}

func TestValidate_MissingFields(t *testing.T) {
	if err := (MatchRecord{SessionID: "x"}).Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("missing id: %v", err)
	}
	if err := (MatchRecord{ID: "not-a-uuid", SessionID: "x"}).Validate(); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("bad id: %v", err)
	}
}

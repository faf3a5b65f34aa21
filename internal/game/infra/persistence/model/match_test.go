package model

import (
	"reflect"
	"testing"
	"time"

	"PlanetWars/internal/game/record"
)

func sample() record.MatchRecord {
	at := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	return record.MatchRecord{
		ID:         "4f7d3c1e-9a44-4b44-9d0b-0d2a4c7b1e10",
		SessionID:  "room-1",
		Players:    []int64{1, 2, 3},
		Alive:      []int64{3},
		Winner:     3,
		Reason:     "last_standing",
		Turns:      12,
		StartedAt:  at,
		FinishedAt: at.Add(time.Hour),
	}
}

func TestRow_RoundTrip(t *testing.T) {
	want := sample()
	row, err := RecordToRow(want)
	if err != nil {
		t.Fatalf("to row: %v", err)
	}
	if row.Players != "[1,2,3]" {
		t.Fatalf("players column = %q", row.Players)
	}
	got, err := RowToRecord(row)
	if err != nil {
		t.Fatalf("to record: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("row round trip:\n%+v\n%+v", want, got)
	}
}

func TestRowToRecord_BadPlayers(t *testing.T) {
	if _, err := RowToRecord(MatchRow{Players: "oops", Alive: "[]"}); err == nil {
		t.Fatalf("expected players decode error")
	}
}

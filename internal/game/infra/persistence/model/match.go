package model

import (
	"encoding/json"
	"time"

	"PlanetWars/internal/game/record"
)

// MatchRow 是 mysql 里的战绩行，玩家列表以 JSON 数组存放。
type MatchRow struct {
	ID         string    `gorm:"column:id;type:char(36);primaryKey;not null;" json:"id"`
	SessionID  string    `gorm:"column:session_id;type:varchar(64);index;not null;" json:"session_id"`
	Players    string    `gorm:"column:players;type:varchar(512);not null;" json:"players"`
	Alive      string    `gorm:"column:alive;type:varchar(512);not null;" json:"alive"`
	Winner     int64     `gorm:"column:winner;type:bigint;comment:-1 无胜者;not null;" json:"winner"`
	Reason     string    `gorm:"column:reason;type:varchar(32);not null;" json:"reason"`
	Turns      int       `gorm:"column:turns;type:int UNSIGNED;not null;" json:"turns"`
	StartedAt  time.Time `gorm:"column:started_at;type:timestamp;not null;" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at;type:timestamp;not null;" json:"finished_at"`
}

func (m *MatchRow) TableName() string {
	return "match_record"
}

func RecordToRow(r record.MatchRecord) (MatchRow, error) {
	players, err := json.Marshal(r.Players)
	if err != nil {
		return MatchRow{}, err
	}
	alive, err := json.Marshal(r.Alive)
	if err != nil {
		return MatchRow{}, err
	}
	return MatchRow{
		ID:         r.ID,
		SessionID:  r.SessionID,
		Players:    string(players),
		Alive:      string(alive),
		Winner:     r.Winner,
		Reason:     r.Reason,
		Turns:      r.Turns,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}, nil
}

func RowToRecord(m MatchRow) (record.MatchRecord, error) {
	r := record.MatchRecord{
		ID:         m.ID,
		SessionID:  m.SessionID,
		Winner:     m.Winner,
		Reason:     m.Reason,
		Turns:      m.Turns,
		StartedAt:  m.StartedAt.UTC(),
		FinishedAt: m.FinishedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(m.Players), &r.Players); err != nil {
		return record.MatchRecord{}, err
	}
	if err := json.Unmarshal([]byte(m.Alive), &r.Alive); err != nil {
		return record.MatchRecord{}, err
	}
	return r, nil
}

// MatchDoc 是 mongodb 里的战绩文档。
type MatchDoc struct {
	ID         string    `bson:"_id"`
	SessionID  string    `bson:"session_id"`
	Players    []int64   `bson:"players"`
	Alive      []int64   `bson:"alive"`
	Winner     int64     `bson:"winner"`
	Reason     string    `bson:"reason"`
	Turns      int       `bson:"turns"`
	StartedAt  time.Time `bson:"started_at"`
	FinishedAt time.Time `bson:"finished_at"`
}

func RecordToDoc(r record.MatchRecord) MatchDoc {
	return MatchDoc{
		ID:         r.ID,
		SessionID:  r.SessionID,
		Players:    r.Players,
		Alive:      r.Alive,
		Winner:     r.Winner,
		Reason:     r.Reason,
		Turns:      r.Turns,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

func DocToRecord(d MatchDoc) record.MatchRecord {
	return record.MatchRecord{
		ID:         d.ID,
		SessionID:  d.SessionID,
		Players:    d.Players,
		Alive:      d.Alive,
		Winner:     d.Winner,
		Reason:     d.Reason,
		Turns:      d.Turns,
		StartedAt:  d.StartedAt.UTC(),
		FinishedAt: d.FinishedAt.UTC(),
	}
}

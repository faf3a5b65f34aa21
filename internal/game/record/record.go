package record

import (
	"context"
	"time"

	"github.com/google/uuid"

	"PlanetWars/internal/game/domain"
	"PlanetWars/internal/game/session"
	"PlanetWars/modules/kit/errx"
)

// MatchRecord 是一局结束后的战绩，只追加不修改。
type MatchRecord struct {
	ID         string
	SessionID  string
	Players    []int64
	Alive      []int64
	Winner     int64 // -1 表示没有唯一胜者
	Reason     string
	Turns      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Repository 是战绩存储端口，实现见 infra/persistence。
type Repository interface {
	Save(ctx context.Context, r MatchRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]MatchRecord, error)
}

var ErrInvalidRecord = errx.NewBiz("INVALID_RECORD", "战绩缺少必要字段")

func New(sessionID string, oc session.Outcome, startedAt, finishedAt time.Time) MatchRecord {
	return MatchRecord{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Players:    toInt64(oc.Players),
		Alive:      toInt64(oc.Alive),
		Winner:     int64(oc.Winner),
		Reason:     oc.Reason,
		Turns:      oc.Turn,
		StartedAt:  startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
	}
}

func (r MatchRecord) Validate() error {
	if r.ID == "" {
		return ErrInvalidRecord.WithData("field", "id")
	}
	if r.SessionID == "" {
		return ErrInvalidRecord.WithData("field", "session_id")
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return ErrInvalidRecord.WithData("field", "id").WithCause(err)
	}
	return nil
}

func toInt64(ids []domain.PlayerID) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}

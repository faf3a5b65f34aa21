package memory

import (
	"context"
	"slices"
	"sync"

	"PlanetWars/internal/game/record"
)

// MatchRepository 把战绩留在进程内，进程重启即丢失。
type MatchRepository struct {
	mu      sync.RWMutex
	records []record.MatchRecord
}

var _ record.Repository = (*MatchRepository)(nil)

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{}
}

func (r *MatchRepository) Save(ctx context.Context, m record.MatchRecord) error {
	_ = ctx
	if err := m.Validate(); err != nil {
		return err
	}
	m.Players = slices.Clone(m.Players)
	m.Alive = slices.Clone(m.Alive)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, m)
	return nil
}

func (r *MatchRepository) ListBySession(ctx context.Context, sessionID string) ([]record.MatchRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []record.MatchRecord
	for _, m := range r.records {
		if m.SessionID == sessionID {
			m.Players = slices.Clone(m.Players)
			m.Alive = slices.Clone(m.Alive)
			out = append(out, m)
		}
	}
	return out, nil
}

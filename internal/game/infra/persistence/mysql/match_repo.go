package mysql

import (
	"context"

	"gorm.io/gorm"

	"PlanetWars/internal/game/infra/persistence/model"
	"PlanetWars/internal/game/record"
	"PlanetWars/modules/kit/errx"
)

type MatchRepository struct {
	db *gorm.DB
}

var _ record.Repository = (*MatchRepository)(nil)

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{
		db: db,
	}
}

// Migrate 建表或补齐列。
func (r *MatchRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.MatchRow{}); err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}

func (r *MatchRepository) Save(ctx context.Context, m record.MatchRecord) error {
	if err := m.Validate(); err != nil {
		return err
	}
	row, err := model.RecordToRow(m)
	if err != nil {
		return errx.ErrInternal.WithData("record", m.ID).WithCause(err)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// 连接超时这类技术错误，包装后交给上层记日志
		return errx.ErrUnavailable.WithData("record", m.ID).WithCause(err)
	}
	return nil
}

func (r *MatchRepository) ListBySession(ctx context.Context, sessionID string) ([]record.MatchRecord, error) {
	var rows []model.MatchRow
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("finished_at").
		Find(&rows).Error
	if err != nil {
		return nil, errx.ErrUnavailable.WithData("session", sessionID).WithCause(err)
	}
	out := make([]record.MatchRecord, 0, len(rows))
	for _, row := range rows {
		m, err := model.RowToRecord(row)
		if err != nil {
			return nil, errx.ErrInternal.WithData("record", row.ID).WithCause(err)
		}
		out = append(out, m)
	}
	return out, nil
}

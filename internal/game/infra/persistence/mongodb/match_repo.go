package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"PlanetWars/internal/game/infra/persistence/model"
	"PlanetWars/internal/game/record"
	"PlanetWars/modules/kit/errx"
)

const defaultCollectionName = "match_record"

type MatchRepository struct {
	coll *mongo.Collection
}

var _ record.Repository = (*MatchRepository)(nil)

func NewMatchRepository(db *mongo.Database) *MatchRepository {
	return &MatchRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

// EnsureIndexes 给 session_id 建索引，重复调用无副作用。
func (r *MatchRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb match collection is nil")
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "finished_at", Value: 1}},
	})
	if err != nil {
		return errx.ErrUnavailable.WithCause(err)
	}
	return nil
}

func (r *MatchRepository) Save(ctx context.Context, m record.MatchRecord) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb match collection is nil")
	}
	if err := m.Validate(); err != nil {
		return err
	}
	doc := model.RecordToDoc(m)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errx.ErrUnavailable.WithData("record", m.ID).WithCause(err)
	}
	return nil
}

func (r *MatchRepository) ListBySession(ctx context.Context, sessionID string) ([]record.MatchRecord, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb match collection is nil")
	}
	cur, err := r.coll.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "finished_at", Value: 1}}),
	)
	if err != nil {
		return nil, errx.ErrUnavailable.WithData("session", sessionID).WithCause(err)
	}
	defer cur.Close(ctx)

	var docs []model.MatchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errx.ErrUnavailable.WithData("session", sessionID).WithCause(err)
	}
	out := make([]record.MatchRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.DocToRecord(d))
	}
	return out, nil
}

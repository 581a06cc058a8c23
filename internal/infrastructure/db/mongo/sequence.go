package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequence hands out increasing int64 ids per name, backed by the counters collection.
type Sequence struct {
	coll *mongo.Collection
}

func NewSequence(db *mongo.Database) *Sequence {
	return &Sequence{coll: db.Collection(countersCollection)}
}

func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Value, nil
}

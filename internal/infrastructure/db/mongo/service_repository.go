package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carservice/station/internal/core/domain"
)

// ServiceRepository stores the catalog of car services.
type ServiceRepository struct {
	coll *mongo.Collection
	seq  *Sequence
}

func NewServiceRepository(db *mongo.Database, seq *Sequence) *ServiceRepository {
	return &ServiceRepository{coll: db.Collection(servicesCollection), seq: seq}
}

func (r *ServiceRepository) Create(ctx context.Context, svc *domain.CarService) error {
	id, err := r.seq.Next(ctx, servicesCollection)
	if err != nil {
		return err
	}
	svc.ID = id
	if _, err := r.coll.InsertOne(ctx, svc); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (r *ServiceRepository) FindByID(ctx context.Context, id int64) (*domain.CarService, error) {
	var svc domain.CarService
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return &svc, nil
}

func (r *ServiceRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.CarService, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.CarService, error) {
	return r.find(ctx, bson.M{})
}

func (r *ServiceRepository) find(ctx context.Context, filter bson.M) ([]domain.CarService, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find services: %w", err)
	}
	out := []domain.CarService{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	return out, nil
}

func (r *ServiceRepository) Update(ctx context.Context, svc *domain.CarService) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": svc.ID}, svc)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

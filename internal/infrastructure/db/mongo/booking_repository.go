package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

type BookingRepository struct {
	coll *mongo.Collection
	seq  *Sequence
}

func NewBookingRepository(db *mongo.Database, seq *Sequence) *BookingRepository {
	return &BookingRepository{coll: db.Collection(bookingsCollection), seq: seq}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	id, err := r.seq.Next(ctx, bookingsCollection)
	if err != nil {
		return err
	}
	b.ID = id
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	return r.find(ctx, bson.M{"customer_id": customerID})
}

// find returns the newest appointments first.
func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "booking_date_time", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	out := []domain.Booking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return out, nil
}

// UpdateStatus sets only the changed fields. The current status, and the
// payment status when it changes, are part of the filter so a concurrent
// write is never overwritten.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from domain.BookingStatus, fromPayment domain.PaymentStatus, set ports.StatusUpdate) error {
	filter := bson.M{"_id": id, "status": string(from)}
	fields := bson.M{}
	if set.Status != "" {
		fields["status"] = string(set.Status)
	}
	if set.PaymentStatus != "" {
		filter["payment_status"] = string(fromPayment)
		fields["payment_status"] = string(set.PaymentStatus)
	}
	return r.updateWhere(ctx, filter, fields, domain.ErrInvalidTransition)
}

func (r *BookingRepository) MarkPaid(ctx context.Context, id int64) error {
	filter := bson.M{"_id": id, "payment_status": string(domain.PaymentPending)}
	return r.updateWhere(ctx, filter, bson.M{"payment_status": string(domain.PaymentPaid)}, domain.ErrAlreadyPaid)
}

func (r *BookingRepository) SetFeedback(ctx context.Context, id int64, rating int, comment string) error {
	filter := bson.M{"_id": id, "rating": bson.M{"$exists": false}}
	return r.updateWhere(ctx, filter, bson.M{"rating": rating, "comment": comment}, domain.ErrFeedbackExists)
}

// updateWhere applies $set to the booking matching filter and returns
// unmatched when the precondition no longer holds.
func (r *BookingRepository) updateWhere(ctx context.Context, filter, fields bson.M, unmatched error) error {
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return unmatched
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) Stats(ctx context.Context) (domain.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status":         string(domain.BookingCompleted),
			"payment_status": string(domain.PaymentPaid),
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"revenue": bson.M{"$sum": "$total_amount"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("booking stats: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Revenue float64 `bson:"revenue"`
		Count   int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return domain.Stats{}, fmt.Errorf("decode booking stats: %w", err)
	}
	if len(rows) == 0 {
		return domain.Stats{}, nil
	}
	return domain.Stats{TotalRevenue: rows[0].Revenue, TotalCompletedBookings: rows[0].Count}, nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carservice/station/internal/core/domain"
)

const defaultOrderTTL = 24 * time.Hour

// PaymentOrders keeps issued checkout orders until they expire.
// Key format: order:<order_id>
type PaymentOrders struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewPaymentOrders wraps client. ttl <= 0 selects defaultOrderTTL.
func NewPaymentOrders(client redis.Cmdable, ttl time.Duration) *PaymentOrders {
	if ttl <= 0 {
		ttl = defaultOrderTTL
	}
	return &PaymentOrders{client: client, ttl: ttl}
}

func (o *PaymentOrders) Save(ctx context.Context, order domain.PaymentOrder) error {
	raw, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode payment order: %w", err)
	}
	if err := o.client.Set(ctx, o.key(order.OrderID), raw, o.ttl).Err(); err != nil {
		return fmt.Errorf("save payment order: %w", err)
	}
	return nil
}

func (o *PaymentOrders) Find(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	raw, err := o.client.Get(ctx, o.key(orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment order: %w", err)
	}
	var order domain.PaymentOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode payment order %s: %w", orderID, err)
	}
	return &order, nil
}

func (o *PaymentOrders) key(orderID string) string {
	return "order:" + orderID
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLedgerTTL = 90 * 24 * time.Hour

// PaymentLedger records applied provider payment ids so a verified payment
// cannot be replayed. Key format: payment:<payment_id>
type PaymentLedger struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewPaymentLedger wraps client. ttl <= 0 selects defaultLedgerTTL.
func NewPaymentLedger(client redis.Cmdable, ttl time.Duration) *PaymentLedger {
	if ttl <= 0 {
		ttl = defaultLedgerTTL
	}
	return &PaymentLedger{client: client, ttl: ttl}
}

// Claim atomically records paymentID. It reports false if it was already recorded.
func (l *PaymentLedger) Claim(ctx context.Context, paymentID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(paymentID), time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("payment ledger claim: %w", err)
	}
	return ok, nil
}

// Release forgets paymentID, used when applying the payment failed after the claim.
func (l *PaymentLedger) Release(ctx context.Context, paymentID string) error {
	if err := l.client.Del(ctx, l.key(paymentID)).Err(); err != nil {
		return fmt.Errorf("payment ledger release: %w", err)
	}
	return nil
}

func (l *PaymentLedger) key(paymentID string) string {
	return "payment:" + paymentID
}

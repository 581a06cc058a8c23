package ports

import (
	"context"

	"github.com/carservice/station/internal/core/domain"
)

// PaymentLedger remembers which provider payments were already applied.
type PaymentLedger interface {
	// Claim records paymentID and reports false when it had been claimed before.
	Claim(ctx context.Context, paymentID string) (bool, error)
	Release(ctx context.Context, paymentID string) error
}

// PaymentOrders keeps the orders issued by CreateOrder until they are verified.
type PaymentOrders interface {
	Save(ctx context.Context, order domain.PaymentOrder) error
	// Find returns domain.ErrOrderNotFound for unknown or expired orders.
	Find(ctx context.Context, orderID string) (*domain.PaymentOrder, error)
}

type PaymentService interface {
	CreateOrder(ctx context.Context, who Principal, bookingID int64, amount float64) (*domain.PaymentOrder, error)
	Verify(ctx context.Context, who Principal, conf domain.PaymentConfirmation) error
}

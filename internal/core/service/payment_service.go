package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

// PaymentService issues checkout orders and applies verified payments.
// Orders are remembered so a confirmation only pays the booking it was opened
// for, and provider payment ids are claimed in the ledger so a confirmation
// cannot be replayed.
type PaymentService struct {
	bookings  ports.BookingRepository
	orders    ports.PaymentOrders
	ledger    ports.PaymentLedger
	keyID     string
	keySecret string
	log       zerolog.Logger
}

func NewPaymentService(
	bookings ports.BookingRepository,
	orders ports.PaymentOrders,
	ledger ports.PaymentLedger,
	keyID, keySecret string,
	log zerolog.Logger,
) *PaymentService {
	return &PaymentService{bookings: bookings, orders: orders, ledger: ledger, keyID: keyID, keySecret: keySecret, log: log}
}

// CreateOrder opens an order for the booking. A non-positive amount falls
// back to the booking total; any other amount must equal it.
func (s *PaymentService) CreateOrder(ctx context.Context, who ports.Principal, bookingID int64, amount float64) (*domain.PaymentOrder, error) {
	b, err := s.ownedBooking(ctx, who, bookingID)
	if err != nil {
		return nil, err
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return nil, domain.ErrAlreadyPaid
	}
	if amount <= 0 {
		amount = b.TotalAmount
	}
	if math.Abs(amount-b.TotalAmount) >= 0.005 {
		return nil, domain.ErrPaymentAmount
	}

	order := &domain.PaymentOrder{
		OrderID:   "order_" + uuid.NewString(),
		BookingID: b.ID,
		Amount:    amount,
		KeyID:     s.keyID,
	}
	if err := s.orders.Save(ctx, *order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.log.Info().Str("order_id", order.OrderID).Int64("booking_id", b.ID).Float64("amount", amount).Msg("payment order created")
	return order, nil
}

func (s *PaymentService) Verify(ctx context.Context, who ports.Principal, conf domain.PaymentConfirmation) error {
	if conf.OrderID == "" || conf.PaymentID == "" || conf.Signature == "" || conf.BookingID == 0 {
		return domain.ErrInvalidPaymentInfo
	}
	if !domain.ValidPaymentSignature(s.keySecret, conf.OrderID, conf.PaymentID, conf.Signature) {
		s.log.Warn().Str("order_id", conf.OrderID).Int64("booking_id", conf.BookingID).Msg("payment signature mismatch")
		return domain.ErrPaymentVerification
	}

	order, err := s.orders.Find(ctx, conf.OrderID)
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		s.log.Warn().Str("order_id", conf.OrderID).Msg("payment for unknown order")
		return domain.ErrPaymentVerification
	case err != nil:
		return fmt.Errorf("verify payment: %w", err)
	case order.BookingID != conf.BookingID:
		s.log.Warn().Str("order_id", conf.OrderID).Int64("order_booking_id", order.BookingID).Int64("booking_id", conf.BookingID).Msg("payment order belongs to another booking")
		return domain.ErrPaymentVerification
	}

	b, err := s.ownedBooking(ctx, who, conf.BookingID)
	if err != nil {
		return err
	}
	if b.PaymentStatus == domain.PaymentPaid {
		return domain.ErrAlreadyPaid
	}

	fresh, err := s.ledger.Claim(ctx, conf.PaymentID)
	if err != nil {
		return fmt.Errorf("verify payment: %w", err)
	}
	if !fresh {
		return domain.ErrPaymentAlreadyUsed
	}

	if err := s.bookings.MarkPaid(ctx, b.ID); err != nil {
		if relErr := s.ledger.Release(ctx, conf.PaymentID); relErr != nil {
			s.log.Warn().Err(relErr).Str("payment_id", conf.PaymentID).Msg("failed to release payment claim")
		}
		if errors.Is(err, domain.ErrAlreadyPaid) {
			return err
		}
		return fmt.Errorf("verify payment: %w", err)
	}

	s.log.Info().Int64("booking_id", b.ID).Str("payment_id", conf.PaymentID).Msg("payment confirmed")
	return nil
}

func (s *PaymentService) ownedBooking(ctx context.Context, who ports.Principal, id int64) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != who.UserID {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

package ports

import (
	"context"
	"time"

	"github.com/carservice/station/internal/core/domain"
)

// Principal is the authenticated caller as established by the auth middleware.
type Principal struct {
	UserID   int64
	Username string
	Roles    []string
}

func (p Principal) IsAdmin() bool {
	return (&domain.UserSession{Roles: p.Roles}).IsAdmin()
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
	// UpdateStatus writes the non-empty fields of set, provided the booking is
	// still in status from (and payment status fromPayment when set changes it).
	// A lost race is reported as domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id int64, from domain.BookingStatus, fromPayment domain.PaymentStatus, set StatusUpdate) error
	// MarkPaid flips a PENDING payment to PAID; domain.ErrAlreadyPaid otherwise.
	MarkPaid(ctx context.Context, id int64) error
	// SetFeedback stores the first rating only; domain.ErrFeedbackExists otherwise.
	SetFeedback(ctx context.Context, id int64, rating int, comment string) error
	Delete(ctx context.Context, id int64) error
	// Stats aggregates bookings that are both COMPLETED and PAID.
	Stats(ctx context.Context) (domain.Stats, error)
}

type CreateBookingInput struct {
	ServiceIDs      []int64
	BookingDateTime time.Time
}

type FeedbackInput struct {
	BookingID int64
	Rating    int
	Comment   string
}

// StatusUpdate changes the lifecycle status and, optionally, the payment status.
type StatusUpdate struct {
	Status        domain.BookingStatus
	PaymentStatus domain.PaymentStatus
}

type BookingService interface {
	Create(ctx context.Context, who Principal, in CreateBookingInput) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListMine(ctx context.Context, who Principal) ([]domain.Booking, error)
	Get(ctx context.Context, who Principal, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, in StatusUpdate) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.Stats, error)
	SubmitFeedback(ctx context.Context, who Principal, in FeedbackInput) error
}

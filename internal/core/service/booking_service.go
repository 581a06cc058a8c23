package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

type BookingService struct {
	bookings ports.BookingRepository
	services ports.ServiceRepository
	users    ports.UserRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewBookingService(
	bookings ports.BookingRepository,
	services ports.ServiceRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		services: services,
		users:    users,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create books every requested service for the caller. All ids must exist
// and be distinct; prices are captured at booking time.
func (s *BookingService) Create(ctx context.Context, who ports.Principal, in ports.CreateBookingInput) (*domain.Booking, error) {
	if len(in.ServiceIDs) == 0 || !distinct(in.ServiceIDs) {
		return nil, domain.ErrInvalidServiceID
	}

	customer, err := s.users.FindByID(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	found, err := s.services.FindByIDs(ctx, in.ServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if len(found) != len(in.ServiceIDs) {
		return nil, domain.ErrInvalidServiceID
	}

	// keep the requested order
	byID := make(map[int64]domain.CarService, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}
	booked := make([]domain.BookedService, 0, len(in.ServiceIDs))
	var total float64
	for _, id := range in.ServiceIDs {
		svc, ok := byID[id]
		if !ok {
			return nil, domain.ErrInvalidServiceID
		}
		booked = append(booked, domain.BookedService{
			ID:          svc.ID,
			Name:        svc.Name,
			Description: svc.Description,
			Price:       svc.Price,
			ImageURL:    svc.ImageURL,
		})
		total += svc.Price
	}

	b := &domain.Booking{
		CustomerID:       customer.ID,
		CustomerUsername: customer.Username,
		CustomerFullName: customer.FullName(),
		BookingDateTime:  in.BookingDateTime,
		Status:           domain.BookingPending,
		PaymentStatus:    domain.PaymentPending,
		TotalAmount:      total,
		BookedServices:   booked,
		CreatedAt:        s.now(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().
		Int64("booking_id", b.ID).
		Int64("customer_id", b.CustomerID).
		Float64("total", b.TotalAmount).
		Msg("booking created")
	return b, nil
}

func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) ListMine(ctx context.Context, who ports.Principal) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, who.UserID)
}

// Get hides bookings of other customers behind ErrBookingNotFound.
func (s *BookingService) Get(ctx context.Context, who ports.Principal, id int64) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.IsAdmin() && b.CustomerID != who.UserID {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}

// UpdateStatus checks the transition against the stored booking and writes it
// conditionally, so a concurrent change (a verified payment, another admin)
// is either preserved or makes this update fail.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, in ports.StatusUpdate) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var set ports.StatusUpdate
	if in.Status != "" && in.Status != b.Status {
		if !b.Status.CanTransitionTo(in.Status) {
			return nil, fmt.Errorf("update booking %d: %w (from %s to %s)", id, domain.ErrInvalidTransition, b.Status, in.Status)
		}
		set.Status = in.Status
	}
	if in.PaymentStatus != "" && in.PaymentStatus != b.PaymentStatus {
		if in.PaymentStatus != domain.PaymentPending && in.PaymentStatus != domain.PaymentPaid {
			return nil, fmt.Errorf("update booking %d: %w (payment status %s)", id, domain.ErrInvalidTransition, in.PaymentStatus)
		}
		set.PaymentStatus = in.PaymentStatus
	}
	if set == (ports.StatusUpdate{}) {
		return b, nil
	}

	if err := s.bookings.UpdateStatus(ctx, id, b.Status, b.PaymentStatus, set); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, fmt.Errorf("update booking %d: booking changed concurrently: %w", id, err)
		}
		return nil, fmt.Errorf("update booking %d: %w", id, err)
	}
	if set.Status != "" {
		b.Status = set.Status
	}
	if set.PaymentStatus != "" {
		b.PaymentStatus = set.PaymentStatus
	}
	s.log.Info().Int64("booking_id", id).Str("status", string(b.Status)).Str("payment_status", string(b.PaymentStatus)).Msg("booking updated")
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != domain.BookingCompleted {
		return domain.ErrBookingNotCompleted
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	s.log.Info().Int64("booking_id", id).Msg("booking deleted")
	return nil
}

func (s *BookingService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.bookings.Stats(ctx)
}

func (s *BookingService) SubmitFeedback(ctx context.Context, who ports.Principal, in ports.FeedbackInput) error {
	if in.Rating < 1 || in.Rating > 5 {
		return domain.ErrInvalidRating
	}
	b, err := s.bookings.FindByID(ctx, in.BookingID)
	if err != nil {
		return err
	}
	switch {
	case b.CustomerID != who.UserID:
		return domain.ErrFeedbackNotOwner
	case b.Status != domain.BookingCompleted:
		return domain.ErrFeedbackNotCompleted
	case b.Rating != nil:
		return domain.ErrFeedbackExists
	}

	if err := s.bookings.SetFeedback(ctx, b.ID, in.Rating, in.Comment); err != nil {
		if errors.Is(err, domain.ErrFeedbackExists) {
			return err
		}
		return fmt.Errorf("submit feedback: %w", err)
	}
	return nil
}

// distinct reports whether ids holds no repeated value.
func distinct(ids []int64) bool {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return len(slices.Compact(sorted)) == len(ids)
}

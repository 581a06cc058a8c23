// Package app combines the stores and the station client into the user
// workflows of stationctl. API failures are already notified by the gateway,
// so workflows only add success messages and local checks.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/client/cart"
	"github.com/carservice/station/internal/client/notify"
	"github.com/carservice/station/internal/client/session"
	"github.com/carservice/station/internal/client/station"
	"github.com/carservice/station/internal/core/domain"
)

var (
	ErrEmptyCart         = errors.New("Your booking cart is empty.")
	ErrNotSignedIn       = errors.New("You are not logged in.")
	ErrNoNextStatus      = errors.New("This booking has no further status.")
	ErrNotCompleted      = errors.New("Only completed bookings can be deleted.")
	ErrFeedbackNotOpen   = errors.New("Feedback can only be left once for a completed booking.")
	ErrInvalidRating     = errors.New("Rating must be between 1 and 5.")
	ErrAlreadyPaid       = errors.New("This booking is already paid.")
	ErrCheckoutCancelled = errors.New("Payment was cancelled.")
)

// API is the part of the station client the workflows use.
type API interface {
	Login(ctx context.Context, req station.LoginRequest) (domain.UserSession, error)
	RegisterCustomer(ctx context.Context, req station.RegisterRequest) (string, error)
	Me(ctx context.Context) (domain.UserProfile, error)
	UpdateProfile(ctx context.Context, roles []string, req station.UserUpdateRequest) (domain.UserProfile, error)
	ListServices(ctx context.Context) ([]domain.CarService, error)
	CreateService(ctx context.Context, req station.ServiceRequest) (domain.CarService, error)
	UpdateService(ctx context.Context, id int64, req station.ServiceRequest) (domain.CarService, error)
	DeleteService(ctx context.Context, id int64) error
	CreateBooking(ctx context.Context, req station.BookingRequest) (domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	SubmitFeedback(ctx context.Context, req station.FeedbackRequest) error
	CreatePaymentOrder(ctx context.Context, req station.PaymentRequest) (domain.PaymentOrder, error)
	VerifyPayment(ctx context.Context, conf domain.PaymentConfirmation) (string, error)
}

var _ API = (*station.Client)(nil)

// CheckoutFunc runs the external payment checkout for order and returns what
// the payment provider handed back.
type CheckoutFunc func(ctx context.Context, order domain.PaymentOrder) (domain.PaymentConfirmation, error)

type App struct {
	api      API
	session  *session.Store
	cart     *cart.Store
	notifier notify.Notifier
	log      zerolog.Logger
}

func New(api API, sess *session.Store, c *cart.Store, n notify.Notifier, log zerolog.Logger) *App {
	return &App{api: api, session: sess, cart: c, notifier: n, log: log}
}

func (a *App) Session() *session.Store { return a.session }
func (a *App) Cart() *cart.Store       { return a.cart }

// fail notifies a locally detected problem. Errors from the API were already notified.
func (a *App) fail(err error) error {
	notify.Error(a.notifier, err.Error())
	return err
}

func (a *App) Login(ctx context.Context, username, password string) (domain.UserSession, error) {
	s, err := a.api.Login(ctx, station.LoginRequest{Username: username, Password: password})
	if err != nil {
		return domain.UserSession{}, err
	}
	a.session.Login(ctx, s)
	a.log.Info().Str("username", s.Username).Strs("roles", s.Roles).Msg("logged in")
	notify.Success(a.notifier, "Login successful!")
	return s, nil
}

func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.cart.ClearCart()
	notify.Info(a.notifier, "Logged out successfully.")
}

func (a *App) Register(ctx context.Context, req station.RegisterRequest) error {
	if _, err := a.api.RegisterCustomer(ctx, req); err != nil {
		return err
	}
	notify.Success(a.notifier, "Registration successful! Please log in.")
	return nil
}

// UpdateProfile saves the profile and then signs the user out, since a
// changed username or password invalidates the token.
func (a *App) UpdateProfile(ctx context.Context, req station.UserUpdateRequest) (domain.UserProfile, error) {
	u, ok := a.session.User()
	if !ok {
		return domain.UserProfile{}, a.fail(ErrNotSignedIn)
	}
	p, err := a.api.UpdateProfile(ctx, u.Roles, req)
	if err != nil {
		return domain.UserProfile{}, err
	}
	notify.Success(a.notifier, "Profile updated successfully! Please log in with your new details.")
	a.session.Logout(ctx)
	return p, nil
}

// ToggleService adds svc to the cart, or removes it when already present.
// It reports whether svc is in the cart afterwards.
func (a *App) ToggleService(svc domain.CarService) bool {
	if a.cart.Contains(svc.ID) {
		a.cart.RemoveFromCart(svc.ID)
		notify.Info(a.notifier, svc.Name+" removed from booking cart.")
		return false
	}
	a.cart.AddToCart(cart.Item{ID: svc.ID, Name: svc.Name, Price: svc.Price})
	notify.Success(a.notifier, svc.Name+" added to booking cart.")
	return true
}

// Checkout books every service in the cart for when and empties the cart.
// The cart is kept when the booking fails.
func (a *App) Checkout(ctx context.Context, when time.Time) (domain.Booking, error) {
	ids := a.cart.IDs()
	if len(ids) == 0 {
		return domain.Booking{}, a.fail(ErrEmptyCart)
	}
	b, err := a.api.CreateBooking(ctx, station.BookingRequest{ServiceIDs: ids, BookingDateTime: when})
	if err != nil {
		return domain.Booking{}, err
	}
	a.cart.ClearCart()
	notify.Success(a.notifier, "Booking created successfully!")
	return b, nil
}

// BookService books a single service without touching the cart.
func (a *App) BookService(ctx context.Context, serviceID int64, when time.Time) (domain.Booking, error) {
	b, err := a.api.CreateBooking(ctx, station.BookingRequest{ServiceIDs: []int64{serviceID}, BookingDateTime: when})
	if err != nil {
		return domain.Booking{}, err
	}
	notify.Success(a.notifier, "Booking created successfully!")
	return b, nil
}

// AdvanceBooking moves b one step forward in its lifecycle.
func (a *App) AdvanceBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	next, ok := b.Status.Next()
	if !ok {
		return domain.Booking{}, a.fail(ErrNoNextStatus)
	}
	return a.SetBookingStatus(ctx, b.ID, next)
}

func (a *App) SetBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	updated, err := a.api.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return domain.Booking{}, err
	}
	notify.Success(a.notifier, "Booking status updated successfully!")
	return updated, nil
}

func (a *App) DeleteCompletedBooking(ctx context.Context, b domain.Booking) error {
	if b.Status != domain.BookingCompleted {
		return a.fail(ErrNotCompleted)
	}
	if err := a.api.DeleteBooking(ctx, b.ID); err != nil {
		return err
	}
	notify.Success(a.notifier, "Booking deleted successfully!")
	return nil
}

// Pay opens a payment order for b, runs checkout and has the server verify the result.
func (a *App) Pay(ctx context.Context, b domain.Booking, checkout CheckoutFunc) error {
	if b.PaymentStatus == domain.PaymentPaid {
		return a.fail(ErrAlreadyPaid)
	}
	order, err := a.api.CreatePaymentOrder(ctx, station.PaymentRequest{BookingID: b.ID, Amount: b.TotalAmount})
	if err != nil {
		return err
	}
	conf, err := checkout(ctx, order)
	if err != nil {
		a.log.Warn().Err(err).Str("order_id", order.OrderID).Msg("checkout did not complete")
		notify.Error(a.notifier, ErrCheckoutCancelled.Error())
		return fmt.Errorf("%w: %w", ErrCheckoutCancelled, err)
	}
	if conf.BookingID == 0 {
		conf.BookingID = b.ID
	}
	if conf.OrderID == "" {
		conf.OrderID = order.OrderID
	}
	if _, err := a.api.VerifyPayment(ctx, conf); err != nil {
		return err
	}
	notify.Success(a.notifier, "Payment confirmed successfully!")
	return nil
}

func (a *App) LeaveFeedback(ctx context.Context, b domain.Booking, rating int, comment string) error {
	if !b.AwaitingFeedback() {
		return a.fail(ErrFeedbackNotOpen)
	}
	if rating < 1 || rating > 5 {
		return a.fail(ErrInvalidRating)
	}
	req := station.FeedbackRequest{BookingID: b.ID, Rating: rating, Comment: comment}
	if err := a.api.SubmitFeedback(ctx, req); err != nil {
		return err
	}
	notify.Success(a.notifier, "Feedback submitted successfully!")
	return nil
}

func (a *App) SaveService(ctx context.Context, id int64, req station.ServiceRequest) (domain.CarService, error) {
	if id == 0 {
		svc, err := a.api.CreateService(ctx, req)
		if err != nil {
			return domain.CarService{}, err
		}
		notify.Success(a.notifier, "Service created successfully!")
		return svc, nil
	}
	svc, err := a.api.UpdateService(ctx, id, req)
	if err != nil {
		return domain.CarService{}, err
	}
	notify.Success(a.notifier, "Service updated successfully!")
	return svc, nil
}

func (a *App) DeleteService(ctx context.Context, id int64) error {
	if err := a.api.DeleteService(ctx, id); err != nil {
		return err
	}
	a.cart.RemoveFromCart(id)
	notify.Success(a.notifier, "Service deleted successfully!")
	return nil
}

// GroupByStatus partitions bookings by status, keeping their order.
func GroupByStatus(bookings []domain.Booking) map[domain.BookingStatus][]domain.Booking {
	out := make(map[domain.BookingStatus][]domain.Booking)
	for _, b := range bookings {
		out[b.Status] = append(out[b.Status], b)
	}
	return out
}

// PendingPayments returns the bookings that can still be paid.
func PendingPayments(bookings []domain.Booking) []domain.Booking {
	var out []domain.Booking
	for _, b := range bookings {
		if b.PaymentStatus != domain.PaymentPaid && b.Status != domain.BookingCancelled {
			out = append(out, b)
		}
	}
	return out
}

package service

import (
	"context"
	"errors"

	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

var errStore = errors.New("store unavailable")

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = r.nextID
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

type stubServiceRepo struct {
	services map[int64]domain.CarService
	nextID   int64
}

func newStubServiceRepo(seed ...domain.CarService) *stubServiceRepo {
	r := &stubServiceRepo{services: make(map[int64]domain.CarService)}
	for _, s := range seed {
		r.services[s.ID] = s
		if s.ID > r.nextID {
			r.nextID = s.ID
		}
	}
	return r
}

func (r *stubServiceRepo) Create(_ context.Context, svc *domain.CarService) error {
	r.nextID++
	svc.ID = r.nextID
	r.services[svc.ID] = *svc
	return nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id int64) (*domain.CarService, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return &s, nil
}

func (r *stubServiceRepo) FindByIDs(_ context.Context, ids []int64) ([]domain.CarService, error) {
	var out []domain.CarService
	seen := map[int64]bool{}
	for _, id := range ids {
		if s, ok := r.services[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubServiceRepo) List(_ context.Context) ([]domain.CarService, error) {
	out := make([]domain.CarService, 0, len(r.services))
	for _, s := range r.services {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubServiceRepo) Update(_ context.Context, svc *domain.CarService) error {
	if _, ok := r.services[svc.ID]; !ok {
		return domain.ErrServiceNotFound
	}
	r.services[svc.ID] = *svc
	return nil
}

func (r *stubServiceRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.services[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(r.services, id)
	return nil
}

// ---------------------------------------------------------------------------
// Bookings
// ---------------------------------------------------------------------------

type stubBookingRepo struct {
	bookings  map[int64]domain.Booking
	nextID    int64
	updateErr error
	// beforeWrite runs once, right before the next conditional write, to
	// interleave a competing request.
	beforeWrite func()
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[int64]domain.Booking)}
}

func (r *stubBookingRepo) put(b domain.Booking) {
	r.bookings[b.ID] = b
	if b.ID > r.nextID {
		r.nextID = b.ID
	}
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.nextID++
	b.ID = r.nextID
	r.bookings[b.ID] = *b
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (r *stubBookingRepo) List(_ context.Context) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (r *stubBookingRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookingRepo) write(id int64, ok func(domain.Booking) bool, unmatched error, apply func(*domain.Booking)) error {
	if hook := r.beforeWrite; hook != nil {
		r.beforeWrite = nil
		hook()
	}
	if r.updateErr != nil {
		return r.updateErr
	}
	b, found := r.bookings[id]
	if !found || !ok(b) {
		return unmatched
	}
	apply(&b)
	r.bookings[id] = b
	return nil
}

func (r *stubBookingRepo) UpdateStatus(_ context.Context, id int64, from domain.BookingStatus, fromPayment domain.PaymentStatus, set ports.StatusUpdate) error {
	return r.write(id, func(b domain.Booking) bool {
		return b.Status == from && (set.PaymentStatus == "" || b.PaymentStatus == fromPayment)
	}, domain.ErrInvalidTransition, func(b *domain.Booking) {
		if set.Status != "" {
			b.Status = set.Status
		}
		if set.PaymentStatus != "" {
			b.PaymentStatus = set.PaymentStatus
		}
	})
}

func (r *stubBookingRepo) MarkPaid(_ context.Context, id int64) error {
	return r.write(id, func(b domain.Booking) bool {
		return b.PaymentStatus == domain.PaymentPending
	}, domain.ErrAlreadyPaid, func(b *domain.Booking) {
		b.PaymentStatus = domain.PaymentPaid
	})
}

func (r *stubBookingRepo) SetFeedback(_ context.Context, id int64, rating int, comment string) error {
	return r.write(id, func(b domain.Booking) bool {
		return b.Rating == nil
	}, domain.ErrFeedbackExists, func(b *domain.Booking) {
		b.Rating = &rating
		b.Comment = comment
	})
}

func (r *stubBookingRepo) Delete(_ context.Context, id int64) error {
	delete(r.bookings, id)
	return nil
}

func (r *stubBookingRepo) Stats(_ context.Context) (domain.Stats, error) {
	var st domain.Stats
	for _, b := range r.bookings {
		if b.Status == domain.BookingCompleted && b.PaymentStatus == domain.PaymentPaid {
			st.TotalRevenue += b.TotalAmount
			st.TotalCompletedBookings++
		}
	}
	return st, nil
}

// ---------------------------------------------------------------------------
// Payment ledger
// ---------------------------------------------------------------------------

type stubLedger struct {
	claimed  map[string]bool
	released []string
	err      error
}

func newStubLedger() *stubLedger {
	return &stubLedger{claimed: make(map[string]bool)}
}

func (l *stubLedger) Claim(_ context.Context, id string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if l.claimed[id] {
		return false, nil
	}
	l.claimed[id] = true
	return true, nil
}

func (l *stubLedger) Release(_ context.Context, id string) error {
	delete(l.claimed, id)
	l.released = append(l.released, id)
	return nil
}

// ---------------------------------------------------------------------------
// Payment orders
// ---------------------------------------------------------------------------

type stubOrders struct {
	orders map[string]domain.PaymentOrder
}

func newStubOrders(seed ...domain.PaymentOrder) *stubOrders {
	o := &stubOrders{orders: make(map[string]domain.PaymentOrder)}
	for _, order := range seed {
		o.orders[order.OrderID] = order
	}
	return o
}

func (o *stubOrders) Save(_ context.Context, order domain.PaymentOrder) error {
	o.orders[order.OrderID] = order
	return nil
}

func (o *stubOrders) Find(_ context.Context, orderID string) (*domain.PaymentOrder, error) {
	order, ok := o.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

package domain

import (
	"time"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled,
}

// forwardStep is the single forward transition a client offers for a status.
var forwardStep = map[BookingStatus]BookingStatus{
	BookingPending:    BookingConfirmed,
	BookingConfirmed:  BookingInProgress,
	BookingInProgress: BookingCompleted,
}

// validTransitions is what the server accepts: the forward step, plus
// cancellation before work starts.
var validTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted},
}

// Next returns the forward transition offered for s, if any.
func (s BookingStatus) Next() (BookingStatus, bool) {
	next, ok := forwardStep[s]
	return next, ok
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	for _, st := range BookingStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// PaymentStatus tracks whether a booking has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// BookedService is a catalog entry captured at booking time, price included.
type BookedService struct {
	ID          int64   `json:"id" bson:"service_id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	ImageURL    string  `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
}

// Booking is the core aggregate of the station.
type Booking struct {
	ID               int64           `json:"bookingId" bson:"_id" validate:"required"`
	CustomerID       int64           `json:"customerId" bson:"customer_id"`
	CustomerUsername string          `json:"customerUsername" bson:"customer_username"`
	CustomerFullName string          `json:"customerFullName" bson:"customer_full_name"`
	BookingDateTime  time.Time       `json:"bookingDateTime" bson:"booking_date_time"`
	Status           BookingStatus   `json:"status" bson:"status" validate:"required"`
	PaymentStatus    PaymentStatus   `json:"paymentStatus" bson:"payment_status"`
	TotalAmount      float64         `json:"totalAmount" bson:"total_amount"`
	BookedServices   []BookedService `json:"bookedServices" bson:"booked_services"`
	Rating           *int            `json:"rating,omitempty" bson:"rating,omitempty"`
	Comment          string          `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt        time.Time       `json:"-" bson:"created_at"`
}

// AwaitingFeedback reports whether the customer may still rate this booking.
func (b *Booking) AwaitingFeedback() bool {
	return b.Status == BookingCompleted && b.Rating == nil
}

// Stats is the admin revenue summary over completed and paid bookings.
type Stats struct {
	TotalRevenue           float64 `json:"totalRevenue"`
	TotalCompletedBookings int64   `json:"totalCompletedBookings"`
}

// PaymentOrder is what the client needs to open the external checkout.
type PaymentOrder struct {
	OrderID   string  `json:"orderId" validate:"required"`
	BookingID int64   `json:"bookingId"`
	Amount    float64 `json:"amount"`
	KeyID     string  `json:"keyId"`
}

// PaymentConfirmation is returned by the external checkout and verified by the server.
type PaymentConfirmation struct {
	OrderID   string `json:"razorpayOrderId"`
	PaymentID string `json:"razorpayPaymentId"`
	Signature string `json:"razorpaySignature"`
	BookingID int64  `json:"bookingId"`
}

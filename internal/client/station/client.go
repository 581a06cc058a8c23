// Package station is the typed client of the car service station REST API.
// Every call goes through a gateway.Gateway, so failures are already
// notified when they reach the caller.
package station

import (
	"context"
	"fmt"

	"github.com/carservice/station/internal/client/gateway"
	"github.com/carservice/station/internal/core/domain"
)

// Doer is the subset of the gateway the client needs.
type Doer interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

var _ Doer = (*gateway.Gateway)(nil)

type Client struct {
	api Doer
}

func New(api Doer) *Client {
	return &Client{api: api}
}

// Auth

func (c *Client) Login(ctx context.Context, req LoginRequest) (domain.UserSession, error) {
	var s domain.UserSession
	if err := c.api.Do(ctx, "POST", "/auth/login", req, &s); err != nil {
		return domain.UserSession{}, err
	}
	if s.Type == "" {
		s.Type = "Bearer"
	}
	return s, nil
}

// RegisterCustomer returns the confirmation text of the server.
func (c *Client) RegisterCustomer(ctx context.Context, req RegisterRequest) (string, error) {
	var msg string
	err := c.api.Do(ctx, "POST", "/auth/register/customer", req, &msg)
	return msg, err
}

// Users

func (c *Client) Me(ctx context.Context) (domain.UserProfile, error) {
	var p domain.UserProfile
	err := c.api.Do(ctx, "GET", "/users/me", nil, &p)
	return p, err
}

// UpdateProfile picks the admin or customer endpoint from roles.
func (c *Client) UpdateProfile(ctx context.Context, roles []string, req UserUpdateRequest) (domain.UserProfile, error) {
	path := "/users/me/customer"
	if (&domain.UserSession{Roles: roles}).IsAdmin() {
		path = "/users/me/admin"
	}
	var p domain.UserProfile
	err := c.api.Do(ctx, "PUT", path, req, &p)
	return p, err
}

// Catalog

func (c *Client) ListServices(ctx context.Context) ([]domain.CarService, error) {
	var out []domain.CarService
	err := c.api.Do(ctx, "GET", "/services", nil, &out)
	return out, err
}

func (c *Client) GetService(ctx context.Context, id int64) (domain.CarService, error) {
	var out domain.CarService
	err := c.api.Do(ctx, "GET", fmt.Sprintf("/services/%d", id), nil, &out)
	return out, err
}

func (c *Client) CreateService(ctx context.Context, req ServiceRequest) (domain.CarService, error) {
	var out domain.CarService
	err := c.api.Do(ctx, "POST", "/services", req, &out)
	return out, err
}

func (c *Client) UpdateService(ctx context.Context, id int64, req ServiceRequest) (domain.CarService, error) {
	var out domain.CarService
	err := c.api.Do(ctx, "PUT", fmt.Sprintf("/services/%d", id), req, &out)
	return out, err
}

func (c *Client) DeleteService(ctx context.Context, id int64) error {
	return c.api.Do(ctx, "DELETE", fmt.Sprintf("/services/%d", id), nil, nil)
}

// Bookings

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (domain.Booking, error) {
	var out domain.Booking
	err := c.api.Do(ctx, "POST", "/bookings", req, &out)
	return out, err
}

// ListBookings returns every booking. Admin only.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.api.Do(ctx, "GET", "/bookings", nil, &out)
	return out, err
}

func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []domain.Booking
	err := c.api.Do(ctx, "GET", "/bookings/my-bookings", nil, &out)
	return out, err
}

func (c *Client) GetBooking(ctx context.Context, id int64) (domain.Booking, error) {
	var out domain.Booking
	err := c.api.Do(ctx, "GET", fmt.Sprintf("/bookings/%d", id), nil, &out)
	return out, err
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (domain.Booking, error) {
	var out domain.Booking
	err := c.api.Do(ctx, "PUT", fmt.Sprintf("/bookings/%d/status", id), statusUpdate{Status: string(status)}, &out)
	return out, err
}

func (c *Client) DeleteBooking(ctx context.Context, id int64) error {
	return c.api.Do(ctx, "DELETE", fmt.Sprintf("/bookings/%d", id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (domain.Stats, error) {
	var out domain.Stats
	err := c.api.Do(ctx, "GET", "/bookings/stats", nil, &out)
	return out, err
}

func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.api.Do(ctx, "POST", "/bookings/feedback", req, nil)
}

// Payments

func (c *Client) CreatePaymentOrder(ctx context.Context, req PaymentRequest) (domain.PaymentOrder, error) {
	var out domain.PaymentOrder
	err := c.api.Do(ctx, "POST", "/payments/create-order", req, &out)
	return out, err
}

// VerifyPayment returns the confirmation text of the server.
func (c *Client) VerifyPayment(ctx context.Context, conf domain.PaymentConfirmation) (string, error) {
	var msg string
	err := c.api.Do(ctx, "POST", "/payments/verify-payment", conf, &msg)
	return msg, err
}

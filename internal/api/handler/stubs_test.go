package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carservice/station/internal/api/middleware"
	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

var (
	customer = ports.Principal{UserID: 7, Username: "carol", Roles: []string{domain.RoleCustomer}}
	admin    = ports.Principal{UserID: 1, Username: "admin", Roles: []string{domain.RoleAdmin}}
)

// newContext builds an echo context carrying body as JSON and, when who is
// not nil, the authenticated principal.
func newContext(t *testing.T, method, target, body string, who *ports.Principal) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if who != nil {
		middleware.WithPrincipal(c, *who)
	}
	return c, rec
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}

func expectValidation(t *testing.T, err error, fields ...string) ValidationError {
	t.Helper()
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T (%v)", err, err)
	}
	for _, f := range fields {
		if _, ok := ve[f]; !ok {
			t.Fatalf("expected error on %q, got %v", f, ve)
		}
	}
	return ve
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected %d, got %d (%s)", code, rec.Code, rec.Body.String())
	}
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) RegisterCustomer(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) EnsureAdmin(context.Context, string, string, string) (bool, error) {
	return false, nil
}

type stubUserService struct {
	meFn     func(ctx context.Context, userID int64) (*domain.User, error)
	updateFn func(ctx context.Context, userID int64, in ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubUserService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID int64, in ports.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, userID, in)
}

type stubCatalogService struct {
	ports.CatalogService
	getFn    func(ctx context.Context, id int64) (*domain.CarService, error)
	createFn func(ctx context.Context, in ports.ServiceInput) (*domain.CarService, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubCatalogService) Get(ctx context.Context, id int64) (*domain.CarService, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalogService) Create(ctx context.Context, in ports.ServiceInput) (*domain.CarService, error) {
	return s.createFn(ctx, in)
}

func (s *stubCatalogService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubBookingService struct {
	ports.BookingService
	createFn   func(ctx context.Context, who ports.Principal, in ports.CreateBookingInput) (*domain.Booking, error)
	getFn      func(ctx context.Context, who ports.Principal, id int64) (*domain.Booking, error)
	updateFn   func(ctx context.Context, id int64, in ports.StatusUpdate) (*domain.Booking, error)
	feedbackFn func(ctx context.Context, who ports.Principal, in ports.FeedbackInput) error
}

func (s *stubBookingService) Create(ctx context.Context, who ports.Principal, in ports.CreateBookingInput) (*domain.Booking, error) {
	return s.createFn(ctx, who, in)
}

func (s *stubBookingService) Get(ctx context.Context, who ports.Principal, id int64) (*domain.Booking, error) {
	return s.getFn(ctx, who, id)
}

func (s *stubBookingService) UpdateStatus(ctx context.Context, id int64, in ports.StatusUpdate) (*domain.Booking, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubBookingService) SubmitFeedback(ctx context.Context, who ports.Principal, in ports.FeedbackInput) error {
	return s.feedbackFn(ctx, who, in)
}

type stubPaymentService struct {
	createFn func(ctx context.Context, who ports.Principal, bookingID int64, amount float64) (*domain.PaymentOrder, error)
	verifyFn func(ctx context.Context, who ports.Principal, conf domain.PaymentConfirmation) error
}

func (s *stubPaymentService) CreateOrder(ctx context.Context, who ports.Principal, bookingID int64, amount float64) (*domain.PaymentOrder, error) {
	return s.createFn(ctx, who, bookingID, amount)
}

func (s *stubPaymentService) Verify(ctx context.Context, who ports.Principal, conf domain.PaymentConfirmation) error {
	return s.verifyFn(ctx, who, conf)
}

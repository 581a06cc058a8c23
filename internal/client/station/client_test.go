package station

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carservice/station/internal/client/gateway"
	"github.com/carservice/station/internal/core/domain"
)

type call struct {
	Method string
	Path   string
	Body   map[string]any
}

func fakeAPI(t *testing.T, routes map[string]string) (*Client, *[]call) {
	t.Helper()
	calls := &[]call{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{Method: r.Method, Path: r.URL.Path}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &c.Body)
		}
		*calls = append(*calls, c)

		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(gateway.New(srv.URL+"/api", 5*time.Second)), calls
}

func TestLogin_DefaultsTokenType(t *testing.T) {
	c, calls := fakeAPI(t, map[string]string{
		"POST /api/auth/login": `{"token":"t","id":3,"username":"jane","email":"j@x.io","roles":["ROLE_CUSTOMER"]}`,
	})

	s, err := c.Login(context.Background(), LoginRequest{Username: "jane", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", s.Type)
	assert.True(t, s.IsCustomer())
	assert.Equal(t, "jane", (*calls)[0].Body["username"])
}

func TestLogin_RejectsSessionWithoutToken(t *testing.T) {
	c, _ := fakeAPI(t, map[string]string{"POST /api/auth/login": `{"username":"jane"}`})

	_, err := c.Login(context.Background(), LoginRequest{Username: "jane", Password: "x"})
	var gerr *gateway.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, gateway.KindDecode, gerr.Kind)
}

func TestUpdateProfile_RoutesByRoleAndOmitsEmptyPassword(t *testing.T) {
	profile := `{"id":1,"username":"u"}`
	c, calls := fakeAPI(t, map[string]string{
		"PUT /api/users/me/customer": profile,
		"PUT /api/users/me/admin":    profile,
	})
	ctx := context.Background()

	_, err := c.UpdateProfile(ctx, []string{domain.RoleCustomer}, UserUpdateRequest{FirstName: "Jane"})
	require.NoError(t, err)
	_, err = c.UpdateProfile(ctx, []string{domain.RoleAdmin}, UserUpdateRequest{Password: "newpass"})
	require.NoError(t, err)

	require.Len(t, *calls, 2)
	assert.Equal(t, "/api/users/me/customer", (*calls)[0].Path)
	assert.NotContains(t, (*calls)[0].Body, "password")
	assert.Equal(t, "/api/users/me/admin", (*calls)[1].Path)
	assert.Equal(t, "newpass", (*calls)[1].Body["password"])
}

func TestBookings(t *testing.T) {
	booking := `{"bookingId":9,"status":"PENDING","paymentStatus":"PENDING","totalAmount":79.5,"bookedServices":[{"id":1,"name":"Oil","price":49.5},{"id":2,"name":"Tyres","price":30}]}`
	c, calls := fakeAPI(t, map[string]string{
		"POST /api/bookings":            booking,
		"GET /api/bookings/my-bookings": "[" + booking + "]",
		"PUT /api/bookings/9/status":    `{"bookingId":9,"status":"CONFIRMED"}`,
		"GET /api/bookings/stats":       `{"totalRevenue":120.5,"totalCompletedBookings":2}`,
		"DELETE /api/bookings/9":        "",
		"POST /api/bookings/feedback":   "",
	})
	ctx := context.Background()
	when := time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC)

	b, err := c.CreateBooking(ctx, BookingRequest{ServiceIDs: []int64{1, 2}, BookingDateTime: when})
	require.NoError(t, err)
	assert.Equal(t, int64(9), b.ID)
	assert.Len(t, b.BookedServices, 2)
	assert.Equal(t, []any{1.0, 2.0}, (*calls)[0].Body["carServiceIds"])
	assert.Equal(t, "2026-11-02T09:30:00Z", (*calls)[0].Body["bookingDateTime"])

	mine, err := c.MyBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	updated, err := c.UpdateBookingStatus(ctx, 9, domain.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, updated.Status)
	assert.Equal(t, "CONFIRMED", (*calls)[2].Body["status"])

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCompletedBookings)

	require.NoError(t, c.DeleteBooking(ctx, 9))
	require.NoError(t, c.SubmitFeedback(ctx, FeedbackRequest{BookingID: 9, Rating: 5}))
	assert.Equal(t, 5.0, (*calls)[5].Body["rating"])
}

func TestServices(t *testing.T) {
	c, calls := fakeAPI(t, map[string]string{
		"GET /api/services":      `[{"id":1,"name":"Oil","price":49.5}]`,
		"GET /api/services/1":    `{"id":1,"name":"Oil","price":49.5}`,
		"POST /api/services":     `{"id":2,"name":"Wash","price":15}`,
		"PUT /api/services/2":    `{"id":2,"name":"Wash+","price":20}`,
		"DELETE /api/services/2": "",
	})
	ctx := context.Background()

	list, err := c.ListServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Oil", list[0].Name)

	one, err := c.GetService(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 49.5, one.Price)

	created, err := c.CreateService(ctx, ServiceRequest{Name: "Wash", Description: "Full", Price: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)

	updated, err := c.UpdateService(ctx, 2, ServiceRequest{Name: "Wash+", Description: "Full", Price: 20})
	require.NoError(t, err)
	assert.Equal(t, "Wash+", updated.Name)

	require.NoError(t, c.DeleteService(ctx, 2))
	assert.Equal(t, "DELETE", (*calls)[4].Method)
}

func TestPayments(t *testing.T) {
	c, calls := fakeAPI(t, map[string]string{
		"POST /api/payments/create-order":   `{"orderId":"order_1","bookingId":9,"amount":79.5,"keyId":"rzp_test"}`,
		"POST /api/payments/verify-payment": "Payment confirmed successfully.",
	})
	ctx := context.Background()

	order, err := c.CreatePaymentOrder(ctx, PaymentRequest{BookingID: 9, Amount: 79.5})
	require.NoError(t, err)
	assert.Equal(t, "order_1", order.OrderID)

	msg, err := c.VerifyPayment(ctx, domain.PaymentConfirmation{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig", BookingID: 9})
	require.NoError(t, err)
	assert.Equal(t, "Payment confirmed successfully.", msg)
	assert.Equal(t, "pay_1", (*calls)[1].Body["razorpayPaymentId"])
}

func TestRegisterCustomer_PlainTextFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Error: Username is already taken!")
	}))
	t.Cleanup(srv.Close)
	c := New(gateway.New(srv.URL, time.Second))

	_, err := c.RegisterCustomer(context.Background(), RegisterRequest{Username: "jane"})
	var gerr *gateway.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Error: Username is already taken!", gerr.Message)
}

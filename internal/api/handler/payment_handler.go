package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/api/metrics"
	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

type PaymentHandler struct {
	payments ports.PaymentService
	log      zerolog.Logger
}

func NewPaymentHandler(payments ports.PaymentService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

// CreateOrder opens a checkout order for a booking of the caller.
//
// @Summary      Create a payment order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      paymentRequest  true  "Booking to pay"
// @Success      200   {object}  domain.PaymentOrder
// @Failure      400   {string}  string
// @Failure      404   {string}  string
// @Router       /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.payments.CreateOrder(c.Request().Context(), who, req.BookingID, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Verify checks the checkout signature and marks the booking paid.
//
// @Summary      Verify a payment
// @Tags         payments
// @Accept       json
// @Produce      plain
// @Security     BearerAuth
// @Param        body  body      domain.PaymentConfirmation  true  "Checkout result"
// @Success      200   {string}  string  "Payment confirmed successfully."
// @Failure      400   {string}  string
// @Router       /payments/verify-payment [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	var conf domain.PaymentConfirmation
	if err := c.Bind(&conf); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.payments.Verify(c.Request().Context(), who, conf); err != nil {
		metrics.PaymentsTotal.WithLabelValues(paymentResult(err)).Inc()
		h.log.Warn().Err(err).Int64("booking_id", conf.BookingID).Str("order_id", conf.OrderID).Msg("payment rejected")
		return err
	}

	metrics.PaymentsTotal.WithLabelValues("verified").Inc()
	h.log.Info().Int64("booking_id", conf.BookingID).Str("payment_id", conf.PaymentID).Msg("payment verified")
	return c.String(http.StatusOK, "Payment confirmed successfully.")
}

func paymentResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrPaymentVerification), errors.Is(err, domain.ErrInvalidPaymentInfo):
		return "invalid_signature"
	case errors.Is(err, domain.ErrPaymentAlreadyUsed):
		return "replay"
	case errors.Is(err, domain.ErrAlreadyPaid):
		return "already_paid"
	default:
		return "error"
	}
}

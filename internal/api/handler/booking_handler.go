package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carservice/station/internal/api/metrics"
	"github.com/carservice/station/internal/core/domain"
	"github.com/carservice/station/internal/core/ports"
)

// BookingHandler handles booking lifecycle, statistics and feedback.
type BookingHandler struct {
	bookings ports.BookingService
}

func NewBookingHandler(bookings ports.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Create books the given services for the caller.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookingRequest  true  "Services and date"
// @Success      201   {object}  domain.Booking
// @Failure      400   {string}  string
// @Failure      403   {object}  messageResponse
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	var req bookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.bookings.Create(c.Request().Context(), who, ports.CreateBookingInput{
		ServiceIDs:      req.ServiceIDs,
		BookingDateTime: req.BookingDateTime,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.Inc()
	metrics.BookingAmount.Observe(b.TotalAmount)
	return c.JSON(http.StatusCreated, b)
}

// List returns every booking.
//
// @Summary      List all bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Booking
// @Failure      403  {object}  messageResponse
// @Router       /bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	out, err := h.bookings.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Mine returns the caller's bookings.
//
// @Summary      List my bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Booking
// @Router       /bookings/my-bookings [get]
func (h *BookingHandler) Mine(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	out, err := h.bookings.ListMine(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one booking. Customers only see their own.
//
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Booking ID"
// @Success      200  {object}  domain.Booking
// @Failure      404  {string}  string
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.bookings.Get(c.Request().Context(), who, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateStatus moves a booking through its lifecycle.
//
// @Summary      Update booking status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Booking ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  domain.Booking
// @Failure      400   {string}  string
// @Failure      404   {string}  string
// @Router       /bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	b, err := h.bookings.UpdateStatus(c.Request().Context(), id, ports.StatusUpdate{
		Status:        domain.BookingStatus(req.Status),
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			metrics.BookingTransitionsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(b.Status)).Inc()
	return c.JSON(http.StatusOK, b)
}

// Delete removes a completed booking.
//
// @Summary      Delete a booking
// @Tags         bookings
// @Security     BearerAuth
// @Param        id   path  int  true  "Booking ID"
// @Success      204
// @Failure      400  {string}  string
// @Failure      404  {string}  string
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.bookings.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats returns revenue over completed and paid bookings.
//
// @Summary      Booking statistics
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Stats
// @Router       /bookings/stats [get]
func (h *BookingHandler) Stats(c echo.Context) error {
	st, err := h.bookings.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// Feedback rates a completed booking of the caller.
//
// @Summary      Submit feedback
// @Tags         bookings
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  feedbackRequest  true  "Rating and comment"
// @Success      201
// @Failure      400  {string}  string
// @Failure      403  {string}  string
// @Router       /bookings/feedback [post]
func (h *BookingHandler) Feedback(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	var req feedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err = h.bookings.SubmitFeedback(c.Request().Context(), who, ports.FeedbackInput{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

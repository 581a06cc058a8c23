package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carservice/station/internal/api/handler"
	"github.com/carservice/station/internal/core/domain"
)

// errorResponse is the envelope of authentication and framework errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders errors the
// way clients of the station API expect them:
//   - validation failures as a {field: message} object,
//   - authentication and framework errors as {"message": ...},
//   - business rule rejections and missing resources as plain text,
//   - anything else as a logged 500 without internal details.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve handler.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, ve)
			return
		}

		code, msg, plain := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if plain {
			_ = c.String(code, msg)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (code int, msg string, plain bool) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message), false
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password", false
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access Denied", false

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrServiceNotFound),
		errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, sentinelText(err), true

	case errors.Is(err, domain.ErrFeedbackNotOwner):
		return http.StatusForbidden, domain.ErrFeedbackNotOwner.Error(), true

	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error(), true

	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidServiceID),
		errors.Is(err, domain.ErrBookingNotCompleted),
		errors.Is(err, domain.ErrFeedbackNotCompleted),
		errors.Is(err, domain.ErrFeedbackExists),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrPaymentVerification),
		errors.Is(err, domain.ErrPaymentAlreadyUsed),
		errors.Is(err, domain.ErrPaymentAmount),
		errors.Is(err, domain.ErrInvalidPaymentInfo):
		return http.StatusBadRequest, sentinelText(err), true
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", false
}

// sentinelText returns the message of the innermost domain error, without
// the context added while it travelled up.
func sentinelText(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

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

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterCustomer creates a customer account.
//
// @Summary      Register a customer
// @Tags         auth
// @Accept       json
// @Produce      plain
// @Param        body  body      registerRequest  true  "Customer details"
// @Success      201   {string}  string  "Customer registered successfully!"
// @Failure      400   {object}  map[string]string
// @Router       /auth/register/customer [post]
func (h *AuthHandler) RegisterCustomer(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.RegisterCustomer(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Address:         req.Address,
		Phone:           req.Phone,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		return err
	}

	h.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("customer registered")
	return c.String(http.StatusCreated, "Customer registered successfully!")
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.UserSession
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, domain.UserSession{
		Token:           res.Token,
		Type:            "Bearer",
		ID:              res.User.ID,
		Username:        res.User.Username,
		Email:           res.User.Email,
		ProfileImageURL: res.User.ProfileImageURL,
		Roles:           res.User.Roles,
	})
}

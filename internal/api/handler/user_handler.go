package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carservice/station/internal/core/ports"
)

// UserHandler serves the profile of the authenticated caller.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserProfile
// @Failure      401  {object}  messageResponse
// @Failure      404  {string}  string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.users.Me(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.ToProfile())
}

// UpdateCustomer updates the profile of a customer.
//
// @Summary      Update customer profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  messageResponse
// @Router       /users/me/customer [put]
func (h *UserHandler) UpdateCustomer(c echo.Context) error {
	return h.update(c)
}

// UpdateAdmin updates the profile of an administrator.
//
// @Summary      Update admin profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.UserProfile
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  messageResponse
// @Router       /users/me/admin [put]
func (h *UserHandler) UpdateAdmin(c echo.Context) error {
	return h.update(c)
}

func (h *UserHandler) update(c echo.Context) error {
	who, err := principal(c)
	if err != nil {
		return err
	}
	var req userUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), who.UserID, ports.ProfileUpdate{
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
	return c.JSON(http.StatusOK, user.ToProfile())
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carservice/station/internal/core/ports"
)

// CatalogHandler exposes the car service catalog.
type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List returns every service. Public.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Success      200  {array}  domain.CarService
// @Router       /services [get]
func (h *CatalogHandler) List(c echo.Context) error {
	out, err := h.catalog.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one service.
//
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Service ID"
// @Success      200  {object}  domain.CarService
// @Failure      404  {string}  string
// @Router       /services/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	svc, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Create adds a service to the catalog.
//
// @Summary      Create a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      serviceRequest  true  "Service"
// @Success      201   {object}  domain.CarService
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  messageResponse
// @Router       /services [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	var req serviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, svc)
}

// Update replaces a service.
//
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Service ID"
// @Param        body  body      serviceRequest  true  "Service"
// @Success      200   {object}  domain.CarService
// @Failure      400   {object}  map[string]string
// @Failure      404   {string}  string
// @Router       /services/{id} [put]
func (h *CatalogHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req serviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete removes a service.
//
// @Summary      Delete a service
// @Tags         services
// @Security     BearerAuth
// @Param        id   path  int  true  "Service ID"
// @Success      204
// @Failure      404  {string}  string
// @Router       /services/{id} [delete]
func (h *CatalogHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r serviceRequest) input() ports.ServiceInput {
	return ports.ServiceInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
	}
}

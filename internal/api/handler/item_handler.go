package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/inventory-system/internal/api/metrics"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

type ItemHandler struct {
	svc ports.ItemService
}

func NewItemHandler(svc ports.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// List returns every item.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   domain.Item
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/v1/admin/items [get]
// @Router       /api/v1/employee/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create adds an item.
//
// @Summary      Create item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      itemRequest  true  "Item"
// @Success      201   {object}  domain.Item
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/admin/items [post]
// @Router       /api/v1/employee/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.svc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, item)
}

// Update replaces the name, description and quantity of an item.
//
// @Summary      Update item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      string       true  "Item ID"
// @Param        body  body      itemRequest  true  "Item"
// @Success      200   {object}  domain.Item
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/admin/items/{id} [put]
// @Router       /api/v1/employee/items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.svc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, item)
}

// Delete removes an item.
//
// @Summary      Delete item
// @Tags         items
// @Security     BasicAuth
// @Param        id   path  string  true  "Item ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/admin/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.ItemMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

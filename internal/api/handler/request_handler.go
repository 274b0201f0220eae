package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/inventory-system/internal/api/metrics"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

// HeaderIdempotencyKey lets a client retry a request submission safely.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

type RequestHandler struct {
	svc ports.RequestService
}

func NewRequestHandler(svc ports.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// ListAll returns every stock request.
//
// @Summary      List all requests
// @Tags         requests
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   domain.Request
// @Router       /api/v1/admin/requests [get]
func (h *RequestHandler) ListAll(c echo.Context) error {
	reqs, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reqs)
}

// ListMine returns the caller's own requests.
//
// @Summary      List my requests
// @Tags         requests
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   domain.Request
// @Router       /api/v1/employee/requests [get]
func (h *RequestHandler) ListMine(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	reqs, err := h.svc.ListByRequester(c.Request().Context(), id.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reqs)
}

// Create opens a PENDING request on behalf of the caller. A repeated
// Idempotency-Key returns the original request with 200.
//
// @Summary      Submit a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        Idempotency-Key  header    string                false  "Client retry key"
// @Param        body             body      createRequestRequest  true   "Request"
// @Success      201              {object}  domain.Request
// @Success      200              {object}  domain.Request
// @Failure      404              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /api/v1/employee/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	if len(key) > maxIdempotencyKeyLen {
		return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key too long")
	}

	var req createRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Create(c.Request().Context(), req.toInput(id, key))
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		metrics.RequestsCreatedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, res.Request)
	}
	metrics.RequestsCreatedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, res.Request)
}

// Update changes the item, quantity and status of a request.
//
// @Summary      Review a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      string                true  "Request ID"
// @Param        body  body      updateRequestRequest  true  "Request"
// @Success      200   {object}  domain.Request
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/v1/admin/requests/{id} [put]
func (h *RequestHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.svc.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}

	metrics.RequestStatusChangesTotal.WithLabelValues(string(updated.Status)).Inc()
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a request.
//
// @Summary      Delete a request
// @Tags         requests
// @Security     BasicAuth
// @Param        id   path  string  true  "Request ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/admin/requests/{id} [delete]
func (h *RequestHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

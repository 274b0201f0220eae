package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// callerIdentity returns the identity the gate attached to the request. Its
// absence means the handler was mounted outside the gate.
func callerIdentity(c echo.Context) (*domain.Identity, error) {
	id := domain.IdentityFromContext(c.Request().Context())
	if id == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication failed")
	}
	return id, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// bindAndValidate decodes the body into dst and runs the registered validator.
func bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(dst); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/inventory-system/internal/api/middleware"
	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

type AuthHandler struct {
	authn ports.Authenticator
}

func NewAuthHandler(authn ports.Authenticator) *AuthHandler {
	return &AuthHandler{authn: authn}
}

type authResponse struct {
	Message string      `json:"message"`
	Role    domain.Role `json:"role,omitempty"`
}

// BasicAuth lets a client check a username/password pair and learn its role.
// The route is public, so credentials are verified here rather than by the
// gate.
//
// @Summary      Verify Basic credentials
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  authResponse
// @Router       /api/v1/basicauth [get]
func (h *AuthHandler) BasicAuth(c echo.Context) error {
	id, err := middleware.Authenticate(c, h.authn)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Message: "You are authenticated", Role: id.Role})
}

// Dashboard greets any authenticated caller.
//
// @Summary      Dashboard greeting
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  authResponse
// @Router       /api/v1/dashboard [get]
func (h *AuthHandler) Dashboard(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{
		Message: "You are authenticated with roles: " + string(id.Role),
		Role:    id.Role,
	})
}

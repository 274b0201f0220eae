package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

// IdentityKey is the echo.Context key the gate stores the caller under.
const IdentityKey = "identity"

// IdentityFrom returns the identity attached by the gate, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}

func attachIdentity(c echo.Context, id *domain.Identity) {
	c.Set(IdentityKey, id)
	req := c.Request()
	c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), id)))
}

// RBAC enforces that the gate attached an identity holding one of the
// allowed roles.
func RBAC(allowed ...domain.Role) echo.MiddlewareFunc {
	roles := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		roles[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return Unauthorized(c)
			}
			if _, ok := roles[id.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
			return next(c)
		}
	}
}

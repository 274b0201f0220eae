package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/stockroom/inventory-system/internal/api/metrics"
	"github.com/stockroom/inventory-system/internal/core/policy"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

// Gate authenticates and authorizes every request according to pol.
//
// The policy is consulted with the route the router matched, not the decoded
// request path. Public paths pass through without reading credentials. Everything else
// needs valid Basic credentials, and the resulting identity must satisfy the
// path's requirement. On success the identity is attached to both the echo
// context and the request context.
func Gate(authn ports.Authenticator, pol *policy.Policy, log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "gate").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := routePath(c)
			required := pol.RequiredRole(path)
			if required.Public() {
				metrics.AccessDecisionsTotal.WithLabelValues(required.String(), "allowed").Inc()
				return next(c)
			}

			id, err := Authenticate(c, authn)
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusUnauthorized {
					metrics.AccessDecisionsTotal.WithLabelValues(required.String(), "unauthenticated").Inc()
					log.Debug().Str("path", path).Msg("unauthenticated request rejected")
				}
				return err
			}

			if !required.Allows(id) {
				metrics.AccessDecisionsTotal.WithLabelValues(required.String(), "forbidden").Inc()
				log.Info().
					Str("path", path).
					Str("username", id.Username).
					Str("role", string(id.Role)).
					Str("required", required.String()).
					Msg("access forbidden")
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}

			metrics.AccessDecisionsTotal.WithLabelValues(required.String(), "allowed").Inc()
			attachIdentity(c, id)
			return next(c)
		}
	}
}

// routePath is the path the router dispatched on: the matched route pattern
// when routing has run, else the undecoded request path. The decoded
// URL.Path is never used since encoded dot segments there can point at a
// different rule than the route that serves the request.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	u := c.Request().URL
	if u.RawPath != "" {
		return u.RawPath
	}
	return u.Path
}

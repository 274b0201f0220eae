package middleware

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/inventory-system/internal/api/metrics"
	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

const (
	// Realm is advertised in the WWW-Authenticate header of every 401.
	Realm = "inventory"

	MsgAuthFailed = "Authentication failed"
	MsgForbidden  = "Access forbidden"
)

var (
	ErrNoCredentials        = errors.New("no credentials")
	ErrMalformedCredentials = errors.New("malformed credentials")
)

// ParseBasic extracts the username and password from an Authorization header
// of the form "Basic base64(username:password)". The password may contain
// colons; the username may not.
func ParseBasic(header string) (username, password string, err error) {
	if header == "" {
		return "", "", ErrNoCredentials
	}

	scheme, payload, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "basic") || payload == "" || strings.ContainsRune(payload, ' ') {
		return "", "", ErrMalformedCredentials
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", "", ErrMalformedCredentials
	}

	username, password, ok = strings.Cut(string(raw), ":")
	if !ok {
		return "", "", ErrMalformedCredentials
	}
	return username, password, nil
}

// Authenticate checks the Basic credentials of the current request. Missing,
// malformed and rejected credentials all yield the same 401 so callers cannot
// tell an unknown user from a wrong password. Store failures are returned
// wrapped for the central error handler.
func Authenticate(c echo.Context, authn ports.Authenticator) (*domain.Identity, error) {
	username, password, err := ParseBasic(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("malformed").Inc()
		return nil, Unauthorized(c)
	}

	start := time.Now()
	id, err := authn.Authenticate(c.Request().Context(), username, password)
	metrics.AuthDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
		return id, nil
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrInvalidCredentials):
		metrics.AuthAttemptsTotal.WithLabelValues("rejected").Inc()
		return nil, Unauthorized(c)
	default:
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("authenticate: %w", err)
	}
}

// Unauthorized sets the Basic challenge on the response and returns the
// generic 401 error.
func Unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="`+Realm+`"`)
	return echo.NewHTTPError(http.StatusUnauthorized, MsgAuthFailed)
}

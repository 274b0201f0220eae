package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/stockroom/inventory-system/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"item not found", fmt.Errorf("update: %w", domain.ErrItemNotFound), http.StatusNotFound, `{"message":"item not found"}`},
		{"request not found", domain.ErrRequestNotFound, http.StatusNotFound, `{"message":"request not found"}`},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusUnprocessableEntity, `{"message":"invalid quantity"}`},
		{"bad password", domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"message":"Authentication failed"}`},
		{"idempotency key in flight", domain.ErrRequestInProgress, http.StatusConflict, `{"message":"a request with this idempotency key is still being processed"}`},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, `{"message":"Access forbidden"}`},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid id"), http.StatusBadRequest, `{"message":"invalid id"}`},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, `{"message":"internal server error"}`},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tc.err, c)

			assert.Equal(t, tc.code, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
			if tc.code == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="inventory"`, rec.Header().Get(echo.HeaderWWWAuthenticate))
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	t.Parallel()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

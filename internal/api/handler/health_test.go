package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name string
		deps map[string]Pinger
		code int
	}{
		{"all up", map[string]Pinger{"store": ok, "redis": ok}, http.StatusOK},
		{"no deps", nil, http.StatusOK},
		{"redis down", map[string]Pinger{"store": ok, "redis": down}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		e := newTestEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

		if err := NewHealthHandler(tc.deps).Readiness(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
		}
		if tc.code != http.StatusOK {
			deps := decodeBody(t, rec)["dependencies"].(map[string]any)
			if deps["redis"].(map[string]any)["status"] != "unhealthy" {
				t.Fatalf("%s: unexpected body %s", tc.name, rec.Body.String())
			}
		}
	}
}

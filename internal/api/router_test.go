package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/policy"
	"github.com/stockroom/inventory-system/internal/core/service"
	"github.com/stockroom/inventory-system/internal/infrastructure/db/sqlite"
	"github.com/stockroom/inventory-system/internal/pkg/idgen"
)

// newTestServer wires the real router over a fresh SQLite store seeded with
// one user per role.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	log := zerolog.Nop()
	db, err := sqlite.Open(t.Context(), log, filepath.Join(t.TempDir(), "inventory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ids, err := idgen.New(1)
	require.NoError(t, err)

	items := sqlite.NewItemRepository(db)
	auth, err := service.NewAuthService(sqlite.NewUserRepository(db, ids), service.NewBcryptHasher(), log)
	require.NoError(t, err)

	_, err = auth.CreateUser(t.Context(), "admin", "adminpass", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = auth.CreateUser(t.Context(), "bob", "bobpass", domain.RoleEmployee)
	require.NoError(t, err)

	return NewRouter(Deps{
		Authenticator: auth,
		Policy:        policy.Default(),
		Items:         service.NewItemService(items, ids, log),
		Requests:      service.NewRequestService(sqlite.NewRequestRepository(db), items, nil, ids, log),
		CORSOrigin:    "http://localhost:4200",
		Logger:        log,
	})
}

func do(e *echo.Echo, method, target, userpass, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userpass != "" {
		req.Header.Set(echo.HeaderAuthorization, "Basic "+base64.StdEncoding.EncodeToString([]byte(userpass)))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AccessControl(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	cases := []struct {
		name     string
		method   string
		target   string
		userpass string
		want     int
	}{
		{"employee on admin items", http.MethodGet, "/api/v1/admin/items", "bob:bobpass", http.StatusForbidden},
		{"admin on admin items", http.MethodGet, "/api/v1/admin/items", "admin:adminpass", http.StatusOK},
		{"admin on employee requests", http.MethodGet, "/api/v1/employee/requests", "admin:adminpass", http.StatusForbidden},
		{"employee on employee requests", http.MethodGet, "/api/v1/employee/requests", "bob:bobpass", http.StatusOK},
		{"anonymous on dashboard", http.MethodGet, "/api/v1/dashboard", "", http.StatusUnauthorized},
		{"employee on dashboard", http.MethodGet, "/api/v1/dashboard", "bob:bobpass", http.StatusOK},
		{"basicauth without header", http.MethodGet, "/api/v1/basicauth", "", http.StatusUnauthorized},
		{"basicauth valid", http.MethodGet, "/api/v1/basicauth", "bob:bobpass", http.StatusOK},
		{"unknown api path needs auth", http.MethodGet, "/api/v1/nowhere", "", http.StatusUnauthorized},
		{"unknown api path authenticated", http.MethodGet, "/api/v1/nowhere", "bob:bobpass", http.StatusNotFound},
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics is public", http.MethodGet, "/metrics", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, tc.method, tc.target, tc.userpass, "")
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_WrongPasswordIsGeneric(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	wrong := do(e, http.MethodGet, "/api/v1/basicauth", "admin:wrongpass", "")
	unknown := do(e, http.MethodGet, "/api/v1/basicauth", "nobody:wrongpass", "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.JSONEq(t, `{"message":"Authentication failed"}`, wrong.Body.String())
	assert.NotContains(t, wrong.Body.String(), "admin")
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, `Basic realm="inventory"`, wrong.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestRouter_BasicAuthReportsRole(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	rec := do(e, http.MethodGet, "/api/v1/basicauth", "admin:adminpass", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"You are authenticated","role":"ADMIN"}`, rec.Body.String())
}

func TestRouter_ItemAndRequestLifecycle(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/admin/items", "admin:adminpass", `{"name":"Stapler","description":"red","quantity":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.NotEmpty(t, item.ID)

	rec = do(e, http.MethodGet, "/api/v1/employee/items", "bob:bobpass", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stapler")

	rec = do(e, http.MethodPost, "/api/v1/employee/requests", "bob:bobpass",
		`{"itemId":"`+item.ID+`","quantity":2,"requestedBy":"admin"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created domain.Request
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "bob", created.RequestedBy)
	assert.Equal(t, domain.RequestPending, created.Status)

	rec = do(e, http.MethodPost, "/api/v1/employee/requests", "bob:bobpass", `{"itemId":"1","quantity":2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	target := "/api/v1/admin/requests/" + strconv.FormatInt(created.ID, 10)
	rec = do(e, http.MethodPut, target, "admin:adminpass", `{"itemId":"`+item.ID+`","quantity":3,"status":"APPROVED"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated domain.Request
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.RequestApproved, updated.Status)
	assert.Equal(t, "bob", updated.RequestedBy)

	rec = do(e, http.MethodGet, "/api/v1/employee/requests", "bob:bobpass", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "APPROVED")

	rec = do(e, http.MethodDelete, "/api/v1/admin/items/"+item.ID, "admin:adminpass", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodDelete, "/api/v1/admin/items/"+item.ID, "admin:adminpass", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"item not found"}`, rec.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/admin/items", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:4200")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:4200", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

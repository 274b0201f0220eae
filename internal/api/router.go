package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/stockroom/inventory-system/internal/api/handler"
	"github.com/stockroom/inventory-system/internal/api/middleware"
	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/policy"
	"github.com/stockroom/inventory-system/internal/core/ports"
)

// Deps is everything the router needs. Construction of the concrete
// services happens in the serve command.
type Deps struct {
	Authenticator ports.Authenticator
	Policy        *policy.Policy
	Items         ports.ItemService
	Requests      ports.RequestService
	// Health maps dependency names to readiness probes.
	Health     map[string]handler.Pinger
	CORSOrigin string
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// HTTP collectors live in a per-router registry so several routers can
	// coexist in one process.
	httpMetrics := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{d.CORSOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, handler.HeaderIdempotencyKey},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "inventory",
		Subsystem:                 "http",
		Registerer:                httpMetrics,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Operational endpoints (outside the gate) ---
	health := handler.NewHealthHandler(d.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
	}))

	// --- API ---
	auth := handler.NewAuthHandler(d.Authenticator)
	items := handler.NewItemHandler(d.Items)
	requests := handler.NewRequestHandler(d.Requests)

	v1 := e.Group("/api/v1", middleware.Gate(d.Authenticator, d.Policy, d.Logger))
	v1.GET("/basicauth", auth.BasicAuth)
	v1.GET("/dashboard", auth.Dashboard)

	admin := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/items", items.List)
	admin.POST("/items", items.Create)
	admin.PUT("/items/:id", items.Update)
	admin.DELETE("/items/:id", items.Delete)
	admin.GET("/requests", requests.ListAll)
	admin.PUT("/requests/:id", requests.Update)
	admin.DELETE("/requests/:id", requests.Delete)

	employee := v1.Group("/employee", middleware.RBAC(domain.RoleEmployee))
	employee.GET("/items", items.List)
	employee.POST("/items", items.Create)
	employee.PUT("/items/:id", items.Update)
	employee.GET("/requests", requests.ListMine)
	employee.POST("/requests", requests.Create)

	return e
}

// requestLogger writes one zerolog line per request. Credentials never reach
// the log since only method, URI and status are recorded.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()

	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= http.StatusInternalServerError:
				ev = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				ev = log.Warn()
			default:
				ev = log.Info()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

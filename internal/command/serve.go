package command

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stockroom/inventory-system/internal/api"
	"github.com/stockroom/inventory-system/internal/api/handler"
	"github.com/stockroom/inventory-system/internal/core/policy"
	"github.com/stockroom/inventory-system/internal/core/service"
	"github.com/stockroom/inventory-system/pkg/logger"
)

// Server timeouts.
const (
	readHeaderTimeout = 2 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the inventory HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			env, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := env.close(cmd.Context()); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			e, err := buildRouter(env)
			if err != nil {
				return err
			}

			grp, ctx := errgroup.WithContext(cmd.Context())
			if err := serveHTTP(ctx, grp, e, ":"+env.cfg.Port, env.cfg.ShutdownTimeout, logger.Component("server")); err != nil {
				return err
			}
			return grp.Wait()
		},
	}
}

func buildRouter(env *env) (*echo.Echo, error) {
	st := env.store
	auth, err := service.NewAuthService(st.Users, service.NewBcryptHasher(), env.log)
	if err != nil {
		return nil, err
	}

	probes := make(map[string]handler.Pinger, len(st.Probes))
	for name, probe := range st.Probes {
		probes[name] = probe
	}

	return api.NewRouter(api.Deps{
		Authenticator: auth,
		Policy:        policy.Default(),
		Items:         service.NewItemService(st.Items, env.ids, env.log),
		Requests:      service.NewRequestService(st.Requests, st.Items, st.Idempotency, env.ids, env.log),
		Health:        probes,
		CORSOrigin:    env.cfg.CORSOrigin,
		Logger:        env.log,
	}), nil
}

// serveHTTP starts e on addr and shuts it down gracefully once ctx is done.
func serveHTTP(
	ctx context.Context,
	grp *errgroup.Group,
	e *echo.Echo,
	addr string,
	shutdownTimeout time.Duration,
	log zerolog.Logger,
) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	srv := e.Server
	srv.ReadHeaderTimeout = readHeaderTimeout
	srv.ReadTimeout = readTimeout
	srv.WriteTimeout = writeTimeout

	log.Info().Str("address", listener.Addr().String()).Msg("starting HTTP server")

	grp.Go(func() error {
		err := srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	grp.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return nil
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	corecontrollers "github.com/atlas-hq/atlas-admin/modules/core/presentation/controllers"
	orgcontrollers "github.com/atlas-hq/atlas-admin/modules/org/presentation/controllers"
	"github.com/atlas-hq/atlas-admin/internal/server"
	"github.com/atlas-hq/atlas-admin/pkg/metrics"
	"github.com/atlas-hq/atlas-admin/pkg/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			logger := a.conf.Logger()

			authorize := middleware.Authorize(a.authSvc)
			controllers := []server.Controller{
				orgcontrollers.NewOrgAPIController(a.orgSvc, authorize),
				corecontrollers.NewRoleAPIController(a.roleSvc, authorize),
				corecontrollers.NewUserAPIController(a.userSvc, authorize),
				corecontrollers.NewProfileAPIController(authorize),
			}
			if a.conf.Prometheus.Enabled {
				controllers = append(controllers, metrics.NewPrometheusController(a.conf.Prometheus.Path))
			}

			srv := server.New(controllers, []mux.MiddlewareFunc{
				middleware.WithLogger(logger),
				middleware.WithPool(a.pool),
			})

			errCh := make(chan error, 1)
			go func() {
				logger.WithField("address", a.conf.Address).Info("http server listening")
				errCh <- srv.Start(a.conf.Address)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}

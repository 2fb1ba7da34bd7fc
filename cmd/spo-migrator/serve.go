package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/spo-migrator/api/v1"
	"github.com/kubev2v/spo-migrator/internal/handlers"
	"github.com/kubev2v/spo-migrator/internal/server"
	"github.com/kubev2v/spo-migrator/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run history over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			h := handlers.New(services.NewJobService(st))
			srv, err := server.NewServer(a.cfg, func(router *gin.RouterGroup) {
				v1.RegisterHandlers(router, h)
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(ctx)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				zap.S().Named("server").Errorw("failed to stop server", "error", err)
				return err
			}
			return <-errCh
		},
	}

	flags := cmd.Flags()
	flags.Int("http-port", 8000, "listen port of the status API")
	flags.String("server-mode", "dev", "server mode: dev or prod")
	configKey(flags, "http-port", "server.http-port")
	configKey(flags, "server-mode", "server.server-mode")

	return cmd
}

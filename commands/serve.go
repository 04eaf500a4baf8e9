package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OwlvinAiDevs/OwlvinAi/config"
	"github.com/OwlvinAiDevs/OwlvinAi/handlers"
	"github.com/OwlvinAiDevs/OwlvinAi/routes"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(opts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = opts.Settings.Port
			}
			return serve(cmd, opts.Settings, port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")
	return cmd
}

func serve(cmd *cobra.Command, s config.Settings, port string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, s)
	if err != nil {
		return err
	}
	defer a.Close()

	h := &handlers.Handler{
		Scheduler: a.orchestrator,
		Store:     a.store,
		Planner:   a.planner,
	}
	if a.hasRemote {
		h.Sync = a.reconciler
	}
	if s.SupabaseJWTSecret == "" {
		config.Logger.Warn("SUPABASE_JWT_SECRET is not set, bearer tokens are not verified")
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           routes.NewRouter(h, s.SupabaseJWTSecret),
		ReadHeaderTimeout: 10 * time.Second,
		// generation can take as long as the planner timeout
		WriteTimeout: s.RequestTimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infof("Server is running on port %s", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	config.Logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

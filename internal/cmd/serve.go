package cmd

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

	"github.com/getsentry/sentry-go"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/Belphemur/TVApi/internal/config"
	grpcserver "github.com/Belphemur/TVApi/internal/grpc"
	"github.com/Belphemur/TVApi/internal/metrics"
	"github.com/Belphemur/TVApi/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the provider over HTTP and gRPC",
	Long: `Serve the provider JSON API on server.address:server.port, gRPC health
checks on grpc.port and, when metrics.enabled is set, Prometheus metrics on
metrics.port. SIGINT or SIGTERM shuts every listener down gracefully.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)
	logger := config.GetLogger()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry, continuing without error reporting")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()

	httpServer := server.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, rt.provider)
	p.Go(func(ctx context.Context) error {
		return serveHTTP(ctx, "api", httpServer)
	})

	grpcServer := grpcserver.NewGRPCServer(rt.languages)
	grpcAddress := net.JoinHostPort(cfg.Server.Address, fmt.Sprint(cfg.GRPC.Port))
	p.Go(func(ctx context.Context) error {
		return serveGRPC(ctx, grpcAddress, grpcServer)
	})

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		p.Go(func(ctx context.Context) error {
			return serveHTTP(ctx, "metrics", metricsServer)
		})
	}

	err = p.Wait()
	logger.Info().Msg("Server stopped gracefully")
	return err
}

// serveHTTP runs srv until ctx is done, then shuts it down.
func serveHTTP(ctx context.Context, name string, srv *http.Server) error {
	logger := config.GetLogger()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("server", name).Msg("Failed to shutdown HTTP server")
		}
	}()

	logger.Info().Str("server", name).Str("address", srv.Addr).Msg("Starting HTTP server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}

func serveGRPC(ctx context.Context, address string, srv *grpc.Server) error {
	logger := config.GetLogger()

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("grpc listen on %s: %w", address, err)
	}

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	logger.Info().Str("address", address).Msg("Starting gRPC server")
	if err := srv.Serve(listener); err != nil {
		return fmt.Errorf("grpc server: %w", err)
	}
	return nil
}

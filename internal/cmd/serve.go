package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SPJDevOps/PocketS3/internal/config"
	"github.com/SPJDevOps/PocketS3/internal/observability"
	"github.com/SPJDevOps/PocketS3/internal/server"
	"github.com/SPJDevOps/PocketS3/internal/server/handlers"
	"github.com/SPJDevOps/PocketS3/pkg/bucketview"
	"github.com/SPJDevOps/PocketS3/pkg/provider/s3"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web file manager",
	Long: `Start the HTTP server: the browsing API under /api, health and version
endpoints, and optionally a built frontend from --static-dir.

Examples:
  pockets3 serve
  pockets3 serve --port 9090 --static-dir ./frontend/dist
  pockets3 serve --endpoint http://localhost:9000 --path-style`,
	RunE: runServe,
}

var (
	serveHost      string
	servePort      int
	serveStaticDir string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to bind (overrides config)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static-dir", "", "Directory with the built frontend (overrides config)")
}

// storageHealthChecker probes the account client with a bucket listing.
type storageHealthChecker struct {
	account *s3.Account
}

func (c storageHealthChecker) CheckHealth(ctx context.Context) error {
	if c.account == nil {
		return fmt.Errorf("storage account not initialized")
	}
	_, err := c.account.ListBuckets(ctx)
	return err
}

// bucketServices hands out one browsing service per bucket, creating the
// provider on first use.
type bucketServices struct {
	settings storageSettings
	listing  bucketview.Config
	logger   *zap.Logger

	mu       sync.Mutex
	services map[string]*bucketview.Service
}

func newBucketServices(settings storageSettings, listing bucketview.Config, logger *zap.Logger) *bucketServices {
	return &bucketServices{
		settings: settings,
		listing:  listing,
		logger:   logger,
		services: make(map[string]*bucketview.Service),
	}
}

func (b *bucketServices) open(ctx context.Context, bucket string) (*bucketview.Service, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if svc, ok := b.services[bucket]; ok {
		return svc, nil
	}

	prov, err := s3.New(ctx, b.settings.bucketConfig(bucket))
	if err != nil {
		return nil, err
	}

	svc := bucketview.NewService(prov, b.listing, b.logger.With(zap.String("bucket", bucket)))
	b.services[bucket] = svc
	return svc, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.GetConfig()
	logger := observability.CLILogger

	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}
	staticDir := cfg.Server.StaticDir
	if serveStaticDir != "" {
		staticDir = serveStaticDir
	}

	settings, err := resolveStorage()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Failed to resolve storage settings", err)
	}

	account, err := s3.NewAccount(ctx, settings.accountConfig())
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to storage provider", err)
	}

	handlers.SetBuildInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
	handlers.InitHealthManager(versionInfo.Version)
	handlers.GetHealthManager().RegisterChecker("storage", storageHealthChecker{account: account})

	services := newBucketServices(settings, listingConfig(), logger)
	api := handlers.NewAPI(account, services.open, logger)

	srv := server.New(host, port)
	srv.SetTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)
	srv.MountAPI(api.Routes())
	if staticDir != "" {
		srv.ServeStatic(staticDir)
		logger.Info("serving static frontend", zap.String("dir", staticDir))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr()),
			zap.String("version", versionInfo.Version))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return exitError(foundry.ExitExternalServiceUnavailable, "Server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return exitError(foundry.ExitSignalInt, "Forced shutdown", err)
	}

	logger.Info("server stopped")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fortify-solutions/compliance-hub/internal/analyze"
	"github.com/fortify-solutions/compliance-hub/internal/api"
	"github.com/fortify-solutions/compliance-hub/internal/store"
)

var (
	serveAddr  string
	serveRPS   float64
	serveBurst int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve coverage analysis over HTTP",
	Long: `Serve loads the dataset and exposes the analysis engine as a
read-only JSON API:

  POST /api/v1/analyze                       analyze one requirement
  GET  /api/v1/requirements                  list requirements
  GET  /api/v1/requirements/{id}/coverage    coverage for one requirement
  GET  /api/v1/coverage/summary              portfolio summary
  GET  /healthz                              liveness probe

Example:
  compliance-hub serve --addr :8080
  compliance-hub serve --dataset ./dataset.yaml --rps 20`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().Float64Var(&serveRPS, "rps", 0, "requests per second per client (default from config)")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 0, "rate limit burst per client (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveRPS > 0 {
		cfg.Server.RequestsPerSecond = serveRPS
	}
	if serveBurst > 0 {
		cfg.Server.Burst = serveBurst
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	logger.Info("Dataset loaded",
		zap.String("path", cfg.Dataset.Path),
		zap.Int("requirements", len(st.Requirements())),
		zap.Int("rules", len(st.Rules())))

	server := api.NewServer(cfg.Server, st, analyze.New(cfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newLogger builds the service logger; verbose switches to development output
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"userdir/internal/fixture"
	"userdir/internal/metrics"
)

var (
	fixtureAddr string
	fixtureData string
)

// fixtureCmd serves a local stand-in for the directory API
var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Serve a local directory API for development and tests",
	Long: `Serves GET /users/search, /users, /healthz and /metrics from an in-memory
user list. Point the browser at it with --api-url http://localhost:8090.`,
	RunE: runFixture,
}

func init() {
	fixtureCmd.Flags().StringVar(&fixtureAddr, "addr", "", "Listen address (default from config, :8090)")
	fixtureCmd.Flags().StringVar(&fixtureData, "data", "", "JSON file with users (array or {\"users\": [...]})")
}

// loadFixtureStore reads path, or returns the built-in users when empty.
func loadFixtureStore(path string) (*fixture.Store, error) {
	if path == "" {
		return fixture.NewStore(fixture.DefaultUsers()), nil
	}
	return fixture.Load(path)
}

func runFixture(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := currentLogger().Named("fixture")

	addr := fixtureAddr
	if addr == "" {
		addr = cfg.Fixture.Addr
	}
	data := fixtureData
	if data == "" {
		data = cfg.Fixture.DataFile
	}

	store, err := loadFixtureStore(data)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	httpMetrics, err := metrics.NewHTTP(reg)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr: addr,
		Handler: fixture.NewRouter(store, fixture.RouterConfig{
			Logger:   log,
			Metrics:  httpMetrics,
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("fixture server listening", zap.String("addr", addr), zap.Int("users", store.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("fixture server shutting down")
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

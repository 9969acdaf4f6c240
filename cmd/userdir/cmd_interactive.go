package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"userdir/cmd/userdir/ui"
	"userdir/internal/config"
	"userdir/internal/logging"
	"userdir/internal/metrics"
)

// runInteractive starts the TUI, plus the metrics endpoint when configured.
func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ws, err := config.FindWorkspaceRoot()
	if err != nil {
		return err
	}
	logs, err := logging.New(cfg.Logging, ws)
	if err != nil {
		return err
	}
	defer logs.Close()
	boot := logs.Get(config.CategoryBoot)
	boot.Info("starting interactive session",
		zap.String("api", cfg.API.BaseURL),
		zap.String("cache", cfg.Cache.Driver),
		zap.Duration("debounce", cfg.GetDebounce()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	searcher, release, err := newSearcher(ctx, cfg, searchDeps{
		fetchLog: logs.Get(config.CategoryFetch),
		cacheLog: logs.Get(config.CategoryCache),
		reg:      reg,
	})
	if err != nil {
		return err
	}
	defer release()

	page := ui.NewDirectoryPageModel(ui.PageConfig{
		Context:    ctx,
		Searcher:   searcher,
		Controller: newController(cfg, logs.Get(config.CategoryFetch), cfg.UI.HighlightOldest),
		Debounce:   cfg.GetDebounce(),
		Logger:     logs.Get(config.CategoryUI),
		Styles:     ui.NewStyles(ui.ThemeFor(cfg.UI.DarkMode)),
	})
	app := ui.NewApp(page)
	defer app.Close()

	g, gctx := errgroup.WithContext(ctx)

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		r := chi.NewRouter()
		r.Handle("/metrics", metrics.Handler(reg))
		srv = &http.Server{Addr: cfg.Metrics.Addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			boot.Info("metrics endpoint listening", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(gctx))
	g.Go(func() error {
		defer func() {
			if srv == nil {
				return
			}
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()

		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	err = g.Wait()
	boot.Info("interactive session ended", zap.Error(err))
	return err
}

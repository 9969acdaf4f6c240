package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"userdir/internal/cache"
	"userdir/internal/config"
	"userdir/internal/directory"
	"userdir/internal/logging"
	"userdir/internal/metrics"
)

var (
	// Global flags
	verbose bool
	cfgPath string
	apiURL  string

	// Logger for headless commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "userdir",
	Short: "Search and browse a remote user directory",
	Long: `userdir is a terminal browser for a remote user directory.

Type to search by name or email, page through results, narrow the table to a
single city and highlight the oldest user of each city.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI owns the terminal and logs to a file instead.
		if cmd.Use == "userdir" && cmd.CalledAs() == "userdir" {
			return nil
		}

		var err error
		logger, err = logging.NewConsole(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default: <workspace>/.userdir/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Directory API base URL (or set USERDIR_API_URL)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(fixtureCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// currentLogger returns the headless logger, or a no-op one before setup.
func currentLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the config file, applies flag overrides and validates.
func loadConfig() (*config.Config, error) {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// searchDeps carries the loggers and registry a searcher reports to.
type searchDeps struct {
	fetchLog *zap.Logger
	cacheLog *zap.Logger
	reg      prometheus.Registerer // nil disables metrics
}

// newSearcher builds the HTTP client, wrapped in the configured cache.
// A cache that cannot be built is logged and skipped. The returned func
// releases the cache.
func newSearcher(ctx context.Context, cfg *config.Config, deps searchDeps) (directory.Searcher, func(), error) {
	m, err := metrics.NewSearch(deps.reg)
	if err != nil {
		return nil, nil, fmt.Errorf("register search metrics: %w", err)
	}

	client := directory.NewClient(cfg.API.BaseURL,
		directory.WithSearchPath(cfg.API.SearchPath),
		directory.WithTimeout(cfg.GetTimeout()),
		directory.WithLogger(deps.fetchLog),
		directory.WithMetrics(m),
	)

	c, err := cache.New(ctx, cache.Options{
		Driver:        cfg.Cache.Driver,
		TTL:           cfg.GetCacheTTL(),
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		// Search uncached rather than refuse to start.
		if deps.cacheLog != nil {
			deps.cacheLog.Warn("cache unavailable, searching without it",
				zap.String("driver", cfg.Cache.Driver), zap.Error(err))
		}
		m.CacheResult("error")
		c = nil
	}
	release := func() {}
	if c != nil {
		release = func() { _ = c.Close() }
	}

	return directory.NewCachedSearcher(client, c, cfg.GetCacheTTL(), deps.cacheLog, m), release, nil
}

// newController builds a controller from config.
func newController(cfg *config.Config, log *zap.Logger, highlight bool) *directory.Controller {
	return directory.NewController(
		directory.WithPageSize(cfg.GetPageSize()),
		directory.WithLimit(cfg.GetLimit()),
		directory.WithControllerLogger(log),
		directory.WithHighlightOldest(highlight),
	)
}

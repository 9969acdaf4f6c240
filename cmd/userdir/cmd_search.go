package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"userdir/cmd/userdir/ui"
	"userdir/internal/directory"
)

var (
	searchCity   string
	searchPage   int
	searchOldest bool
	searchJSON   bool
)

// searchCmd runs one search without the interactive UI
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a single search and print one table page",
	Long: `Runs the same request and table derivation as the interactive view and
prints the resulting page.

Examples:
  userdir search john
  userdir search --city Paris --oldest
  userdir search --page 3 --json`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCity, "city", "", "Only show users living in this city")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Table page (1-based)")
	searchCmd.Flags().BoolVar(&searchOldest, "oldest", false, "Highlight the oldest user of each city")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print JSON instead of a table")
}

// searchResult is the --json output.
type searchResult struct {
	Query     string           `json:"query"`
	City      string           `json:"city,omitempty"`
	Page      int              `json:"page"`
	PageCount int              `json:"pageCount"`
	Total     int              `json:"total"`
	Users     []directory.User `json:"users"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := currentLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searcher, release, err := newSearcher(ctx, cfg, searchDeps{
		fetchLog: log.Named("fetch"),
		cacheLog: log.Named("cache"),
	})
	if err != nil {
		return err
	}
	defer release()

	query := strings.Join(args, " ")
	ctrl := newController(cfg, log, searchOldest)
	ctrl.SetSearch(query)
	ctrl.CommitSearch(query)
	ctrl.SelectCity(searchCity)
	ctrl.SetPage(searchPage)

	if err := ctrl.Fetch(ctx, searcher); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	v := ctrl.View()
	log.Debug("search complete",
		zap.String("query", query),
		zap.Int("total", v.Total),
		zap.Int("rows", len(v.Rows)),
	)

	out := cmd.OutOrStdout()
	if searchJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(searchResult{
			Query:     query,
			City:      v.State.City,
			Page:      v.Page,
			PageCount: v.PageCount,
			Total:     v.Total,
			Users:     v.Rows,
		})
	}

	if len(v.Rows) == 0 {
		fmt.Fprintln(out, "No users found.")
	} else {
		styles := ui.NewStyles(ui.ThemeFor(cfg.UI.DarkMode))
		fmt.Fprint(out, ui.NewUserTable(searchTitle(query, v.State.City), v.Rows).View(styles))
	}
	fmt.Fprintf(out, "Page %d of %d · %d users\n", v.Page, v.PageCount, v.Total)
	return nil
}

func searchTitle(query, city string) string {
	title := "All users"
	if query != "" {
		title = fmt.Sprintf("Users matching %q", query)
	}
	if city != "" {
		title += " in " + city
	}
	return title
}

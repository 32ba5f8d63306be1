package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"i18ncheck/cmd/i18ncheck/ui"
	"i18ncheck/internal/config"
	"i18ncheck/internal/logging"
	"i18ncheck/internal/report"
	"i18ncheck/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchTUI bool

// watchCmd re-runs the audit whenever a catalog changes
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the audit whenever a catalog file changes",
	Long: `Runs the audit once, then watches the catalog directory and every
language directory under it. Saves are debounced (watch.debounce) and each
settled batch of changes triggers a fresh audit.

Use --tui for a live dashboard. Press Ctrl+C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	applyCheckFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if watchTUI {
		return watchDashboard(ctx, cfg)
	}
	return watchPlain(ctx, cfg, cmd.OutOrStdout())
}

// watchPlain reprints the report after every change until ctx is done.
func watchPlain(ctx context.Context, c *config.Config, out io.Writer) error {
	styles := report.DefaultStyles()

	if _, err := executeCheck(ctx, c, out); err != nil {
		return err
	}

	w, err := watch.NewWatcher(c.Catalog.Dir, c.Catalog.File, c.GetWatchDebounce(), func(ctx context.Context, paths []string) {
		fmt.Fprintf(out, "\n%s\n", styles.RenderDivider(60))
		fmt.Fprintf(out, "%s\n\n", styles.Muted.Render(fmt.Sprintf("%d catalog(s) changed at %s", len(paths), time.Now().Format("15:04:05"))))
		if _, err := executeCheck(ctx, c, out); err != nil {
			// Keep watching: the next save may fix the base catalog.
			fmt.Fprintln(out, styles.Poor.Render("audit failed: "+err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch %s: %w", c.Catalog.Dir, err)
	}
	defer w.Stop()

	<-ctx.Done()
	if logger != nil {
		logger.Info("Received shutdown signal", zap.Int("batches", w.GetStats().Batches))
	}
	return nil
}

// dashboardLogging sends logs to watch.log_file so they do not draw over the
// alt screen.
func dashboardLogging(c *config.Config) config.LoggingConfig {
	lc := c.Logging
	if c.Watch.LogFile != "" {
		lc.Output = c.Watch.LogFile
	}
	return lc
}

// watchDashboard drives the bubbletea dashboard from watcher callbacks.
func watchDashboard(ctx context.Context, c *config.Config) error {
	l, err := logging.Initialize(dashboardLogging(c), verbose)
	if err != nil {
		return fmt.Errorf("failed to redirect logs: %w", err)
	}
	logger = l

	styles := report.DefaultStyles()
	program := tea.NewProgram(ui.NewModel(c.Catalog.Dir, styles), tea.WithAltScreen(), tea.WithContext(ctx))

	audit := func(ctx context.Context) {
		var buf bytes.Buffer
		res, err := executeCheck(ctx, c, &buf)
		if err != nil {
			program.Send(ui.AuditErrorMsg{Err: err})
			return
		}
		program.Send(ui.AuditDoneMsg{Report: buf.String(), Average: res.Average(), At: time.Now()})
	}

	w, err := watch.NewWatcher(c.Catalog.Dir, c.Catalog.File, c.GetWatchDebounce(), func(ctx context.Context, paths []string) {
		program.Send(ui.AuditStartedMsg{Paths: paths})
		audit(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to watch %s: %w", c.Catalog.Dir, err)
	}
	defer w.Stop()

	go audit(ctx)

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	logging.Get(logging.CategoryWatch).Debugw("dashboard closed", "batches", w.GetStats().Batches)
	return nil
}

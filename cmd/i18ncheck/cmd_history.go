package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"i18ncheck/internal/report"
	"i18ncheck/internal/store"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recorded audit runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded audit runs",
	Long: `Lists the most recent runs recorded with check --record (or with
store.enabled), newest first, with each language's score.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	styles := report.DefaultStyles()

	if _, err := os.Stat(cfg.Store.Path); errors.Is(err, fs.ErrNotExist) {
		return report.RenderHistory(out, nil, cfg.Report, styles)
	}

	s, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer s.Close()

	limit := historyLimit
	if limit <= 0 {
		limit = 10
	}
	runs, err := s.RecentRuns(commandContext(cmd), limit)
	if err != nil {
		return err
	}
	return report.RenderHistory(out, runs, cfg.Report, styles)
}

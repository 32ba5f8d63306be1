package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"i18ncheck/internal/audit"
	"i18ncheck/internal/catalog"
	"i18ncheck/internal/config"
	"i18ncheck/internal/logging"
	"i18ncheck/internal/report"
	"i18ncheck/internal/store"

	"github.com/spf13/cobra"
)

// errBelowMinScore is returned by check when the --min-score gate fails.
var errBelowMinScore = errors.New("translation quality below minimum score")

var (
	checkDir       string
	checkBase      string
	checkLanguages []string
	checkFormat    string
	checkRecord    bool
	checkMinScore  int
)

// checkCmd runs one audit and prints the report
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit all target catalogs once and print the report",
	Long: `Loads the base catalog and every target catalog, compares them key by
key and prints a report with a quality score per language.

The command is informational and exits 0 whatever the scores, unless
--min-score is set. A missing or invalid base catalog is fatal.

Example:
  i18ncheck check --dir public/locales --base fr
  i18ncheck check --format markdown --record`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func addCheckFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&checkDir, "dir", "d", "", "Catalog root directory (overrides config)")
	f.StringVarP(&checkBase, "base", "b", "", "Base language (overrides config)")
	f.StringSliceVarP(&checkLanguages, "lang", "l", nil, "Target languages to audit (default: discover)")
	f.StringVarP(&checkFormat, "format", "f", "", "Report format: text or markdown (overrides config)")
	f.BoolVar(&checkRecord, "record", false, "Record the run in the history database")
	f.IntVar(&checkMinScore, "min-score", 0, "Fail when any language scores below this (0 disables)")
}

// applyCheckFlags layers command-line overrides onto the loaded config.
func applyCheckFlags(c *config.Config) {
	if checkDir != "" {
		c.Catalog.Dir = checkDir
	}
	if checkBase != "" {
		c.Catalog.BaseLanguage = checkBase
	}
	if len(checkLanguages) > 0 {
		c.Catalog.Languages = checkLanguages
	}
	if checkFormat != "" {
		c.Report.Format = checkFormat
	}
	if checkRecord {
		c.Store.Enabled = true
	}
	if checkMinScore > 0 {
		c.Audit.MinScore = checkMinScore
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	applyCheckFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	res, err := executeCheck(commandContext(cmd), cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return checkMinimum(res, cfg.Audit.MinScore)
}

// executeCheck loads catalogs, audits them, records the run when the history
// store is enabled and renders the report to w.
func executeCheck(ctx context.Context, c *config.Config, w io.Writer) (*audit.Result, error) {
	renderer, err := report.New(c.Report)
	if err != nil {
		return nil, err
	}

	res, err := runAudit(ctx, c)
	if err != nil {
		return nil, err
	}

	previous := recordRun(ctx, c, res)

	if err := renderer.Render(w, res, previous); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return res, nil
}

func runAudit(ctx context.Context, c *config.Config) (*audit.Result, error) {
	set, err := catalog.NewLoader(c.Catalog).LoadSet()
	if err != nil {
		return nil, err
	}
	auditor, err := audit.New(c)
	if err != nil {
		return nil, err
	}
	return auditor.Run(ctx, set)
}

// recordRun stores res and returns the scores of the run before it. History
// failures never fail the audit.
func recordRun(ctx context.Context, c *config.Config, res *audit.Result) map[string]int {
	if !c.Store.Enabled {
		return nil
	}
	log := logging.Get(logging.CategoryStore)

	s, err := store.NewStore(c.Store.Path)
	if err != nil {
		log.Warnw("history store unavailable", "path", c.Store.Path, "error", err)
		return nil
	}
	defer s.Close()

	previous, err := s.LatestScores(ctx)
	if err != nil {
		log.Warnw("failed to read previous scores", "error", err)
		previous = nil
	}
	if err := s.SaveRun(ctx, res); err != nil {
		log.Warnw("failed to record run", "run", res.RunID, "error", err)
	}
	return previous
}

// checkMinimum enforces the opt-in score gate. min 0 disables it.
func checkMinimum(res *audit.Result, min int) error {
	if min <= 0 {
		return nil
	}
	for _, l := range res.Languages {
		if l.Score < min {
			return fmt.Errorf("%w: %s scored %d (minimum %d)", errBelowMinScore, l.Language, l.Score, min)
		}
	}
	return nil
}

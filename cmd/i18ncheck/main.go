package main

import (
	"context"
	"fmt"
	"os"

	"i18ncheck/internal/config"
	"i18ncheck/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command. Without a subcommand it runs check.
var rootCmd = &cobra.Command{
	Use:   "i18ncheck",
	Short: "Audit translation catalogs against a base language",
	Long: `i18ncheck compares every target-language translation catalog with the
base-language catalog and reports missing keys, empty or suspiciously
identical translations, likely-untranslated text and length anomalies,
with a 0-100 quality score per language.

Catalogs are read from <dir>/<lang>/translation.json.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = logging.Initialize(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.Get(logging.CategoryBoot).Debugw("configuration loaded",
			"path", configPath,
			"catalog_dir", cfg.Catalog.Dir,
			"base_language", cfg.Catalog.BaseLanguage)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runCheck,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the i18ncheck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "i18ncheck %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "i18ncheck.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	addCheckFlags(rootCmd)
	addCheckFlags(checkCmd)
	watchCmd.Flags().BoolVar(&watchTUI, "tui", false, "Show a live dashboard instead of reprinting the report")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		logging.Sync()
		os.Exit(1)
	}
}

// commandContext returns cmd's context, or Background when cmd was not
// started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

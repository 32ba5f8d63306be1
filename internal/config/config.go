package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all i18ncheck configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Where catalogs live and which languages are audited
	Catalog CatalogConfig `yaml:"catalog"`

	// Exception lists, key patterns and tolerance bands
	Rules RulesConfig `yaml:"rules"`

	// Penalty weights for the quality score
	Scoring ScoringConfig `yaml:"scoring"`

	// Report rendering
	Report ReportConfig `yaml:"report"`

	// Audit execution
	Audit AuditConfig `yaml:"audit"`

	// Run history database
	Store StoreConfig `yaml:"store"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig locates translation catalogs on disk.
// Catalogs are laid out as <Dir>/<lang>/<File>.
type CatalogConfig struct {
	Dir          string   `yaml:"dir"`
	File         string   `yaml:"file"`
	BaseLanguage string   `yaml:"base_language"`
	Languages    []string `yaml:"languages"` // empty = discover from Dir
}

// ScoringConfig holds the linear penalty model.
type ScoringConfig struct {
	MissingWeight      int `yaml:"missing_weight"`
	IdenticalWeight    int `yaml:"identical_weight"`
	UntranslatedWeight int `yaml:"untranslated_weight"`
	LengthWeight       int `yaml:"length_weight"`
}

// ReportConfig configures the printed report.
type ReportConfig struct {
	MaxExamples       int    `yaml:"max_examples"`
	UntranslatedWidth int    `yaml:"untranslated_width"`
	IdenticalWidth    int    `yaml:"identical_width"`
	Format            string `yaml:"format"` // text, markdown
	GoodScore         int    `yaml:"good_score"`
	AcceptableScore   int    `yaml:"acceptable_score"`
}

// AuditConfig configures the audit run.
type AuditConfig struct {
	Parallelism int `yaml:"parallelism"`
	MinScore    int `yaml:"min_score"` // 0 disables the gate
}

// StoreConfig configures the SQLite run history.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`

	// Log destination while the --tui dashboard owns the terminal
	LogFile string `yaml:"log_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "i18ncheck",
		Version: "1.0.0",

		Catalog: CatalogConfig{
			Dir:          "public/locales",
			File:         "translation.json",
			BaseLanguage: "fr",
		},

		Rules: DefaultRules(),

		Scoring: ScoringConfig{
			MissingWeight:      15,
			IdenticalWeight:    5,
			UntranslatedWeight: 8,
			LengthWeight:       2,
		},

		Report: ReportConfig{
			MaxExamples:       5,
			UntranslatedWidth: 50,
			IdenticalWidth:    40,
			Format:            "text",
			GoodScore:         80,
			AcceptableScore:   50,
		},

		Audit: AuditConfig{
			Parallelism: 4,
		},

		Store: StoreConfig{
			Enabled: false,
			Path:    ".i18ncheck/history.db",
		},

		Watch: WatchConfig{
			Debounce: "300ms",
			LogFile:  ".i18ncheck/watch.log",
		},

		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Defaults if the file doesn't exist, still honoring the environment
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("I18NCHECK_CATALOG_DIR"); dir != "" {
		c.Catalog.Dir = dir
	}
	if lang := os.Getenv("I18NCHECK_BASE_LANGUAGE"); lang != "" {
		c.Catalog.BaseLanguage = lang
	}
	if path := os.Getenv("I18NCHECK_DB"); path != "" {
		c.Store.Path = path
		c.Store.Enabled = true
	}
	if level := os.Getenv("I18NCHECK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// ValidFormats lists the supported report formats.
var ValidFormats = []string{"text", "markdown"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Catalog.Dir == "" {
		return fmt.Errorf("catalog.dir must be set")
	}
	if c.Catalog.File == "" {
		return fmt.Errorf("catalog.file must be set")
	}
	if c.Catalog.BaseLanguage == "" {
		return fmt.Errorf("catalog.base_language must be set")
	}
	for _, lang := range c.Catalog.Languages {
		if lang == c.Catalog.BaseLanguage {
			return fmt.Errorf("catalog.languages must not contain the base language %q", lang)
		}
	}

	validFormat := false
	for _, f := range ValidFormats {
		if c.Report.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid report format: %s (valid: %v)", c.Report.Format, ValidFormats)
	}
	if c.Report.MaxExamples < 0 {
		return fmt.Errorf("report.max_examples must be >= 0 (got %d)", c.Report.MaxExamples)
	}
	if c.Audit.Parallelism < 1 {
		return fmt.Errorf("audit.parallelism must be >= 1 (got %d)", c.Audit.Parallelism)
	}
	if c.Audit.MinScore < 0 || c.Audit.MinScore > 100 {
		return fmt.Errorf("audit.min_score must be within 0..100 (got %d)", c.Audit.MinScore)
	}

	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	return nil
}

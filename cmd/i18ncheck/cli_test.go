package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"i18ncheck/internal/audit"
	"i18ncheck/internal/catalog"
	"i18ncheck/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCatalog(t *testing.T, root, lang, body string) {
	t.Helper()
	dir := filepath.Join(root, lang)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "translation.json"), []byte(body), 0o644))
}

// setupWorkspace writes a small fr/de/en catalog set and points the global
// config at it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()

	root := t.TempDir()
	locales := filepath.Join(root, "locales")
	writeCatalog(t, locales, "fr", `{"nav": {"home": "Accueil", "products": "Nos produits"}, "home": {"title": "Bienvenue"}}`)
	writeCatalog(t, locales, "de", `{"nav": {"home": "Startseite", "products": "Unsere Produkte"}, "home": {"title": "Willkommen"}}`)
	writeCatalog(t, locales, "en", `{"nav": {"home": "Homepage", "products": "Our products"}}`)

	cfg = config.DefaultConfig()
	cfg.Catalog.Dir = locales
	cfg.Store.Path = filepath.Join(root, ".i18ncheck", "history.db")

	resetFlags()
	t.Cleanup(resetFlags)
	return root
}

func resetFlags() {
	checkDir = ""
	checkBase = ""
	checkLanguages = nil
	checkFormat = ""
	checkRecord = false
	checkMinScore = 0
	historyLimit = 10
	configForce = false
	watchTUI = false
}

func run(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	err := fn(cmd, args)
	return buf.String(), err
}

func TestRunCheck(t *testing.T) {
	setupWorkspace(t)

	out, err := run(t, runCheck)
	require.NoError(t, err)

	assert.Contains(t, out, "Translation audit: base fr, 3 keys")
	assert.Contains(t, out, "100/100")
	assert.Contains(t, out, "85/100")
	assert.Contains(t, out, "home.title")
	assert.Contains(t, out, "Average score: 92.5/100 across 2 languages")
}

func TestRunCheck_LanguageFlag(t *testing.T) {
	setupWorkspace(t)
	checkLanguages = []string{"de", "it"}

	out, err := run(t, runCheck)
	require.NoError(t, err)
	assert.Contains(t, out, "across 1 languages")
	assert.Contains(t, out, "Skipped: it (missing)")
}

func TestRunCheck_MissingBaseIsFatal(t *testing.T) {
	setupWorkspace(t)
	checkBase = "it"

	_, err := run(t, runCheck)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrBaseCatalog))
}

func TestRunCheck_InvalidFormat(t *testing.T) {
	setupWorkspace(t)
	checkFormat = "html"

	_, err := run(t, runCheck)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRunCheck_Markdown(t *testing.T) {
	setupWorkspace(t)
	checkFormat = "markdown"

	out, err := run(t, runCheck)
	require.NoError(t, err)
	assert.Contains(t, out, "Translation audit")
}

func TestRunCheck_MinScoreGate(t *testing.T) {
	setupWorkspace(t)

	checkMinScore = 80
	_, err := run(t, runCheck)
	require.NoError(t, err)

	checkMinScore = 90
	out, err := run(t, runCheck)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBelowMinScore))
	assert.Contains(t, err.Error(), "en scored 85")
	// The report is still printed before the gate fails.
	assert.Contains(t, out, "Translation audit")
}

func TestRunCheck_RecordAndHistory(t *testing.T) {
	setupWorkspace(t)

	out, err := run(t, runHistory)
	require.NoError(t, err)
	assert.Contains(t, out, "No recorded runs")

	checkRecord = true
	out, err = run(t, runCheck)
	require.NoError(t, err)
	assert.NotContains(t, out, "since last run")

	out, err = run(t, runCheck)
	require.NoError(t, err)
	assert.Contains(t, out, "(= since last run)")

	out, err = run(t, runHistory)
	require.NoError(t, err)
	assert.Contains(t, out, "Audit history")
	assert.Contains(t, out, "de 100, en 85")
}

func TestCheckMinimum(t *testing.T) {
	res := &audit.Result{Languages: []audit.LanguageReport{{Language: "de", Score: 70}, {Language: "en", Score: 40}}}

	assert.NoError(t, checkMinimum(res, 0))
	assert.NoError(t, checkMinimum(res, 40))
	assert.ErrorIs(t, checkMinimum(res, 50), errBelowMinScore)
}

func TestApplyCheckFlags(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	c := config.DefaultConfig()
	applyCheckFlags(c)
	assert.Equal(t, config.DefaultConfig(), c)

	checkDir = "web/i18n"
	checkBase = "de"
	checkRecord = true
	checkMinScore = 75
	applyCheckFlags(c)
	assert.Equal(t, "web/i18n", c.Catalog.Dir)
	assert.Equal(t, "de", c.Catalog.BaseLanguage)
	assert.True(t, c.Store.Enabled)
	assert.Equal(t, 75, c.Audit.MinScore)
}

func TestConfigInit(t *testing.T) {
	setupWorkspace(t)
	path := filepath.Join(t.TempDir(), "i18ncheck.yaml")

	out, err := run(t, runConfigInit, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Rules.ExceptionWords, loaded.Rules.ExceptionWords)

	_, err = run(t, runConfigInit, path)
	assert.ErrorContains(t, err, "already exists")

	configForce = true
	_, err = run(t, runConfigInit, path)
	assert.NoError(t, err)
}

func TestRootCommand_Check(t *testing.T) {
	root := setupWorkspace(t)
	t.Setenv("I18NCHECK_LOG_LEVEL", "error")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"check", "--config", filepath.Join(root, "none.yaml"), "--dir", cfg.Catalog.Dir})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Average score: 92.5/100")
}

func TestRootCommand_Version(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version", "--config", filepath.Join(t.TempDir(), "none.yaml")})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "i18ncheck dev\n", buf.String())
}

func TestDashboardLogging(t *testing.T) {
	c := config.DefaultConfig()
	c.Logging.Level = "info"
	c.Watch.LogFile = filepath.Join(t.TempDir(), "watch.log")

	lc := dashboardLogging(c)
	assert.Equal(t, c.Watch.LogFile, lc.Output)
	assert.Equal(t, "info", lc.Level)
	assert.Empty(t, c.Logging.Output, "config is not modified")

	c.Watch.LogFile = ""
	assert.Empty(t, dashboardLogging(c).Output)
}

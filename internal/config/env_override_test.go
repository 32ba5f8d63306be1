package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("catalog location", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("I18NCHECK_CATALOG_DIR", "web/i18n")
		t.Setenv("I18NCHECK_BASE_LANGUAGE", "de")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "web/i18n", cfg.Catalog.Dir)
		assert.Equal(t, "de", cfg.Catalog.BaseLanguage)
	})

	t.Run("database path enables the store", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("I18NCHECK_DB", "/tmp/runs.db")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Store.Enabled)
		assert.Equal(t, "/tmp/runs.db", cfg.Store.Path)
	})

	t.Run("log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("I18NCHECK_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("empty values leave config alone", func(t *testing.T) {
		clearEnv(t)

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, DefaultConfig(), cfg)
	})
}

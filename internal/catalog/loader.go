package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"i18ncheck/internal/config"
	"i18ncheck/internal/logging"
)

// Skip records a target language that could not be audited.
type Skip struct {
	Language string
	Reason   string
}

// Set is the base catalog plus every loadable target catalog, in target order.
type Set struct {
	Base    *Catalog
	Targets []*Catalog
	Skipped []Skip
}

// Loader resolves the <dir>/<lang>/<file> layout.
type Loader struct {
	dir       string
	file      string
	base      string
	languages []string
}

// NewLoader creates a loader from catalog configuration.
func NewLoader(cfg config.CatalogConfig) *Loader {
	return &Loader{
		dir:       cfg.Dir,
		file:      cfg.File,
		base:      cfg.BaseLanguage,
		languages: append([]string(nil), cfg.Languages...),
	}
}

// Dir returns the catalog root directory.
func (l *Loader) Dir() string { return l.dir }

// BaseLanguage returns the base language code.
func (l *Loader) BaseLanguage() string { return l.base }

// Path returns the catalog file for lang.
func (l *Loader) Path(lang string) string {
	return filepath.Join(l.dir, lang, l.file)
}

// TargetLanguages returns the configured languages, or every sub-directory of
// the catalog root except the base language, in directory-listing order.
func (l *Loader) TargetLanguages() ([]string, error) {
	if len(l.languages) > 0 {
		return append([]string(nil), l.languages...), nil
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list catalog directory: %w", err)
	}
	var langs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == l.base {
			continue
		}
		langs = append(langs, e.Name())
	}
	return langs, nil
}

// LoadSet loads the base catalog and all target catalogs. Only a base catalog
// failure is returned as an error; unusable targets are recorded in Skipped.
func (l *Loader) LoadSet() (*Set, error) {
	timer := logging.StartTimer(logging.CategoryCatalog, "LoadSet")
	defer timer.Stop()

	log := logging.Get(logging.CategoryCatalog)

	base, err := Load(l.base, l.Path(l.base))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBaseCatalog, err)
	}
	log.Debugw("base catalog loaded", "language", l.base, "keys", base.Len(), "path", base.Path)

	langs, err := l.TargetLanguages()
	if err != nil {
		return nil, err
	}

	set := &Set{Base: base}
	for _, lang := range langs {
		c, err := Load(lang, l.Path(lang))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debugw("target catalog missing, skipping", "language", lang)
				set.Skipped = append(set.Skipped, Skip{Language: lang, Reason: "missing"})
				continue
			}
			log.Warnw("target catalog unreadable, skipping", "language", lang, "error", err)
			set.Skipped = append(set.Skipped, Skip{Language: lang, Reason: err.Error()})
			continue
		}
		log.Debugw("target catalog loaded", "language", lang, "keys", c.Len())
		set.Targets = append(set.Targets, c)
	}
	return set, nil
}

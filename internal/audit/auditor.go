package audit

import (
	"context"
	"fmt"

	"i18ncheck/internal/catalog"
	"i18ncheck/internal/config"
	"i18ncheck/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Auditor runs a full audit over a catalog set.
type Auditor struct {
	comparator  *Comparator
	scorer      *Scorer
	parallelism int
}

// New creates an auditor from configuration.
func New(cfg *config.Config) (*Auditor, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	comparator, err := NewComparator(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	parallelism := cfg.Audit.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	return &Auditor{
		comparator:  comparator,
		scorer:      NewScorer(cfg.Scoring),
		parallelism: parallelism,
	}, nil
}

// Run compares every target catalog in set against the base. Language passes
// run concurrently but each writes only its own slot, so Languages follows
// set.Targets order and repeated runs give identical results.
func (a *Auditor) Run(ctx context.Context, set *catalog.Set) (*Result, error) {
	timer := logging.StartTimer(logging.CategoryAudit, "Run")
	defer timer.Stop()

	log := logging.Get(logging.CategoryAudit)

	reports := make([]LanguageReport, len(set.Targets))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.parallelism)
	for i, target := range set.Targets {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			r := a.comparator.CompareLanguage(set.Base, target)
			r.Score = a.scorer.Score(&r)
			reports[i] = r
			log.Debugw("language compared",
				"language", r.Language,
				"score", r.Score,
				"missing", r.MissingCount(),
				"issues", len(r.Issues))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("audit cancelled: %w", err)
	}

	return &Result{
		RunID:        uuid.NewString(),
		BaseLanguage: set.Base.Language,
		BaseKeys:     set.Base.Len(),
		Languages:    reports,
		Skipped:      append([]catalog.Skip(nil), set.Skipped...),
	}, nil
}

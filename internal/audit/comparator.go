package audit

import (
	"unicode/utf8"

	"i18ncheck/internal/catalog"
	"i18ncheck/internal/config"
)

// Comparator runs the per-key heuristics. It holds no mutable state and is
// safe to share between goroutines.
type Comparator struct {
	classifier *Classifier
	policy     *Policy

	similarityThreshold   float64
	untranslatedMinLength int
	identicalMinLength    int
}

// NewComparator builds a comparator from validated rules.
func NewComparator(rules config.RulesConfig) (*Comparator, error) {
	classifier, err := NewClassifier(rules)
	if err != nil {
		return nil, err
	}
	policy, err := NewPolicy(rules)
	if err != nil {
		return nil, err
	}
	return &Comparator{
		classifier:            classifier,
		policy:                policy,
		similarityThreshold:   rules.SimilarityThreshold,
		untranslatedMinLength: rules.UntranslatedMinLength,
		identicalMinLength:    rules.IdenticalMinLength,
	}, nil
}

// CompareKey checks one present key. An empty translation of a non-empty base
// yields exactly one CRITICAL issue; otherwise similarity, identity and length
// are checked unless the pair is an exception.
func (c *Comparator) CompareKey(key, base, target string) []Issue {
	baseLen := utf8.RuneCountInString(base)
	targetLen := utf8.RuneCountInString(target)

	if target == "" && base != "" {
		return []Issue{{
			Key:          key,
			Base:         base,
			Target:       target,
			BaseLength:   baseLen,
			TargetLength: 0,
			Ratio:        0,
			Severity:     SeverityCritical,
			Category:     CategoryEmpty,
		}}
	}

	exception := c.classifier.IsException(key, base)
	if exception {
		return nil
	}

	var issues []Issue
	newIssue := func(cat Category, sev Severity, ratio float64) Issue {
		return Issue{
			Key:          key,
			Base:         base,
			Target:       target,
			BaseLength:   baseLen,
			TargetLength: targetLen,
			Ratio:        ratio,
			Severity:     sev,
			Category:     cat,
		}
	}

	if baseLen > c.untranslatedMinLength && Similarity(base, target) > c.similarityThreshold {
		issues = append(issues, newIssue(CategoryUntranslated, SeverityInfo, lengthRatio(baseLen, targetLen)))
	}
	if target == base && baseLen > c.identicalMinLength {
		issues = append(issues, newIssue(CategoryIdentical, SeverityMedium, 1))
	}
	if ratio, cat, sev, ok := c.policy.Check(key, baseLen, targetLen); !ok {
		issues = append(issues, newIssue(cat, sev, ratio))
	}
	return issues
}

// CompareLanguage evaluates every base key against target exactly once, in
// base document order. The returned report has no score yet.
func (c *Comparator) CompareLanguage(base, target *catalog.Catalog) LanguageReport {
	report := LanguageReport{Language: target.Language}
	for _, key := range base.Keys() {
		baseText, _ := base.Lookup(key)
		targetText, ok := target.Lookup(key)
		if !ok {
			report.Missing = append(report.Missing, key)
			continue
		}
		report.Issues = append(report.Issues, c.CompareKey(key, baseText, targetText)...)
	}
	for _, key := range target.Keys() {
		if _, ok := base.Lookup(key); !ok {
			report.Stale = append(report.Stale, key)
		}
	}
	return report
}

func lengthRatio(baseLen, targetLen int) float64 {
	if baseLen == 0 {
		return 0
	}
	return float64(targetLen) / float64(baseLen)
}

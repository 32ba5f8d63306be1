// Package audit compares translation catalogs against a base language and
// scores each target language.
package audit

import (
	"i18ncheck/internal/catalog"
)

// Severity ranks a comparison issue.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityInfo     Severity = "INFO"
)

// Rank orders severities, most severe first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Category classifies what a comparison issue is about.
type Category string

const (
	CategoryEmpty        Category = "empty-string"
	CategoryTooLong      Category = "too-long"
	CategoryTooShort     Category = "too-short"
	CategoryUntranslated Category = "likely-untranslated"
	CategoryIdentical    Category = "identical-to-base"
)

// IsLength reports whether the category counts as a length issue when scoring.
func (c Category) IsLength() bool {
	return c == CategoryEmpty || c == CategoryTooLong || c == CategoryTooShort
}

// Issue is one heuristic violation for a key in a target language.
type Issue struct {
	Key          string
	Base         string
	Target       string
	BaseLength   int
	TargetLength int
	Ratio        float64
	Severity     Severity
	Category     Category
}

// LanguageReport aggregates the findings for one target language.
type LanguageReport struct {
	Language string
	Missing  []string
	Stale    []string
	Issues   []Issue
	Score    int
}

// IssuesOf returns the issues in any of the given categories, in key order.
func (r *LanguageReport) IssuesOf(cats ...Category) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		for _, c := range cats {
			if is.Category == c {
				out = append(out, is)
				break
			}
		}
	}
	return out
}

func (r *LanguageReport) MissingCount() int      { return len(r.Missing) }
func (r *LanguageReport) IdenticalCount() int    { return len(r.IssuesOf(CategoryIdentical)) }
func (r *LanguageReport) UntranslatedCount() int { return len(r.IssuesOf(CategoryUntranslated)) }

// LengthIssueCount counts empty, too-long and too-short issues.
func (r *LanguageReport) LengthIssueCount() int {
	n := 0
	for _, is := range r.Issues {
		if is.Category.IsLength() {
			n++
		}
	}
	return n
}

// Result is the outcome of one audit run.
type Result struct {
	RunID        string
	BaseLanguage string
	BaseKeys     int
	Languages    []LanguageReport
	Skipped      []catalog.Skip
}

// Average returns the mean score across reported languages, 0 if none.
func (r *Result) Average() float64 {
	if len(r.Languages) == 0 {
		return 0
	}
	total := 0
	for _, l := range r.Languages {
		total += l.Score
	}
	return float64(total) / float64(len(r.Languages))
}

package report

import (
	"fmt"
	"io"
	"sort"

	"i18ncheck/internal/audit"
	"i18ncheck/internal/config"
)

// Renderer writes an audit result. previous holds each language's score from
// the last recorded run and may be nil.
type Renderer interface {
	Render(w io.Writer, res *audit.Result, previous map[string]int) error
}

// New returns the renderer for cfg.Format.
func New(cfg config.ReportConfig) (Renderer, error) {
	switch cfg.Format {
	case "", "text":
		return NewTextRenderer(cfg, DefaultStyles()), nil
	case "markdown":
		return NewMarkdownRenderer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", cfg.Format)
	}
}

// Truncate shortens s to at most n code points, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Delta formats the change against a previous score: "+5", "-3" or "=".
// ok is false when there is no previous score for the language.
func Delta(previous map[string]int, lang string, score int) (string, bool) {
	prev, ok := previous[lang]
	if !ok {
		return "", false
	}
	switch d := score - prev; {
	case d > 0:
		return fmt.Sprintf("+%d", d), true
	case d < 0:
		return fmt.Sprintf("%d", d), true
	default:
		return "=", true
	}
}

// WorstLengthIssues returns up to n length issues, most severe first. Issues
// of equal severity keep key order.
func WorstLengthIssues(r *audit.LanguageReport, n int) []audit.Issue {
	issues := r.IssuesOf(audit.CategoryEmpty, audit.CategoryTooLong, audit.CategoryTooShort)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.Rank() < issues[j].Severity.Rank()
	})
	return head(issues, n)
}

func head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func describeLength(is audit.Issue) string {
	if is.Category == audit.CategoryEmpty {
		return fmt.Sprintf("empty translation (base %d chars)", is.BaseLength)
	}
	return fmt.Sprintf("%s, %d → %d chars (ratio %.2f)", is.Category, is.BaseLength, is.TargetLength, is.Ratio)
}

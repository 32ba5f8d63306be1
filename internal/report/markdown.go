package report

import (
	"fmt"
	"io"
	"strings"

	"i18ncheck/internal/audit"
	"i18ncheck/internal/config"
	"i18ncheck/internal/logging"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders the report as markdown through glamour.
type MarkdownRenderer struct {
	cfg      config.ReportConfig
	wordWrap int
}

// NewMarkdownRenderer creates a markdown renderer wrapping at 80 columns.
func NewMarkdownRenderer(cfg config.ReportConfig) *MarkdownRenderer {
	return &MarkdownRenderer{cfg: cfg, wordWrap: 80}
}

// Render writes the glamour-rendered report to w.
func (m *MarkdownRenderer) Render(w io.Writer, res *audit.Result, previous map[string]int) error {
	timer := logging.StartTimer(logging.CategoryReport, "RenderMarkdown")
	defer timer.Stop()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.wordWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(Markdown(res, previous, m.cfg))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// Markdown builds the markdown source of the report.
func Markdown(res *audit.Result, previous map[string]int, cfg config.ReportConfig) string {
	var sb strings.Builder
	n := cfg.MaxExamples

	sb.WriteString("# Translation audit\n\n")
	fmt.Fprintf(&sb, "Base language **%s**, %d keys.\n\n", res.BaseLanguage, res.BaseKeys)

	for i := range res.Languages {
		r := &res.Languages[i]
		fmt.Fprintf(&sb, "## %s: %d/100", r.Language, r.Score)
		if d, ok := Delta(previous, r.Language, r.Score); ok {
			fmt.Fprintf(&sb, " (%s)", d)
		}
		sb.WriteString("\n\n")

		if len(r.Missing) == 0 && len(r.Issues) == 0 && len(r.Stale) == 0 {
			sb.WriteString("No issues found.\n\n")
			continue
		}

		mdList(&sb, "Missing keys", len(r.Missing), n, func(i int) string {
			return fmt.Sprintf("`%s`", r.Missing[i])
		})
		untranslated := r.IssuesOf(audit.CategoryUntranslated)
		mdList(&sb, "Likely untranslated", len(untranslated), n, func(i int) string {
			is := untranslated[i]
			return fmt.Sprintf("`%s`: %q → %q", is.Key,
				Truncate(is.Base, cfg.UntranslatedWidth), Truncate(is.Target, cfg.UntranslatedWidth))
		})
		identical := r.IssuesOf(audit.CategoryIdentical)
		mdList(&sb, "Identical to base", len(identical), n, func(i int) string {
			return fmt.Sprintf("`%s`: %q", identical[i].Key, Truncate(identical[i].Target, cfg.IdenticalWidth))
		})
		worst := WorstLengthIssues(r, -1)
		mdList(&sb, "Length issues", len(worst), n, func(i int) string {
			is := worst[i]
			return fmt.Sprintf("**%s** `%s`: %s", is.Severity, is.Key, describeLength(is))
		})
		mdList(&sb, "Stale keys", len(r.Stale), n, func(i int) string {
			return fmt.Sprintf("`%s`", r.Stale[i])
		})
	}

	if len(res.Languages) > 0 {
		sb.WriteString("## Summary\n\n")
		sb.WriteString("| Language | Score | Missing | Identical | Untranslated | Length | Stale |\n")
		sb.WriteString("|---|---|---|---|---|---|---|\n")
		for i := range res.Languages {
			r := &res.Languages[i]
			fmt.Fprintf(&sb, "| %s | %d | %d | %d | %d | %d | %d |\n", r.Language, r.Score,
				r.MissingCount(), r.IdenticalCount(), r.UntranslatedCount(), r.LengthIssueCount(), len(r.Stale))
		}
		fmt.Fprintf(&sb, "\n**Average score:** %.1f/100\n", res.Average())
	} else {
		sb.WriteString("No target languages audited.\n")
	}

	if len(res.Skipped) > 0 {
		sb.WriteString("\nSkipped: ")
		for i, sk := range res.Skipped {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s (%s)", sk.Language, sk.Reason)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func mdList(sb *strings.Builder, title string, total, n int, item func(int) string) {
	if total == 0 {
		return
	}
	fmt.Fprintf(sb, "**%s** (%d)\n\n", title, total)
	shown := total
	if n >= 0 && shown > n {
		shown = n
	}
	for i := 0; i < shown; i++ {
		sb.WriteString("- " + item(i) + "\n")
	}
	if total > shown {
		fmt.Fprintf(sb, "- ...and %d more\n", total-shown)
	}
	sb.WriteString("\n")
}

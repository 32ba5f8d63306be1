package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"i18ncheck/internal/audit"
	"i18ncheck/internal/config"
	"i18ncheck/internal/logging"
)

// TextRenderer prints the colour-coded terminal report.
type TextRenderer struct {
	cfg    config.ReportConfig
	styles Styles
}

// NewTextRenderer creates a text renderer.
func NewTextRenderer(cfg config.ReportConfig, styles Styles) *TextRenderer {
	return &TextRenderer{cfg: cfg, styles: styles}
}

// Render writes the full report to w.
func (t *TextRenderer) Render(w io.Writer, res *audit.Result, previous map[string]int) error {
	timer := logging.StartTimer(logging.CategoryReport, "RenderText")
	defer timer.Stop()

	var sb strings.Builder
	s := t.styles

	sb.WriteString(s.Title.Render(fmt.Sprintf("Translation audit: base %s, %d keys", res.BaseLanguage, res.BaseKeys)))
	sb.WriteString("\n")
	sb.WriteString(s.RenderDivider(60))
	sb.WriteString("\n\n")

	for i := range res.Languages {
		t.writeLanguage(&sb, &res.Languages[i], previous)
		sb.WriteString("\n")
	}

	t.writeSummary(&sb, res, previous)

	_, err := io.WriteString(w, sb.String())
	return err
}

// renderScore colours a score by the configured thresholds.
func (t *TextRenderer) renderScore(score int) string {
	return gradeStyle(t.styles, t.cfg, float64(score)).Render(fmt.Sprintf("%d/100", score))
}

func (t *TextRenderer) writeLanguage(sb *strings.Builder, r *audit.LanguageReport, previous map[string]int) {
	s := t.styles
	n := t.cfg.MaxExamples

	sb.WriteString(s.Heading.Render(strings.ToUpper(r.Language)))
	sb.WriteString("  score ")
	sb.WriteString(t.renderScore(r.Score))
	if d, ok := Delta(previous, r.Language, r.Score); ok {
		sb.WriteString(s.Muted.Render(" (" + d + " since last run)"))
	}
	sb.WriteString("\n")

	if len(r.Missing) == 0 && len(r.Issues) == 0 && len(r.Stale) == 0 {
		sb.WriteString(s.Good.Render("  No issues found"))
		sb.WriteString("\n")
		return
	}

	if len(r.Missing) > 0 {
		t.writeSection(sb, "Missing keys", len(r.Missing))
		for _, key := range head(r.Missing, n) {
			sb.WriteString("    - " + s.Key.Render(key) + "\n")
		}
		t.writeMore(sb, len(r.Missing), n)
	}

	if untranslated := r.IssuesOf(audit.CategoryUntranslated); len(untranslated) > 0 {
		t.writeSection(sb, "Likely untranslated", len(untranslated))
		for _, is := range head(untranslated, n) {
			fmt.Fprintf(sb, "    - %s: %q → %q\n", s.Key.Render(is.Key),
				Truncate(is.Base, t.cfg.UntranslatedWidth), Truncate(is.Target, t.cfg.UntranslatedWidth))
		}
		t.writeMore(sb, len(untranslated), n)
	}

	if identical := r.IssuesOf(audit.CategoryIdentical); len(identical) > 0 {
		t.writeSection(sb, "Identical to base", len(identical))
		for _, is := range head(identical, n) {
			fmt.Fprintf(sb, "    - %s: %q\n", s.Key.Render(is.Key), Truncate(is.Target, t.cfg.IdenticalWidth))
		}
		t.writeMore(sb, len(identical), n)
	}

	if count := r.LengthIssueCount(); count > 0 {
		t.writeSection(sb, "Length issues", count)
		for _, is := range WorstLengthIssues(r, n) {
			fmt.Fprintf(sb, "    - %s %s: %s\n", t.severity(is.Severity), s.Key.Render(is.Key), describeLength(is))
		}
		t.writeMore(sb, count, n)
	}

	if len(r.Stale) > 0 {
		t.writeSection(sb, "Stale keys (not in base)", len(r.Stale))
		for _, key := range head(r.Stale, n) {
			sb.WriteString("    - " + s.Muted.Render(key) + "\n")
		}
		t.writeMore(sb, len(r.Stale), n)
	}
}

func (t *TextRenderer) writeSection(sb *strings.Builder, title string, count int) {
	fmt.Fprintf(sb, "  %s (%d)\n", t.styles.Bold.Render(title), count)
}

func (t *TextRenderer) writeMore(sb *strings.Builder, total, shown int) {
	if shown >= 0 && total > shown {
		sb.WriteString(t.styles.Muted.Render(fmt.Sprintf("    ...and %d more", total-shown)))
		sb.WriteString("\n")
	}
}

func (t *TextRenderer) severity(sev audit.Severity) string {
	label := "[" + string(sev) + "]"
	switch sev {
	case audit.SeverityCritical:
		return t.styles.Critical.Render(label)
	case audit.SeverityHigh:
		return t.styles.High.Render(label)
	case audit.SeverityMedium:
		return t.styles.Medium.Render(label)
	default:
		return t.styles.Info.Render(label)
	}
}

func (t *TextRenderer) writeSummary(sb *strings.Builder, res *audit.Result, previous map[string]int) {
	s := t.styles

	if len(res.Languages) == 0 {
		sb.WriteString(s.Muted.Render("No target languages audited"))
		sb.WriteString("\n")
	} else {
		table := newScoreTable(t.cfg, "Summary", "Language", "Score", "Missing", "Identical", "Untranslated", "Length", "Stale", "Change").
			gradeColumn(1).
			rightAlign(2, 3, 4, 5, 6, 7)
		for i := range res.Languages {
			r := &res.Languages[i]
			change, ok := Delta(previous, r.Language, r.Score)
			if !ok {
				change = "-"
			}
			table.addRow(
				r.Language,
				strconv.Itoa(r.Score),
				strconv.Itoa(r.MissingCount()),
				strconv.Itoa(r.IdenticalCount()),
				strconv.Itoa(r.UntranslatedCount()),
				strconv.Itoa(r.LengthIssueCount()),
				strconv.Itoa(len(r.Stale)),
				change,
			)
		}
		sb.WriteString(table.render(s))
		sb.WriteString("\n")
		fmt.Fprintf(sb, "%s %s across %d languages\n",
			s.Bold.Render("Average score:"),
			fmt.Sprintf("%.1f/100", res.Average()),
			len(res.Languages))
	}

	if len(res.Skipped) > 0 {
		parts := make([]string, 0, len(res.Skipped))
		for _, sk := range res.Skipped {
			parts = append(parts, fmt.Sprintf("%s (%s)", sk.Language, sk.Reason))
		}
		sb.WriteString(s.Muted.Render("Skipped: " + strings.Join(parts, ", ")))
		sb.WriteString("\n")
	}
}

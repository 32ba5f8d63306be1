package report

import (
	"fmt"
	"io"
	"strings"

	"i18ncheck/internal/config"
	"i18ncheck/internal/store"
)

// RenderHistory writes recorded runs, newest first, as a table with averages
// graded by cfg's thresholds.
func RenderHistory(w io.Writer, runs []store.Run, cfg config.ReportConfig, styles Styles) error {
	if len(runs) == 0 {
		_, err := io.WriteString(w, styles.Muted.Render("No recorded runs")+"\n")
		return err
	}

	table := newScoreTable(cfg, "Audit history", "Run", "Date", "Base", "Average", "Languages").
		gradeColumn(3)
	for _, r := range runs {
		langs := make([]string, 0, len(r.Languages))
		for _, l := range r.Languages {
			langs = append(langs, fmt.Sprintf("%s %d", l.Language, l.Score))
		}
		table.addRow(
			shortID(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.BaseLanguage,
			fmt.Sprintf("%.1f", r.Average),
			strings.Join(langs, ", "),
		)
	}
	_, err := io.WriteString(w, table.render(styles))
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

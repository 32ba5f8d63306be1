package report

import (
	"strconv"
	"strings"

	"i18ncheck/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// gradeStyle picks the score colour for the configured thresholds.
func gradeStyle(s Styles, cfg config.ReportConfig, score float64) lipgloss.Style {
	switch {
	case score >= float64(cfg.GoodScore):
		return s.Good
	case score >= float64(cfg.AcceptableScore):
		return s.Fair
	default:
		return s.Poor
	}
}

// scoreTable lays out per-language figures. Count columns are right-aligned
// and the score column is coloured by grade.
type scoreTable struct {
	title    string
	headers  []string
	rows     [][]string
	numeric  map[int]bool
	scoreCol int
	cfg      config.ReportConfig
}

func newScoreTable(cfg config.ReportConfig, title string, headers ...string) *scoreTable {
	return &scoreTable{
		title:    title,
		headers:  headers,
		numeric:  make(map[int]bool),
		scoreCol: -1,
		cfg:      cfg,
	}
}

// rightAlign marks columns holding numbers.
func (t *scoreTable) rightAlign(cols ...int) *scoreTable {
	for _, c := range cols {
		t.numeric[c] = true
	}
	return t
}

// gradeColumn colours column col by its numeric value. It is also right-aligned.
func (t *scoreTable) gradeColumn(col int) *scoreTable {
	t.scoreCol = col
	t.numeric[col] = true
	return t
}

func (t *scoreTable) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// render returns "" for a table without rows.
func (t *scoreTable) render(s Styles) string {
	if len(t.rows) == 0 {
		return ""
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Muted).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return t.cellStyle(s, row, col)
		})

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(s.Title.Render(t.title))
		sb.WriteString("\n")
	}
	sb.WriteString(tbl.Render())
	sb.WriteString("\n")
	return sb.String()
}

func (t *scoreTable) cellStyle(s Styles, row, col int) lipgloss.Style {
	style := s.Body
	switch {
	case row == table.HeaderRow:
		style = s.Bold
	case col == t.scoreCol && row < len(t.rows) && col < len(t.rows[row]):
		if v, err := strconv.ParseFloat(t.rows[row][col], 64); err == nil {
			style = gradeStyle(s, t.cfg, v)
		}
	}
	style = style.Padding(0, 1)
	if t.numeric[col] {
		style = style.Align(lipgloss.Right)
	}
	return style
}

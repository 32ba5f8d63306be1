// Package ui provides the live watch dashboard for i18ncheck.
package ui

import (
	"fmt"
	"strings"
	"time"

	"i18ncheck/internal/report"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AuditStartedMsg is sent when changed catalogs trigger a new audit.
type AuditStartedMsg struct {
	Paths []string
}

// AuditDoneMsg carries a freshly rendered report.
type AuditDoneMsg struct {
	Report  string
	Average float64
	At      time.Time
}

// AuditErrorMsg reports a failed audit. The previous report stays visible.
type AuditErrorMsg struct {
	Err error
}

const (
	headerHeight = 2
	footerHeight = 1
)

// Model is the bubbletea model of the watch dashboard.
type Model struct {
	styles   report.Styles
	spinner  spinner.Model
	viewport viewport.Model
	dir      string

	running bool
	runs    int
	changed int
	average float64
	lastRun time.Time
	err     error
}

// NewModel creates a dashboard for the catalog directory dir.
func NewModel(dir string, styles report.Styles) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Info

	return Model{
		styles:   styles,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		dir:      dir,
		running:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerHeight-footerHeight)

	case AuditStartedMsg:
		m.running = true
		m.changed = len(msg.Paths)
		return m, m.spinner.Tick

	case AuditDoneMsg:
		m.running = false
		m.err = nil
		m.runs++
		m.average = msg.Average
		m.lastRun = msg.At
		m.viewport.SetContent(msg.Report)
		return m, nil

	case AuditErrorMsg:
		m.running = false
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("i18ncheck watch"))
	sb.WriteString(m.styles.Muted.Render("  " + m.dir))
	sb.WriteString("\n")
	sb.WriteString(m.status())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("q quit • ↑/↓ scroll"))
	return sb.String()
}

func (m Model) status() string {
	switch {
	case m.running && m.changed > 0:
		return m.spinner.View() + " " + fmt.Sprintf("auditing (%d catalogs changed)...", m.changed)
	case m.running:
		return m.spinner.View() + " auditing..."
	case m.err != nil:
		return m.styles.Poor.Render("audit failed: " + m.err.Error())
	default:
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.Good.Render(fmt.Sprintf("average %.1f/100", m.average)),
			m.styles.Muted.Render(fmt.Sprintf("  run #%d at %s", m.runs, m.lastRun.Format("15:04:05"))),
		)
	}
}

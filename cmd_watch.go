package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/relanote-lang/relanote/internal/host"
)

// watchCmd implements a `watch` subcommand not named in spec.md's CLI
// table but consistent with spec.md §1's framing of "REPL framing" as an
// out-of-scope collaborator of the *core* only: this lives entirely in
// main.go and calls nothing but the host facade, grounded on the
// teacher's StartupProgressModel (a tea.Tick-driven polling loop reporting
// through a Bubble Tea view rather than a goroutine writing to stdout
// directly).
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-analyze a file on change and show live diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newWatchModel(args[0]))
			_, err := p.Run()
			return err
		},
	}
}

type watchTickMsg time.Time

type watchModel struct {
	path     string
	lastMod  time.Time
	diags    []host.DiagnosticDTO
	success  bool
	err      string
	quitting bool
	health   progress.Model
}

// newWatchModel builds the health bar the same way the teacher's
// StartupProgressModel does: progress.New with the default gradient, a
// fixed width, set explicitly rather than left at the bubbles default.
func newWatchModel(path string) watchModel {
	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40
	return watchModel{path: path, health: p}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(watchTick(), m.reanalyze())
}

func watchTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

// reanalyze stats the file and re-runs `analyze` through the host facade
// only when its mtime changed, mirroring the teacher's "poll, don't push"
// approach to external state it does not own (StartupProgressModel polls
// a readiness channel the same way).
func (m watchModel) reanalyze() tea.Cmd {
	return func() tea.Msg {
		info, err := os.Stat(m.path)
		if err != nil {
			return watchErrMsg{err.Error()}
		}
		if !info.ModTime().After(m.lastMod) {
			return nil
		}
		res, err := host.AnalyzeFile(m.path)
		if err != nil {
			return watchErrMsg{err.Error()}
		}
		return watchResultMsg{mod: info.ModTime(), diags: res.Diagnostics, success: res.Success}
	}
}

type watchResultMsg struct {
	mod     time.Time
	diags   []host.DiagnosticDTO
	success bool
}

type watchErrMsg struct{ message string }

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.health.Width = msg.Width - 10
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
	case watchTickMsg:
		return m, tea.Batch(watchTick(), m.reanalyze())
	case watchResultMsg:
		m.lastMod = msg.mod
		m.diags = msg.diags
		m.success = msg.success
		m.err = ""
		return m, m.health.SetPercent(healthFraction(msg.diags))
	case watchErrMsg:
		m.err = msg.message
	case progress.FrameMsg:
		newModel, cmd := m.health.Update(msg)
		if pm, ok := newModel.(progress.Model); ok {
			m.health = pm
		}
		return m, cmd
	}
	return m, nil
}

// healthFraction turns a diagnostic list into the bar's 0..1 fill: 1.0
// with no diagnostics at all, descending toward 0 as the error count grows,
// never reaching 0 outright so the bar always shows something other than
// an empty track.
func healthFraction(diags []host.DiagnosticDTO) float64 {
	if len(diags) == 0 {
		return 1
	}
	errs := 0
	for _, d := range diags {
		if d.Severity == "error" {
			errs++
		}
	}
	frac := 1 - float64(errs)/float64(len(diags))
	if frac < 0.05 {
		frac = 0.05
	}
	return frac
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}
	header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("watching %s (q to quit)", m.path))
	if m.err != "" {
		return header + "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.err) + "\n"
	}
	var body string
	if len(m.diags) == 0 {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("no diagnostics")
	} else {
		styles := newDiagStyles()
		lines := make([]string, 0, len(m.diags))
		for _, d := range m.diags {
			gutter, label := gutterFor(styles, d.Severity)
			lines = append(lines, gutter.Render(label)+": "+styles.message.Render(d.Message)+
				" "+styles.span.Render(fmt.Sprintf("[%d:%d]", d.Start, d.End)))
		}
		body = joinLines(lines)
	}
	return header + "\n" + m.health.View() + "\n" + body + "\n"
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/relanote-lang/relanote/internal/host"
)

// diagStyles mirrors the teacher's views.getCommonStyles: one small style
// table built fresh per render rather than package-level mutable state, so
// a color-profile change (e.g. the watch TUI resizing) never leaves a
// stale style behind.
type diagStyles struct {
	errorGutter   lipgloss.Style
	warningGutter lipgloss.Style
	infoGutter    lipgloss.Style
	message       lipgloss.Style
	span          lipgloss.Style
}

func newDiagStyles() diagStyles {
	return diagStyles{
		errorGutter:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		warningGutter: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		infoGutter:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		message:       lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		span:          lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func gutterFor(styles diagStyles, severity string) (lipgloss.Style, string) {
	switch severity {
	case "error":
		return styles.errorGutter, "error"
	case "warning":
		return styles.warningGutter, "warning"
	default:
		return styles.infoGutter, "info"
	}
}

// printDiagnostics renders each diagnostic one per line, severity-colored,
// degrading to plain text on a dumb terminal via termenv's profile
// detection — the same guard the teacher applies before handing strings to
// lipgloss for its TUI views.
func printDiagnostics(diags []host.DiagnosticDTO) {
	if len(diags) == 0 {
		return
	}
	_ = termenv.ColorProfile() // force profile detection once, as the teacher's mixer view does
	styles := newDiagStyles()
	for _, d := range diags {
		gutter, label := gutterFor(styles, d.Severity)
		fmt.Println(
			gutter.Render(label) + ": " +
				styles.message.Render(d.Message) + " " +
				styles.span.Render(fmt.Sprintf("[%d:%d]", d.Start, d.End)),
		)
	}
}

// summaryBar renders a one-line end-of-run bar whose color blends toward
// red in proportion to the fraction of diagnostics that are errors,
// grounded on the teacher's mixer view blending a fill color with
// go-colorful rather than picking from a fixed palette by threshold.
func summaryBar(diags []host.DiagnosticDTO) string {
	if len(diags) == 0 {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("ok, no diagnostics")
	}
	errs, warns := 0, 0
	for _, d := range diags {
		switch d.Severity {
		case "error":
			errs++
		case "warning":
			warns++
		}
	}
	ok, _ := colorful.Hex("#2ecc71")
	bad, _ := colorful.Hex("#e74c3c")
	frac := float64(errs) / float64(len(diags))
	blended := ok.BlendLuv(bad, frac)
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(blended.Hex()))
	return bar.Render(fmt.Sprintf("%d error(s), %d warning(s), %d diagnostic(s) total", errs, warns, len(diags)))
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

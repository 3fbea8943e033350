package controller

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "github.com/newobj/dexpack/internal/model"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayLayout prints a short summary after a pack run.
func (t *TUI) DisplayLayout(report *m.LayoutReport) error {
	_, _ = fmt.Fprintf(t.output, "Packed %d units across %d stores\n",
		report.TotalUnits(), len(report.Stores))

	for name, value := range report.Metrics {
		_, _ = fmt.Fprintf(t.output, "%s: %d\n", name, value)
	}

	return nil
}

// DisplayPlan prints a short dry-run summary.
func (t *TUI) DisplayPlan(report *m.LayoutReport) error {
	_, _ = fmt.Fprintf(t.output, "Plan: %d units across %d stores\n",
		report.TotalUnits(), len(report.Stores))

	return nil
}

// DisplaySkip reports a skipped pass.
func (t *TUI) DisplaySkip(reason string) {
	_, _ = fmt.Fprintf(t.output, "layout pass skipped: %s\n", reason)
}

// BrowseLayout opens the interactive unit browser over a saved report.
func (t *TUI) BrowseLayout(report *m.LayoutReport) error {
	model := newLayoutModel(report)

	// Get initial terminal size
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

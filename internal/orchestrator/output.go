package orchestrator

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"nucleus-cli/internal/interfaces"
)

// OutputHandler implements the OutputHandler interface
type OutputHandler struct {
	out   io.Writer
	title lipgloss.Style
	path  lipgloss.Style
	muted lipgloss.Style
}

// NewOutputHandler creates a new output handler writing to out.
// Colors are dropped automatically when out is not a terminal.
func NewOutputHandler(out io.Writer) interfaces.OutputHandler {
	renderer := lipgloss.NewRenderer(out)

	return &OutputHandler{
		out:   out,
		title: renderer.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}),
		path:  renderer.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#90CAF9"}),
		muted: renderer.NewStyle().Faint(true),
	}
}

// WriteSummary prints the generated files
func (h *OutputHandler) WriteSummary(report interfaces.Report) error {
	verb := "Created"
	if report.DryRun {
		verb = "Would create"
	}

	header := fmt.Sprintf("%s datapack in %s", verb, report.Root)
	if _, err := fmt.Fprintln(h.out, h.title.Render(header)); err != nil {
		return err
	}

	for _, file := range report.Files {
		if _, err := fmt.Fprintf(h.out, "  %s %s\n", h.muted.Render("+"), h.path.Render(file)); err != nil {
			return err
		}
	}

	return nil
}

// WriteTemplateList prints the built-in template names
func (h *OutputHandler) WriteTemplateList(names []string) error {
	if _, err := fmt.Fprintln(h.out, h.title.Render("Built-in templates:")); err != nil {
		return err
	}

	for _, name := range names {
		if _, err := fmt.Fprintf(h.out, "  - %s\n", name); err != nil {
			return err
		}
	}

	return nil
}

package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/command"
	"github.com/matzehuels/spacemark/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CommandListModel - Interactive command selection
// =============================================================================

// CommandListModel is the bubbletea model for the spacing panel. Commands
// are shown in two sections, container and children, in panel order.
type CommandListModel struct {
	Commands []command.Spec
	Cursor   int
	Selected *command.Spec
}

// NewCommandListModel creates a panel listing specs.
func NewCommandListModel(specs []command.Spec) CommandListModel {
	return CommandListModel{Commands: specs}
}

func (m CommandListModel) Init() tea.Cmd {
	return nil
}

func (m CommandListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Commands)-1 {
				m.Cursor++
			}
		case "enter", " ":
			if len(m.Commands) == 0 {
				return m, nil
			}
			s := m.Commands[m.Cursor]
			m.Selected = &s
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m CommandListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Spacing"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ run  q quit"))
	b.WriteString("\n")

	var kind command.Kind = -1
	for i, s := range m.Commands {
		if s.Kind != kind {
			kind = s.Kind
			b.WriteString("\n")
			b.WriteString(listDimStyle.Render(strings.ToUpper(kind.String())))
			b.WriteString("\n")
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", cursor, styleFor(s.Style).Render(iconBand), s.Label)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// panelCommand creates the interactive panel command.
func (c *CLI) panelCommand() *cobra.Command {
	var flags annotateFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "panel [scene]",
		Short: "Pick a spacing command interactively and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewCommandListModel(command.All()), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("panel: %w", err)
			}
			m, ok := final.(CommandListModel)
			if !ok || m.Selected == nil {
				printInfo("No command selected")
				return nil
			}

			opts.Command = m.Selected.ID()
			opts.Formats = parseFormats(flags.formats)
			return c.runAnnotate(cmd.Context(), args[0], opts, flags)
		},
	}
	flags.register(cmd, &opts)

	return cmd
}

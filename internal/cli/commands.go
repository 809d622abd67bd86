package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/command"
)

// commandsCommand creates the commands command listing every spacing command.
func (c *CLI) commandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the available spacing commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), commandTable(command.All()))
			return nil
		},
	}
}

func commandTable(specs []command.Spec) string {
	rows := make([][]string, len(specs))
	for i, s := range specs {
		rows[i] = []string{s.Slug(), s.ID(), s.Kind.String(), s.Axis.String(), s.Style.String()}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slug", "Identifier", "Kind", "Axis", "Style").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(specs) {
				return styleFor(specs[row].Style)
			}
			if col == 0 {
				return styleCommand
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

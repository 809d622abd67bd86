package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/render/tree"
	"github.com/matzehuels/spacemark/pkg/scene"
)

// layersCommand creates the layers command for inspecting a scene's hierarchy.
func (c *CLI) layersCommand() *cobra.Command {
	var (
		format string
		output string
		frames bool
	)

	cmd := &cobra.Command{
		Use:   "layers [scene]",
		Short: "Draw the layer tree of a scene",
		Long: `Draw the layer tree of a scene as Graphviz DOT or SVG.

Selected layers are highlighted, artboards drawn as boxes and layers that
children commands can annotate drawn as folders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			c.Logger.Debug("scene loaded", "layers", doc.Index().Len())

			dot := tree.ToDOT(doc, tree.Options{Frames: frames})
			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				if data, err = tree.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'dot' or 'svg')", format)
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&frames, "frames", false, "include layer frames in labels")

	return cmd
}

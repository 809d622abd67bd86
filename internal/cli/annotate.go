package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/command"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/pipeline"
	"github.com/matzehuels/spacemark/pkg/scene"
)

// annotateFlags holds the flags shared by annotate and panel.
type annotateFlags struct {
	formats   string
	output    string
	selection []string
	noCache   bool
}

func (f *annotateFlags) register(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): json, svg, png, pdf (comma-separated, default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringSliceVar(&f.selection, "select", nil, "layer IDs to select instead of the scene's selection")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default from config)")
	cmd.Flags().BoolVar(&opts.ShowLayers, "layers", false, "draw layer outlines in previews")
}

// annotateCommand creates the annotate command.
func (c *CLI) annotateCommand() *cobra.Command {
	var flags annotateFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "annotate [scene]",
		Short: "Annotate the selected layers of a scene",
		Long: `Annotate the selected layers of a scene.

The scene is a YAML or JSON document describing pages, layers and the
current selection. The command runs one spacing command on the selection
and writes the resulting annotation groups as JSON, or renders them as
SVG, PNG or PDF previews.

Results are cached locally for faster subsequent runs.`,
		Example: `  spacemark annotate checkout.yaml -c horizontal-fixed
  spacemark annotate checkout.yaml -c "[Container] All Fixed" -f svg,png
  spacemark annotate checkout.yaml -c vertical-dynamic --select row -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			return c.runAnnotate(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&opts.Command, "command", "c", "", "command identifier, label or slug (see 'spacemark commands')")
	cmd.MarkFlagRequired("command")
	cmd.RegisterFlagCompletionFunc("command", completeCommands)
	flags.register(cmd, &opts)

	return cmd
}

// completeCommands offers command slugs for shell completion.
func completeCommands(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	specs := command.All()
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Slug() + "\t" + s.ID()
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// runAnnotate loads the scene and runs the pipeline.
func (c *CLI) runAnnotate(ctx context.Context, input string, opts pipeline.Options, flags annotateFlags) error {
	doc, err := scene.Load(input)
	if err != nil {
		return err
	}
	if len(flags.selection) > 0 {
		doc.Selection = flags.selection
	}

	c.config().Apply(&opts)
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if flags.output == "-" && len(opts.Formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "stdout output needs a single format, got %s", strings.Join(opts.Formats, ","))
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %s...", opts.Spec().ID()))
	spinner.Start()

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.Stop()
		if errors.IsSelection(err) {
			printWarning("%s", errors.UserMessage(err))
		}
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Annotated %d layers", result.Stats.Layers))

	if result.Warning != "" {
		printWarning("%s", result.Warning)
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    flags.output,
		slug:      result.Command.Slug(),
		stats:     result.Stats,
		cacheHit:  result.CacheInfo.AnnotateHit && result.CacheInfo.RenderHit,
	})
}

// artifactWriteParams holds everything needed to write pipeline outputs.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	slug      string
	stats     pipeline.Stats
	cacheHit  bool
}

// writeArtifacts writes each artifact to disk, or to stdout for output "-".
func writeArtifacts(p artifactWriteParams) error {
	if p.output == "-" {
		_, err := os.Stdout.Write(p.artifacts[p.formats[0]])
		return err
	}

	paths := artifactPaths(p.input, p.output, p.slug, p.formats)
	for _, f := range p.formats {
		if err := os.WriteFile(paths[f], p.artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Annotations ready")
	printStats(p.stats, p.cacheHit)
	for _, f := range p.formats {
		printFile(paths[f])
	}
	return nil
}

// artifactPaths names one output file per format. A single format writes
// to output as given; otherwise output is a base path. Without output, files
// land next to the input as <name>.<command>.<format>.
func artifactPaths(input, output, slug string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input)) + "." + slug
	} else if ext := strings.TrimPrefix(filepath.Ext(base), "."); pipeline.ValidateFormat(ext) == nil {
		base = strings.TrimSuffix(base, "."+ext)
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

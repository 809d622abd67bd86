package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spacemark/pkg/annotate"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/gaps"
	"github.com/matzehuels/spacemark/pkg/geom"
)

// resolveStages records every step of one gap resolution.
type resolveStages struct {
	Extent     float64          `json:"extent"`
	Input      []geom.Interval  `json:"input"`
	Sorted     []geom.Interval  `json:"sorted"`
	Filtered   []geom.Interval  `json:"filtered"`
	Gaps       []geom.Interval  `json:"gaps"`
	Rectangles []annotate.Shape `json:"rectangles,omitempty"`
}

// resolveCommand creates the resolve command for inspecting the gap resolver.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		extent  float64
		cross   float64
		axisStr string
		style   string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [start:end]...",
		Short: "Resolve occupied intervals into gaps",
		Long: `Resolve occupied intervals into gaps and print every stage.

Each argument is one occupied interval written as start:end. Intervals are
sorted by start, intervals strictly inside another are dropped, and the
empty space of [0, extent] between the rest is reported as gaps.

With --cross, the gaps are also turned into annotation bands for a
container of that size across the axis.

Use -- before intervals with negative coordinates:

  spacemark resolve --extent 100 -- -5:10 40:60`,
		Example: `  spacemark resolve --extent 343 0:24 40:160 283:343
  spacemark resolve --extent 48 --axis vertical --cross 343 12:36`,
		RunE: func(cmd *cobra.Command, args []string) error {
			axis, err := geom.ParseAxis(axisStr)
			if err != nil {
				return err
			}
			st, err := annotate.ParseStyle(style)
			if err != nil {
				return err
			}
			intervals, err := parseIntervals(args)
			if err != nil {
				return err
			}

			stages := runResolve(intervals, extent, cross, axis, st)
			c.Logger.Debug("resolved", "input", len(intervals), "gaps", len(stages.Gaps))
			if asJSON {
				return writeStagesJSON(cmd.OutOrStdout(), stages)
			}
			printStages(stages)
			return nil
		},
	}

	cmd.Flags().Float64VarP(&extent, "extent", "e", 0, "container size along the axis")
	cmd.Flags().Float64Var(&cross, "cross", 0, "container size across the axis (enables band output)")
	cmd.Flags().StringVarP(&axisStr, "axis", "a", "horizontal", "axis: horizontal, vertical")
	cmd.Flags().StringVar(&style, "style", "fixed", "band style: fixed, dynamic")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print stages as JSON")
	cmd.MarkFlagRequired("extent")

	return cmd
}

func runResolve(intervals []geom.Interval, extent, cross float64, axis geom.Axis, style annotate.Style) resolveStages {
	s := resolveStages{Extent: extent, Input: intervals}
	s.Sorted = gaps.Sort(intervals)
	s.Filtered = gaps.FilterContained(s.Sorted)
	s.Gaps = gaps.Synthesize(s.Filtered, extent)

	if cross > 0 {
		rects := annotate.BuildGapRectangles(s.Gaps, annotate.CrossAxisOffset(cross), annotate.BandWidth, axis, style)
		s.Rectangles = make([]annotate.Shape, len(rects))
		for i, r := range rects {
			s.Rectangles[i] = r.Shape()
		}
	}
	return s
}

// parseIntervals parses "start:end" arguments.
func parseIntervals(args []string) ([]geom.Interval, error) {
	out := make([]geom.Interval, 0, len(args))
	for _, arg := range args {
		lo, hi, ok := strings.Cut(arg, ":")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid interval %q (want start:end)", arg)
		}
		start, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid interval start in %q", arg)
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid interval end in %q", arg)
		}
		out = append(out, geom.Interval{Start: start, End: end})
	}
	return out, nil
}

func writeStagesJSON(w io.Writer, s resolveStages) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func printStages(s resolveStages) {
	printKeyValue("extent", StyleNumber.Render(strconv.FormatFloat(s.Extent, 'g', -1, 64)))
	printKeyValue("input", formatIntervals(s.Input))
	printKeyValue("sorted", formatIntervals(s.Sorted))
	printKeyValue("filtered", formatIntervals(s.Filtered))
	if dropped := len(s.Sorted) - len(s.Filtered); dropped > 0 {
		printDetail("%d contained interval(s) dropped", dropped)
	}
	printKeyValue("gaps", formatIntervals(s.Gaps))
	for _, g := range s.Gaps {
		if g.Width() < 0 {
			printWarning("overlap %s has negative width %g", g, g.Width())
		}
	}
	for _, r := range s.Rectangles {
		fmt.Println("  " + styleFor(r.Style).Render(iconBand) + " " + StyleValue.Render(r.Frame.String()))
	}
}

func formatIntervals(in []geom.Interval) string {
	if len(in) == 0 {
		return StyleDim.Render("none")
	}
	parts := make([]string, len(in))
	for i, iv := range in {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " ")
}

// styleFor returns the terminal style matching an annotation color.
func styleFor(s annotate.Style) lipgloss.Style {
	if s == annotate.Dynamic {
		return styleDynamic
	}
	return styleFixed
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/liarlens/internal/model"
	"github.com/ppiankov/liarlens/internal/pipeline"
	"github.com/ppiankov/liarlens/internal/render"
	"github.com/ppiankov/liarlens/internal/session"
)

var (
	selectorFlags [model.NumDimensions]string
	labelFlag     string
	perDot        int
	hideOthers    bool
	dots          bool
	format        string
	outPath       string
	width         int
	color         string
	workers       int
	renderTimeout time.Duration
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the truth-rating breakdown of a selection",
	Long: `Render filters the corpus by up to six dimensions and an optional truth
label, then draws how the matching statements split across the six ratings.

Each dimension flag takes a value as listed by 'liarlens top', a menu label,
NA for statements without that field, or * for all values.

Example:
  liarlens render --subject economy
  liarlens render --party democrat --label true --per-dot 2 --hide-others
  liarlens render --state texas --format png --out texas.png`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	// Selector flags
	for i, d := range model.Dimensions {
		renderCmd.Flags().StringVar(&selectorFlags[i], string(d), "*", fmt.Sprintf("%s to select (* for all)", d))
	}
	renderCmd.Flags().StringVar(&labelFlag, "label", "all", "restrict to one truth label")

	// Display flags
	renderCmd.Flags().IntVar(&perDot, "per-dot", 1, "statements per dot (1-10)")
	renderCmd.Flags().BoolVar(&hideOthers, "hide-others", false, "hide statements outside the selection")
	renderCmd.Flags().BoolVar(&dots, "dots", true, "draw a glyph per dot")
	renderCmd.Flags().StringVar(&format, "format", "text", "output format (text, html, png)")
	renderCmd.Flags().IntVar(&width, "width", 100, "dots per row, 0 disables wrapping")
	renderCmd.Flags().StringVar(&color, "color", "auto", "ANSI colour (auto, always, never)")

	// Output flags
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to a file instead of stdout")
	renderCmd.Flags().IntVar(&workers, "workers", 1, "scan the corpus in parallel shards")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", time.Minute, "overall timeout")
}

// applyRenderFlags overrides configured render defaults with explicit flags
func applyRenderFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("per-dot") {
		cfg.Render.DatapointsPerDot = perDot
	}
	if flags.Changed("hide-others") {
		cfg.Render.HideOthers = hideOthers
	}
	if flags.Changed("dots") {
		cfg.Render.Dots = dots
	}
	if flags.Changed("format") {
		cfg.Render.Format = format
	}
	if flags.Changed("width") {
		cfg.Render.Width = width
	}
	if flags.Changed("color") {
		cfg.Render.Color = color
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = workers
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, cfg)

	// Validate cheap inputs before loading the corpus
	if _, err := render.ParseFormat(cfg.Render.Format); err != nil {
		return err
	}
	label, err := model.ParseLabelSelector(labelFlag)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := openPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	q := pipeline.DefaultQuery(cfg)
	q.Label = label
	for i, d := range model.Dimensions {
		q.Selection = q.Selection.With(d, session.ParseSelector(d, selectorFlags[i], p.Menu(d)))
	}

	logger.Debug("rendering", zap.String("query", session.Describe(q)))
	out, err := p.Render(ctx, q)
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), out)
}

// writeOutput writes to --out when set, otherwise to w
func writeOutput(w io.Writer, out *render.Output) error {
	if outPath == "" {
		_, err := out.WriteTo(w)
		return err
	}
	if err := os.WriteFile(outPath, out.Body, 0644); err != nil {
		return errors.Wrapf(err, "write %s", outPath)
	}
	if out.Format != render.FormatText {
		fmt.Fprintln(os.Stderr, out.Header)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s: %s\n", out.Format, outPath)
	return nil
}

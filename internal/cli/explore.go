package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/liarlens/internal/pipeline"
	"github.com/ppiankov/liarlens/internal/session"
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Explore the corpus interactively",
	Long: `Explore starts a line-oriented session. Each line changes one selector
and redraws the breakdown, for example:

  > subject=economy
  > party=republican
  > label=false
  > per-dot=2
  > hide-others
  > menu speaker

Type help for all commands and quit to leave.`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)

	exploreCmd.Flags().IntVar(&width, "width", 100, "dots per row, 0 disables wrapping")
	exploreCmd.Flags().StringVar(&color, "color", "auto", "ANSI colour (auto, always, never)")
	exploreCmd.Flags().IntVar(&workers, "workers", 1, "scan the corpus in parallel shards")
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := openPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("corpus loaded", zap.Int("statements", p.Store().Count()))

	s := session.New(p, pipeline.DefaultQuery(cfg), cfg.Session, logger)
	return s.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}

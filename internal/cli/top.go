package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ppiankov/liarlens/internal/filter"
	"github.com/ppiankov/liarlens/internal/model"
	"github.com/ppiankov/liarlens/internal/pipeline"
)

var (
	topK     int
	topAlpha bool
	topMenu  bool
)

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top <dimension>",
	Short: "List the most frequent values of a dimension",
	Long: `Top lists the most frequent values of one dimension (subject, speaker,
profession, state, party or context) with their display label and number of
statements. Statements without a value are not listed.

Example:
  liarlens top speaker -k 5
  liarlens top state -k 99 --alpha
  liarlens top party --menu`,
	Args: cobra.ExactArgs(1),
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().IntVarP(&topK, "k", "k", 10, "number of values to list")
	topCmd.Flags().BoolVar(&topAlpha, "alpha", false, "sort the listed values by label")
	topCmd.Flags().BoolVar(&topMenu, "menu", false, "show the configured selector menu instead")
}

func runTop(cmd *cobra.Command, args []string) error {
	d, err := model.ParseDimension(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	p, err := openPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var choices []model.Choice
	if topMenu {
		choices = p.Menu(d)
	} else {
		choices = p.ListTopValues(d, topK, topAlpha)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(topTable(p, d, choices)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}

// topTable lays out one row per choice with its statement count
func topTable(p *pipeline.Pipeline, d model.Dimension, choices []model.Choice) pterm.TableData {
	data := pterm.TableData{{"#", "Label", "Value", "Statements"}}
	for i, c := range choices {
		value := c.Value()
		if c.Selector.IsWildcard() {
			value = "*"
		}
		n := p.Store().Matches(filter.Build(model.Selection{}.With(d, c.Selector)))
		data = append(data, []string{strconv.Itoa(i + 1), c.Label, value, strconv.Itoa(n)})
	}
	return data
}

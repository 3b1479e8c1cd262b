package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ppiankov/liarlens/internal/corpus"
)

var (
	importDB      string
	importTimeout time.Duration
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Snapshot the corpus into a SQLite database",
	Long: `Import loads the corpus from the TSV partitions or a CSV export, validates
and normalizes it, and writes it to a SQLite file. Later runs can load the
snapshot with --db instead of re-parsing the source files.

Example:
  liarlens import --data ./liar_dataset --to liar.db
  liarlens import --csv liar.csv --to liar.db`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDB, "to", "liar.db", "SQLite file to write")
	importCmd.Flags().DurationVar(&importTimeout, "timeout", 5*time.Minute, "total timeout for the import")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// The destination is never a source.
	cfg.Data.SQLite = ""

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	loader := corpus.NewLoader(logger)

	spinner, _ := pterm.DefaultSpinner.Start("Loading corpus...")
	store, err := loader.Load(ctx, cfg.Data)
	if err != nil {
		spinner.Fail("Load failed")
		return errors.Wrap(err, "load corpus")
	}
	spinner.Success(fmt.Sprintf("Loaded %d statements", store.Count()))

	if err := loader.SaveSQLite(ctx, importDB, store); err != nil {
		return errors.Wrapf(err, "write %s", importDB)
	}

	pterm.Success.Printf("Wrote %d statements to %s\n", store.Count(), importDB)
	return nil
}

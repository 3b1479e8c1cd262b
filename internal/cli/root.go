package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/liarlens/internal/corpus"
	"github.com/ppiankov/liarlens/internal/logging"
	"github.com/ppiankov/liarlens/internal/model"
	"github.com/ppiankov/liarlens/internal/pipeline"
)

// Version is overridden at build time
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	logJSON bool
	dataDir string
	dataCSV string
	dataDB  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "liarlens",
	Short: "liarlens - explore truth ratings of the LIAR statement corpus",
	Long: `liarlens filters the LIAR corpus of fact-checked political statements by
subject, speaker, profession, state, party and context, and shows how the
matching statements split across the six truth ratings.

Results are drawn as a dot-density grid in the terminal or as HTML, or as a
proportional-area chart in PNG.

liarlens counts ratings. It does not rate anything itself.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, reporting any error on stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of liarlens.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "liarlens %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.liarlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit diagnostics as JSON")

	// Data source flags
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "directory holding train.tsv, test.tsv and valid.tsv")
	rootCmd.PersistentFlags().StringVar(&dataCSV, "csv", "", "preprocessed liar.csv with a header row")
	rootCmd.PersistentFlags().StringVar(&dataDB, "db", "", "SQLite snapshot written by 'liarlens import'")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("data.csv", rootCmd.PersistentFlags().Lookup("csv"))
	_ = viper.BindPFlag("data.sqlite", rootCmd.PersistentFlags().Lookup("db"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.liarlens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LIARLENS_*, e.g. LIARLENS_RENDER_FORMAT
	viper.SetEnvPrefix("LIARLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key of cfg so environment variables can
// override keys that no config file mentions
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal defaults")
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return errors.Wrap(err, "unmarshal defaults")
	}

	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, val := range node {
			key := prefix + k
			if child, ok := val.(map[string]any); ok {
				walk(key+".", child)
				continue
			}
			v.SetDefault(key, val)
		}
	}
	walk("", tree)
	return nil
}

// loadConfig resolves the configuration from defaults, file, environment
// and global flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode configuration")
	}

	// An explicit CSV or SQLite source replaces the default directory.
	flags := rootCmd.PersistentFlags()
	if !flags.Changed("data") && (flags.Changed("csv") || flags.Changed("db")) {
		cfg.Data.Dir = ""
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

func newLogger(cfg *model.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.Output.Verbose, logJSON)
	if err != nil {
		return nil, errors.Wrap(err, "create logger")
	}
	return logger, nil
}

// openPipeline loads the configured corpus and builds a query pipeline
func openPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	store, err := corpus.NewLoader(logger).Load(ctx, cfg.Data)
	if err != nil {
		return nil, errors.Wrap(err, "load corpus")
	}
	return pipeline.NewPipeline(cfg, store, logger)
}

// printError reports err with any attached hints
func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", h)
	}
}

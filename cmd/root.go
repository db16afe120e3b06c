package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/taintgraph/cmd/catalog"
	"github.com/scan-io-git/taintgraph/cmd/graph"
	"github.com/scan-io-git/taintgraph/cmd/paths"
	"github.com/scan-io-git/taintgraph/cmd/version"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
	"github.com/scan-io-git/taintgraph/pkg/shared/errors"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "taintgraph [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Taintgraph lays out taint paths as force-directed graphs.",
		Long: `Taintgraph turns source-to-sink taint paths, taken from SARIF code flows or
traced by an analysis backend, into chain graphs and positions them with a
force-directed simulation. Results are written as JSON or SVG.
	`,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file (yaml or toml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(graph.GraphCmd)
	rootCmd.AddCommand(paths.PathsCmd)
	rootCmd.AddCommand(catalog.CatalogCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return errors.ExitCode(err)
	}
	return 0
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return errors.NewCommandError(map[string]string{"config": cfgFile}, err, 1)
	}
	AppConfig = cfg

	version.Init(AppConfig)
	graph.Init(AppConfig)
	paths.Init(AppConfig)
	catalog.Init(AppConfig)
	return nil
}

// loadAppConfig loads .env and the config file. A missing file is only an
// error when the path was given explicitly.
func loadAppConfig(path string, explicit bool) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if explicit || !stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("initializing config file function is crashed - %w", err)
		}
		cfg = &config.Config{}
		config.ApplyEnvironment(cfg)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

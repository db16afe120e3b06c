package paths

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/taintgraph/internal/loader"
	"github.com/scan-io-git/taintgraph/internal/logger"
	"github.com/scan-io-git/taintgraph/internal/ui"
	"github.com/scan-io-git/taintgraph/pkg/shared"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
	"github.com/scan-io-git/taintgraph/pkg/shared/errors"
)

// RunOptions holds flags for the paths command.
type RunOptions struct {
	loader.Options
	JSON bool `json:"json,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	examplePathsUsage = `  # List every code flow of a SARIF report
  taintgraph paths --sarif results.sarif

  # List high risk paths traced by the backend as JSON
  taintgraph paths --source getUserInput --sink queryUser --risk high --json`

	// PathsCmd lists the taint paths a graph can be built from.
	PathsCmd = &cobra.Command{
		Use:                   "paths (--sarif PATH | --source FUNC --sink FUNC) [--risk LEVEL] [--max-paths N] [--json]",
		Short:                 "List taint paths with their risk level",
		Example:               examplePathsUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runPaths,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runPaths(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	lg := logger.NewLogger(AppConfig, "paths")

	if err := opts.Options.Validate(); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(opts, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := loader.Load(ctx, AppConfig, opts.Options, lg)
	if err != nil {
		lg.Error("failed to load taint paths", "error", err)
		return errors.NewCommandError(opts, fmt.Errorf("failed to load taint paths: %w", err), 2)
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(paths); err != nil {
			return errors.NewCommandError(opts, err, 2)
		}
		return nil
	}

	if len(paths) == 0 {
		fmt.Fprintln(out, "No taint paths found")
		return nil
	}
	ui.Banner(out, "taint paths")
	ui.PathTable(out, paths)
	fmt.Fprintf(out, "\n%d path(s)\n", len(paths))
	return nil
}

func init() {
	PathsCmd.Flags().StringVar(&opts.SarifPath, "sarif", "", "Path to a SARIF report with code flows")
	PathsCmd.Flags().StringVar(&opts.Source, "source", "", "Source function to trace from (backend mode)")
	PathsCmd.Flags().StringVar(&opts.Sink, "sink", "", "Sink function to trace to (backend mode)")
	PathsCmd.Flags().IntVar(&opts.MaxPaths, "max-paths", 0, "Maximum number of paths to load (defaults to tracer.max_paths)")
	PathsCmd.Flags().StringVar(&opts.Risk, "risk", "", "Only list paths of this risk level: high, medium, low or all")
	PathsCmd.Flags().BoolVar(&opts.KeepSuppressed, "keep-suppressed", false, "Keep SARIF results that carry suppressions")
	PathsCmd.Flags().BoolVar(&opts.JSON, "json", false, "Print paths as JSON")
	PathsCmd.Flags().BoolP("help", "h", false, "Show help for paths command.")
}

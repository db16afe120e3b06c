package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/taintgraph/internal/logger"
	"github.com/scan-io-git/taintgraph/internal/tracer"
	"github.com/scan-io-git/taintgraph/internal/ui"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
	"github.com/scan-io-git/taintgraph/pkg/shared/errors"
)

const (
	kindSources = "sources"
	kindSinks   = "sinks"
)

// RunOptions holds flags for the catalog command.
type RunOptions struct {
	Kind     string `json:"kind"`
	Pattern  string `json:"pattern,omitempty"`
	Language string `json:"language,omitempty"`
	JSON     bool   `json:"json,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	exampleCatalogUsage = `  # List all known sinks
  taintgraph catalog sinks

  # Find Go sources matching "request"
  taintgraph catalog sources --pattern request --language go`

	// CatalogCmd lists the sources and sinks known to the tracing backend.
	CatalogCmd = &cobra.Command{
		Use:                   "catalog (sources|sinks) [--pattern TEXT] [--language LANG] [--json]",
		Short:                 "List taint sources or sinks known to the tracing backend",
		Example:               exampleCatalogUsage,
		Args:                  cobra.ExactArgs(1),
		ValidArgs:             []string{kindSources, kindSinks},
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runCatalog,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

func runCatalog(cmd *cobra.Command, args []string) error {
	lg := logger.NewLogger(AppConfig, "catalog")

	opts.Kind = strings.ToLower(strings.TrimSpace(args[0]))
	if opts.Kind != kindSources && opts.Kind != kindSinks {
		err := fmt.Errorf("unknown catalog %q, use sources or sinks", args[0])
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(opts, err, 1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client := tracer.NewClient(AppConfig, lg)
	out := cmd.OutOrStdout()

	var (
		result interface{}
		err    error
	)
	switch opts.Kind {
	case kindSources:
		var resp *tracer.QuerySourcesResponse
		resp, err = client.QuerySources(ctx, opts.Pattern, opts.Language)
		if err == nil && !opts.JSON {
			printSources(out, resp)
			return nil
		}
		result = resp
	case kindSinks:
		var resp *tracer.QuerySinksResponse
		resp, err = client.QuerySinks(ctx, opts.Pattern, opts.Language)
		if err == nil && !opts.JSON {
			printSinks(out, resp)
			return nil
		}
		result = resp
	}
	if err != nil {
		lg.Error("catalog query failed", "kind", opts.Kind, "error", err)
		return errors.NewCommandError(opts, err, 2)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printSources(w io.Writer, resp *tracer.QuerySourcesResponse) {
	rows := make([][]string, 0, len(resp.Sources))
	for _, s := range resp.Sources {
		rows = append(rows, []string{s.ID, s.Name, s.Type, strings.Join(s.Keywords, ",")})
	}
	ui.Banner(w, "taint sources")
	ui.Table(w, []string{"ID", "NAME", "TYPE", "KEYWORDS"}, rows, nil)
	fmt.Fprintf(w, "\n%d of %d source(s)\n", len(resp.Sources), resp.TotalCount)
}

func printSinks(w io.Writer, resp *tracer.QuerySinksResponse) {
	rows := make([][]string, 0, len(resp.Sinks))
	for _, s := range resp.Sinks {
		rows = append(rows, []string{s.ID, s.Name, s.Type, s.VulnerabilityType})
	}
	ui.Banner(w, "taint sinks")
	ui.Table(w, []string{"ID", "NAME", "TYPE", "VULNERABILITY"}, rows, func(row, col int, padded string) string {
		if col == 3 {
			return ui.Bad.Sprint(padded)
		}
		return padded
	})
	fmt.Fprintf(w, "\n%d of %d sink(s)\n", len(resp.Sinks), resp.TotalCount)
}

func init() {
	CatalogCmd.Flags().StringVar(&opts.Pattern, "pattern", "", "Only list entries whose name matches this pattern")
	CatalogCmd.Flags().StringVar(&opts.Language, "language", "", "Only list entries for this language")
	CatalogCmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the raw backend response as JSON")
	CatalogCmd.Flags().BoolP("help", "h", false, "Show help for catalog command.")
}

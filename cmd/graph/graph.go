package graph

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/taintgraph/internal/layout"
	"github.com/scan-io-git/taintgraph/internal/loader"
	"github.com/scan-io-git/taintgraph/internal/logger"
	"github.com/scan-io-git/taintgraph/internal/pathgraph"
	"github.com/scan-io-git/taintgraph/internal/render"
	"github.com/scan-io-git/taintgraph/internal/ui"
	"github.com/scan-io-git/taintgraph/pkg/shared"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
	"github.com/scan-io-git/taintgraph/pkg/shared/errors"
	"github.com/scan-io-git/taintgraph/pkg/shared/files"
)

// RunOptions holds flags for the graph command.
type RunOptions struct {
	loader.Options
	PathIndex    int      `json:"path_index"`
	Width        float64  `json:"width,omitempty"`
	Height       float64  `json:"height,omitempty"`
	Pins         []string `json:"pins,omitempty"`
	ReleaseAfter int      `json:"release_after,omitempty"`
	TicksOut     string   `json:"ticks_out,omitempty"`
	Format       string   `json:"format,omitempty"`
	Template     string   `json:"template,omitempty"`
	OutputPath   string   `json:"output_path,omitempty"`
}

var (
	AppConfig *config.Config
	opts      RunOptions

	exampleGraphUsage = `  # Lay out the first code flow of a CodeQL report as SVG
  taintgraph graph --sarif results.sarif -o graph.svg

  # Trace paths through the backend and lay out the second one as JSON
  taintgraph graph --source getUserInput --sink queryUser --path-index 1

  # Hold the source at the left edge and stream every tick
  taintgraph graph --sarif results.sarif --pin node-0=60,180 --ticks-out ticks.jsonl -o layout.json

  # Drag a node, then release it after 120 ticks and let the layout cool down
  taintgraph graph --sarif results.sarif --pin node-2=600,90 --release-after 120 --format svg`

	// GraphCmd builds a path graph and runs the force layout over it.
	GraphCmd = &cobra.Command{
		Use:                   "graph (--sarif PATH | --source FUNC --sink FUNC) [--path-index N] [--risk LEVEL] [--pin NODE=X,Y]... [--ticks-out PATH] [--format json|svg] [-o PATH]",
		Short:                 "Lay out one taint path as a force-directed graph",
		Example:               exampleGraphUsage,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runGraph,
	}
)

// Init wires config into this command.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runGraph is the main execution function for the graph command.
func runGraph(cmd *cobra.Command, args []string) error {
	// 1. Check for help request
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	// 2. Initialize logger
	lg := logger.NewLogger(AppConfig, "graph")

	// 3. Validate arguments
	if err := validate(&opts, layoutConfig(AppConfig).MaxTicks); err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(opts, fmt.Errorf("invalid arguments: %w", err), 1)
	}
	pins, err := parsePins(opts.Pins)
	if err != nil {
		lg.Error("invalid arguments", "error", err)
		return errors.NewCommandError(opts, fmt.Errorf("invalid arguments: %w", err), 1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 4. Load and select the path
	paths, err := loader.Load(ctx, AppConfig, opts.Options, lg)
	if err != nil {
		lg.Error("failed to load taint paths", "error", err)
		return errors.NewCommandError(opts, fmt.Errorf("failed to load taint paths: %w", err), 2)
	}
	path, err := loader.Select(paths, opts.PathIndex)
	if err != nil {
		lg.Error("failed to select taint path", "error", err)
		return errors.NewCommandError(opts, err, 1)
	}

	// 5. Build the graph
	g, err := pathgraph.Build(path)
	if err != nil {
		lg.Error("failed to build graph", "path", path.ID, "error", err)
		return errors.NewCommandError(opts, err, 2)
	}

	// 6. Run the layout
	width, height := canvasSize(AppConfig, opts)
	engine, err := layout.NewEngine(layoutConfig(AppConfig), lg.Named("layout"))
	if err != nil {
		lg.Error("invalid layout configuration", "error", err)
		return errors.NewCommandError(opts, err, 1)
	}
	snap, err := runLayout(ctx, engine, g, pins, width, height, cmd.OutOrStdout(), lg)
	if err != nil {
		lg.Error("layout failed", "error", err)
		return errors.NewCommandError(opts, err, 2)
	}

	// 7. Write the result
	doc := render.NewDocument(g, snap, width, height)
	written, err := writeDocument(cmd.OutOrStdout(), doc)
	if err != nil {
		lg.Error("failed to write output", "error", err)
		return errors.NewCommandError(opts, err, 2)
	}

	lg.Info("layout finished", "path", g.PathID, "state", snap.State, "ticks", snap.Tick, "output", written)
	if written != "-" {
		ui.GraphSummary(cmd.OutOrStdout(), g)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s layout written to %s\n", ui.StatusIcon(true), written)
	}
	return nil
}

func runLayout(ctx context.Context, engine *layout.Engine, g *pathgraph.Graph, pins []pin, width, height float64, stdout io.Writer, lg hclog.Logger) (layout.Snapshot, error) {
	if err := engine.Initialize(g.Nodes, g.Edges, width, height); err != nil {
		return layout.Snapshot{}, err
	}
	for _, p := range pins {
		if err := engine.Pin(p.NodeID, p.X, p.Y); err != nil {
			return layout.Snapshot{}, err
		}
		lg.Debug("node pinned", "node", p.NodeID, "x", p.X, "y", p.Y)
	}

	var ticks *render.SnapshotWriter
	if opts.TicksOut != "" {
		w, name, err := files.OpenOutput(opts.TicksOut, g.PathID+"-ticks.jsonl", stdout)
		if err != nil {
			return layout.Snapshot{}, err
		}
		defer w.Close()
		ticks = render.NewSnapshotWriter(w)
		lg.Debug("streaming snapshots", "output", name)
	}

	released := false
	snap, err := engine.Run(ctx, func(s layout.Snapshot) error {
		if ticks != nil {
			if err := ticks.Write(s); err != nil {
				return err
			}
		}
		if !released && opts.ReleaseAfter > 0 && s.Tick >= opts.ReleaseAfter {
			released = true
			for _, p := range pins {
				if err := engine.Unpin(p.NodeID); err != nil {
					return err
				}
			}
			lg.Debug("pins released", "tick", s.Tick)
		}
		return nil
	})
	if err != nil {
		return snap, err
	}
	if ticks != nil {
		lg.Debug("snapshots written", "count", ticks.Count())
	}
	return snap, nil
}

func writeDocument(stdout io.Writer, doc render.Document) (string, error) {
	w, name, err := files.OpenOutput(opts.OutputPath, doc.PathID+"."+opts.Format, stdout)
	if err != nil {
		return "", err
	}
	defer w.Close()

	switch opts.Format {
	case formatSVG:
		err = render.WriteSVG(w, doc, opts.Template)
	default:
		err = render.WriteJSON(w, doc)
	}
	return name, err
}

// layoutConfig overlays the config file's layout section on the engine
// defaults.
func layoutConfig(cfg *config.Config) layout.Config {
	lc := layout.DefaultConfig()
	if cfg == nil {
		return lc
	}
	l := cfg.Layout
	lc.LinkDistance = config.SetThen(l.LinkDistance, lc.LinkDistance)
	lc.ChargeStrength = config.SetThen(l.ChargeStrength, lc.ChargeStrength)
	lc.DistanceMin = config.SetThen(l.DistanceMin, lc.DistanceMin)
	lc.AlphaMin = config.SetThen(l.AlphaMin, lc.AlphaMin)
	lc.AlphaDecay = config.SetThen(l.AlphaDecay, lc.AlphaDecay)
	lc.DragAlphaTarget = config.SetThen(l.DragAlphaTarget, lc.DragAlphaTarget)
	lc.VelocityDecay = config.SetThen(l.VelocityDecay, lc.VelocityDecay)
	lc.MaxTicks = config.SetThen(l.MaxTicks, lc.MaxTicks)
	lc.Seed = config.SetThen(l.Seed, lc.Seed)
	return lc
}

func canvasSize(cfg *config.Config, o RunOptions) (float64, float64) {
	w, h := config.GetCanvasSize(cfg)
	return config.SetThen(o.Width, w), config.SetThen(o.Height, h)
}

func init() {
	GraphCmd.Flags().StringVar(&opts.SarifPath, "sarif", "", "Path to a SARIF report with code flows")
	GraphCmd.Flags().StringVar(&opts.Source, "source", "", "Source function to trace from (backend mode)")
	GraphCmd.Flags().StringVar(&opts.Sink, "sink", "", "Sink function to trace to (backend mode)")
	GraphCmd.Flags().IntVar(&opts.MaxPaths, "max-paths", 0, "Maximum number of paths to load (defaults to tracer.max_paths)")
	GraphCmd.Flags().StringVar(&opts.Risk, "risk", "", "Only consider paths of this risk level: high, medium, low or all")
	GraphCmd.Flags().BoolVar(&opts.KeepSuppressed, "keep-suppressed", false, "Keep SARIF results that carry suppressions")
	GraphCmd.Flags().IntVar(&opts.PathIndex, "path-index", 0, "Index of the path to lay out after filtering")
	GraphCmd.Flags().Float64Var(&opts.Width, "width", 0, "Canvas width (defaults to layout.width or 760)")
	GraphCmd.Flags().Float64Var(&opts.Height, "height", 0, "Canvas height (defaults to layout.height or 360)")
	// --pin values contain a comma, so the flag is repeated rather than comma separated
	GraphCmd.Flags().StringArrayVar(&opts.Pins, "pin", nil, "Hold a node at a position, NODE=X,Y (repeatable)")
	GraphCmd.Flags().IntVar(&opts.ReleaseAfter, "release-after", 0, "Release all pins after this many ticks, like the end of a drag")
	GraphCmd.Flags().StringVar(&opts.TicksOut, "ticks-out", "", "Write every tick snapshot as JSON lines to this path ('-' for stdout)")
	GraphCmd.Flags().StringVar(&opts.Format, "format", "", "Output format: json or svg (inferred from --output when unset)")
	GraphCmd.Flags().StringVar(&opts.Template, "template", "", "Optional: custom SVG template file")
	GraphCmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Output file or folder (stdout when unset)")
	GraphCmd.Flags().BoolP("help", "h", false, "Show help for graph command.")
}

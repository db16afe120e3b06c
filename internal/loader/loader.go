// Package loader fetches taint paths from a SARIF report or from the
// tracing backend, whichever the command line selects.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	internalsarif "github.com/scan-io-git/taintgraph/internal/sarif"
	"github.com/scan-io-git/taintgraph/internal/taint"
	"github.com/scan-io-git/taintgraph/internal/tracer"
	"github.com/scan-io-git/taintgraph/pkg/shared/config"
)

// Options selects where paths come from and how they are filtered.
type Options struct {
	SarifPath      string `json:"sarif_path,omitempty"`
	Source         string `json:"source,omitempty"`
	Sink           string `json:"sink,omitempty"`
	MaxPaths       int    `json:"max_paths,omitempty"`
	Risk           string `json:"risk,omitempty"`
	KeepSuppressed bool   `json:"keep_suppressed,omitempty"`
}

// FromSARIF reports whether the options point at a SARIF file.
func (o Options) FromSARIF() bool {
	return strings.TrimSpace(o.SarifPath) != ""
}

// Validate checks that exactly one input is selected.
func (o Options) Validate() error {
	hasTrace := strings.TrimSpace(o.Source) != "" || strings.TrimSpace(o.Sink) != ""
	switch {
	case o.FromSARIF() && hasTrace:
		return fmt.Errorf("--sarif cannot be combined with --source/--sink")
	case !o.FromSARIF() && !hasTrace:
		return fmt.Errorf("either --sarif or --source and --sink is required")
	case hasTrace && (strings.TrimSpace(o.Source) == "" || strings.TrimSpace(o.Sink) == ""):
		return fmt.Errorf("--source and --sink must be given together")
	}
	if o.MaxPaths < 0 {
		return fmt.Errorf("--max-paths must not be negative")
	}
	if o.Risk != "" && !strings.EqualFold(o.Risk, "all") {
		if _, err := taint.ParseRiskLevel(o.Risk); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the selected input and applies the risk filter.
func Load(ctx context.Context, cfg *config.Config, opts Options, logger hclog.Logger) ([]taint.TaintPath, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var (
		paths []taint.TaintPath
		err   error
	)
	if opts.FromSARIF() {
		paths, err = loadSARIF(opts, logger)
	} else {
		paths, err = loadTrace(ctx, cfg, opts, logger)
	}
	if err != nil {
		return nil, err
	}

	filtered, err := taint.FilterByRisk(paths, opts.Risk)
	if err != nil {
		return nil, err
	}
	logger.Debug("taint paths loaded", "total", len(paths), "after_filter", len(filtered), "risk", opts.Risk)
	return filtered, nil
}

func loadSARIF(opts Options, logger hclog.Logger) ([]taint.TaintPath, error) {
	report, err := internalsarif.ReadReport(opts.SarifPath, logger, !opts.KeepSuppressed)
	if err != nil {
		return nil, err
	}
	report.EnrichResultsLevelProperty()
	report.RemoveDataflowDuplicates()

	paths := report.ExtractTaintPaths()
	if opts.MaxPaths > 0 && len(paths) > opts.MaxPaths {
		paths = paths[:opts.MaxPaths]
	}
	return paths, nil
}

func loadTrace(ctx context.Context, cfg *config.Config, opts Options, logger hclog.Logger) ([]taint.TaintPath, error) {
	client := tracer.NewClient(cfg, logger)
	return client.TracePaths(ctx, tracer.TracePathRequest{
		SourceFunction: opts.Source,
		SinkFunction:   opts.Sink,
		MaxPaths:       config.SetThen(opts.MaxPaths, config.GetMaxPaths(cfg)),
	})
}

// Select returns the path at index, reporting the valid range when it is
// out of bounds.
func Select(paths []taint.TaintPath, index int) (taint.TaintPath, error) {
	if len(paths) == 0 {
		return taint.TaintPath{}, fmt.Errorf("no taint paths found")
	}
	if index < 0 || index >= len(paths) {
		return taint.TaintPath{}, fmt.Errorf("path index %d out of range [0, %d]", index, len(paths)-1)
	}
	return paths[index], nil
}

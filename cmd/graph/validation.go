package graph

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	formatJSON = "json"
	formatSVG  = "svg"
)

// validate validates the RunOptions for the graph command. maxTicks is the
// layout tick budget that --release-after must fall within.
func validate(o *RunOptions, maxTicks int) error {
	if err := o.Options.Validate(); err != nil {
		return err
	}
	if o.PathIndex < 0 {
		return fmt.Errorf("--path-index must not be negative")
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("--width and --height must not be negative")
	}
	if o.ReleaseAfter < 0 {
		return fmt.Errorf("--release-after must not be negative")
	}
	if o.ReleaseAfter > 0 && len(o.Pins) == 0 {
		return fmt.Errorf("--release-after requires at least one --pin")
	}
	if o.ReleaseAfter > 0 && o.ReleaseAfter >= maxTicks {
		return fmt.Errorf("--release-after must be below the layout tick budget (%d)", maxTicks)
	}

	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		o.Format = formatJSON
		if strings.EqualFold(filepath.Ext(o.OutputPath), ".svg") {
			o.Format = formatSVG
		}
	}
	if o.Format != formatJSON && o.Format != formatSVG {
		return fmt.Errorf("unsupported --format %q, use json or svg", o.Format)
	}
	if o.Template != "" && o.Format != formatSVG {
		return fmt.Errorf("--template only applies to svg output")
	}

	if o.TicksOut == "-" && (o.OutputPath == "" || o.OutputPath == "-") {
		return fmt.Errorf("--ticks-out and --output cannot both write to stdout")
	}
	return nil
}

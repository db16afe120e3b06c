package sarif

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/taintgraph/internal/taint"
)

const (
	flowKindSource      = "source"
	flowKindPropagation = "propagation"
	flowKindSanitizer   = "sanitizer"
	flowKindSink        = "sink"

	defaultOperation = "flow"
)

// ExtractTaintPaths turns every thread flow of every result into a
// TaintPath. Paths are numbered in report order as "path-<n>". Run
// EnrichResultsLevelProperty first so risk levels reflect rule severity.
func (r Report) ExtractTaintPaths() []taint.TaintPath {
	var paths []taint.TaintPath
	for _, run := range r.Runs {
		for _, result := range run.Results {
			risk := riskFromLevel(resultLevel(result))
			for _, codeFlow := range result.CodeFlows {
				if codeFlow == nil {
					continue
				}
				for _, threadFlow := range codeFlow.ThreadFlows {
					locations := threadFlowLocations(threadFlow)
					if len(locations) == 0 {
						r.log().Debug("skipping empty thread flow", "rule", stringValue(result.RuleID))
						continue
					}
					path := threadFlowToPath(locations)
					path.ID = fmt.Sprintf("path-%d", len(paths))
					path.RiskLevel = risk
					paths = append(paths, path)
				}
			}
		}
	}
	r.log().Debug("taint paths extracted", "count", len(paths))
	return paths
}

// threadFlowLocations drops null entries, which some producers emit for
// locations they could not resolve.
func threadFlowLocations(threadFlow *sarif.ThreadFlow) []*sarif.ThreadFlowLocation {
	if threadFlow == nil {
		return nil
	}
	locations := make([]*sarif.ThreadFlowLocation, 0, len(threadFlow.Locations))
	for _, tfl := range threadFlow.Locations {
		if tfl != nil {
			locations = append(locations, tfl)
		}
	}
	return locations
}

func threadFlowToPath(locations []*sarif.ThreadFlowLocation) taint.TaintPath {
	path := taint.TaintPath{Steps: make([]taint.FlowStep, 0, len(locations))}
	last := len(locations) - 1
	for i, tfl := range locations {
		step := flowStep(tfl)
		kind := flowKindAt(i, last)
		if hasKind(tfl.Kinds, "sanitizer", "sanitize", "sanitization") {
			path.HasSanitizer = true
			if kind == flowKindPropagation {
				kind = flowKindSanitizer
			}
		}
		step.FlowKind = kind
		path.Steps = append(path.Steps, step)
	}
	path.Source = path.Steps[0].FunctionName
	path.Sink = path.Steps[last].FunctionName
	return path
}

func flowStep(tfl *sarif.ThreadFlowLocation) taint.FlowStep {
	step := taint.FlowStep{Operation: defaultOperation}
	if len(tfl.Kinds) > 0 && tfl.Kinds[0] != "" {
		step.Operation = tfl.Kinds[0]
	}

	loc := tfl.Location
	uri, region := locationKey(loc)
	step.FilePath = strings.TrimPrefix(uri, "file://")
	step.LineNumber = intValue(region, func(r *sarif.Region) *int { return r.StartLine })
	if step.LineNumber < 0 {
		step.LineNumber = 0
	}

	if loc != nil && loc.Message != nil && loc.Message.Text != nil {
		step.VariableName = strings.TrimSpace(*loc.Message.Text)
	}

	step.FunctionName = functionName(loc)
	if step.FunctionName == "" && tfl.Module != nil {
		step.FunctionName = *tfl.Module
	}
	if step.FunctionName == "" {
		step.FunctionName = fmt.Sprintf("%s:%d", filepath.Base(step.FilePath), step.LineNumber)
	}
	return step
}

func functionName(loc *sarif.Location) string {
	if loc == nil {
		return ""
	}
	for _, ll := range loc.LogicalLocations {
		if ll == nil {
			continue
		}
		if ll.FullyQualifiedName != nil && *ll.FullyQualifiedName != "" {
			return *ll.FullyQualifiedName
		}
		if ll.Name != nil && *ll.Name != "" {
			return *ll.Name
		}
	}
	return ""
}

func flowKindAt(i, last int) string {
	switch i {
	case 0:
		return flowKindSource
	case last:
		return flowKindSink
	default:
		return flowKindPropagation
	}
}

func hasKind(kinds []string, wanted ...string) bool {
	for _, k := range kinds {
		for _, w := range wanted {
			if strings.EqualFold(k, w) {
				return true
			}
		}
	}
	return false
}

func resultLevel(result *sarif.Result) string {
	if lvl, ok := result.Properties["Level"].(string); ok {
		return lvl
	}
	return stringValue(result.Level)
}

// riskFromLevel maps a SARIF severity onto a risk level. An empty level
// counts as medium, matching the SARIF default of "warning".
func riskFromLevel(level string) taint.RiskLevel {
	switch strings.ToLower(level) {
	case "error":
		return taint.RiskHigh
	case "warning", "":
		return taint.RiskMedium
	default:
		return taint.RiskLow
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package sarif

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/taintgraph/pkg/shared/files"
)

// Report wraps a parsed SARIF log.
type Report struct {
	*sarif.Report
	logger hclog.Logger
}

// remove all results with Suppressions property
func removeSuppressedResults(report *sarif.Report) {
	for _, run := range report.Runs {
		var filteredResults []*sarif.Result

		for _, result := range run.Results {
			if len(result.Suppressions) == 0 {
				filteredResults = append(filteredResults, result)
			}
		}

		run.Results = filteredResults
	}
}

// ReadReport loads a SARIF file. Suppressed results are dropped when
// noSuppressions is set.
func ReadReport(inputPath string, logger hclog.Logger, noSuppressions bool) (*Report, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	expanded, err := files.ExpandPath(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to expand report path: %w", err)
	}
	if err := files.ValidatePath(expanded); err != nil {
		return nil, err
	}

	sarifReport, err := sarif.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SARIF report %q: %w", expanded, err)
	}

	if noSuppressions {
		removeSuppressedResults(sarifReport)
	}

	logger.Debug("SARIF report loaded", "path", expanded, "runs", len(sarifReport.Runs))
	return &Report{Report: sarifReport, logger: logger}, nil
}

// EnrichResultsLevelProperty stores the effective severity of every result
// under Properties["Level"]. The result level wins, then the CodeQL
// "problem.severity" rule property, then the rule default configuration.
func (r Report) EnrichResultsLevelProperty() {
	for _, run := range r.Runs {
		rulesMap := map[string]*sarif.ReportingDescriptor{}
		if run.Tool.Driver != nil {
			for _, rule := range run.Tool.Driver.Rules {
				rulesMap[rule.ID] = rule
			}
		}

		for _, result := range run.Results {
			if result.Properties == nil {
				result.Properties = make(map[string]interface{})
			}
			if result.Properties["Level"] != nil {
				continue
			}
			if result.Level != nil {
				// used by snyk
				result.Properties["Level"] = *result.Level
				continue
			}

			var rule *sarif.ReportingDescriptor
			if result.RuleID != nil {
				rule = rulesMap[*result.RuleID]
			}
			switch {
			case rule != nil && rule.Properties["problem.severity"] != nil:
				// used by codeql
				result.Properties["Level"] = rule.Properties["problem.severity"]
			case rule != nil && rule.DefaultConfiguration != nil && rule.DefaultConfiguration.Level != "":
				result.Properties["Level"] = rule.DefaultConfiguration.Level
			default:
				result.Properties["Level"] = "warning"
			}
		}
	}
}

// RemoveDataflowDuplicates drops thread flows that repeat an earlier one of
// the same result, then drops code flows left without thread flows.
func (r Report) RemoveDataflowDuplicates() {
	removed := 0
	for _, run := range r.Runs {
		for _, result := range run.Results {
			uniqueThreadFlowsFingerprints := map[string]bool{}
			for _, codeFlow := range result.CodeFlows {
				if codeFlow == nil {
					continue
				}
				uniqueThreadFlows := []*sarif.ThreadFlow{}
				for _, threadFlow := range codeFlow.ThreadFlows {
					if threadFlow == nil {
						continue
					}
					fingerprint := calculateThreadFlowFingerprint(threadFlow)
					if _, ok := uniqueThreadFlowsFingerprints[fingerprint]; !ok {
						uniqueThreadFlowsFingerprints[fingerprint] = true
						uniqueThreadFlows = append(uniqueThreadFlows, threadFlow)
					} else {
						removed++
					}
				}
				codeFlow.ThreadFlows = uniqueThreadFlows
			}

			nonEmptyCodeFlows := []*sarif.CodeFlow{}
			for _, codeFlow := range result.CodeFlows {
				if codeFlow != nil && len(codeFlow.ThreadFlows) > 0 {
					nonEmptyCodeFlows = append(nonEmptyCodeFlows, codeFlow)
				}
			}
			result.CodeFlows = nonEmptyCodeFlows
		}
	}
	if removed > 0 {
		r.log().Debug("duplicate thread flows removed", "count", removed)
	}
}

func (r Report) log() hclog.Logger {
	if r.logger == nil {
		return hclog.NewNullLogger()
	}
	return r.logger
}

func calculateThreadFlowFingerprint(threadFlow *sarif.ThreadFlow) string {
	var fingerprint string
	for _, tfl := range threadFlow.Locations {
		if tfl == nil {
			continue
		}
		uri, region := locationKey(tfl.Location)
		fingerprint += fmt.Sprintf("|%s:%d:%d:%d:%d;",
			uri,
			intValue(region, func(r *sarif.Region) *int { return r.StartLine }),
			intValue(region, func(r *sarif.Region) *int { return r.StartColumn }),
			intValue(region, func(r *sarif.Region) *int { return r.EndLine }),
			intValue(region, func(r *sarif.Region) *int { return r.EndColumn }),
		)
	}
	return calculateMD5Hash(fingerprint)
}

func locationKey(loc *sarif.Location) (string, *sarif.Region) {
	if loc == nil || loc.PhysicalLocation == nil {
		return "", nil
	}
	var uri string
	if al := loc.PhysicalLocation.ArtifactLocation; al != nil && al.URI != nil {
		uri = *al.URI
	}
	return uri, loc.PhysicalLocation.Region
}

func intValue(region *sarif.Region, field func(*sarif.Region) *int) int {
	if region == nil {
		return 0
	}
	if v := field(region); v != nil {
		return *v
	}
	return 0
}

func calculateMD5Hash(text string) string {
	hash := md5.New()
	io.WriteString(hash, text)
	return hex.EncodeToString(hash.Sum(nil))
}

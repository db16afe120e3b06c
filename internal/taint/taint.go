// Package taint holds the records describing a source-to-sink data flow trace.
package taint

import (
	"fmt"
	"strings"
)

// RiskLevel classifies how dangerous a taint path is.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// FlowStep is one hop of a tainted path.
type FlowStep struct {
	FunctionName string `json:"function_name"`
	FilePath     string `json:"file_path"`
	LineNumber   int    `json:"line_number"`
	VariableName string `json:"variable_name"`
	Operation    string `json:"operation"`
	FlowKind     string `json:"flow_kind"`
}

// TaintPath is an ordered trace from the originating source hop (Steps[0])
// to the terminating sink hop (Steps[len(Steps)-1]).
type TaintPath struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Sink         string     `json:"sink"`
	Steps        []FlowStep `json:"path"`
	RiskLevel    RiskLevel  `json:"risk_level"`
	HasSanitizer bool       `json:"has_sanitizer"`
}

// ParseRiskLevel converts a case-insensitive string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RiskHigh:
		return RiskHigh, nil
	case RiskMedium:
		return RiskMedium, nil
	case RiskLow:
		return RiskLow, nil
	default:
		return "", fmt.Errorf("unknown risk level %q", s)
	}
}

// RiskFromSanitizer applies the dashboard convention: a sanitized path is low
// risk, anything else is medium.
func RiskFromSanitizer(hasSanitizer bool) RiskLevel {
	if hasSanitizer {
		return RiskLow
	}
	return RiskMedium
}

// FilterByRisk returns the paths matching risk. An empty risk or "all"
// returns every path.
func FilterByRisk(paths []TaintPath, risk string) ([]TaintPath, error) {
	if risk == "" || strings.EqualFold(risk, "all") {
		return paths, nil
	}
	level, err := ParseRiskLevel(risk)
	if err != nil {
		return nil, err
	}
	var filtered []TaintPath
	for _, p := range paths {
		if p.RiskLevel == level {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

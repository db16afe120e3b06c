// Package ui formats command output for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/scan-io-git/taintgraph/internal/pathgraph"
	"github.com/scan-io-git/taintgraph/internal/taint"
)

var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed, color.Bold)
	Flow   = color.New(color.FgBlue)
)

// Banner prints the command title line.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s: %s\n\n", Brand.Sprint("taintgraph"), subtitle)
}

// RiskColor picks the color used for a risk level.
func RiskColor(risk taint.RiskLevel) *color.Color {
	switch risk {
	case taint.RiskHigh:
		return Bad
	case taint.RiskMedium:
		return Warn
	case taint.RiskLow:
		return Good
	default:
		return Subtle
	}
}

// RoleColor picks the color used for a node role. It mirrors the SVG
// palette: green sources, red sinks, blue hops in between.
func RoleColor(role pathgraph.Role) *color.Color {
	switch role {
	case pathgraph.RoleSource:
		return Good
	case pathgraph.RoleSink:
		return Bad
	default:
		return Flow
	}
}

// StyleFunc colors an already padded cell. row is -1 for the header.
type StyleFunc func(row, col int, padded string) string

// Table prints an aligned table. Padding is computed on the plain text so
// escape codes added by style do not break alignment.
func Table(w io.Writer, headers []string, rows [][]string, style StyleFunc) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	fmt.Fprintln(w, Subtle.Sprint(strings.TrimRight(headerLine, " ")))
	fmt.Fprintln(w, Subtle.Sprint(strings.TrimRight(sepLine, " ")))

	for r, row := range rows {
		var line strings.Builder
		line.WriteString("  ")
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			padded := fmt.Sprintf("%-*s", widths[i], cell)
			if style != nil {
				padded = style(r, i, padded)
			}
			line.WriteString(padded)
			line.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// PathTable lists taint paths with their risk level colored.
func PathTable(w io.Writer, paths []taint.TaintPath) {
	headers := []string{"ID", "RISK", "STEPS", "SANITIZED", "SOURCE", "SINK"}
	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, []string{
			p.ID,
			string(p.RiskLevel),
			fmt.Sprintf("%d", len(p.Steps)),
			yesNo(p.HasSanitizer),
			p.Source,
			p.Sink,
		})
	}
	Table(w, headers, rows, func(row, col int, padded string) string {
		if col == 1 {
			return RiskColor(paths[row].RiskLevel).Sprint(padded)
		}
		return padded
	})
}

// GraphSummary prints the nodes of a built graph in chain order.
func GraphSummary(w io.Writer, g *pathgraph.Graph) {
	stats := g.Stats()
	fmt.Fprintf(w, "%s %s  %d nodes, %d edges\n", Info.Sprint("path"), g.PathID, stats.TotalNodes, stats.TotalEdges)

	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		loc := n.FilePath
		if n.LineNumber > 0 {
			loc = fmt.Sprintf("%s:%d", n.FilePath, n.LineNumber)
		}
		rows = append(rows, []string{n.ID, string(n.Role), n.Label, n.Variable, loc})
	}
	Table(w, []string{"NODE", "ROLE", "FUNCTION", "VARIABLE", "LOCATION"}, rows, func(row, col int, padded string) string {
		if col == 1 {
			return RoleColor(g.Nodes[row].Role).Sprint(padded)
		}
		return padded
	})
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

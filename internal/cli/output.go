// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Report is the result of the assemble command.
type Report struct {
	Elements int         `json:"elements"`
	Interval [2]float64  `json:"interval"`
	Backend  string      `json:"backend"`
	Total    float64     `json:"total"` // ∫ sin(x) dx
	Load     []float64   `json:"load"`
	Mass     [][]float64 `json:"mass"`
}

// writeReport renders r as indented JSON or as fixed-precision text.
func writeReport(w io.Writer, format string, r Report) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "elements: %d\n", r.Elements)
	fmt.Fprintf(&sb, "interval: [%g, %g]\n", r.Interval[0], r.Interval[1])
	fmt.Fprintf(&sb, "backend:  %s\n", r.Backend)
	fmt.Fprintf(&sb, "total:    %.6f\n", r.Total)
	sb.WriteString("load:\n")
	for _, v := range r.Load {
		fmt.Fprintf(&sb, "  %9.6f\n", v)
	}
	sb.WriteString("mass:\n")
	for _, row := range r.Mass {
		sb.WriteString(" ")
		for _, v := range row {
			fmt.Fprintf(&sb, " %9.6f", v)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())

	return err
}

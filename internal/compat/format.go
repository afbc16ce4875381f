package compat

import (
	"fmt"
	"strings"
)

// Format renders the report as a human-readable block for dry runs.
func (r *Report) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "Estimated time: %s\n", r.EstimatedTime())
	for _, c := range r.Checks {
		mark := "ok"
		if !c.Compatible {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  [%-4s] %-13s %s", mark, c.Name, c.Current)
		if !c.Compatible && c.Required != "" {
			fmt.Fprintf(&b, " (required: %s)", c.Required)
		}
		b.WriteByte('\n')
	}
	if r.Status != Compatible {
		fmt.Fprintf(&b, "Actions: %s\n", r.Summary())
	}
	return b.String()
}

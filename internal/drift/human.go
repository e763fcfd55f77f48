package drift

import (
	"fmt"
	"strings"
)

// Summary renders r as a multiline human-readable report, one line per
// change, prefixed "+" for additions, "-" for removals, "~" for
// modifications. An empty report renders a single no-drift line.
func (r *Report) Summary() string {
	if !r.HasDrift {
		return "no drift detected"
	}

	var b strings.Builder
	for _, t := range r.NewTables {
		fmt.Fprintf(&b, "+ table %s\n", t)
	}
	for _, t := range r.RemovedTables {
		fmt.Fprintf(&b, "- table %s\n", t)
	}
	for _, c := range r.NewColumns {
		fmt.Fprintf(&b, "+ column %s.%s\n", c.Table, c.Column)
	}
	for _, c := range r.RemovedColumns {
		fmt.Fprintf(&b, "- column %s.%s\n", c.Table, c.Column)
	}
	for _, c := range r.ChangedColumns {
		fmt.Fprintf(&b, "~ column %s.%s %s: %s -> %s\n", c.Table, c.Column, c.Kind, c.Old, c.New)
	}
	for _, fk := range r.AddedForeignKeys {
		fmt.Fprintf(&b, "+ foreign key %s\n", fk)
	}
	for _, fk := range r.RemovedForeignKeys {
		fmt.Fprintf(&b, "- foreign key %s\n", fk)
	}
	for _, u := range r.AddedUniques {
		fmt.Fprintf(&b, "+ unique %s\n", u)
	}
	for _, u := range r.RemovedUniques {
		fmt.Fprintf(&b, "- unique %s\n", u)
	}
	for _, c := range r.AddedChecks {
		fmt.Fprintf(&b, "+ check %s\n", c)
	}
	for _, c := range r.RemovedChecks {
		fmt.Fprintf(&b, "- check %s\n", c)
	}
	return strings.TrimRight(b.String(), "\n")
}

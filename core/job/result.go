package job

import (
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of a job.
type Result struct {
	ID        string        `json:"id"`
	State     State         `json:"state"`
	DryRun    bool          `json:"dry_run"`
	Expected  Counts        `json:"expected"`
	Achieved  Counts        `json:"achieved"`
	Processed int           `json:"processed"`
	Total     int           `json:"total"`
	Errors    []string      `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// Markdown renders the result as a short report.
func (r Result) Markdown() string {
	var b strings.Builder

	title := "Import result"
	if r.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Job: `%s`\n", r.ID)
	fmt.Fprintf(&b, "- State: **%s**\n", r.State)
	fmt.Fprintf(&b, "- Processed: %d of %d\n", r.Processed, r.Total)
	fmt.Fprintf(&b, "- Duration: %s\n\n", r.Duration.Round(time.Millisecond))

	b.WriteString("| Action | Expected | Achieved |\n")
	b.WriteString("|---|---:|---:|\n")
	rows := []struct {
		name           string
		expected, done int
	}{
		{"Inserted", r.Expected.Inserted, r.Achieved.Inserted},
		{"Updated", r.Expected.Updated, r.Achieved.Updated},
		{"Deleted", r.Expected.Deleted, r.Achieved.Deleted},
		{"Unmodified", r.Expected.Unmodified, r.Achieved.Unmodified},
		{"Skipped", r.Expected.Skipped, r.Achieved.Skipped},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", row.name, row.expected, row.done)
	}

	if len(r.Errors) == 0 {
		b.WriteString("\nNo errors.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\n## Errors (%d)\n\n", len(r.Errors))
	for i, e := range r.Errors {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e)
	}
	return b.String()
}

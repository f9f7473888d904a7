package plan

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/socratools/socranop/internal/messages"
)

// Report renders the outcome of a plan run as a table plus a one-line
// summary. Dry runs and verbose runs use it; quiet real runs only get the
// summary line.
func Report(w io.Writer, p Plan, results []Result, withTable bool) {
	if withTable {
		fmt.Fprintf(w, messages.PlanHeaderFmt, p.Command, len(p.Operations))
		fmt.Fprintln(w, renderResultTable(results))
	}
	var done, upToDate, skipped int
	for _, r := range results {
		switch r.Status {
		case StatusDone, StatusPlanned, StatusDeferred:
			done++
		case StatusUpToDate:
			upToDate++
		case StatusSkipped:
			skipped++
		}
	}
	fmt.Fprintf(w, messages.CompletedFmt, done, upToDate, skipped)
}

// ReportAborted prints the completed/pending split after a fatal error so
// a re-run can pick up where this one stopped.
func ReportAborted(w io.Writer, results []Result) {
	var completed, pending int
	for _, r := range results {
		if r.Status == StatusPending {
			pending++
			continue
		}
		completed++
	}
	fmt.Fprintf(w, messages.AbortedSplitFmt, completed, pending)
	for _, r := range results {
		if r.Status == StatusPending {
			fmt.Fprintf(w, messages.PendingOpFmt, describeOp(r.Op))
		}
	}
}

func renderResultTable(results []Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Action", "Destination", "Privilege", "Status"})
	for _, r := range results {
		privilege := "user"
		if r.Op.Privileged {
			privilege = "sudo"
		}
		tw.AppendRow(table.Row{r.Op.Action.String(), describeOp(r.Op), privilege, r.Status.String()})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})
	return tw.Render()
}

func describeOp(op Operation) string {
	if op.Path != "" {
		return op.Path
	}
	return op.Description
}

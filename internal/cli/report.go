package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/wajiddaudtamboli/careercompass/pkg/db"
	"github.com/wajiddaudtamboli/careercompass/pkg/migrate"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	return table
}

func printSetupReport(w io.Writer, r *db.SetupReport) {
	table := newTable(w, "Phase", "Outcome", "Details", "Time")
	for _, res := range r.Results {
		details := res.Message
		if res.Err != nil {
			details = res.Err.Error()
		}
		took := ""
		if res.Outcome != db.OutcomeSkipped {
			took = res.Duration.Round(time.Millisecond).String()
		}
		table.Append([]string{string(res.Phase), res.Outcome.String(), details, took})
	}
	table.Render()
	fmt.Fprintf(w, "State: %s\n", r.State)
}

func printTableChecks(w io.Writer, checks []db.TableCheck) {
	table := newTable(w, "Table", "Exists", "Rows")
	for _, c := range checks {
		exists, rows := color.GreenString("yes"), strconv.FormatInt(c.Rows, 10)
		if !c.Exists {
			exists, rows = color.RedString("no"), "-"
		}
		table.Append([]string{c.Name, exists, rows})
	}
	table.Render()
}

func printTableStats(w io.Writer, stats []db.TableStat) {
	color.New(color.FgYellow).Fprintln(w, "\nTable Statistics")
	table := newTable(w, "Table", "Rows", "Size")
	var total int64
	for _, s := range stats {
		total += s.Rows
		table.Append([]string{s.Name, strconv.FormatInt(s.Rows, 10), s.Size})
	}
	table.SetFooter([]string{"Total", strconv.FormatInt(total, 10), ""})
	table.Render()
}

func printMigrationStatus(w io.Writer, statuses []migrate.Status) {
	table := newTable(w, "Migration", "Status", "Applied At")
	for _, s := range statuses {
		state := "pending"
		switch {
		case s.Missing:
			state = color.RedString("missing file")
		case s.Drift:
			state = color.RedString("changed")
		case s.Applied:
			state = color.GreenString("applied")
		}
		at := ""
		if s.AppliedAt != nil {
			at = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		table.Append([]string{s.Name, state, at})
	}
	table.Render()
}

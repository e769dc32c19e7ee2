package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ryota970728/attendanceBot/internal/attendance"
	"github.com/ryota970728/attendanceBot/internal/config"
	"github.com/spf13/cobra"
)

type planDeps struct {
	now func() time.Time
}

func defaultPlanDeps() planDeps {
	return planDeps{now: time.Now}
}

func newPlanCmd(deps planDeps) *cobra.Command {
	return LeafCommand{
		Use:   "plan",
		Short: "Preview what would be submitted for each weekday of a month",
		StrFlags: []StringFlag{
			{Name: "config", Usage: "path to the INI configuration file", Default: config.DefaultConfigFile},
			{Name: "month", Usage: "month to preview as YYYY-MM (default: current month)"},
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			month, _ := cmd.Flags().GetString("month")
			return runPlan(cmd, configFile, month, deps.now())
		},
	}.Build()
}

func runPlan(cmd *cobra.Command, configFile, month string, now time.Time) error {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return err
	}

	start, err := attendance.ParseMonth(month, now)
	if err != nil {
		return err
	}
	days, err := attendance.Weekdays(start.Year(), start.Month(), start.Location())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "Attendance plan for %s\n", Primary(start.Format("January 2006")))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Day", "Submits"})

	counts := map[attendance.Path]int{}
	weekdayLabels := make(map[string]bool, len(days))
	for _, d := range days {
		label := attendance.Label(d)
		weekdayLabels[label] = true
		path := attendance.Classify(label, cfg.Holidays, cfg.Remote)
		counts[path]++
		t.AppendRow(table.Row{d.Format("Mon Jan _2"), label, PathText(path, describePath(path))})
	}
	t.AppendFooter(table.Row{"", len(days), pathCounts(func(p attendance.Path) int { return counts[p] })})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.Render()

	if unused := unmatchedLabels(weekdayLabels, cfg.Holidays, cfg.Remote); len(unused) > 0 {
		_, _ = fmt.Fprintf(w, "%s\n", Warning(fmt.Sprintf("not a weekday in %s: %s",
			start.Format("January 2006"), strings.Join(unused, ", "))))
	}
	return nil
}

func describePath(p attendance.Path) string {
	switch p {
	case attendance.Holiday:
		return "paid leave"
	case attendance.Remote:
		return "remote + standard shift"
	default:
		return "standard shift"
	}
}

// unmatchedLabels lists configured labels that no weekday of the month carries.
func unmatchedLabels(weekdays map[string]bool, sets ...attendance.DaySet) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range sets {
		for _, l := range s.Labels() {
			if weekdays[l] || seen[l] {
				continue
			}
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ryota970728/attendanceBot/internal/attendance"
	"github.com/ryota970728/attendanceBot/internal/record"
	"github.com/spf13/cobra"
)

type historyDeps struct {
	homeDir func() (string, error)
	now     func() time.Time
}

func defaultHistoryDeps() historyDeps {
	return historyDeps{homeDir: os.UserHomeDir, now: time.Now}
}

func newHistoryCmd(deps historyDeps) *cobra.Command {
	return LeafCommand{
		Use:   "history",
		Short: "List the days submitted in a month",
		BoolFlags: []BoolFlag{
			{Name: "months", Usage: "list the months that have recorded submissions"},
		},
		StrFlags: []StringFlag{
			{Name: "month", Usage: "month as YYYY-MM (default: current month)"},
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			homeDir, err := deps.homeDir()
			if err != nil {
				return err
			}
			listMonths, _ := cmd.Flags().GetBool("months")
			if listMonths {
				return runHistoryMonths(cmd, homeDir)
			}
			month, _ := cmd.Flags().GetString("month")
			return runHistory(cmd, homeDir, month, deps.now())
		},
	}.Build()
}

func runHistory(cmd *cobra.Command, homeDir, month string, now time.Time) error {
	start, err := attendance.ParseMonth(month, now)
	if err != nil {
		return err
	}
	key := start.Format(record.MonthLayout)

	records, err := record.ReadMonth(homeDir, key)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(records) == 0 {
		_, _ = fmt.Fprintf(w, "no submissions recorded for %s\n", key)
		return nil
	}

	_, _ = fmt.Fprintf(w, "Submissions for %s\n", Primary(start.Format("January 2006")))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Day", "Path", "Submitted"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.Day, PathName(r.Path), r.SubmittedAt.Local().Format("2006-01-02 15:04")})
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.Render()
	return nil
}

func runHistoryMonths(cmd *cobra.Command, homeDir string) error {
	months, err := record.Months(homeDir)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(months) == 0 {
		_, _ = fmt.Fprintln(w, "no submissions recorded")
		return nil
	}
	for _, m := range months {
		_, _ = fmt.Fprintln(w, m)
	}
	return nil
}

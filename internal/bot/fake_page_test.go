package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ryota970728/attendanceBot/internal/attendance"
	"github.com/ryota970728/attendanceBot/internal/browser"
	"github.com/ryota970728/attendanceBot/internal/config"
)

const testLoginURL = "http://timesheet.test/staffLogin"

// fakeSubmission is one press of the submit button on the simulated page.
type fakeSubmission struct {
	Day        string
	Selections []Selection
}

// fakePage simulates the attendance page: a table of rows, a per-day entry
// form opened by clicking a date marker, and a submit button.
type fakePage struct {
	rows []browser.Row
	// tableGone makes the table never render.
	tableGone bool
	// goneAfter makes the table stop rendering after that many submissions.
	goneAfter int
	// recolor greys out a row once its day is submitted, like the live site.
	recolor bool
	// fail injects errors keyed by "Op" or "Op:detail".
	fail map[string]error
	// panicOn panics in the named operation.
	panicOn string

	calls       []string
	frame       string
	openRow     int
	openDay     string
	selections  []Selection
	submitted   []fakeSubmission
	clickedRows []int
	rowsCalls   int
	closeCount  int
}

func newFakePage(rows ...browser.Row) *fakePage {
	return &fakePage{rows: rows, openRow: -1, fail: map[string]error{}}
}

func (f *fakePage) check(ctx context.Context, op, detail string) error {
	f.calls = append(f.calls, op+":"+detail)
	if f.panicOn == op {
		panic("simulated crash in " + op)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := f.fail[op+":"+detail]; ok {
		return err
	}
	if err, ok := f.fail[op]; ok {
		return err
	}
	return nil
}

func (f *fakePage) tableRendered() bool {
	if f.tableGone {
		return false
	}
	return f.goneAfter == 0 || len(f.submitted) < f.goneAfter
}

func (f *fakePage) Navigate(ctx context.Context, url string) error {
	f.frame = ""
	return f.check(ctx, "Navigate", url)
}

func (f *fakePage) Fill(ctx context.Context, name, value string) error {
	return f.check(ctx, "Fill", name+"="+value)
}

func (f *fakePage) Click(ctx context.Context, name string) error {
	return f.check(ctx, "Click", name)
}

func (f *fakePage) ClickLink(ctx context.Context, text string) error {
	return f.check(ctx, "ClickLink", text)
}

func (f *fakePage) SwitchFrame(ctx context.Context, name string) error {
	if err := f.check(ctx, "SwitchFrame", name); err != nil {
		return err
	}
	f.frame = name
	return nil
}

func (f *fakePage) WaitFor(ctx context.Context, xpath string, _ time.Duration) error {
	if err := f.check(ctx, "WaitFor", xpath); err != nil {
		return err
	}
	if xpath == TableXPath {
		if !f.tableRendered() {
			return fmt.Errorf("%w: %s", browser.ErrNotFound, xpath)
		}
		return nil
	}
	if f.openDay == "" {
		return fmt.Errorf("%w: %s (no entry form open)", browser.ErrNotFound, xpath)
	}
	return nil
}

func (f *fakePage) Rows(ctx context.Context, tableXPath string) ([]browser.Row, error) {
	if err := f.check(ctx, "Rows", tableXPath); err != nil {
		return nil, err
	}
	f.rowsCalls++
	if !f.tableRendered() {
		return nil, browser.ErrNotFound
	}
	out := make([]browser.Row, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakePage) ClickCell(ctx context.Context, _ string, row, cell int) error {
	if err := f.check(ctx, "ClickCell", fmt.Sprintf("%d,%d", row, cell)); err != nil {
		return err
	}
	if row >= len(f.rows) || cell >= len(f.rows[row].Cells) {
		return fmt.Errorf("%w: cell %d,%d", browser.ErrNotFound, row, cell)
	}
	f.openRow = row
	f.openDay = f.rows[row].Cells[cell].Text
	f.selections = nil
	f.clickedRows = append(f.clickedRows, row)
	return nil
}

func (f *fakePage) ClickXPath(ctx context.Context, xpath string) error {
	if err := f.check(ctx, "ClickXPath", xpath); err != nil {
		return err
	}
	if xpath != SubmitButtonXPath || f.openDay == "" {
		return fmt.Errorf("%w: %s", browser.ErrNotFound, xpath)
	}
	f.submitted = append(f.submitted, fakeSubmission{Day: f.openDay, Selections: f.selections})
	if f.recolor {
		f.rows[f.openRow].BGColor = "#C0C0C0"
	}
	f.openDay = ""
	f.openRow = -1
	f.selections = nil
	return nil
}

func (f *fakePage) Select(ctx context.Context, name, value string) error {
	if err := f.check(ctx, "Select", name+"="+value); err != nil {
		return err
	}
	if f.openDay == "" {
		return fmt.Errorf("%w: select %s", browser.ErrNotFound, name)
	}
	f.selections = append(f.selections, Selection{Field: name, Value: value})
	return nil
}

func (f *fakePage) Close() error {
	f.closeCount++
	return nil
}

func (f *fakePage) submittedDays() []string {
	days := make([]string, len(f.submitted))
	for i, s := range f.submitted {
		days[i] = s.Day
	}
	return days
}

func (f *fakePage) called(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// weekdayRow renders a day the way the attendance table does: a white row
// whose first cell is the blue date marker.
func weekdayRow(day int) browser.Row {
	return browser.Row{
		BGColor: WeekdayRowColor,
		Cells: []browser.Cell{
			{BGColor: DateMarkerColor, Text: strconv.Itoa(day)},
			{Text: "(平日)"},
			{Text: ""},
		},
	}
}

func weekendRow(day int) browser.Row {
	return browser.Row{
		BGColor: "#FFCCCC",
		Cells: []browser.Cell{
			{BGColor: DateMarkerColor, Text: strconv.Itoa(day)},
			{Text: "(土)"},
		},
	}
}

func headerRow() browser.Row {
	return browser.Row{Cells: []browser.Cell{{Text: "日付"}, {Text: "勤務"}}}
}

func weekdayRows(from, to int) []browser.Row {
	rows := []browser.Row{headerRow()}
	for d := from; d <= to; d++ {
		rows = append(rows, weekdayRow(d))
	}
	return rows
}

func testConfig(holiday, remote string) *config.Config {
	return &config.Config{
		Credentials: config.Credentials{CompanyCode: "acme", UserID: "u123", Password: "secret"},
		Holidays:    attendance.ParseDaySet(holiday),
		Remote:      attendance.ParseDaySet(remote),
		LoginURL:    testLoginURL,
		Timing:      config.Timing{TableTimeout: time.Second, StepTimeout: time.Second},
	}
}

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func newTestDriver(t *testing.T, cfg *config.Config, page browser.Page) *Driver {
	t.Helper()
	return New(cfg, page, Options{
		Now:   func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) },
		Sleep: noSleep,
	})
}

package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryota970728/attendanceBot/internal/attendance"
	"github.com/ryota970728/attendanceBot/internal/browser"
)

// target is the date marker cell of the next day to submit.
type target struct {
	row  int
	cell int
	day  string
}

// nextDay finds the first weekday row holding a date marker whose day is not in done.
// Rows are scanned from the top every time.
func nextDay(rows []browser.Row, done map[string]bool) (target, bool) {
	for i, row := range rows {
		if row.BGColor != WeekdayRowColor {
			continue
		}
		for j, cell := range row.Cells {
			if cell.BGColor != DateMarkerColor {
				continue
			}
			if done[cell.Text] {
				break
			}
			return target{row: i, cell: j, day: cell.Text}, true
		}
	}
	return target{}, false
}

// SubmitAll submits every eligible day of the attendance table. The table is
// re-read after each submission because the page re-renders it. Iteration
// ends without error once the table no longer renders or no unsubmitted
// weekday is left.
func (d *Driver) SubmitAll(ctx context.Context) (Summary, error) {
	var summary Summary
	done := make(map[string]bool)

	for {
		if err := d.LocateTable(ctx); err != nil {
			if errors.Is(err, ErrTableNotFound) {
				d.log.Info("attendance table gone, nothing left to submit")
				return summary, nil
			}
			return summary, err
		}

		rows, err := d.page.Rows(ctx, TableXPath)
		if errors.Is(err, browser.ErrNotFound) {
			d.log.Info("attendance table gone, nothing left to submit")
			return summary, nil
		}
		if err != nil {
			return summary, fmt.Errorf("read attendance table: %w", err)
		}

		next, ok := nextDay(rows, done)
		if !ok {
			d.log.Info("no weekdays left to submit", "submitted", len(summary.Submissions))
			return summary, nil
		}

		sub, err := d.submitCell(ctx, next)
		if err != nil {
			return summary, err
		}
		done[next.day] = true
		summary.Submissions = append(summary.Submissions, sub)

		if d.onSubmit != nil {
			if err := d.onSubmit(sub); err != nil {
				d.log.Warn("recording submission", "day", sub.Day, "err", err)
			}
		}
	}
}

func (d *Driver) submitCell(ctx context.Context, t target) (Submission, error) {
	d.log.Info("opening day", "day", t.day)

	if err := d.page.ClickCell(ctx, TableXPath, t.row, t.cell); err != nil {
		return Submission{}, fmt.Errorf("%w: day %s: open entry form: %w", ErrSubmission, t.day, err)
	}
	if err := d.settle(ctx); err != nil {
		return Submission{}, fmt.Errorf("%w: day %s: %w", ErrSubmission, t.day, err)
	}

	path, err := d.SubmitDay(ctx, t.day)
	if err != nil {
		return Submission{}, err
	}

	if err := d.settle(ctx); err != nil {
		return Submission{}, fmt.Errorf("%w: day %s: %w", ErrSubmission, t.day, err)
	}
	return Submission{Day: t.day, Path: path, At: d.now()}, nil
}

// SubmitDay fills in the open entry form for day and registers it.
// Each control is awaited before it is used, and the page is given time to
// settle after each selection.
func (d *Driver) SubmitDay(ctx context.Context, day string) (attendance.Path, error) {
	path := attendance.Classify(day, d.cfg.Holidays, d.cfg.Remote)
	d.log.Info("submitting day", "day", day, "path", path.String())

	timeout := d.cfg.Timing.StepTimeout
	for _, sel := range Selections(path) {
		if err := d.page.WaitFor(ctx, controlXPath(sel.Field), timeout); err != nil {
			return path, fmt.Errorf("%w: day %s: wait for %s: %w", ErrSubmission, day, sel.Field, err)
		}
		if err := d.page.Select(ctx, sel.Field, sel.Value); err != nil {
			return path, fmt.Errorf("%w: day %s: select %s=%s: %w", ErrSubmission, day, sel.Field, sel.Value, err)
		}
		d.log.Debug("selected", "field", sel.Field, "value", sel.Value)
		if err := d.settle(ctx); err != nil {
			return path, fmt.Errorf("%w: day %s: %w", ErrSubmission, day, err)
		}
	}

	if err := d.page.WaitFor(ctx, SubmitButtonXPath, timeout); err != nil {
		return path, fmt.Errorf("%w: day %s: wait for submit button: %w", ErrSubmission, day, err)
	}
	if err := d.page.ClickXPath(ctx, SubmitButtonXPath); err != nil {
		return path, fmt.Errorf("%w: day %s: click submit: %w", ErrSubmission, day, err)
	}
	return path, nil
}

// Package bot fills in the monthly attendance form of the Digisheet staff
// portal, one weekday at a time.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ryota970728/attendanceBot/internal/attendance"
	"github.com/ryota970728/attendanceBot/internal/browser"
	"github.com/ryota970728/attendanceBot/internal/config"
)

// Submission is one day written to the timesheet.
type Submission struct {
	Day  string
	Path attendance.Path
	At   time.Time
}

// Summary lists the submissions of a run in the order they were made.
type Summary struct {
	Submissions []Submission
}

// Count returns how many submissions took path p.
func (s Summary) Count(p attendance.Path) int {
	n := 0
	for _, sub := range s.Submissions {
		if sub.Path == p {
			n++
		}
	}
	return n
}

// Options holds the driver's optional collaborators.
type Options struct {
	Logger *slog.Logger
	// OnSubmit is called after every submitted day. Its error is logged only.
	OnSubmit func(Submission) error
	Now      func() time.Time
	Sleep    func(ctx context.Context, d time.Duration) error
}

// Driver owns one browser session for its whole lifetime.
type Driver struct {
	cfg      *config.Config
	page     browser.Page
	log      *slog.Logger
	onSubmit func(Submission) error
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	closeOnce sync.Once
	closeErr  error
}

// New creates a driver for an already opened page.
func New(cfg *config.Config, page browser.Page, opts Options) *Driver {
	d := &Driver{
		cfg:      cfg,
		page:     page,
		log:      opts.Logger,
		onSubmit: opts.OnSubmit,
		now:      opts.Now,
		sleep:    opts.Sleep,
	}
	if d.log == nil {
		d.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.sleep == nil {
		d.sleep = sleepContext
	}
	return d
}

// LoadFunc produces the configuration.
type LoadFunc func() (*config.Config, error)

// LaunchFunc opens a browser session for the given configuration.
type LaunchFunc func(ctx context.Context, cfg *config.Config) (browser.Page, error)

// Initialize loads the configuration and then opens the browser session.
// When either step fails no session is left open.
func Initialize(ctx context.Context, load LoadFunc, launch LaunchFunc, opts Options) (*Driver, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	page, err := launch(ctx, cfg)
	if err != nil {
		if page != nil {
			_ = page.Close()
		}
		return nil, fmt.Errorf("%w: open browser: %w", ErrInitialization, err)
	}
	return New(cfg, page, opts), nil
}

// Run logs in, opens the attendance page and submits every eligible day.
// The browser session is closed exactly once, however Run ends.
func (d *Driver) Run(ctx context.Context) (summary Summary, err error) {
	defer func() {
		if cerr := d.Close(); cerr != nil {
			d.log.Warn("closing browser", "err", cerr)
		}
	}()

	if err := d.Login(ctx); err != nil {
		return summary, err
	}
	if err := d.NavigateToAttendance(ctx); err != nil {
		return summary, err
	}
	return d.SubmitAll(ctx)
}

// Close releases the browser session. Only the first call reaches the page.
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.page.Close()
	})
	return d.closeErr
}

// Login fills in the login form and submits it. Whether the login was
// accepted is not checked here; a rejected login surfaces as a navigation error.
func (d *Driver) Login(ctx context.Context) error {
	creds := d.cfg.Credentials
	d.log.Info("logging in", "url", d.cfg.LoginURL, "company", creds.CompanyCode, "user", creds.UserID)

	if err := d.page.Navigate(ctx, d.cfg.LoginURL); err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrLogin, d.cfg.LoginURL, err)
	}

	fields := []struct {
		name  string
		value string
	}{
		{FieldCompanyCode, creds.CompanyCode},
		{FieldUserID, creds.UserID},
		{FieldPassword, creds.Password},
	}
	for _, f := range fields {
		if err := d.page.Fill(ctx, f.name, f.value); err != nil {
			return fmt.Errorf("%w: fill %s: %w", ErrLogin, f.name, err)
		}
	}

	if err := d.page.Click(ctx, LoginButton); err != nil {
		return fmt.Errorf("%w: click %s: %w", ErrLogin, LoginButton, err)
	}
	if err := d.settle(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}
	return nil
}

// NavigateToAttendance opens the monthly attendance page from the menu frame.
func (d *Driver) NavigateToAttendance(ctx context.Context) error {
	d.log.Info("opening attendance page")

	if err := d.page.SwitchFrame(ctx, MenuFrame); err != nil {
		return fmt.Errorf("%w: frame %s: %w", ErrNavigation, MenuFrame, err)
	}
	if err := d.page.ClickLink(ctx, AttendanceLinkText); err != nil {
		return fmt.Errorf("%w: link %s: %w", ErrNavigation, AttendanceLinkText, err)
	}
	if err := d.settle(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNavigation, err)
	}
	if err := d.page.SwitchFrame(ctx, MainFrame); err != nil {
		return fmt.Errorf("%w: frame %s: %w", ErrNavigation, MainFrame, err)
	}
	return nil
}

// LocateTable waits for the attendance table to render.
func (d *Driver) LocateTable(ctx context.Context) error {
	err := d.page.WaitFor(ctx, TableXPath, d.cfg.Timing.TableTimeout)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, browser.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrTableNotFound, err)
	default:
		return fmt.Errorf("%w: locate attendance table: %w", ErrNavigation, err)
	}
}

func (d *Driver) settle(ctx context.Context) error {
	return d.sleep(ctx, d.cfg.Timing.Settle)
}

func sleepContext(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

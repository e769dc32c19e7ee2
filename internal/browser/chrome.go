package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

const pollInterval = 100 * time.Millisecond

// Options configures the Chrome process.
type Options struct {
	Headless bool
	ExecPath string
	// NoSandbox disables Chrome's sandbox, which refuses to start as root.
	NoSandbox bool
	// FrameTimeout bounds SwitchFrame's wait for the frame document.
	FrameTimeout time.Duration
	Logger       *slog.Logger
}

var _ Page = (*Chrome)(nil)

// Chrome is a Page backed by a Chrome process driven over the DevTools protocol.
type Chrome struct {
	ctx          context.Context
	cancelTab    context.CancelFunc
	cancelAlloc  context.CancelFunc
	frame        string
	frameTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

// Launch starts Chrome and opens a blank tab.
func Launch(ctx context.Context, opts Options) (*Chrome, error) {
	if opts.FrameTimeout <= 0 {
		opts.FrameTimeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(1280, 1024),
	)
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("disable-gpu", true))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), "source", "chromedp")
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), "source", "chromedp")
		}),
	)

	// An empty Run starts the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &Chrome{
		ctx:          tabCtx,
		cancelTab:    cancelTab,
		cancelAlloc:  cancelAlloc,
		frameTimeout: opts.FrameTimeout,
	}, nil
}

// run executes actions on the tab, aborting early if ctx is cancelled.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// exec evaluates a script that returns "" on success or a description of
// the element it could not find.
func (c *Chrome) exec(ctx context.Context, script string) error {
	var missing string
	if err := c.run(ctx, chromedp.Evaluate(script, &missing)); err != nil {
		return err
	}
	if missing != "" {
		return fmt.Errorf("%w: %s", ErrNotFound, missing)
	}
	return nil
}

// poll waits for a predicate expression to become truthy. Evaluation errors
// caused by the document navigating away are retried until timeout.
func (c *Chrome) poll(ctx context.Context, expr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrNotFound
		}

		var ok bool
		err := c.run(ctx, chromedp.Poll(expr, &ok,
			chromedp.WithPollingTimeout(remaining),
			chromedp.WithPollingInterval(pollInterval),
		))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, chromedp.ErrPollingTimeout):
			return ErrNotFound
		case ctx.Err() != nil:
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (c *Chrome) doc() string {
	return documentExpr(c.frame)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	c.frame = ""
	return c.run(ctx, chromedp.Navigate(url))
}

func (c *Chrome) Fill(ctx context.Context, name, value string) error {
	return c.exec(ctx, call(fillScript, c.doc(), jsString(name), jsString(value)))
}

func (c *Chrome) Click(ctx context.Context, name string) error {
	return c.exec(ctx, call(clickNamedScript, c.doc(), jsString(name)))
}

func (c *Chrome) ClickLink(ctx context.Context, text string) error {
	return c.exec(ctx, call(clickLinkScript, c.doc(), jsString(text)))
}

func (c *Chrome) ClickXPath(ctx context.Context, xpath string) error {
	return c.exec(ctx, call(clickXPathScript, c.doc(), jsString(xpath)))
}

// SwitchFrame always resolves name from the top document, then waits
// until the frame has finished loading.
func (c *Chrome) SwitchFrame(ctx context.Context, name string) error {
	c.frame = ""
	if err := c.poll(ctx, call(frameReadyScript, jsString(name)), c.frameTimeout); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: frame %q", ErrNotFound, name)
		}
		return err
	}
	c.frame = name
	return nil
}

func (c *Chrome) WaitFor(ctx context.Context, xpath string, timeout time.Duration) error {
	if err := c.poll(ctx, call(xpathPresentScript, jsString(c.frame), jsString(xpath)), timeout); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, xpath)
		}
		return err
	}
	return nil
}

type tableSnapshot struct {
	Found bool  `json:"found"`
	Rows  []Row `json:"rows"`
}

func (c *Chrome) Rows(ctx context.Context, tableXPath string) ([]Row, error) {
	var snap tableSnapshot
	if err := c.run(ctx, chromedp.Evaluate(call(rowsScript, c.doc(), jsString(tableXPath)), &snap)); err != nil {
		return nil, err
	}
	if !snap.Found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tableXPath)
	}
	return snap.Rows, nil
}

func (c *Chrome) ClickCell(ctx context.Context, tableXPath string, row, cell int) error {
	return c.exec(ctx, call(clickCellScript, c.doc(), jsString(tableXPath), fmt.Sprint(row), fmt.Sprint(cell)))
}

func (c *Chrome) Select(ctx context.Context, name, value string) error {
	return c.exec(ctx, call(selectScript, c.doc(), jsString(name), jsString(value)))
}

// Close shuts the browser down. Only the first call does any work.
func (c *Chrome) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = chromedp.Cancel(c.ctx)
		c.cancelTab()
		c.cancelAlloc()
	})
	return c.closeErr
}

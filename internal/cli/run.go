package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ryota970728/attendanceBot/internal/attendance"
	"github.com/ryota970728/attendanceBot/internal/bot"
	"github.com/ryota970728/attendanceBot/internal/browser"
	"github.com/ryota970728/attendanceBot/internal/config"
	"github.com/ryota970728/attendanceBot/internal/record"
	"github.com/spf13/cobra"
)

var errDeclined = errors.New("submission declined")

// runDeps bundles all side-effects of the run command for testability.
type runDeps struct {
	loadConfig func(opts config.Options) (*config.Config, error)
	launch     func(logger *slog.Logger) bot.LaunchFunc
	homeDir    func() (string, error)
	now        func() time.Time
	isTTY      func() bool
	confirm    ConfirmFunc
	sleep      func(ctx context.Context, d time.Duration) error
}

func defaultRunDeps() runDeps {
	return runDeps{
		loadConfig: config.Load,
		launch:     launchChrome,
		homeDir:    os.UserHomeDir,
		now:        time.Now,
		isTTY:      stdoutIsTTY,
		confirm:    NewConfirmFunc(),
	}
}

func launchChrome(logger *slog.Logger) bot.LaunchFunc {
	return func(ctx context.Context, cfg *config.Config) (browser.Page, error) {
		chrome, err := browser.Launch(ctx, browser.Options{
			Headless:     cfg.Browser.Headless,
			ExecPath:     cfg.Browser.ExecPath,
			NoSandbox:    cfg.Browser.NoSandbox,
			FrameTimeout: cfg.Timing.StepTimeout,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		return chrome, nil
	}
}

type runOptions struct {
	configFile string
	envFile    string
	headless   *bool
	yes        bool
	verbose    bool
}

func newRunCmd(deps runDeps) *cobra.Command {
	return LeafCommand{
		Use:   "run",
		Short: "Log in and submit attendance for every open weekday",
		Long: "Logs into the timesheet, opens the monthly attendance page and submits each weekday:\n" +
			"paid leave for days listed in 'holiday', remote work for days in 'work_remotely',\n" +
			"and the standard shift otherwise.",
		BoolFlags: []BoolFlag{
			{Name: "headless", Usage: "run the browser without a window (overrides [browser] headless)"},
			{Name: "yes", Shorthand: "y", Usage: "submit without asking for confirmation"},
			{Name: "verbose", Shorthand: "v", Usage: "log every browser interaction"},
		},
		StrFlags: []StringFlag{
			{Name: "config", Usage: "path to the INI configuration file", Default: config.DefaultConfigFile},
			{Name: "env", Usage: "path to the .env file holding credentials", Default: config.DefaultEnvFile},
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions{}
			opts.configFile, _ = cmd.Flags().GetString("config")
			opts.envFile, _ = cmd.Flags().GetString("env")
			opts.yes, _ = cmd.Flags().GetBool("yes")
			opts.verbose, _ = cmd.Flags().GetBool("verbose")
			if cmd.Flags().Changed("headless") {
				headless, _ := cmd.Flags().GetBool("headless")
				opts.headless = &headless
			}
			return runRun(cmd, opts, deps)
		},
	}.Build()
}

func runRun(cmd *cobra.Command, opts runOptions, deps runDeps) error {
	w := cmd.OutOrStdout()
	ctx := commandContext(cmd)
	tty := deps.isTTY()
	logger := newLogger(w, opts.verbose, tty)

	load := func() (*config.Config, error) {
		cfg, err := deps.loadConfig(config.Options{ConfigFile: opts.configFile, EnvFile: opts.envFile})
		if err != nil {
			return nil, err
		}
		if opts.headless != nil {
			c := *cfg
			c.Browser.Headless = *opts.headless
			cfg = &c
		}

		printRunPlan(cmd, cfg)
		if tty && !opts.yes {
			ok, err := deps.confirm("Submit attendance now?", confirmDescription(cfg))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errDeclined
			}
		}
		return cfg, nil
	}

	homeDir, homeErr := deps.homeDir()
	if homeErr != nil {
		logger.Warn("submissions will not be recorded", "err", homeErr)
	}

	driver, err := bot.Initialize(ctx, load, deps.launch(logger), bot.Options{
		Logger: logger,
		Now:    deps.now,
		Sleep:  deps.sleep,
		OnSubmit: func(s bot.Submission) error {
			if homeErr != nil {
				return nil
			}
			return record.Write(homeDir, record.New(s.Day, s.Path.String(), s.At))
		},
	})
	if errors.Is(err, errDeclined) {
		_, _ = fmt.Fprintln(w, Warning("cancelled, nothing was submitted"))
		return nil
	}
	if err != nil {
		return err
	}

	summary, err := driver.Run(ctx)
	printRunSummary(cmd, summary)
	return err
}

func printRunPlan(cmd *cobra.Command, cfg *config.Config) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s %s\n", Label("Login:"), Primary(cfg.Credentials.UserID+" @ "+cfg.Credentials.CompanyCode))
	_, _ = fmt.Fprintf(w, "%s %s\n", Label("Holiday:"), PathText(attendance.Holiday, labelsOrNone(cfg.Holidays)))
	_, _ = fmt.Fprintf(w, "%s %s\n", Label("Remote:"), PathText(attendance.Remote, labelsOrNone(cfg.Remote)))
}

// confirmDescription says where the run submits and how many listed days it covers.
func confirmDescription(cfg *config.Config) string {
	return fmt.Sprintf("Every open weekday on %s is submitted: %d holiday and %d remote day(s) listed, the rest as standard shift.",
		cfg.LoginURL, cfg.Holidays.Len(), cfg.Remote.Len())
}

func labelsOrNone(s attendance.DaySet) string {
	if s.Len() == 0 {
		return "none"
	}
	return s.String()
}

func printRunSummary(cmd *cobra.Command, summary bot.Summary) {
	w := cmd.OutOrStdout()
	n := len(summary.Submissions)
	if n == 0 {
		_, _ = fmt.Fprintln(w, "no days submitted")
		return
	}
	_, _ = fmt.Fprintf(w, "submitted %d day(s): %s\n", n, pathCounts(summary.Count))
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	"github.com/ryota970728/attendanceBot/internal/attendance"
)

const (
	DefaultConfigFile = "config.ini"
	DefaultEnvFile    = ".env"
	DefaultLoginURL   = "https://vsn.digisheet.com/staffLogin"

	EnvCompanyCode = "USER_CD"
	EnvUserID      = "USER_ID"
	EnvPassword    = "USER_PASSWORD"
)

// ErrInvalid is wrapped by every error Load returns.
var ErrInvalid = errors.New("invalid configuration")

// Credentials are the three login fields of the timesheet.
type Credentials struct {
	CompanyCode string
	UserID      string
	Password    string
}

// Browser controls how the browser session is launched.
type Browser struct {
	Headless bool
	ExecPath string
	// NoSandbox is needed to run Chrome as root, e.g. in a container.
	NoSandbox bool
}

// Timing bounds every wait the driver performs.
type Timing struct {
	// TableTimeout bounds the wait for the attendance table.
	TableTimeout time.Duration
	// StepTimeout bounds the wait for frames, forms, and controls.
	StepTimeout time.Duration
	// Settle is the pause after an interaction that makes the page re-render.
	Settle time.Duration
}

// DefaultTiming mirrors the timings the timesheet has been driven with so far.
func DefaultTiming() Timing {
	return Timing{
		TableTimeout: 10 * time.Second,
		StepTimeout:  10 * time.Second,
		Settle:       time.Second,
	}
}

// Config is read once at startup and never modified afterwards.
type Config struct {
	Credentials Credentials
	Holidays    attendance.DaySet
	Remote      attendance.DaySet
	LoginURL    string
	Browser     Browser
	Timing      Timing
}

// Options locates the configuration sources.
type Options struct {
	ConfigFile string
	EnvFile    string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Load reads credentials from the environment (falling back to the .env file)
// and the day lists and settings from the INI file.
func Load(opts Options) (*Config, error) {
	if opts.ConfigFile == "" {
		opts.ConfigFile = DefaultConfigFile
	}
	if opts.EnvFile == "" {
		opts.EnvFile = DefaultEnvFile
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	creds, err := loadCredentials(opts.EnvFile, opts.LookupEnv)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Credentials = creds
	return cfg, nil
}

// LoadFile reads the INI file only. The returned Config has no credentials.
func LoadFile(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
	}

	sec, err := f.GetSection("attendance")
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no [attendance] section", ErrInvalid, path)
	}

	cfg := &Config{
		Holidays: attendance.ParseDaySet(sec.Key("holiday").String()),
		Remote:   attendance.ParseDaySet(sec.Key("work_remotely").String()),
		LoginURL: DefaultLoginURL,
		Timing:   DefaultTiming(),
	}

	if site, err := f.GetSection("site"); err == nil {
		if u := strings.TrimSpace(site.Key("login_url").String()); u != "" {
			cfg.LoginURL = u
		}
	}

	if b, err := f.GetSection("browser"); err == nil {
		flags := []struct {
			key string
			dst *bool
		}{
			{"headless", &cfg.Browser.Headless},
			{"no_sandbox", &cfg.Browser.NoSandbox},
		}
		for _, fl := range flags {
			if !b.HasKey(fl.key) {
				continue
			}
			v, err := b.Key(fl.key).Bool()
			if err != nil {
				return nil, fmt.Errorf("%w: browser.%s: %v", ErrInvalid, fl.key, err)
			}
			*fl.dst = v
		}
		cfg.Browser.ExecPath = strings.TrimSpace(b.Key("exec_path").String())
	}

	if tm, err := f.GetSection("timing"); err == nil {
		durations := []struct {
			key string
			dst *time.Duration
		}{
			{"table_timeout", &cfg.Timing.TableTimeout},
			{"step_timeout", &cfg.Timing.StepTimeout},
			{"settle", &cfg.Timing.Settle},
		}
		for _, d := range durations {
			if !tm.HasKey(d.key) {
				continue
			}
			v, err := tm.Key(d.key).Duration()
			if err != nil {
				return nil, fmt.Errorf("%w: timing.%s: %v", ErrInvalid, d.key, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: timing.%s must not be negative", ErrInvalid, d.key)
			}
			*d.dst = v
		}
	}

	return cfg, nil
}

func loadCredentials(envFile string, lookup func(string) (string, bool)) (Credentials, error) {
	fileEnv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Credentials{}, fmt.Errorf("%w: read %s: %v", ErrInvalid, envFile, err)
	}

	get := func(key string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fileEnv[key]
	}

	creds := Credentials{
		CompanyCode: get(EnvCompanyCode),
		UserID:      get(EnvUserID),
		Password:    get(EnvPassword),
	}

	var missing []string
	if creds.CompanyCode == "" {
		missing = append(missing, EnvCompanyCode)
	}
	if creds.UserID == "" {
		missing = append(missing, EnvUserID)
	}
	if creds.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}
	return creds, nil
}

// Package record keeps a local history of the days submitted to the timesheet.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ryota970728/attendanceBot/internal/hashutil"
)

// MonthLayout is the time layout of record month keys.
const MonthLayout = "2006-01"

// Record is one submitted day.
type Record struct {
	ID          string    `json:"id"`
	Month       string    `json:"month"`
	Day         string    `json:"day"`
	Path        string    `json:"path"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// New builds a record for a day submitted at the given time. The month key is
// taken from the submission time.
func New(day, path string, at time.Time) Record {
	month := at.Format(MonthLayout)
	return Record{
		ID:          hashutil.ID(month, day, at.Format(time.RFC3339Nano)),
		Month:       month,
		Day:         day,
		Path:        path,
		SubmittedAt: at,
	}
}

// BaseDir returns the directory holding all records.
func BaseDir(homeDir string) string {
	return filepath.Join(homeDir, ".attendbot", "records")
}

// MonthDir returns the directory holding one month's records.
func MonthDir(homeDir, month string) string {
	return filepath.Join(BaseDir(homeDir), month)
}

// Write stores a record, creating its month directory if needed.
func Write(homeDir string, r Record) error {
	if r.ID == "" || r.Month == "" {
		return fmt.Errorf("record for day '%s' has no id or month", r.Day)
	}

	dir := MonthDir(homeDir, r.Month)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, r.ID), data, 0644)
}

// ReadMonth returns a month's records ordered by submission time.
// A month without records yields nil and no error.
func ReadMonth(homeDir, month string) ([]Record, error) {
	dir := MonthDir(homeDir, month)
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}

		// A corrupted file shouldn't hide the rest of the month.
		var r Record
		if err := json.Unmarshal(data, &r); err != nil || r.ID == "" {
			continue
		}
		records = append(records, r)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SubmittedAt.Before(records[j].SubmittedAt)
	})
	return records, nil
}

// Months lists the months that have records, oldest first.
func Months(homeDir string) ([]string, error) {
	entries, err := os.ReadDir(BaseDir(homeDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var months []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(MonthLayout, e.Name()); err != nil {
			continue
		}
		months = append(months, e.Name())
	}
	sort.Strings(months)
	return months, nil
}

package attendance

import (
	"sort"
	"strconv"
	"strings"
)

// DaySet is an immutable set of day-of-month labels, e.g. "5" or "12".
// Labels are compared by exact text equality with what the timesheet renders.
type DaySet struct {
	labels map[string]struct{}
}

// ParseDaySet parses a comma-separated list of day labels.
// Items are trimmed and empty items are dropped, so "5, 6,," yields {"5", "6"}.
func ParseDaySet(s string) DaySet {
	labels := make(map[string]struct{})
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		labels[item] = struct{}{}
	}
	return DaySet{labels: labels}
}

// Has reports whether day is in the set.
func (s DaySet) Has(day string) bool {
	_, ok := s.labels[day]
	return ok
}

// Len returns the number of labels in the set.
func (s DaySet) Len() int {
	return len(s.labels)
}

// Labels returns the labels sorted numerically, with non-numeric labels last in lexical order.
func (s DaySet) Labels() []string {
	out := make([]string, 0, len(s.labels))
	for l := range s.labels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return out[i] < out[j]
	})
	return out
}

// String renders the set as a comma-separated list in label order.
func (s DaySet) String() string {
	return strings.Join(s.Labels(), ",")
}

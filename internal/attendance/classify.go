package attendance

// Path is the kind of attendance submitted for a single day.
type Path int

const (
	Standard Path = iota
	Holiday
	Remote
)

func (p Path) String() string {
	switch p {
	case Holiday:
		return "holiday"
	case Remote:
		return "remote"
	default:
		return "standard"
	}
}

// Classify picks the submission path for a day label.
// Holidays are checked first, so a label in both sets is a holiday.
func Classify(day string, holidays, remote DaySet) Path {
	if holidays.Has(day) {
		return Holiday
	}
	if remote.Has(day) {
		return Remote
	}
	return Standard
}

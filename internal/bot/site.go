package bot

import "github.com/ryota970728/attendanceBot/internal/attendance"

// Markup of the Digisheet staff portal. Every value here is matched verbatim.
const (
	FieldCompanyCode = "HC"
	FieldUserID      = "UI"
	FieldPassword    = "Pw"
	LoginButton      = "loginButton"

	MenuFrame          = "menu"
	MainFrame          = "main"
	AttendanceLinkText = "勤務報告"

	TableXPath = "/html/body/form/table/tbody/tr[7]/td/table"
	// WeekdayRowColor marks rows that accept input.
	WeekdayRowColor = "white"
	// DateMarkerColor marks the clickable cell holding the day label.
	DateMarkerColor = "#0000FF"

	SelectReport    = "AttendSecSelect"
	OptionPaidLeave = "12"

	SelectContent       = "ContentSelect"
	OptionRemoteFullDay = "0000000600"

	SelectShift  = "AttendSelect"
	OptionShiftB = "B0"

	SubmitButtonXPath = "//input[@value='登　録']"
)

// Selection is one dropdown choice on the per-day entry form.
type Selection struct {
	Field string
	Value string
}

// Selections lists the dropdown choices made for a path, in order.
// A remote day gets the remote-work choice and then the standard shift.
func Selections(p attendance.Path) []Selection {
	switch p {
	case attendance.Holiday:
		return []Selection{{SelectReport, OptionPaidLeave}}
	case attendance.Remote:
		return []Selection{{SelectContent, OptionRemoteFullDay}, {SelectShift, OptionShiftB}}
	default:
		return []Selection{{SelectShift, OptionShiftB}}
	}
}

func controlXPath(field string) string {
	return "//select[@name='" + field + "']"
}

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ryota970728/attendanceBot/internal/attendance"
)

var (
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C00")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).Width(9)
)

// pathStyles colors each kind of day the same way in every command.
var pathStyles = map[attendance.Path]lipgloss.Style{
	attendance.Standard: lipgloss.NewStyle(),
	attendance.Remote:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00CFCF")),
	attendance.Holiday:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")),
}

var pathOrder = []attendance.Path{attendance.Standard, attendance.Remote, attendance.Holiday}

func Primary(text string) string { return primaryStyle.Render(text) }
func Error(text string) string   { return errorStyle.Render(text) }
func Warning(text string) string { return warningStyle.Render(text) }

// Label renders a left-hand field label padded to a fixed column.
func Label(text string) string { return labelStyle.Render(text) }

// PathText renders text in the color of path p.
func PathText(p attendance.Path, text string) string { return pathStyles[p].Render(text) }

// PathName renders a stored path name, uncolored when it is not a known path.
func PathName(name string) string {
	for _, p := range pathOrder {
		if p.String() == name {
			return PathText(p, name)
		}
	}
	return name
}

// pathCounts renders "N standard, N remote, N holiday".
func pathCounts(count func(attendance.Path) int) string {
	parts := make([]string, len(pathOrder))
	for i, p := range pathOrder {
		parts[i] = PathText(p, fmt.Sprintf("%d %s", count(p), p))
	}
	return strings.Join(parts, ", ")
}

package cli

import (
	"github.com/charmbracelet/huh"
)

// ConfirmFunc asks a yes/no question. description is shown under the title.
type ConfirmFunc func(title, description string) (bool, error)

// NewConfirmFunc asks with huh. Submitting is never the preselected answer.
func NewConfirmFunc() ConfirmFunc {
	return func(title, description string) (bool, error) {
		var submit bool
		err := huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Submit").
			Negative("Cancel").
			Value(&submit).
			Run()
		return submit, err
	}
}

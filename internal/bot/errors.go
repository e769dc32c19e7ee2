package bot

import "errors"

var (
	ErrInitialization = errors.New("initialization failed")
	ErrLogin          = errors.New("login failed")
	ErrNavigation     = errors.New("navigation failed")
	// ErrTableNotFound means the attendance table did not render in time.
	// SubmitAll treats it as the end of the month's work, not as a failure.
	ErrTableNotFound = errors.New("attendance table not found")
	ErrSubmission    = errors.New("submission failed")
)

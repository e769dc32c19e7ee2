// Package browser drives a real browser through the operations the
// attendance workflow needs. Page is the seam tests replace with a fake.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an element or frame does not appear in time.
var ErrNotFound = errors.New("element not found")

// Cell is a snapshot of one table cell.
type Cell struct {
	BGColor string `json:"bgcolor"`
	Text    string `json:"text"`
}

// Row is a snapshot of one table row and its cells.
type Row struct {
	BGColor string `json:"bgcolor"`
	Cells   []Cell `json:"cells"`
}

// Page is one browser session. Element lookups are scoped to the frame
// selected by the last SwitchFrame, or to the top document after Navigate.
type Page interface {
	// Navigate loads url in the top document.
	Navigate(ctx context.Context, url string) error
	// Fill sets the value of the first element with the given name attribute.
	Fill(ctx context.Context, name, value string) error
	// Click clicks the first element with the given name attribute.
	Click(ctx context.Context, name string) error
	// ClickLink clicks the link whose visible text equals text.
	ClickLink(ctx context.Context, text string) error
	// ClickXPath clicks the first node matching xpath.
	ClickXPath(ctx context.Context, xpath string) error
	// SwitchFrame scopes later lookups to the named frame of the top document.
	SwitchFrame(ctx context.Context, name string) error
	// WaitFor blocks until xpath matches a node or timeout elapses (ErrNotFound).
	WaitFor(ctx context.Context, xpath string, timeout time.Duration) error
	// Rows snapshots every row under the table at tableXPath.
	Rows(ctx context.Context, tableXPath string) ([]Row, error)
	// ClickCell clicks cell j of row i, indexed like the Rows snapshot.
	ClickCell(ctx context.Context, tableXPath string, row, cell int) error
	// Select picks the option with the given value in the named select element.
	Select(ctx context.Context, name, value string) error
	// Close ends the session. Calls after the first are no-ops.
	Close() error
}

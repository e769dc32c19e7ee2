package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryota970728/attendanceBot/internal/attendance"
	"github.com/ryota970728/attendanceBot/internal/browser"
)

type mockPage struct {
	mock.Mock
}

func (m *mockPage) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *mockPage) Fill(ctx context.Context, name, value string) error {
	return m.Called(ctx, name, value).Error(0)
}

func (m *mockPage) Click(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockPage) ClickLink(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

func (m *mockPage) ClickXPath(ctx context.Context, xpath string) error {
	return m.Called(ctx, xpath).Error(0)
}

func (m *mockPage) SwitchFrame(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockPage) WaitFor(ctx context.Context, xpath string, timeout time.Duration) error {
	return m.Called(ctx, xpath, timeout).Error(0)
}

func (m *mockPage) Rows(ctx context.Context, tableXPath string) ([]browser.Row, error) {
	args := m.Called(ctx, tableXPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]browser.Row), args.Error(1)
}

func (m *mockPage) ClickCell(ctx context.Context, tableXPath string, row, cell int) error {
	return m.Called(ctx, tableXPath, row, cell).Error(0)
}

func (m *mockPage) Select(ctx context.Context, name, value string) error {
	return m.Called(ctx, name, value).Error(0)
}

func (m *mockPage) Close() error {
	return m.Called().Error(0)
}

// newFormMock accepts every wait and every selection and records the calls.
func newFormMock() *mockPage {
	m := new(mockPage)
	m.On("WaitFor", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.On("Select", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.On("ClickXPath", mock.Anything, SubmitButtonXPath).Return(nil)
	return m
}

// selected returns the Select calls in the order they were made.
func selected(m *mockPage) []Selection {
	var out []Selection
	for _, c := range m.Calls {
		if c.Method == "Select" {
			out = append(out, Selection{Field: c.Arguments.String(1), Value: c.Arguments.String(2)})
		}
	}
	return out
}

func TestSubmitDayHoliday(t *testing.T) {
	m := newFormMock()
	d := newTestDriver(t, testConfig("5,6", "10"), m)

	for _, day := range []string{"5", "6"} {
		path, err := d.SubmitDay(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, attendance.Holiday, path)
	}

	assert.Equal(t, []Selection{{SelectReport, OptionPaidLeave}, {SelectReport, OptionPaidLeave}}, selected(m))
	m.AssertNotCalled(t, "Select", mock.Anything, SelectContent, mock.Anything)
	m.AssertNotCalled(t, "Select", mock.Anything, SelectShift, mock.Anything)
	m.AssertNumberOfCalls(t, "ClickXPath", 2)
}

func TestSubmitDayRemote(t *testing.T) {
	m := newFormMock()
	d := newTestDriver(t, testConfig("5,6", "10"), m)

	path, err := d.SubmitDay(context.Background(), "10")

	require.NoError(t, err)
	assert.Equal(t, attendance.Remote, path)
	assert.Equal(t, []Selection{{SelectContent, OptionRemoteFullDay}, {SelectShift, OptionShiftB}}, selected(m))
	m.AssertNotCalled(t, "Select", mock.Anything, SelectReport, mock.Anything)
	m.AssertCalled(t, "ClickXPath", mock.Anything, SubmitButtonXPath)
}

func TestSubmitDayStandard(t *testing.T) {
	m := newFormMock()
	d := newTestDriver(t, testConfig("5,6", "10"), m)

	for _, day := range []string{"1", "4", "7", "9"} {
		path, err := d.SubmitDay(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, attendance.Standard, path)
	}

	for _, s := range selected(m) {
		assert.Equal(t, Selection{SelectShift, OptionShiftB}, s)
	}
	m.AssertNumberOfCalls(t, "Select", 4)
	m.AssertNotCalled(t, "Select", mock.Anything, SelectReport, mock.Anything)
	m.AssertNotCalled(t, "Select", mock.Anything, SelectContent, mock.Anything)
}

func TestSubmitDayHolidayWinsOverRemote(t *testing.T) {
	m := newFormMock()
	d := newTestDriver(t, testConfig("3", "3"), m)

	path, err := d.SubmitDay(context.Background(), "3")

	require.NoError(t, err)
	assert.Equal(t, attendance.Holiday, path)
	assert.Equal(t, []Selection{{SelectReport, OptionPaidLeave}}, selected(m))
}

func TestSubmitDayWaitsForEachControl(t *testing.T) {
	m := newFormMock()
	d := newTestDriver(t, testConfig("", "10"), m)

	_, err := d.SubmitDay(context.Background(), "10")
	require.NoError(t, err)

	var waited []string
	for _, c := range m.Calls {
		if c.Method == "WaitFor" {
			waited = append(waited, c.Arguments.String(1))
		}
	}
	assert.Equal(t, []string{
		controlXPath(SelectContent),
		controlXPath(SelectShift),
		SubmitButtonXPath,
	}, waited)
}

func TestSubmitDayFormNeverRenders(t *testing.T) {
	m := new(mockPage)
	m.On("WaitFor", mock.Anything, controlXPath(SelectShift), mock.Anything).Return(browser.ErrNotFound)
	d := newTestDriver(t, testConfig("", ""), m)

	_, err := d.SubmitDay(context.Background(), "1")

	assert.ErrorIs(t, err, ErrSubmission)
	assert.ErrorIs(t, err, browser.ErrNotFound)
	m.AssertNotCalled(t, "Select", mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "ClickXPath", mock.Anything, mock.Anything)
}

func TestSelections(t *testing.T) {
	assert.Equal(t, []Selection{{SelectReport, "12"}}, Selections(attendance.Holiday))
	assert.Equal(t, []Selection{{SelectContent, "0000000600"}, {SelectShift, "B0"}}, Selections(attendance.Remote))
	assert.Equal(t, []Selection{{SelectShift, "B0"}}, Selections(attendance.Standard))
}

package dialog

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionID identifies a button tap. Every keyboard button carries one, and
// the machine matches them with typed constants per state instead of raw
// string comparison.
type ActionID string

const (
	ActionAddIncome      ActionID = "add_income"
	ActionAddExpense     ActionID = "add_expense"
	ActionReports        ActionID = "reports"
	ActionBackToMain     ActionID = "back_to_main"
	ActionAddDescription ActionID = "add_description"
	ActionConfirm        ActionID = "confirm"
	ActionCancel         ActionID = "cancel"
	ActionReportToday    ActionID = "report_today"
	ActionReportWeek     ActionID = "report_week"
	ActionReportMonth    ActionID = "report_month"
	ActionReportCustom   ActionID = "report_custom"
	ActionCancelDate     ActionID = "cancel_date"
)

const categoryActionPrefix = "cat_"

// Commands arrive as free text and are handled in any state.
const (
	CommandStart  = "/start"
	CommandCancel = "/cancel"
	CommandHelp   = "/help"
)

// CategoryAction builds the action id of a category button.
func CategoryAction(id int64) ActionID {
	return ActionID(fmt.Sprintf("%s%d", categoryActionPrefix, id))
}

// CategoryID extracts the category id from a category button action.
func (a ActionID) CategoryID() (int64, bool) {
	raw, ok := strings.CutPrefix(string(a), categoryActionPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Event is one inbound user interaction: either a button tap or free text,
// never both.
type Event struct {
	action ActionID
	text   string
	tapped bool
}

// ActionEvent wraps a button tap.
func ActionEvent(a ActionID) Event {
	return Event{action: a, tapped: true}
}

// TextEvent wraps free-text input.
func TextEvent(s string) Event {
	return Event{text: s}
}

// Action returns the tapped button id, if any.
func (e Event) Action() (ActionID, bool) {
	return e.action, e.tapped
}

// Text returns the trimmed free-text input, if any.
func (e Event) Text() (string, bool) {
	if e.tapped {
		return "", false
	}
	return strings.TrimSpace(e.text), true
}

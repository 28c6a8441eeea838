// Package session holds the per-user working memory of an in-progress
// dialogue. Sessions are explicit values: every state-machine transition
// receives one and returns the updated one, and the process-wide Store is the
// only place they live between events.
package session

import (
	"time"

	"budgetbot/internal/core"
)

// State identifies the dialogue step a user is currently in.
type State string

const (
	StateMainMenu         State = "main_menu"
	StateSelectCategory   State = "select_category"
	StateEnterAmount      State = "enter_amount"
	StateAwaitDescription State = "await_description"
	StateConfirmRecord    State = "confirm_record"
	StateReportMenu       State = "report_menu"
	StateCustomRangeStart State = "custom_range_start"
	StateCustomRangeEnd   State = "custom_range_end"
	// StateIdle marks an ended conversation; the store drops idle sessions.
	StateIdle State = "idle"
)

// Session is one user's dialogue memory. Pending fields are filled strictly
// in order: kind, then category, then amount; RangeStart is scratch data for
// the custom report range only.
type Session struct {
	UserID int64
	State  State

	PendingKind         core.Kind
	PendingCategoryID   int64
	PendingCategoryName string
	PendingAmount       core.Money
	PendingDescription  string
	// DescriptionSet distinguishes "no description yet" from an explicitly
	// entered empty one.
	DescriptionSet bool

	RangeStart time.Time
}

// New returns a fresh session at the main menu.
func New(userID int64) Session {
	return Session{UserID: userID, State: StateMainMenu}
}

// Cleared returns the session with all pending data dropped, positioned at
// the given state.
func (s Session) Cleared(state State) Session {
	return Session{UserID: s.UserID, State: state}
}

// ClearedRange drops only the custom-range scratch data.
func (s Session) ClearedRange(state State) Session {
	s.RangeStart = time.Time{}
	s.State = state
	return s
}

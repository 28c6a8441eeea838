// Package dialog implements the conversation state machine that drives the
// multi-step record and report flows. Each inbound event is applied to an
// explicit session value and yields the updated session plus an outbound
// message descriptor; no state is mutated until every store call has
// succeeded.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/report"
	"budgetbot/internal/session"
)

// Machine applies user events to sessions. It is stateless itself and safe
// for concurrent use across sessions; the caller serializes events per user.
type Machine struct {
	categories   CategoryStore
	transactions TransactionStore
	now          func() time.Time
}

// Result of one transition.
type Result struct {
	Session session.Session
	Reply   Reply
	// Recorded is set when this event committed a new transaction.
	Recorded *core.Transaction
	// Ended means the conversation is over and the session should be
	// dropped from the store.
	Ended bool
}

func NewMachine(categories CategoryStore, transactions TransactionStore) *Machine {
	return &Machine{
		categories:   categories,
		transactions: transactions,
		now:          time.Now,
	}
}

// Handle processes one event for one session. A returned error means a store
// call failed: the transition is aborted and the passed-in session is still
// valid unchanged, so the user can retry the same action.
func (m *Machine) Handle(ctx context.Context, sess session.Session, ev Event) (Result, error) {
	// Commands work from any state.
	if text, ok := ev.Text(); ok {
		switch text {
		case CommandCancel:
			return Result{
				Session: sess.Cleared(session.StateIdle),
				Reply:   Reply{Text: msgCancelled},
				Ended:   true,
			}, nil
		case CommandStart:
			return Result{
				Session: sess.Cleared(session.StateMainMenu),
				Reply:   mainMenuReply(msgGreeting),
			}, nil
		case CommandHelp:
			return Result{Session: sess, Reply: Reply{Text: msgHelp}}, nil
		}
	}

	switch sess.State {
	case session.StateMainMenu:
		return m.handleMainMenu(ctx, sess, ev)
	case session.StateSelectCategory:
		return m.handleSelectCategory(ctx, sess, ev)
	case session.StateEnterAmount:
		return m.handleEnterAmount(sess, ev)
	case session.StateAwaitDescription:
		return m.handleAwaitDescription(sess, ev)
	case session.StateConfirmRecord:
		return m.handleConfirmRecord(ctx, sess, ev)
	case session.StateReportMenu:
		return m.handleReportMenu(ctx, sess, ev)
	case session.StateCustomRangeStart:
		return m.handleCustomRangeStart(sess, ev)
	case session.StateCustomRangeEnd:
		return m.handleCustomRangeEnd(ctx, sess, ev)
	default:
		// Idle or unknown: the conversation has ended.
		return Result{Session: sess, Reply: Reply{Text: msgIdleHint}, Ended: true}, nil
	}
}

func (m *Machine) handleMainMenu(ctx context.Context, sess session.Session, ev Event) (Result, error) {
	action, ok := ev.Action()
	if !ok {
		return Result{Session: sess, Reply: mainMenuReply("")}, nil
	}

	switch action {
	case ActionAddIncome, ActionAddExpense:
		kind := core.Income
		if action == ActionAddExpense {
			kind = core.Expense
		}
		categories, err := m.categories.ListCategories(ctx, kind)
		if err != nil {
			return Result{}, fmt.Errorf("list %s categories: %w", kind, err)
		}
		if len(categories) == 0 {
			// Surfaced to the user; stay in the main menu.
			return Result{Session: sess, Reply: mainMenuReply(msgNoCategories)}, nil
		}
		sess.PendingKind = kind
		sess.State = session.StateSelectCategory
		return Result{Session: sess, Reply: selectCategoryReply(kind, categories, "")}, nil

	case ActionReports:
		sess.State = session.StateReportMenu
		return Result{Session: sess, Reply: reportMenuReply("")}, nil

	default:
		return Result{Session: sess, Reply: mainMenuReply("")}, nil
	}
}

func (m *Machine) handleSelectCategory(ctx context.Context, sess session.Session, ev Event) (Result, error) {
	action, ok := ev.Action()
	if !ok {
		return m.repeatCategoryPrompt(ctx, sess, "")
	}

	if action == ActionBackToMain {
		return Result{Session: sess.Cleared(session.StateMainMenu), Reply: mainMenuReply("")}, nil
	}

	id, ok := action.CategoryID()
	if !ok {
		return m.repeatCategoryPrompt(ctx, sess, msgUnknownCat)
	}

	category, err := m.categories.GetCategory(ctx, id)
	switch {
	case errors.Is(err, core.ErrCategoryNotFound):
		return m.repeatCategoryPrompt(ctx, sess, msgUnknownCat)
	case err != nil:
		return Result{}, fmt.Errorf("get category %d: %w", id, err)
	case category.Kind != sess.PendingKind:
		// A stale button from the other kind's list counts as unknown here.
		return m.repeatCategoryPrompt(ctx, sess, msgUnknownCat)
	}

	sess.PendingCategoryID = category.ID
	sess.PendingCategoryName = category.Name
	sess.State = session.StateEnterAmount
	return Result{
		Session: sess,
		Reply:   Reply{Text: fmt.Sprintf("Вибрана категорія: %s.\n%s", category.Name, msgEnterAmount)},
	}, nil
}

func (m *Machine) repeatCategoryPrompt(ctx context.Context, sess session.Session, prefix string) (Result, error) {
	categories, err := m.categories.ListCategories(ctx, sess.PendingKind)
	if err != nil {
		return Result{}, fmt.Errorf("list %s categories: %w", sess.PendingKind, err)
	}
	return Result{Session: sess, Reply: selectCategoryReply(sess.PendingKind, categories, prefix)}, nil
}

func (m *Machine) handleEnterAmount(sess session.Session, ev Event) (Result, error) {
	text, ok := ev.Text()
	if !ok {
		return Result{Session: sess, Reply: Reply{Text: msgEnterAmount}}, nil
	}

	amount, err := core.ParseMoney(text)
	if err != nil {
		return Result{Session: sess, Reply: Reply{Text: msgInvalidAmount}}, nil
	}

	sess.PendingAmount = amount
	sess.State = session.StateConfirmRecord
	return Result{Session: sess, Reply: confirmReply(sess)}, nil
}

func (m *Machine) handleAwaitDescription(sess session.Session, ev Event) (Result, error) {
	text, ok := ev.Text()
	if !ok {
		return Result{Session: sess, Reply: Reply{Text: msgEnterDesc}}, nil
	}

	// Any text is accepted, the empty string included.
	sess.PendingDescription = text
	sess.DescriptionSet = true
	sess.State = session.StateConfirmRecord
	return Result{Session: sess, Reply: confirmReply(sess)}, nil
}

func (m *Machine) handleConfirmRecord(ctx context.Context, sess session.Session, ev Event) (Result, error) {
	action, ok := ev.Action()
	if !ok {
		return Result{Session: sess, Reply: confirmReply(sess)}, nil
	}

	switch action {
	case ActionCancel:
		return Result{Session: sess.Cleared(session.StateMainMenu), Reply: mainMenuReply(msgAborted)}, nil

	case ActionAddDescription:
		sess.State = session.StateAwaitDescription
		return Result{Session: sess, Reply: Reply{Text: msgEnterDesc}}, nil

	case ActionConfirm:
		tx, err := m.transactions.InsertTransaction(ctx, sess.UserID, sess.PendingCategoryID, sess.PendingAmount, sess.PendingDescription)
		if err != nil {
			return Result{}, fmt.Errorf("insert transaction: %w", err)
		}
		return Result{
			Session:  sess.Cleared(session.StateMainMenu),
			Reply:    mainMenuReply(msgSaved),
			Recorded: &tx,
		}, nil

	default:
		return Result{Session: sess, Reply: confirmReply(sess)}, nil
	}
}

func (m *Machine) handleReportMenu(ctx context.Context, sess session.Session, ev Event) (Result, error) {
	action, ok := ev.Action()
	if !ok {
		return Result{Session: sess, Reply: reportMenuReply("")}, nil
	}

	switch action {
	case ActionReportToday, ActionReportWeek, ActionReportMonth:
		var period core.Period
		switch action {
		case ActionReportToday:
			period = core.TodayPeriod(m.now())
		case ActionReportWeek:
			period = core.WeekPeriod(m.now())
		case ActionReportMonth:
			period = core.MonthPeriod(m.now())
		}
		return m.buildReport(ctx, sess, period)

	case ActionReportCustom:
		sess.State = session.StateCustomRangeStart
		return Result{Session: sess, Reply: Reply{Text: msgEnterStart, Keyboard: dateCancelKeyboard()}}, nil

	case ActionReports:
		// Report navigation: back to the period choices.
		return Result{Session: sess, Reply: reportMenuReply("")}, nil

	case ActionBackToMain:
		return Result{Session: sess.Cleared(session.StateMainMenu), Reply: mainMenuReply("")}, nil

	default:
		return Result{Session: sess, Reply: reportMenuReply("")}, nil
	}
}

func (m *Machine) handleCustomRangeStart(sess session.Session, ev Event) (Result, error) {
	if action, ok := ev.Action(); ok {
		if action == ActionCancelDate {
			return Result{Session: sess.ClearedRange(session.StateReportMenu), Reply: reportMenuReply("")}, nil
		}
		return Result{Session: sess, Reply: Reply{Text: msgEnterStart, Keyboard: dateCancelKeyboard()}}, nil
	}

	text, _ := ev.Text()
	start, err := core.ParseDate(text, m.now().Location())
	if err != nil {
		return Result{Session: sess, Reply: Reply{Text: msgInvalidDate, Keyboard: dateCancelKeyboard()}}, nil
	}

	sess.RangeStart = start
	sess.State = session.StateCustomRangeEnd
	return Result{Session: sess, Reply: Reply{Text: msgEnterEnd, Keyboard: dateCancelKeyboard()}}, nil
}

func (m *Machine) handleCustomRangeEnd(ctx context.Context, sess session.Session, ev Event) (Result, error) {
	if action, ok := ev.Action(); ok {
		if action == ActionCancelDate {
			return Result{Session: sess.ClearedRange(session.StateReportMenu), Reply: reportMenuReply("")}, nil
		}
		return Result{Session: sess, Reply: Reply{Text: msgEnterEnd, Keyboard: dateCancelKeyboard()}}, nil
	}

	text, _ := ev.Text()
	end, err := core.ParseDate(text, m.now().Location())
	if err != nil {
		return Result{Session: sess, Reply: Reply{Text: msgInvalidDate, Keyboard: dateCancelKeyboard()}}, nil
	}

	period, err := core.CustomPeriod(sess.RangeStart, end)
	if errors.Is(err, core.ErrInvalidRange) {
		// RangeStart stays as entered; only the end needs correcting.
		return Result{Session: sess, Reply: Reply{Text: msgInvalidRange, Keyboard: dateCancelKeyboard()}}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("build custom period: %w", err)
	}

	result, err := m.buildReport(ctx, sess, period)
	if err != nil {
		return Result{}, err
	}
	result.Session = result.Session.ClearedRange(session.StateReportMenu)
	return result, nil
}

func (m *Machine) buildReport(ctx context.Context, sess session.Session, period core.Period) (Result, error) {
	rows, err := m.transactions.Summarize(ctx, period.Start, period.End)
	if err != nil {
		return Result{}, fmt.Errorf("summarize %s: %w", period.Label, err)
	}
	sess.State = session.StateReportMenu
	return Result{
		Session: sess,
		Reply:   Reply{Text: report.Build(period, rows), Keyboard: reportNavKeyboard()},
	}, nil
}

// Package services wires the conversation machine to the session table and
// the transport queues.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"budgetbot/internal/amqp"
	"budgetbot/internal/dialog"
	"budgetbot/internal/session"
)

// Publisher is the outbound side of the transport edge.
type Publisher interface {
	PublishReply(ctx context.Context, msg *amqp.ReplyMessage) error
	PublishTransactionRecorded(ctx context.Context, id int64) error
}

// ConversationService applies inbound user events: one event per user at a
// time, sessions for different users in parallel. A store failure inside the
// machine leaves the stored session untouched and answers with a generic
// failure message.
type ConversationService struct {
	machine   *dialog.Machine
	sessions  *session.Store
	publisher Publisher

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewConversationService(machine *dialog.Machine, sessions *session.Store, publisher Publisher) *ConversationService {
	return &ConversationService{
		machine:   machine,
		sessions:  sessions,
		publisher: publisher,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// HandleEvent processes one inbound event to completion.
func (s *ConversationService) HandleEvent(ctx context.Context, msg *amqp.UserEventMessage) error {
	lock := s.userLock(msg.UserID)
	lock.Lock()
	defer lock.Unlock()

	sess, ok := s.sessions.Get(msg.UserID)
	if !ok {
		sess = session.New(msg.UserID)
	}

	result, err := s.machine.Handle(ctx, sess, toEvent(msg))
	if err != nil {
		// Transition aborted; the stored session stays as it was so the
		// user can retry.
		slog.ErrorContext(ctx, "Store call failed, transition aborted",
			"user_id", msg.UserID,
			"state", sess.State,
			"error", err)
		return s.publishReply(ctx, msg.UserID, dialog.FailureReply())
	}

	if result.Ended {
		s.sessions.Delete(msg.UserID)
	} else {
		s.sessions.Put(result.Session)
	}

	slog.DebugContext(ctx, "Event applied",
		"user_id", msg.UserID,
		"from_state", sess.State,
		"to_state", result.Session.State)

	if err := s.publishReply(ctx, msg.UserID, result.Reply); err != nil {
		return err
	}

	if result.Recorded != nil {
		// Export is best-effort: the transaction is already committed.
		if err := s.publisher.PublishTransactionRecorded(ctx, result.Recorded.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish export message",
				"id", result.Recorded.ID,
				"error", err)
		}
	}

	return nil
}

func (s *ConversationService) publishReply(ctx context.Context, userID int64, reply dialog.Reply) error {
	msg := &amqp.ReplyMessage{
		UserID:   userID,
		Text:     reply.Text,
		Keyboard: toKeyboard(reply.Keyboard),
	}
	if err := s.publisher.PublishReply(ctx, msg); err != nil {
		return fmt.Errorf("publish reply to user %d: %w", userID, err)
	}
	return nil
}

func (s *ConversationService) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func toEvent(msg *amqp.UserEventMessage) dialog.Event {
	if msg.IsAction() {
		return dialog.ActionEvent(dialog.ActionID(msg.ActionID))
	}
	return dialog.TextEvent(msg.Text)
}

func toKeyboard(keyboard [][]dialog.Button) [][]amqp.ReplyButton {
	if len(keyboard) == 0 {
		return nil
	}
	out := make([][]amqp.ReplyButton, len(keyboard))
	for i, row := range keyboard {
		buttons := make([]amqp.ReplyButton, len(row))
		for j, btn := range row {
			buttons[j] = amqp.ReplyButton{Label: btn.Label, ActionID: string(btn.Action)}
		}
		out[i] = buttons
	}
	return out
}

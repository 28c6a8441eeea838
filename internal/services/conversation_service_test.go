package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"budgetbot/internal/amqp"
	"budgetbot/internal/core"
	"budgetbot/internal/dialog"
	"budgetbot/internal/session"
	"budgetbot/internal/storage/memory"
)

type fakePublisher struct {
	mu       sync.Mutex
	replies  []*amqp.ReplyMessage
	recorded []int64
}

func (p *fakePublisher) PublishReply(_ context.Context, msg *amqp.ReplyMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, msg)
	return nil
}

func (p *fakePublisher) PublishTransactionRecorded(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recorded = append(p.recorded, id)
	return nil
}

func (p *fakePublisher) lastReply(t *testing.T) *amqp.ReplyMessage {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.replies) == 0 {
		t.Fatal("no reply published")
	}
	return p.replies[len(p.replies)-1]
}

func newTestService(t *testing.T) (*ConversationService, *memory.Store, *fakePublisher) {
	t.Helper()
	store := memory.New()
	store.AddCategory("Зарплата", core.Income)
	store.AddCategory("Їжа", core.Expense)
	publisher := &fakePublisher{}
	svc := NewConversationService(
		dialog.NewMachine(store, store),
		session.NewStore(100, time.Minute),
		publisher,
	)
	return svc, store, publisher
}

func event(userID int64, actionID, text string) *amqp.UserEventMessage {
	return &amqp.UserEventMessage{UserID: userID, ActionID: actionID, Text: text}
}

func TestHandleEventPersistsSessionAcrossEvents(t *testing.T) {
	svc, store, publisher := newTestService(t)
	ctx := context.Background()

	steps := []*amqp.UserEventMessage{
		event(42, "add_income", ""),
		event(42, "cat_1", ""),
		event(42, "", "250.50"),
		event(42, "confirm", ""),
	}
	for _, msg := range steps {
		if err := svc.HandleEvent(ctx, msg); err != nil {
			t.Fatalf("HandleEvent(%+v): %v", msg, err)
		}
	}

	txs := store.Transactions()
	if len(txs) != 1 || txs[0].Amount.Cents != 25050 || txs[0].UserID != 42 {
		t.Fatalf("unexpected transactions: %+v", txs)
	}

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	if len(publisher.recorded) != 1 || publisher.recorded[0] != txs[0].ID {
		t.Fatalf("expected export announcement for %d, got %v", txs[0].ID, publisher.recorded)
	}
	if len(publisher.replies) != len(steps) {
		t.Fatalf("expected %d replies, got %d", len(steps), len(publisher.replies))
	}
}

func TestHandleEventIsolatesUsers(t *testing.T) {
	svc, _, publisher := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleEvent(ctx, event(1, "add_income", "")); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleEvent(ctx, event(2, "reports", "")); err != nil {
		t.Fatal(err)
	}
	// User 2's report menu must not disturb user 1's category selection
	if err := svc.HandleEvent(ctx, event(1, "cat_1", "")); err != nil {
		t.Fatal(err)
	}

	reply := publisher.lastReply(t)
	if reply.UserID != 1 {
		t.Fatalf("reply for wrong user: %+v", reply)
	}
}

type downStore struct {
	memory.Store
}

func (d *downStore) InsertTransaction(context.Context, int64, int64, core.Money, string) (core.Transaction, error) {
	return core.Transaction{}, errors.New("disk full")
}

func TestHandleEventStoreFailureKeepsSession(t *testing.T) {
	categories := memory.New()
	categories.AddCategory("Зарплата", core.Income)
	publisher := &fakePublisher{}
	sessions := session.NewStore(100, time.Minute)
	svc := NewConversationService(dialog.NewMachine(categories, &downStore{}), sessions, publisher)

	sess := session.New(7)
	sess.State = session.StateConfirmRecord
	sess.PendingKind = core.Income
	sess.PendingCategoryID = 1
	sess.PendingCategoryName = "Зарплата"
	sess.PendingAmount.Cents = 900
	sessions.Put(sess)

	if err := svc.HandleEvent(context.Background(), event(7, "confirm", "")); err != nil {
		t.Fatalf("store failure must not fail the event: %v", err)
	}

	kept, ok := sessions.Get(7)
	if !ok || kept.State != session.StateConfirmRecord || kept.PendingAmount.Cents != 900 {
		t.Fatalf("session must be unchanged after store failure: %+v ok=%v", kept, ok)
	}

	reply := publisher.lastReply(t)
	if reply.Text != dialog.FailureReply().Text {
		t.Fatalf("expected generic failure message, got %q", reply.Text)
	}
}

func TestHandleEventCancelDeletesSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.HandleEvent(ctx, event(5, "add_income", "")); err != nil {
		t.Fatal(err)
	}
	if err := svc.HandleEvent(ctx, event(5, "", "/cancel")); err != nil {
		t.Fatal(err)
	}
	// A fresh event builds a new session from the main menu
	if err := svc.HandleEvent(ctx, event(5, "", "/start")); err != nil {
		t.Fatal(err)
	}
}

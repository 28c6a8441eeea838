package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetbot/internal/amqp"
	"budgetbot/internal/core"
	"budgetbot/internal/storage/memory"
)

type fakeSheet struct {
	rows []core.Transaction
	err  error
}

func (s *fakeSheet) AppendTransaction(_ context.Context, tx core.Transaction, _ core.Category) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, tx)
	return nil
}

func TestHandleRecordedMessageAppendsRow(t *testing.T) {
	store := memory.New()
	store.Now = func() time.Time { return time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC) }
	cat := store.AddCategory("Їжа", core.Expense)
	tx, err := store.InsertTransaction(context.Background(), 42, cat.ID, core.Money{Cents: 1999}, "обід")
	if err != nil {
		t.Fatal(err)
	}

	sheet := &fakeSheet{}
	w := NewExportWorker(store, sheet)

	msg := amqp.NewTransactionRecordedMessage(tx.ID)
	if err := w.HandleRecordedMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleRecordedMessage: %v", err)
	}

	if len(sheet.rows) != 1 || sheet.rows[0].ID != tx.ID || sheet.rows[0].Amount.Cents != 1999 {
		t.Fatalf("unexpected appended rows: %+v", sheet.rows)
	}
}

func TestHandleRecordedMessageUnknownTransaction(t *testing.T) {
	w := NewExportWorker(memory.New(), &fakeSheet{})

	err := w.HandleRecordedMessage(context.Background(), amqp.NewTransactionRecordedMessage(404))
	if !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestHandleRecordedMessageAppendFailurePropagates(t *testing.T) {
	store := memory.New()
	cat := store.AddCategory("Зарплата", core.Income)
	tx, err := store.InsertTransaction(context.Background(), 1, cat.ID, core.Money{Cents: 100000}, "")
	if err != nil {
		t.Fatal(err)
	}

	appendErr := errors.New("quota exceeded")
	w := NewExportWorker(store, &fakeSheet{err: appendErr})

	if err := w.HandleRecordedMessage(context.Background(), amqp.NewTransactionRecordedMessage(tx.ID)); !errors.Is(err, appendErr) {
		t.Fatalf("expected append error to propagate, got %v", err)
	}
}

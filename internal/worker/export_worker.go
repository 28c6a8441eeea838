// Package worker mirrors recorded transactions to Google Sheets.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbot/internal/amqp"
	"budgetbot/internal/core"
)

// RecordReader re-reads a committed transaction by id. Messages carry only
// the id; the database stays the single source of row data.
type RecordReader interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
}

// RowAppender writes one ledger row to the export destination.
type RowAppender interface {
	AppendTransaction(ctx context.Context, tx core.Transaction, category core.Category) error
}

type ExportWorker struct {
	storage RecordReader
	sheet   RowAppender
}

func NewExportWorker(storage RecordReader, sheet RowAppender) *ExportWorker {
	return &ExportWorker{storage: storage, sheet: sheet}
}

// HandleRecordedMessage processes a single export announcement from AMQP.
func (w *ExportWorker) HandleRecordedMessage(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing export message", "id", msg.ID)

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", msg.ID, err)
	}

	category, err := w.storage.GetCategory(ctx, tx.CategoryID)
	if err != nil {
		return fmt.Errorf("get category %d: %w", tx.CategoryID, err)
	}

	if err := w.sheet.AppendTransaction(ctx, tx, category); err != nil {
		return fmt.Errorf("append transaction %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", tx.ID,
		"category", category.Name,
		"amount_cents", tx.Amount.Cents)
	return nil
}

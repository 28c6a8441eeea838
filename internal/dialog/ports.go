package dialog

import (
	"context"
	"time"

	"budgetbot/internal/core"
)

// Ports for the store collaborators. Any failure they return aborts the
// current transition; the session is left exactly as it was before the call.
type (
	CategoryStore interface {
		// ListCategories returns all categories of a kind in the store's
		// native order.
		ListCategories(ctx context.Context, kind core.Kind) ([]core.Category, error)
		// GetCategory returns core.ErrCategoryNotFound for unknown ids.
		GetCategory(ctx context.Context, id int64) (core.Category, error)
	}

	TransactionStore interface {
		// InsertTransaction persists a new transaction, assigning its id and
		// timestamp.
		InsertTransaction(ctx context.Context, userID, categoryID int64, amount core.Money, description string) (core.Transaction, error)
		// Summarize returns per-category totals for the inclusive range,
		// ordered by kind then descending total.
		Summarize(ctx context.Context, start, end time.Time) ([]core.CategorySummary, error)
	}
)

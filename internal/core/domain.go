package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind classifies a category or transaction as income or expense.
	Kind string

	Money struct {
		Cents int64
	}

	Category struct {
		ID   int64
		Name string
		Kind Kind
	}

	// Transaction is a recorded income or expense entry. The store assigns
	// ID and CreatedAt on insert; entries are never mutated afterwards.
	Transaction struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		Amount      Money
		Description string
		CreatedAt   time.Time
	}

	// CategorySummary is the per-category total for one reporting period.
	CategorySummary struct {
		CategoryName string
		Kind         Kind
		Total        Money
	}

	// Period is an inclusive date range with a human-readable label.
	Period struct {
		Start time.Time
		End   time.Time
		Label string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidRange     = errors.New("end date before start date")
	ErrCategoryNotFound = errors.New("category not found")

	ErrTransactionNotFound = errors.New("transaction not found")
)

func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// Label returns the localized user-facing name of the kind.
func (k Kind) Label() string {
	if k == Income {
		return "дохід"
	}
	return "витрати"
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("empty category name")
	}
	if !c.Kind.IsValid() {
		return errors.New("invalid category kind")
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.UserID == 0 {
		return errors.New("missing user id")
	}
	if t.CategoryID == 0 {
		return errors.New("missing category id")
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return t.Amount.Validate()
}

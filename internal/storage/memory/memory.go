// Package memory is an in-process implementation of the category and
// transaction stores. It backs tests and the "memory" data backend for local
// runs without SQLite.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"budgetbot/internal/core"
)

type Store struct {
	mu           sync.Mutex
	categories   []core.Category
	transactions []core.Transaction
	nextID       int64

	// Now stamps inserted transactions; tests may pin it.
	Now func() time.Time
}

func New() *Store {
	return &Store{nextID: 1, Now: time.Now}
}

// NewSeeded returns a store pre-filled with the default localized category
// list, mirroring the SQLite seed migration.
func NewSeeded() *Store {
	s := New()
	for _, name := range []string{"Зарплата", "Калими", "Подарунок", "Інше"} {
		s.AddCategory(name, core.Income)
	}
	for _, name := range []string{
		"Їжа", "Хазяйство", "Підписки", "Здоровя", "Комунальні послуги",
		"Транспорт", "Одяг", "Краса", "Подорожі", "Розваги", "Освіта",
		"Покупки", "Заощадження", "Інші витрати",
	} {
		s.AddCategory(name, core.Expense)
	}
	return s
}

// AddCategory registers a category and returns it with its assigned id.
func (s *Store) AddCategory(name string, kind core.Kind) core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := core.Category{ID: int64(len(s.categories) + 1), Name: name, Kind: kind}
	s.categories = append(s.categories, category)
	return category
}

// ListCategories returns the categories of a kind ordered by name, the same
// native order the SQLite store uses.
func (s *Store) ListCategories(_ context.Context, kind core.Kind) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Category
	for _, c := range s.categories {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id int64) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Category{}, core.ErrCategoryNotFound
}

func (s *Store) InsertTransaction(_ context.Context, userID, categoryID int64, amount core.Money, description string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, c := range s.categories {
		if c.ID == categoryID {
			found = true
			break
		}
	}
	if !found {
		return core.Transaction{}, core.ErrCategoryNotFound
	}

	tx := core.Transaction{
		ID:          s.nextID,
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		CreatedAt:   s.Now(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.nextID++
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

// GetTransaction returns a recorded transaction by id.
func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, core.ErrTransactionNotFound
}

// Transactions returns a snapshot of everything recorded, in insert order.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...)
}

// Summarize aggregates totals per category within the inclusive range,
// income first, each kind ordered by descending total.
func (s *Store) Summarize(_ context.Context, start, end time.Time) ([]core.CategorySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[int64]int64)
	for _, tx := range s.transactions {
		if tx.CreatedAt.Before(start) || tx.CreatedAt.After(end) {
			continue
		}
		totals[tx.CategoryID] += tx.Amount.Cents
	}

	var out []core.CategorySummary
	for _, c := range s.categories {
		cents, ok := totals[c.ID]
		if !ok {
			continue
		}
		out = append(out, core.CategorySummary{
			CategoryName: c.Name,
			Kind:         c.Kind,
			Total:        core.Money{Cents: cents},
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == core.Income
		}
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out, nil
}

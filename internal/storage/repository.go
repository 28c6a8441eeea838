// Package storage persists categories and transactions in SQLite. One pooled
// *sql.DB is shared by all calls; connections are never opened per query.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgetbot/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations, category seed included
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListCategories implements dialog.CategoryStore. Name order is the store's
// native category order.
func (r *SQLiteRepository) ListCategories(ctx context.Context, kind core.Kind) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind FROM categories WHERE kind = ? ORDER BY name`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var k string
		if err := rows.Scan(&c.ID, &c.Name, &k); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Kind = core.Kind(k)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// GetCategory implements dialog.CategoryStore.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	var k string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, kind FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &k)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	c.Kind = core.Kind(k)
	return c, nil
}

// InsertTransaction implements dialog.TransactionStore. The repository
// assigns the id and timestamp; timestamps are stored as unix microseconds.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, userID, categoryID int64, amount core.Money, description string) (core.Transaction, error) {
	tx := core.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, amount_cents, description, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		tx.UserID, tx.CategoryID, tx.Amount.Cents, tx.Description, tx.CreatedAt.UnixMicro())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	tx.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"category_id", tx.CategoryID,
		"amount_cents", tx.Amount.Cents)

	return tx, nil
}

// GetTransaction returns a single transaction by id.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var tx core.Transaction
	var createdAt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, amount_cents, description, created_at
		 FROM transactions WHERE id = ?`, id).
		Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Amount.Cents, &tx.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	tx.CreatedAt = time.UnixMicro(createdAt)
	return tx, nil
}

// Summarize implements dialog.TransactionStore: per-category totals within
// the inclusive range, income first, each kind by descending total.
func (r *SQLiteRepository) Summarize(ctx context.Context, start, end time.Time) ([]core.CategorySummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.name, c.kind, SUM(t.amount_cents) AS total_cents
		 FROM transactions t
		 JOIN categories c ON t.category_id = c.id
		 WHERE t.created_at BETWEEN ? AND ?
		 GROUP BY c.id
		 ORDER BY CASE c.kind WHEN 'income' THEN 0 ELSE 1 END, total_cents DESC`,
		start.UnixMicro(), end.UnixMicro())
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySummary
	for rows.Next() {
		var s core.CategorySummary
		var k string
		if err := rows.Scan(&s.CategoryName, &k, &s.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		s.Kind = core.Kind(k)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return out, nil
}

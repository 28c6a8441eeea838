// Package report renders the aggregated income/expense summary for one
// period. Building is pure: the same period and rows always produce the same
// text.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"budgetbot/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Build formats the report for a period from per-category totals.
//
// Layout: header, income section (descending totals, stable within ties),
// income total, expense section, expense total, surplus/deficit balance.
// A savings-rate line is appended only when there is any income; a negative
// balance reports a rate of 0%, never a negative percentage.
func Build(period core.Period, rows []core.CategorySummary) string {
	var income, expenses []core.CategorySummary
	for _, row := range rows {
		switch row.Kind {
		case core.Income:
			income = append(income, row)
		case core.Expense:
			expenses = append(expenses, row)
		}
	}
	sort.SliceStable(income, func(i, j int) bool {
		return income[i].Total.Cents > income[j].Total.Cents
	})
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Total.Cents > expenses[j].Total.Cents
	})

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Звіт за %s 📊\n\n", period.Label)

	b.WriteString("💰 Дохід:\n")
	totalIncome := writeSection(&b, income, "• Нема доходів за вибраний період\n")
	fmt.Fprintf(&b, "\nЗагальний дохід: %s\n\n", totalIncome.StringFixed(2))

	b.WriteString("💸 Витрати:\n")
	totalExpense := writeSection(&b, expenses, "• Нема витрат за вибраний період\n")
	fmt.Fprintf(&b, "\nЗагальні витрати: %s\n\n", totalExpense.StringFixed(2))

	balance := totalIncome.Sub(totalExpense)
	if balance.Sign() >= 0 {
		fmt.Fprintf(&b, "✅ Баланс: %s\n", balance.StringFixed(2))
	} else {
		fmt.Fprintf(&b, "⚠️ Дефіцит: %s\n", balance.Abs().StringFixed(2))
	}

	if totalIncome.Sign() > 0 {
		rate := decimal.Zero
		if balance.Sign() > 0 {
			rate = balance.Div(totalIncome).Mul(hundred)
		}
		fmt.Fprintf(&b, "Баланс у відсотках: %s%%\n", rate.StringFixed(1))
	}

	return b.String()
}

func writeSection(b *strings.Builder, rows []core.CategorySummary, placeholder string) decimal.Decimal {
	if len(rows) == 0 {
		b.WriteString(placeholder)
		return decimal.Zero
	}
	total := decimal.Zero
	for _, row := range rows {
		amount := row.Total.Decimal()
		total = total.Add(amount)
		fmt.Fprintf(b, "• %s: %s\n", row.CategoryName, amount.StringFixed(2))
	}
	return total
}

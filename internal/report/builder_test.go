package report

import (
	"strings"
	"testing"
	"time"

	"budgetbot/internal/core"
)

func testPeriod() core.Period {
	return core.Period{
		Start: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 10, 23, 59, 59, 999999000, time.UTC),
		Label: "Сьогодні",
	}
}

func TestBuildSurplusWithSavingsRate(t *testing.T) {
	rows := []core.CategorySummary{
		{CategoryName: "Зарплата", Kind: core.Income, Total: core.Money{Cents: 100000}},
		{CategoryName: "Їжа", Kind: core.Expense, Total: core.Money{Cents: 40000}},
	}

	got := Build(testPeriod(), rows)

	for _, want := range []string{
		"📊 Звіт за Сьогодні 📊",
		"• Зарплата: 1000.00",
		"Загальний дохід: 1000.00",
		"• Їжа: 400.00",
		"Загальні витрати: 400.00",
		"✅ Баланс: 600.00",
		"Баланс у відсотках: 60.0%",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestBuildDeficit(t *testing.T) {
	rows := []core.CategorySummary{
		{CategoryName: "Зарплата", Kind: core.Income, Total: core.Money{Cents: 10000}},
		{CategoryName: "Подорожі", Kind: core.Expense, Total: core.Money{Cents: 25000}},
	}

	got := Build(testPeriod(), rows)

	if !strings.Contains(got, "⚠️ Дефіцит: 150.00") {
		t.Fatalf("expected deficit line with absolute value:\n%s", got)
	}
	// Negative balance never yields a negative percentage
	if !strings.Contains(got, "Баланс у відсотках: 0.0%") {
		t.Fatalf("expected zero savings rate:\n%s", got)
	}
}

func TestBuildNoIncomeOmitsSavingsRate(t *testing.T) {
	rows := []core.CategorySummary{
		{CategoryName: "Їжа", Kind: core.Expense, Total: core.Money{Cents: 5000}},
	}

	got := Build(testPeriod(), rows)

	if !strings.Contains(got, "• Нема доходів за вибраний період") {
		t.Fatalf("expected income placeholder:\n%s", got)
	}
	if strings.Contains(got, "Баланс у відсотках") {
		t.Fatalf("savings rate must be omitted with zero income:\n%s", got)
	}
	if !strings.Contains(got, "⚠️ Дефіцит: 50.00") {
		t.Fatalf("expected deficit:\n%s", got)
	}
}

func TestBuildEmptyPeriod(t *testing.T) {
	got := Build(testPeriod(), nil)

	if !strings.Contains(got, "• Нема доходів за вибраний період") ||
		!strings.Contains(got, "• Нема витрат за вибраний період") {
		t.Fatalf("expected both placeholders:\n%s", got)
	}
	if !strings.Contains(got, "✅ Баланс: 0.00") {
		t.Fatalf("expected zero balance as surplus:\n%s", got)
	}
}

func TestBuildSortsByDescendingTotal(t *testing.T) {
	rows := []core.CategorySummary{
		{CategoryName: "Подарунок", Kind: core.Income, Total: core.Money{Cents: 100}},
		{CategoryName: "Зарплата", Kind: core.Income, Total: core.Money{Cents: 900000}},
		{CategoryName: "Калими", Kind: core.Income, Total: core.Money{Cents: 50000}},
	}

	got := Build(testPeriod(), rows)

	iSalary := strings.Index(got, "Зарплата")
	iSide := strings.Index(got, "Калими")
	iGift := strings.Index(got, "Подарунок")
	if !(iSalary < iSide && iSide < iGift) {
		t.Fatalf("income rows not sorted by descending total:\n%s", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	rows := []core.CategorySummary{
		{CategoryName: "Зарплата", Kind: core.Income, Total: core.Money{Cents: 123456}},
		{CategoryName: "Їжа", Kind: core.Expense, Total: core.Money{Cents: 789}},
	}
	first := Build(testPeriod(), rows)
	second := Build(testPeriod(), rows)
	if first != second {
		t.Fatal("identical input must yield byte-identical reports")
	}
}

/*
Package finance aggregates expense, revenue and mission records.

PURPOSE:
  Pure summation over in-memory collections: grand totals, per-category
  breakdowns, zero-filled monthly series, and per-vehicle / per-driver
  profit joined over missions. Profit = revenue - expenses at every
  granularity.

DESIGN PRINCIPLES:
  1. Precision: every sum is decimal.Decimal; there is no float64 in a
     monetary path, so NaN cannot arise and a missing amount is simply the
     zero decimal.
  2. Totality: aggregators take what they are given - nil slices yield zero
     aggregates, never errors.
  3. Determinism: outputs preserve input order where order matters (monthly
     series are always Jan..Dec, profit lines follow entity input order so
     downstream stable sorts break ties by insertion order).

SEE ALSO:
  - profit.go: Per-vehicle and per-driver profit over missions
  - reports: Period KPIs built on these aggregates
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestiflot/fleet-office/fleet"
)

// =============================================================================
// TOTALS
// =============================================================================

// TotalExpenses sums all expense amounts.
func TotalExpenses(expenses []fleet.Expense) decimal.Decimal {
	return SumExpenses(expenses, nil)
}

// SumExpenses sums the expenses matching pred; a nil pred matches all.
func SumExpenses(expenses []fleet.Expense, pred func(fleet.Expense) bool) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if pred == nil || pred(e) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalRevenues sums all revenue amounts.
func TotalRevenues(revenues []fleet.Revenue) decimal.Decimal {
	return SumRevenues(revenues, nil)
}

// SumRevenues sums the revenues matching pred; a nil pred matches all.
func SumRevenues(revenues []fleet.Revenue, pred func(fleet.Revenue) bool) decimal.Decimal {
	total := decimal.Zero
	for _, r := range revenues {
		if pred == nil || pred(r) {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// Profit is revenue minus expenses.
func Profit(revenues []fleet.Revenue, expenses []fleet.Expense) decimal.Decimal {
	return TotalRevenues(revenues).Sub(TotalExpenses(expenses))
}

// =============================================================================
// BREAKDOWNS
// =============================================================================

// ExpensesByCategory sums expenses per category.
func ExpensesByCategory(expenses []fleet.Expense) map[fleet.ExpenseCategory]decimal.Decimal {
	out := make(map[fleet.ExpenseCategory]decimal.Decimal)
	for _, e := range expenses {
		out[e.Type] = out[e.Type].Add(e.Amount)
	}
	return out
}

// ExpensesForVehicle sums expenses attached to one vehicle.
func ExpensesForVehicle(expenses []fleet.Expense, id fleet.VehicleID) decimal.Decimal {
	return SumExpenses(expenses, func(e fleet.Expense) bool { return e.VehicleID == id })
}

// =============================================================================
// MONTHLY SERIES
// =============================================================================

// MonthlyTotal is one entry of the per-month series.
type MonthlyTotal struct {
	Month    time.Month      `json:"month"`
	Expenses decimal.Decimal `json:"expenses"`
	Revenues decimal.Decimal `json:"revenues"`
	Profit   decimal.Decimal `json:"profit"`
}

// ByMonth buckets expenses and revenues of one calendar year into exactly 12
// entries, January through December, zero-filled for empty months. Records
// from other years are ignored; records with a zero date are ignored rather
// than guessed into a month.
func ByMonth(expenses []fleet.Expense, revenues []fleet.Revenue, year int) []MonthlyTotal {
	series := make([]MonthlyTotal, 12)
	for i := range series {
		series[i] = MonthlyTotal{
			Month:    time.Month(i + 1),
			Expenses: decimal.Zero,
			Revenues: decimal.Zero,
			Profit:   decimal.Zero,
		}
	}

	for _, e := range expenses {
		if e.Date.IsZero() || e.Date.UTC().Year() != year {
			continue
		}
		m := int(e.Date.UTC().Month()) - 1
		series[m].Expenses = series[m].Expenses.Add(e.Amount)
	}
	for _, r := range revenues {
		if r.Date.IsZero() || r.Date.UTC().Year() != year {
			continue
		}
		m := int(r.Date.UTC().Month()) - 1
		series[m].Revenues = series[m].Revenues.Add(r.Amount)
	}

	for i := range series {
		series[i].Profit = series[i].Revenues.Sub(series[i].Expenses)
	}
	return series
}

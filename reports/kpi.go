/*
Package reports computes period-scoped KPIs and profitability rankings.

PURPOSE:
  Builds on the finance aggregators to produce the figures the reports page
  shows for a chosen period: margin, average cost per mission, fleet
  utilization, outstanding receivables, and top-5 vehicle/driver rankings.

RATIO CONVENTION:
  Every ratio KPI is defined as zero when its denominator is zero. A fleet
  with no revenue has a 0% margin, not an error.

SEE ALSO:
  - finance: Totals and profit lines this package ranks
*/
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestiflot/fleet-office/fleet"
	"github.com/gestiflot/fleet-office/finance"
)

// TopN is the ranking depth of the reports page.
const TopN = 5

// utilizationBaseline approximates the mission capacity of one active
// vehicle over the period (a 30-day month baseline).
var utilizationBaseline = decimal.NewFromInt(30)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// PERIOD
// =============================================================================

// Period is a closed date range [From, To]. The zero Period matches
// everything.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the period. Zero bounds are open.
func (p Period) Contains(t time.Time) bool {
	if !p.From.IsZero() && t.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && t.After(p.To) {
		return false
	}
	return true
}

// =============================================================================
// KPI CALCULATION
// =============================================================================

// Inputs carries the collections the calculator reads.
type Inputs struct {
	Expenses []fleet.Expense
	Revenues []fleet.Revenue
	Missions []fleet.Mission
	Vehicles []fleet.Vehicle
	Invoices []fleet.Invoice
}

// KPIs are the derived figures for one period.
type KPIs struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
	// Margin is profit as a percentage of revenue; 0 when revenue is 0.
	Margin decimal.Decimal `json:"margin"`
	// AvgCostPerMission is total mission cost over mission count; 0 when
	// there are no missions in the period.
	AvgCostPerMission decimal.Decimal `json:"avgCostPerMission"`
	// UtilizationRate approximates missions / (activeVehicles * 30) * 100;
	// 0 when no vehicle is active.
	UtilizationRate decimal.Decimal `json:"utilizationRate"`
	// OutstandingReceivables sums amountRemaining over unpaid invoices,
	// regardless of period.
	OutstandingReceivables decimal.Decimal `json:"outstandingReceivables"`

	MissionCount       int `json:"missionCount"`
	ActiveVehicleCount int `json:"activeVehicleCount"`
}

// Compute derives the KPIs for one period. Pure and total: nil collections
// yield zero figures.
func Compute(period Period, in Inputs) KPIs {
	revenue := finance.SumRevenues(in.Revenues, func(r fleet.Revenue) bool {
		return period.Contains(r.Date.Time)
	})
	expenses := finance.SumExpenses(in.Expenses, func(e fleet.Expense) bool {
		return period.Contains(e.Date.Time)
	})
	profit := revenue.Sub(expenses)

	missionCount := 0
	missionCost := decimal.Zero
	for _, m := range in.Missions {
		if !period.Contains(m.Date.Time) {
			continue
		}
		missionCount++
		missionCost = missionCost.Add(m.TotalCost())
	}

	activeVehicles := 0
	for _, v := range in.Vehicles {
		if v.Status == fleet.VehicleActive {
			activeVehicles++
		}
	}

	k := KPIs{
		Revenue:                revenue,
		Expenses:               expenses,
		Profit:                 profit,
		Margin:                 decimal.Zero,
		AvgCostPerMission:      decimal.Zero,
		UtilizationRate:        decimal.Zero,
		OutstandingReceivables: outstandingReceivables(in.Invoices),
		MissionCount:           missionCount,
		ActiveVehicleCount:     activeVehicles,
	}

	if !revenue.IsZero() {
		k.Margin = profit.Div(revenue).Mul(hundred).Round(2)
	}
	if missionCount > 0 {
		k.AvgCostPerMission = missionCost.Div(decimal.NewFromInt(int64(missionCount))).Round(2)
	}
	if activeVehicles > 0 {
		capacity := decimal.NewFromInt(int64(activeVehicles)).Mul(utilizationBaseline)
		k.UtilizationRate = decimal.NewFromInt(int64(missionCount)).Div(capacity).Mul(hundred).Round(2)
	}
	return k
}

// outstandingReceivables sums amountRemaining over every invoice not yet
// fully paid.
func outstandingReceivables(invoices []fleet.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.Status == fleet.InvoicePaid {
			continue
		}
		total = total.Add(inv.AmountRemaining)
	}
	return total
}

// =============================================================================
// RANKINGS
// =============================================================================

// TopVehicles ranks vehicles by mission profit, descending, keeping the
// first TopN. The sort is stable so ties keep vehicle input order.
func TopVehicles(vehicles []fleet.Vehicle, missions []fleet.Mission, period Period) []finance.ProfitLine {
	return rank(finance.ProfitByVehicle(vehicles, missionsInPeriod(missions, period)))
}

// TopDrivers ranks drivers by mission profit, descending.
func TopDrivers(drivers []fleet.Driver, missions []fleet.Mission, period Period) []finance.ProfitLine {
	return rank(finance.ProfitByDriver(drivers, missionsInPeriod(missions, period)))
}

func missionsInPeriod(missions []fleet.Mission, period Period) []fleet.Mission {
	out := make([]fleet.Mission, 0, len(missions))
	for _, m := range missions {
		if period.Contains(m.Date.Time) {
			out = append(out, m)
		}
	}
	return out
}

func rank(lines []finance.ProfitLine) []finance.ProfitLine {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Profit.GreaterThan(lines[j].Profit)
	})
	if len(lines) > TopN {
		lines = lines[:TopN]
	}
	return lines
}

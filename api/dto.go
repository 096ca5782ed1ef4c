/*
dto.go - Response shapes for the computed views

PURPOSE:
  CRUD endpoints exchange the fleet domain records directly (their JSON tags
  are the document format). The computed views - alerts, finance summary,
  reports - get dedicated response types here so monetary decimals are
  presented as plain numbers and the view contracts can evolve without
  touching the domain types.

SEE ALSO:
  - views.go: Builds these responses
  - handlers.go: CRUD endpoints (no DTOs)
*/
package api

import (
	"time"

	"github.com/gestiflot/fleet-office/alerting"
	"github.com/gestiflot/fleet-office/finance"
	"github.com/gestiflot/fleet-office/reports"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// ALERTS
// =============================================================================

// AlertsResponse carries the recomputed alert list plus per-severity counts
// for the page header badges.
type AlertsResponse struct {
	Alerts []alerting.Alert `json:"alerts"`
	Counts AlertCounts      `json:"counts"`
	AsOf   time.Time        `json:"asOf"`
}

type AlertCounts struct {
	Critical  int `json:"critique"`
	Important int `json:"important"`
	Info      int `json:"info"`
	Total     int `json:"total"`
}

func countAlerts(alerts []alerting.Alert) AlertCounts {
	c := AlertCounts{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Severity {
		case alerting.SeverityCritical:
			c.Critical++
		case alerting.SeverityImportant:
			c.Important++
		case alerting.SeverityInfo:
			c.Info++
		}
	}
	return c
}

// =============================================================================
// FINANCE
// =============================================================================

// FinanceSummaryResponse is the finance page payload for one year.
type FinanceSummaryResponse struct {
	Year       int                `json:"year"`
	Expenses   float64            `json:"expenses"`
	Revenues   float64            `json:"revenues"`
	Profit     float64            `json:"profit"`
	ByCategory map[string]float64 `json:"byCategory"`
	Monthly    []MonthlyTotalDTO  `json:"monthly"`
}

type MonthlyTotalDTO struct {
	Month    int     `json:"month"`
	Expenses float64 `json:"expenses"`
	Revenues float64 `json:"revenues"`
	Profit   float64 `json:"profit"`
}

func toMonthlyDTOs(series []finance.MonthlyTotal) []MonthlyTotalDTO {
	out := make([]MonthlyTotalDTO, len(series))
	for i, m := range series {
		out[i] = MonthlyTotalDTO{
			Month:    int(m.Month),
			Expenses: m.Expenses.InexactFloat64(),
			Revenues: m.Revenues.InexactFloat64(),
			Profit:   m.Profit.InexactFloat64(),
		}
	}
	return out
}

// =============================================================================
// REPORTS
// =============================================================================

// ReportResponse is the reports page payload for one period.
type ReportResponse struct {
	Period      PeriodDTO       `json:"period"`
	KPIs        KPIDTO          `json:"kpis"`
	TopVehicles []ProfitLineDTO `json:"topVehicles"`
	TopDrivers  []ProfitLineDTO `json:"topDrivers"`
}

type PeriodDTO struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type KPIDTO struct {
	Revenue                float64 `json:"revenue"`
	Expenses               float64 `json:"expenses"`
	Profit                 float64 `json:"profit"`
	Margin                 float64 `json:"margin"`
	AvgCostPerMission      float64 `json:"avgCostPerMission"`
	UtilizationRate        float64 `json:"utilizationRate"`
	OutstandingReceivables float64 `json:"outstandingReceivables"`
	MissionCount           int     `json:"missionCount"`
	ActiveVehicleCount     int     `json:"activeVehicleCount"`
}

func toKPIDTO(k reports.KPIs) KPIDTO {
	return KPIDTO{
		Revenue:                k.Revenue.InexactFloat64(),
		Expenses:               k.Expenses.InexactFloat64(),
		Profit:                 k.Profit.InexactFloat64(),
		Margin:                 k.Margin.InexactFloat64(),
		AvgCostPerMission:      k.AvgCostPerMission.InexactFloat64(),
		UtilizationRate:        k.UtilizationRate.InexactFloat64(),
		OutstandingReceivables: k.OutstandingReceivables.InexactFloat64(),
		MissionCount:           k.MissionCount,
		ActiveVehicleCount:     k.ActiveVehicleCount,
	}
}

type ProfitLineDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Missions int     `json:"missions"`
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
	Profit   float64 `json:"profit"`
}

func toProfitLineDTOs(lines []finance.ProfitLine) []ProfitLineDTO {
	out := make([]ProfitLineDTO, len(lines))
	for i, l := range lines {
		out[i] = ProfitLineDTO{
			ID:       l.ID,
			Name:     l.Name,
			Missions: l.Missions,
			Revenue:  l.Revenue.InexactFloat64(),
			Cost:     l.Cost.InexactFloat64(),
			Profit:   l.Profit.InexactFloat64(),
		}
	}
	return out
}

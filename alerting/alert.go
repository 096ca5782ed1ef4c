/*
Package alerting derives actionable alerts from fleet record snapshots.

PURPOSE:
  Pure rule evaluation: take the threshold Config, the current snapshot of
  the record collections, and "now", and return an ordered list of Alert
  values. Alerts are never persisted - every page load recomputes them from
  scratch, so evaluating twice over identical inputs must yield identical
  lists.

KEY CONCEPTS IN THIS FILE (alert.go):
  - Alert: a derived notification (id, category, severity, text, date)
  - Severity: critique > important > info, used for ranking
  - Category: one tag per rule family (assurance, visite_technique,
    maintenance, stock, facture)

ORDERING:
  Stable sort by severity rank (critique first), ties broken by ascending
  date. Stability preserves per-rule emission order for equal keys.

SEE ALSO:
  - evaluator.go: Evaluate orchestration and the Snapshot input
  - insurance.go, inspection.go, maintenance.go, stock.go, invoice.go:
    One file per rule family
  - config.go: Thresholds and category enable flags
*/
package alerting

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity values match the persisted French labels.
type Severity string

const (
	SeverityCritical  Severity = "critique"
	SeverityImportant Severity = "important"
	SeverityInfo      Severity = "info"
)

// Rank orders severities for sorting: critique=0, important=1, info=2.
// Unknown severities rank last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityImportant:
		return 1
	case SeverityInfo:
		return 2
	default:
		return 3
	}
}

// =============================================================================
// CATEGORY
// =============================================================================

type Category string

const (
	CategoryInsurance   Category = "assurance"
	CategoryInspection  Category = "visite_technique"
	CategoryMaintenance Category = "maintenance"
	CategoryStock       Category = "stock"
	CategoryInvoice     Category = "facture"
)

// =============================================================================
// ALERT
// =============================================================================

// Alert is a derived, non-persisted notification. ID is synthetic
// (category + source record id) so recomputation yields stable identifiers.
type Alert struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Severity    Severity  `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	// Link is an optional navigation target into the back-office UI.
	Link string `json:"link,omitempty"`
}

func alertID(cat Category, sourceID string) string {
	return fmt.Sprintf("%s-%s", cat, sourceID)
}

// sortAlerts orders by severity rank then ascending date, stably.
func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := alerts[i].Severity.Rank(), alerts[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return alerts[i].Date.Before(alerts[j].Date)
	})
}

// plural appends "s" past one unit: "1 jour", "3 jours".
func plural(n int, word string) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

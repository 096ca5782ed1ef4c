/*
evaluator.go - Alert evaluation over a record snapshot

PURPOSE:
  Evaluate is the single entry point: it runs the five rule families over
  the snapshot and returns the merged, ordered alert list. It is a total,
  pure function - no I/O, no mutation of the snapshot, no error return.
  Degraded inputs (nil slices, zero dates) degrade to "no alert", never to
  a failure.

FAILURE SEMANTICS:
  Collection reads that fail upstream are represented as nil slices in the
  Snapshot; the corresponding category simply contributes nothing. Zero
  dates (the malformed-date coercion in fleet.Date) resolve to "now" before
  any day arithmetic so one bad record cannot poison the batch.

SEE ALSO:
  - insurance.go .. invoice.go: The individual rules
  - alert.go: Ordering
*/
package alerting

import (
	"time"

	"github.com/gestiflot/fleet-office/fleet"
)

// Snapshot is the in-memory view of the collections the evaluator reads.
// Callers own fetching; a failed read is passed as a nil slice.
type Snapshot struct {
	Vehicles    []fleet.Vehicle
	Insurances  []fleet.InsurancePolicy
	Inspections []fleet.TechnicalInspection
	StockItems  []fleet.StockItem
	Invoices    []fleet.Invoice
}

// Evaluate derives the ordered alert list from cfg, now and the snapshot.
// Calling it twice with identical arguments returns structurally identical
// lists.
func Evaluate(cfg Config, now time.Time, snap Snapshot) []Alert {
	cfg = cfg.sanitized()

	alerts := make([]Alert, 0, 16)
	if cfg.InsuranceEnabled {
		alerts = append(alerts, insuranceAlerts(cfg, now, snap.Insurances)...)
	}
	if cfg.InspectionEnabled {
		alerts = append(alerts, inspectionAlerts(cfg, now, snap.Inspections)...)
	}
	if cfg.MaintenanceEnabled {
		alerts = append(alerts, maintenanceAlerts(now, snap.Vehicles)...)
	}
	if cfg.StockEnabled {
		alerts = append(alerts, stockAlerts(cfg, snap.StockItems, now)...)
	}
	if cfg.InvoiceEnabled {
		alerts = append(alerts, invoiceAlerts(cfg, now, snap.Invoices)...)
	}

	sortAlerts(alerts)
	return alerts
}

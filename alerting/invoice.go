/*
invoice.go - Invoice arrears rule

RULE:
  An invoice alerts when it has a due date, an outstanding balance, and the
  due date has passed:
    daysLate = whole days since the due date
    daysLate > critical cutoff -> critique, else important
  Invoices without a due date never alert, whatever their balance.
*/
package alerting

import (
	"fmt"
	"time"

	"github.com/gestiflot/fleet-office/fleet"
)

func invoiceAlerts(cfg Config, now time.Time, invoices []fleet.Invoice) []Alert {
	var alerts []Alert
	for _, inv := range invoices {
		if inv.DueDate.IsZero() || !inv.AmountRemaining.IsPositive() {
			continue
		}
		if !inv.DueDate.Time.Before(now) {
			continue
		}
		// daysLate is 0 for an invoice that became overdue earlier today.
		daysLate := fleet.DaysBetween(inv.DueDate.Time, now)
		if daysLate < 0 {
			daysLate = 0
		}

		severity := SeverityImportant
		if daysLate > cfg.InvoiceCriticalDays {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			ID:       alertID(CategoryInvoice, inv.ID),
			Category: CategoryInvoice,
			Severity: severity,
			Title:    "Facture impayée",
			Description: fmt.Sprintf("La facture %s est en retard de %s (reste %s €)",
				inv.Number, plural(daysLate, "jour"), inv.AmountRemaining.StringFixed(2)),
			Date: inv.DueDate.Time,
			Link: "/factures/" + inv.ID,
		})
	}
	return alerts
}

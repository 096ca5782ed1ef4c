/*
stock.go - Low stock rule

RULE:
  An item alerts iff quantity <= its own alertThreshold. Severity comes from
  the two global cutoffs:
    quantity <= critical level  -> critique
    quantity <= important level -> important
    otherwise                   -> info
  Stock alerts carry no meaningful record date; they are dated "now".
*/
package alerting

import (
	"fmt"
	"time"

	"github.com/gestiflot/fleet-office/fleet"
)

func stockAlerts(cfg Config, items []fleet.StockItem, now time.Time) []Alert {
	var alerts []Alert
	for _, item := range items {
		if item.Quantity > item.AlertThreshold {
			continue
		}

		severity := SeverityInfo
		switch {
		case item.Quantity <= cfg.StockCriticalLevel:
			severity = SeverityCritical
		case item.Quantity <= cfg.StockImportantLevel:
			severity = SeverityImportant
		}

		alerts = append(alerts, Alert{
			ID:       alertID(CategoryStock, item.ID),
			Category: CategoryStock,
			Severity: severity,
			Title:    "Stock faible",
			Description: fmt.Sprintf("Il reste %d unité(s) de %s (seuil: %d)",
				item.Quantity, item.Name, item.AlertThreshold),
			Date: now,
			Link: "/stock/" + item.ID,
		})
	}
	return alerts
}

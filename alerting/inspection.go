/*
inspection.go - Technical inspection due rule

RULE:
  daysLeft = whole days until the next inspection date.
    0 <= daysLeft <= alert window -> critique within the critical cutoff,
                                     important otherwise
  An overdue inspection (daysLeft < 0) emits nothing. The symmetric
  insurance rule does alert on expiry; this asymmetry is preserved from the
  observed behavior of the original pages rather than silently changed.
*/
package alerting

import (
	"fmt"
	"time"

	"github.com/gestiflot/fleet-office/fleet"
)

func inspectionAlerts(cfg Config, now time.Time, inspections []fleet.TechnicalInspection) []Alert {
	var alerts []Alert
	for _, insp := range inspections {
		next := insp.NextDate.OrNow(now)
		daysLeft := fleet.DaysBetween(now, next)
		if daysLeft < 0 || daysLeft > cfg.InspectionAlertDays {
			continue
		}

		severity := SeverityImportant
		if daysLeft <= cfg.InspectionCriticalDays {
			severity = SeverityCritical
		}
		alerts = append(alerts, Alert{
			ID:       alertID(CategoryInspection, insp.ID),
			Category: CategoryInspection,
			Severity: severity,
			Title:    "Visite technique à prévoir",
			Description: fmt.Sprintf("La visite technique du véhicule %s est due dans %s",
				insp.VehicleID, plural(daysLeft, "jour")),
			Date: next,
			Link: "/visites/" + insp.ID,
		})
	}
	return alerts
}

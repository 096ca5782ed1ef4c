/*
maintenance.go - Vehicle in maintenance rule

RULE:
  One important alert per vehicle whose operational state is en_maintenance,
  dated "now". Maintenance records themselves carry no date-based alert.
*/
package alerting

import (
	"fmt"
	"time"

	"github.com/gestiflot/fleet-office/fleet"
)

func maintenanceAlerts(now time.Time, vehicles []fleet.Vehicle) []Alert {
	var alerts []Alert
	for _, v := range vehicles {
		if v.Status != fleet.VehicleMaintenance {
			continue
		}
		alerts = append(alerts, Alert{
			ID:          alertID(CategoryMaintenance, string(v.ID)),
			Category:    CategoryMaintenance,
			Severity:    SeverityImportant,
			Title:       "Véhicule en maintenance",
			Description: fmt.Sprintf("Le véhicule %s est actuellement en maintenance", v.Label()),
			Date:        now,
			Link:        "/vehicules/" + string(v.ID),
		})
	}
	return alerts
}

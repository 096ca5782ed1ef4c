/*
insurance.go - Insurance expiry rule

RULE:
  daysLeft = whole days until the policy end date.
    daysLeft < 0                      -> critique, "expired N days ago",
                                         distinct id suffix "-expiree"
    0 <= daysLeft <= alert window     -> critique when within the critical
                                         cutoff, important otherwise
    daysLeft > alert window           -> nothing
*/
package alerting

import (
	"fmt"
	"time"

	"github.com/gestiflot/fleet-office/fleet"
)

func insuranceAlerts(cfg Config, now time.Time, policies []fleet.InsurancePolicy) []Alert {
	var alerts []Alert
	for _, p := range policies {
		end := p.EndDate.OrNow(now)
		daysLeft := fleet.DaysBetween(now, end)

		switch {
		case daysLeft < 0:
			expired := -daysLeft
			alerts = append(alerts, Alert{
				ID:       alertID(CategoryInsurance, p.ID) + "-expiree",
				Category: CategoryInsurance,
				Severity: SeverityCritical,
				Title:    "Assurance expirée",
				Description: fmt.Sprintf("L'assurance %s (%s) a expiré il y a %s",
					p.PolicyNumber, p.Company, plural(expired, "jour")),
				Date: end,
				Link: "/assurances/" + p.ID,
			})

		case daysLeft <= cfg.InsuranceAlertDays:
			severity := SeverityImportant
			if daysLeft <= cfg.InsuranceCriticalDays {
				severity = SeverityCritical
			}
			alerts = append(alerts, Alert{
				ID:       alertID(CategoryInsurance, p.ID),
				Category: CategoryInsurance,
				Severity: severity,
				Title:    "Assurance à renouveler",
				Description: fmt.Sprintf("L'assurance %s (%s) expire dans %s",
					p.PolicyNumber, p.Company, plural(daysLeft, "jour")),
				Date: end,
				Link: "/assurances/" + p.ID,
			})
		}
	}
	return alerts
}

package alerting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestiflot/fleet-office/alerting"
	"github.com/gestiflot/fleet-office/fleet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testNow = time.Date(2026, time.September, 1, 10, 30, 0, 0, time.UTC)

func policyEndingIn(id string, days int) fleet.InsurancePolicy {
	return fleet.InsurancePolicy{
		ID:           id,
		VehicleID:    "veh-1",
		PolicyNumber: "POL-" + id,
		Company:      "AssurPlus",
		EndDate:      fleet.DateOf(testNow.AddDate(0, 0, days)),
	}
}

func inspectionDueIn(id string, days int) fleet.TechnicalInspection {
	return fleet.TechnicalInspection{
		ID:        id,
		VehicleID: "veh-1",
		NextDate:  fleet.DateOf(testNow.AddDate(0, 0, days)),
		Result:    fleet.InspectionPass,
	}
}

func overdueInvoice(id string, daysLate int, remaining int64) fleet.Invoice {
	return fleet.Invoice{
		ID:              id,
		Number:          "FAC-" + id,
		DueDate:         fleet.DateOf(testNow.AddDate(0, 0, -daysLate)),
		AmountRemaining: decimal.NewFromInt(remaining),
		Status:          fleet.InvoicePending,
	}
}

func findAlert(t *testing.T, alerts []alerting.Alert, id string) alerting.Alert {
	t.Helper()
	for _, a := range alerts {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("no alert with id %q in %d alerts", id, len(alerts))
	return alerting.Alert{}
}

// =============================================================================
// INSURANCE RULE
// =============================================================================

func TestEvaluate_Insurance_ExpiredPolicy(t *testing.T) {
	// GIVEN: a policy that expired 3 days ago
	// WHEN:  evaluating with defaults
	// THEN:  exactly one critique alert, description mentions the 3 days,
	//        id carries the expired suffix

	alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{
		Insurances: []fleet.InsurancePolicy{policyEndingIn("p1", -3)},
	})

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "assurance-p1-expiree", a.ID)
	assert.Equal(t, alerting.CategoryInsurance, a.Category)
	assert.Equal(t, alerting.SeverityCritical, a.Severity)
	assert.Contains(t, a.Description, "3 jours")
}

func TestEvaluate_Insurance_WindowSeverity(t *testing.T) {
	// GIVEN: defaults (window 30, critical 7)
	// THEN:  10 days out is important, 5 days out is critique,
	//        31 days out emits nothing

	tests := []struct {
		name     string
		days     int
		want     alerting.Severity
		expected bool
	}{
		{"inside critical cutoff", 5, alerting.SeverityCritical, true},
		{"exactly critical cutoff", 7, alerting.SeverityCritical, true},
		{"inside window", 10, alerting.SeverityImportant, true},
		{"exactly window edge", 30, alerting.SeverityImportant, true},
		{"outside window", 31, "", false},
		{"expires today", 0, alerting.SeverityCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{
				Insurances: []fleet.InsurancePolicy{policyEndingIn("p1", tt.days)},
			})
			if !tt.expected {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.want, alerts[0].Severity)
		})
	}
}

func TestEvaluate_Insurance_MalformedDateCoercesToNow(t *testing.T) {
	// GIVEN: a policy whose end date failed to decode (zero Date)
	// WHEN:  evaluating
	// THEN:  the date coerces to now -> daysLeft 0 -> critique, batch intact

	alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{
		Insurances: []fleet.InsurancePolicy{
			{ID: "bad", PolicyNumber: "POL-bad"},
			policyEndingIn("ok", 10),
		},
	})

	require.Len(t, alerts, 2)
	assert.Equal(t, alerting.SeverityCritical, findAlert(t, alerts, "assurance-bad").Severity)
	assert.Equal(t, alerting.SeverityImportant, findAlert(t, alerts, "assurance-ok").Severity)
}

// =============================================================================
// INSPECTION RULE
// =============================================================================

func TestEvaluate_Inspection_WindowSeverity(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		want     alerting.Severity
		expected bool
	}{
		{"critical", 3, alerting.SeverityCritical, true},
		{"important", 20, alerting.SeverityImportant, true},
		{"outside window", 45, "", false},
		// An overdue inspection emits nothing; only insurance alerts on
		// expiry.
		{"overdue", -5, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{
				Inspections: []fleet.TechnicalInspection{inspectionDueIn("i1", tt.days)},
			})
			if !tt.expected {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.want, alerts[0].Severity)
			assert.Equal(t, alerting.CategoryInspection, alerts[0].Category)
		})
	}
}

// =============================================================================
// MAINTENANCE RULE
// =============================================================================

func TestEvaluate_Maintenance_OnlyInMaintenanceVehicles(t *testing.T) {
	alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{
		Vehicles: []fleet.Vehicle{
			{ID: "v1", Registration: "AB-123-CD", Status: fleet.VehicleActive},
			{ID: "v2", Registration: "EF-456-GH", Status: fleet.VehicleMaintenance},
			{ID: "v3", Registration: "IJ-789-KL", Status: fleet.VehicleOutOfService},
		},
	})

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "maintenance-v2", a.ID)
	assert.Equal(t, alerting.SeverityImportant, a.Severity)
	assert.Contains(t, a.Description, "EF-456-GH")
	assert.Equal(t, testNow, a.Date)
}

// =============================================================================
// STOCK RULE
// =============================================================================

func TestEvaluate_Stock_SeverityCutoffs(t *testing.T) {
	// GIVEN: defaults (critical at 0, important at 10)
	cfg := alerting.DefaultConfig()

	tests := []struct {
		name      string
		quantity  int
		threshold int
		want      alerting.Severity
		expected  bool
	}{
		{"above threshold", 20, 5, "", false},
		{"zero quantity", 0, 5, alerting.SeverityCritical, true},
		{"below important cutoff", 4, 5, alerting.SeverityImportant, true},
		{"above cutoffs but under own threshold", 15, 20, alerting.SeverityInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := alerting.Evaluate(cfg, testNow, alerting.Snapshot{
				StockItems: []fleet.StockItem{{
					ID: "s1", Name: "Plaquettes de frein",
					Quantity: tt.quantity, AlertThreshold: tt.threshold,
				}},
			})
			if !tt.expected {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.want, alerts[0].Severity)
		})
	}
}

func TestEvaluate_Stock_ZeroQuantityIsCritical(t *testing.T) {
	// GIVEN: quantity=0, threshold=5, cutoffs 0/10
	// THEN:  critique

	alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{
		StockItems: []fleet.StockItem{{ID: "s1", Name: "Filtre", Quantity: 0, AlertThreshold: 5}},
	})
	require.Len(t, alerts, 1)
	assert.Equal(t, alerting.SeverityCritical, alerts[0].Severity)
}

// =============================================================================
// INVOICE RULE
// =============================================================================

func TestEvaluate_Invoice_Arrears(t *testing.T) {
	tests := []struct {
		name     string
		invoice  fleet.Invoice
		want     alerting.Severity
		expected bool
	}{
		{"40 days late over cutoff 30", overdueInvoice("f1", 40, 500), alerting.SeverityCritical, true},
		{"10 days late", overdueInvoice("f2", 10, 500), alerting.SeverityImportant, true},
		{"exactly 30 days late", overdueInvoice("f3", 30, 500), alerting.SeverityImportant, true},
		{"nothing remaining", overdueInvoice("f4", 40, 0), "", false},
		{"not due yet", overdueInvoice("f5", -5, 500), "", false},
		{"no due date", fleet.Invoice{ID: "f6", AmountRemaining: decimal.NewFromInt(500)}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{
				Invoices: []fleet.Invoice{tt.invoice},
			})
			if !tt.expected {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.want, alerts[0].Severity)
			assert.Equal(t, alerting.CategoryInvoice, alerts[0].Category)
		})
	}
}

// =============================================================================
// CATEGORY ENABLE FLAGS
// =============================================================================

func TestEvaluate_DisabledCategoriesAreSilent(t *testing.T) {
	cfg := alerting.DefaultConfig()
	cfg.InsuranceEnabled = false
	cfg.StockEnabled = false

	alerts := alerting.Evaluate(cfg, testNow, alerting.Snapshot{
		Insurances: []fleet.InsurancePolicy{policyEndingIn("p1", -3)},
		StockItems: []fleet.StockItem{{ID: "s1", Quantity: 0, AlertThreshold: 5}},
		Vehicles:   []fleet.Vehicle{{ID: "v1", Status: fleet.VehicleMaintenance}},
	})

	require.Len(t, alerts, 1)
	assert.Equal(t, alerting.CategoryMaintenance, alerts[0].Category)
}

// =============================================================================
// ORDERING AND IDEMPOTENCE
// =============================================================================

func TestEvaluate_OrderingInvariant(t *testing.T) {
	// GIVEN: alerts across all severities and dates
	// THEN:  severity ranks are non-decreasing, dates non-decreasing within
	//        a rank

	snap := alerting.Snapshot{
		Insurances: []fleet.InsurancePolicy{
			policyEndingIn("p1", 10), // important
			policyEndingIn("p2", -3), // critique
			policyEndingIn("p3", 2),  // critique
		},
		Vehicles: []fleet.Vehicle{{ID: "v1", Status: fleet.VehicleMaintenance}}, // important
		StockItems: []fleet.StockItem{
			{ID: "s1", Quantity: 15, AlertThreshold: 20}, // info
			{ID: "s2", Quantity: 0, AlertThreshold: 5},   // critique
		},
		Invoices: []fleet.Invoice{overdueInvoice("f1", 40, 500)}, // critique
	}

	alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, snap)
	require.Len(t, alerts, 7)

	for i := 1; i < len(alerts); i++ {
		prev, cur := alerts[i-1], alerts[i]
		assert.LessOrEqual(t, prev.Severity.Rank(), cur.Severity.Rank(),
			"severity ranks must be non-decreasing at %d", i)
		if prev.Severity.Rank() == cur.Severity.Rank() {
			assert.False(t, cur.Date.Before(prev.Date),
				"dates must be non-decreasing within rank at %d", i)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	snap := alerting.Snapshot{
		Insurances: []fleet.InsurancePolicy{policyEndingIn("p1", 5), policyEndingIn("p2", -2)},
		StockItems: []fleet.StockItem{{ID: "s1", Quantity: 3, AlertThreshold: 5}},
		Invoices:   []fleet.Invoice{overdueInvoice("f1", 12, 250)},
	}

	first := alerting.Evaluate(alerting.DefaultConfig(), testNow, snap)
	second := alerting.Evaluate(alerting.DefaultConfig(), testNow, snap)
	assert.Equal(t, first, second)
}

func TestEvaluate_EmptySnapshot(t *testing.T) {
	alerts := alerting.Evaluate(alerting.DefaultConfig(), testNow, alerting.Snapshot{})
	assert.Empty(t, alerts)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestiflot/fleet-office/alerting"
	"github.com/gestiflot/fleet-office/api"
	"github.com/gestiflot/fleet-office/fleet"
	"github.com/gestiflot/fleet-office/store/sqlite"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type testServer struct {
	router http.Handler
	store  *sqlite.Store
}

func newTestServer(t *testing.T) *testServer {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &testServer{
		router: api.NewRouter(api.NewHandler(store, nil)),
		store:  store,
	}
}

// do runs a request and decodes the JSON body into out (when non-nil).
func (ts *testServer) do(t *testing.T, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"body: %s", rec.Body.String())
	}
	return rec
}

// =============================================================================
// CRUD
// =============================================================================

func TestVehicleCRUD(t *testing.T) {
	ts := newTestServer(t)

	// WHEN creating a vehicle without an id
	var created fleet.Vehicle
	rec := ts.do(t, http.MethodPost, "/api/vehicles", fleet.Vehicle{
		Registration: "AB-123-CD",
		Make:         "Renault",
		Model:        "Master",
		Status:       fleet.VehicleActive,
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	// THEN an id is generated
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "AB-123-CD", created.Registration)

	// WHEN listing
	var list []fleet.Vehicle
	rec = ts.do(t, http.MethodGet, "/api/vehicles", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)

	// WHEN updating with a divergent body id
	updated := created
	updated.ID = "spoofed"
	updated.Status = fleet.VehicleMaintenance
	var got fleet.Vehicle
	rec = ts.do(t, http.MethodPut, "/api/vehicles/"+string(created.ID), updated, &got)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN the URL id wins
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, fleet.VehicleMaintenance, got.Status)

	// WHEN deleting
	rec = ts.do(t, http.MethodDelete, "/api/vehicles/"+string(created.ID), nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// THEN the record is gone
	rec = ts.do(t, http.MethodGet, "/api/vehicles/"+string(created.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/vehicles/"+string(created.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreate_KeepsClientSuppliedID(t *testing.T) {
	ts := newTestServer(t)

	var created fleet.Driver
	rec := ts.do(t, http.MethodPost, "/api/drivers", fleet.Driver{
		ID:        "d-42",
		FirstName: "Moussa",
		LastName:  "Diop",
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, fleet.DriverID("d-42"), created.ID)
}

func TestCreate_RejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid request body", resp.Error)
}

func TestInvoiceSave_RecomputesAmountRemaining(t *testing.T) {
	ts := newTestServer(t)

	// GIVEN a client sending a stale amountRemaining
	var created fleet.Invoice
	rec := ts.do(t, http.MethodPost, "/api/invoices", fleet.Invoice{
		ID:              "f1",
		Number:          "FAC-2026-001",
		TotalTTC:        decimal.NewFromInt(354),
		AmountPaid:      decimal.NewFromInt(100),
		AmountRemaining: decimal.NewFromInt(999),
		Status:          fleet.InvoicePartial,
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)

	// THEN the stored balance is totalTTC - amountPaid
	assert.True(t, created.AmountRemaining.Equal(decimal.NewFromInt(254)),
		"got %s", created.AmountRemaining)
}

// =============================================================================
// ALERTS VIEW
// =============================================================================

func TestGetAlerts_RecomputesFromSnapshot(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	// GIVEN a policy expiring in 5 days and a vehicle in the garage
	require.NoError(t, ts.store.SaveVehicle(ctx, fleet.Vehicle{
		ID: "v1", Registration: "AB-123-CD", Status: fleet.VehicleMaintenance,
	}))
	require.NoError(t, ts.store.SaveInsurancePolicy(ctx, fleet.InsurancePolicy{
		ID:        "p1",
		VehicleID: "v1",
		EndDate:   fleet.NewDate(2026, time.September, 6),
	}))

	// WHEN evaluating as of 2026-09-01
	var resp api.AlertsResponse
	rec := ts.do(t, http.MethodGet, "/api/alerts?now=2026-09-01", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN the critique insurance alert sorts before the important
	// maintenance alert
	require.Len(t, resp.Alerts, 2)
	assert.Equal(t, alerting.CategoryInsurance, resp.Alerts[0].Category)
	assert.Equal(t, alerting.SeverityCritical, resp.Alerts[0].Severity)
	assert.Equal(t, alerting.CategoryMaintenance, resp.Alerts[1].Category)
	assert.Equal(t, alerting.SeverityImportant, resp.Alerts[1].Severity)

	assert.Equal(t, 1, resp.Counts.Critical)
	assert.Equal(t, 1, resp.Counts.Important)
	assert.Equal(t, 0, resp.Counts.Info)
	assert.Equal(t, 2, resp.Counts.Total)
}

func TestGetAlerts_HonorsStoredThresholds(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.store.SaveInsurancePolicy(ctx, fleet.InsurancePolicy{
		ID: "p1", VehicleID: "v1", EndDate: fleet.NewDate(2026, time.September, 6),
	}))

	// GIVEN insurance alerting turned off
	cfg := alerting.DefaultConfig()
	cfg.InsuranceEnabled = false
	require.NoError(t, ts.store.SaveConfig(ctx, cfg))

	var resp api.AlertsResponse
	rec := ts.do(t, http.MethodGet, "/api/alerts?now=2026-09-01", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Alerts)
}

func TestGetAlerts_InvalidNowParam(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/alerts?now=yesterday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CONFIGURATION ENDPOINTS
// =============================================================================

func TestConfig_GetReturnsDefaultsWhenUnset(t *testing.T) {
	ts := newTestServer(t)

	var cfg alerting.Config
	rec := ts.do(t, http.MethodGet, "/api/config", nil, &cfg)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alerting.DefaultConfig(), cfg)
}

func TestConfig_PutFillsDefaultsForMissingFields(t *testing.T) {
	ts := newTestServer(t)

	// WHEN saving a partial document
	req := httptest.NewRequest(http.MethodPut, "/api/config",
		strings.NewReader(`{"joursAlerteAssurance": 60, "alerteStock": false}`))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN the stored config carries the overrides plus defaults
	var cfg alerting.Config
	getRec := ts.do(t, http.MethodGet, "/api/config", nil, &cfg)
	require.Equal(t, http.StatusOK, getRec.Code)

	want := alerting.DefaultConfig()
	want.InsuranceAlertDays = 60
	want.StockEnabled = false
	assert.Equal(t, want, cfg)
}

// =============================================================================
// FINANCE SUMMARY VIEW
// =============================================================================

func TestGetFinanceSummary(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.store.SaveExpense(ctx, fleet.Expense{
		ID: "e1", Type: fleet.ExpenseFuel, Date: fleet.NewDate(2026, time.March, 10),
		Amount: decimal.NewFromInt(140), VehicleID: "v1",
	}))
	require.NoError(t, ts.store.SaveExpense(ctx, fleet.Expense{
		ID: "e2", Type: fleet.ExpenseMaintenance, Date: fleet.NewDate(2026, time.July, 2),
		Amount: decimal.NewFromInt(60), VehicleID: "v2",
	}))
	// Previous-year noise stays out of the 2026 summary.
	require.NoError(t, ts.store.SaveExpense(ctx, fleet.Expense{
		ID: "e3", Type: fleet.ExpenseFuel, Date: fleet.NewDate(2025, time.March, 10),
		Amount: decimal.NewFromInt(999),
	}))
	require.NoError(t, ts.store.SaveRevenue(ctx, fleet.Revenue{
		ID: "r1", Date: fleet.NewDate(2026, time.March, 15), Amount: decimal.NewFromInt(500),
	}))

	var resp api.FinanceSummaryResponse
	rec := ts.do(t, http.MethodGet, "/api/finance/summary?year=2026", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 2026, resp.Year)
	assert.InDelta(t, 200, resp.Expenses, 0.001)
	assert.InDelta(t, 500, resp.Revenues, 0.001)
	assert.InDelta(t, 300, resp.Profit, 0.001)
	assert.InDelta(t, 140, resp.ByCategory["carburant"], 0.001)
	assert.InDelta(t, 60, resp.ByCategory["entretien"], 0.001)

	require.Len(t, resp.Monthly, 12)
	march := resp.Monthly[2]
	assert.Equal(t, 3, march.Month)
	assert.InDelta(t, 140, march.Expenses, 0.001)
	assert.InDelta(t, 500, march.Revenues, 0.001)
	assert.InDelta(t, 360, march.Profit, 0.001)
}

func TestGetFinanceSummary_VehicleScopesExpenses(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.store.SaveExpense(ctx, fleet.Expense{
		ID: "e1", Type: fleet.ExpenseFuel, Date: fleet.NewDate(2026, time.March, 10),
		Amount: decimal.NewFromInt(140), VehicleID: "v1",
	}))
	require.NoError(t, ts.store.SaveExpense(ctx, fleet.Expense{
		ID: "e2", Type: fleet.ExpenseFuel, Date: fleet.NewDate(2026, time.April, 10),
		Amount: decimal.NewFromInt(80), VehicleID: "v2",
	}))

	var resp api.FinanceSummaryResponse
	rec := ts.do(t, http.MethodGet, "/api/finance/summary?year=2026&vehicleId=v1", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 140, resp.Expenses, 0.001)
}

// =============================================================================
// REPORTS VIEW
// =============================================================================

func TestGetReport(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.store.SaveVehicle(ctx, fleet.Vehicle{
		ID: "v1", Registration: "AB-123-CD", Status: fleet.VehicleActive,
	}))
	require.NoError(t, ts.store.SaveDriver(ctx, fleet.Driver{
		ID: "d1", FirstName: "Moussa", LastName: "Diop",
	}))
	require.NoError(t, ts.store.SaveMission(ctx, fleet.Mission{
		ID: "m1", VehicleID: "v1", DriverID: "d1",
		Date:    fleet.NewDate(2026, time.January, 10),
		Status:  fleet.MissionCompleted,
		Revenue: decimal.NewFromInt(1000),
		FuelCost: decimal.NewFromInt(150), TollCost: decimal.NewFromInt(50),
	}))
	require.NoError(t, ts.store.SaveRevenue(ctx, fleet.Revenue{
		ID: "r1", Date: fleet.NewDate(2026, time.January, 12), Amount: decimal.NewFromInt(1000),
	}))
	require.NoError(t, ts.store.SaveExpense(ctx, fleet.Expense{
		ID: "e1", Type: fleet.ExpenseFuel, Date: fleet.NewDate(2026, time.January, 11),
		Amount: decimal.NewFromInt(200),
	}))
	require.NoError(t, ts.store.SaveInvoice(ctx, fleet.Invoice{
		ID: "f1", TotalTTC: decimal.NewFromInt(600), AmountPaid: decimal.NewFromInt(100),
		AmountRemaining: decimal.NewFromInt(500), Status: fleet.InvoicePartial,
	}))

	var resp api.ReportResponse
	rec := ts.do(t, http.MethodGet, "/api/reports?from=2026-01-01&to=2026-01-31", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "2026-01-01", resp.Period.From)
	assert.Equal(t, "2026-01-31", resp.Period.To)

	assert.InDelta(t, 1000, resp.KPIs.Revenue, 0.001)
	assert.InDelta(t, 200, resp.KPIs.Expenses, 0.001)
	assert.InDelta(t, 800, resp.KPIs.Profit, 0.001)
	assert.InDelta(t, 80, resp.KPIs.Margin, 0.001)
	assert.Equal(t, 1, resp.KPIs.MissionCount)
	assert.Equal(t, 1, resp.KPIs.ActiveVehicleCount)
	assert.InDelta(t, 200, resp.KPIs.AvgCostPerMission, 0.001)
	// 1 mission / (1 vehicle * 30 days) * 100, rounded to 2 decimals
	assert.InDelta(t, 3.33, resp.KPIs.UtilizationRate, 0.001)
	assert.InDelta(t, 500, resp.KPIs.OutstandingReceivables, 0.001)

	require.Len(t, resp.TopVehicles, 1)
	assert.Equal(t, "AB-123-CD", resp.TopVehicles[0].Name)
	assert.InDelta(t, 800, resp.TopVehicles[0].Profit, 0.001)

	require.Len(t, resp.TopDrivers, 1)
	assert.Equal(t, "Moussa Diop", resp.TopDrivers[0].Name)
}

func TestGetReport_InvalidPeriodParam(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/reports?from=janvier", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

/*
views.go - Computed views: alerts, finance summary, reports, configuration

PURPOSE:
  These endpoints never persist what they compute. Every call reloads the
  raw collections and re-derives alerts, aggregates and KPIs from scratch;
  identical data and clock always produce identical responses.

FAILURE SEMANTICS:
  A collection that fails to load contributes an empty slice to the
  computation and a logged error - the page still renders with what could
  be read. This mirrors the observed behavior of the dashboard pages.

SEE ALSO:
  - alerting: Evaluate and the threshold Config
  - finance, reports: The aggregation this layer exposes
*/
package api

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gestiflot/fleet-office/alerting"
	"github.com/gestiflot/fleet-office/finance"
	"github.com/gestiflot/fleet-office/fleet"
	"github.com/gestiflot/fleet-office/reports"
)

// loadOrEmpty logs a failed collection read and substitutes an empty slice.
func loadOrEmpty[T any](h *Handler, name string, items []T, err error) []T {
	if err != nil {
		h.Logger.Error("collection read failed, using empty set",
			zap.String("collection", name), zap.Error(err))
		return nil
	}
	return items
}

// =============================================================================
// ALERTS
// =============================================================================

// GetAlerts recomputes the alert list from the current snapshot.
// GET /api/alerts[?now=2026-09-01]
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	now := time.Now().UTC()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid now parameter (use YYYY-MM-DD or RFC3339)", err)
			return
		}
		now = parsed
	}

	cfg, err := h.Store.LoadConfig(ctx)
	if err != nil {
		// LoadConfig already fell back to defaults; just record it.
		h.Logger.Error("config read failed, using defaults", zap.Error(err))
	}

	vehicles, err := h.Store.ListVehicles(ctx)
	snap := alerting.Snapshot{
		Vehicles: loadOrEmpty(h, "vehicles", vehicles, err),
	}
	insurances, err := h.Store.ListInsurancePolicies(ctx)
	snap.Insurances = loadOrEmpty(h, "insurance_policies", insurances, err)
	inspections, err := h.Store.ListInspections(ctx)
	snap.Inspections = loadOrEmpty(h, "inspections", inspections, err)
	stock, err := h.Store.ListStockItems(ctx)
	snap.StockItems = loadOrEmpty(h, "stock_items", stock, err)
	invoices, err := h.Store.ListInvoices(ctx)
	snap.Invoices = loadOrEmpty(h, "invoices", invoices, err)

	alerts := alerting.Evaluate(cfg, now, snap)

	writeJSON(w, http.StatusOK, AlertsResponse{
		Alerts: alerts,
		Counts: countAlerts(alerts),
		AsOf:   now,
	})
}

// =============================================================================
// FINANCE SUMMARY
// =============================================================================

// GetFinanceSummary returns yearly totals, the per-category breakdown and
// the 12-month series.
// GET /api/finance/summary[?year=2026][&vehicleId=...]
func (h *Handler) GetFinanceSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := parseYearParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year parameter", err)
			return
		}
		year = parsed
	}
	vehicleID := fleet.VehicleID(r.URL.Query().Get("vehicleId"))

	expenses, err := h.Store.ListExpenses(ctx)
	expenses = loadOrEmpty(h, "expenses", expenses, err)
	revenues, err := h.Store.ListRevenues(ctx)
	revenues = loadOrEmpty(h, "revenues", revenues, err)

	inYear := func(d fleet.Date) bool { return !d.IsZero() && d.UTC().Year() == year }
	yearExpenses := make([]fleet.Expense, 0, len(expenses))
	for _, e := range expenses {
		if inYear(e.Date) && (vehicleID == "" || e.VehicleID == vehicleID) {
			yearExpenses = append(yearExpenses, e)
		}
	}
	yearRevenues := make([]fleet.Revenue, 0, len(revenues))
	for _, rev := range revenues {
		if inYear(rev.Date) {
			yearRevenues = append(yearRevenues, rev)
		}
	}

	totalExpenses := finance.TotalExpenses(yearExpenses)
	totalRevenues := finance.TotalRevenues(yearRevenues)

	byCategory := make(map[string]float64)
	for cat, amount := range finance.ExpensesByCategory(yearExpenses) {
		byCategory[string(cat)] = amount.InexactFloat64()
	}

	writeJSON(w, http.StatusOK, FinanceSummaryResponse{
		Year:       year,
		Expenses:   totalExpenses.InexactFloat64(),
		Revenues:   totalRevenues.InexactFloat64(),
		Profit:     totalRevenues.Sub(totalExpenses).InexactFloat64(),
		ByCategory: byCategory,
		Monthly:    toMonthlyDTOs(finance.ByMonth(yearExpenses, yearRevenues, year)),
	})
}

// =============================================================================
// REPORTS
// =============================================================================

// GetReport returns the period KPIs and the top-5 rankings.
// GET /api/reports[?from=2026-01-01&to=2026-01-31]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var period reports.Period
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := parseDateParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from parameter", err)
			return
		}
		period.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := parseDateParam(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to parameter", err)
			return
		}
		period.To = to
	}

	expenses, err := h.Store.ListExpenses(ctx)
	in := reports.Inputs{Expenses: loadOrEmpty(h, "expenses", expenses, err)}
	revenues, err := h.Store.ListRevenues(ctx)
	in.Revenues = loadOrEmpty(h, "revenues", revenues, err)
	missions, err := h.Store.ListMissions(ctx)
	in.Missions = loadOrEmpty(h, "missions", missions, err)
	vehicles, err := h.Store.ListVehicles(ctx)
	in.Vehicles = loadOrEmpty(h, "vehicles", vehicles, err)
	invoices, err := h.Store.ListInvoices(ctx)
	in.Invoices = loadOrEmpty(h, "invoices", invoices, err)
	drivers, err := h.Store.ListDrivers(ctx)
	drivers = loadOrEmpty(h, "drivers", drivers, err)

	resp := ReportResponse{
		KPIs:        toKPIDTO(reports.Compute(period, in)),
		TopVehicles: toProfitLineDTOs(reports.TopVehicles(in.Vehicles, in.Missions, period)),
		TopDrivers:  toProfitLineDTOs(reports.TopDrivers(drivers, in.Missions, period)),
	}
	if !period.From.IsZero() {
		resp.Period.From = period.From.Format("2006-01-02")
	}
	if !period.To.IsZero() {
		resp.Period.To = period.To.Format("2006-01-02")
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// GetConfig returns the threshold configuration, with defaults filled in
// for anything missing from the stored document.
// GET /api/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Store.LoadConfig(r.Context())
	if err != nil {
		h.Logger.Error("config read failed, serving defaults", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, cfg)
}

// SaveConfig overwrites the threshold configuration wholesale. Missing or
// malformed fields in the body take their defaults, matching the read path.
// PUT /api/config
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	cfg := alerting.ParseConfig(body)
	if err := h.Store.SaveConfig(r.Context(), cfg); err != nil {
		h.Logger.Error("config save failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// =============================================================================
// PARAM PARSING
// =============================================================================

func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseYearParam(raw string) (int, error) {
	t, err := time.Parse("2006", raw)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

/*
handlers.go - CRUD handlers for the record collections

PURPOSE:
  Every back-office page is the same shape: list a collection, create or
  edit one record through a form, delete one record. The resource type
  below captures that shape once; each entity contributes its store
  wiring and gets the full handler set.

REQUEST FLOW:
  1. Decode JSON body (domain record format)
  2. Assign a generated id on create when the client sent none
  3. Delegate to the store
  4. Serialize the record back

ERROR HANDLING:
  - 400: Malformed body
  - 404: Unknown record id
  - 500: Store failures
  Errors are returned as the JSON ErrorResponse envelope.

SEE ALSO:
  - views.go: Alerts / finance / reports / config endpoints
  - server.go: Route wiring
  - store/sqlite: The persistence these handlers delegate to
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestiflot/fleet-office/fleet"
	"github.com/gestiflot/fleet-office/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Logger *zap.Logger
}

// NewHandler creates a handler backed by the given store. A nil logger
// falls back to a no-op logger.
func NewHandler(store *sqlite.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: store, Logger: logger}
}

// =============================================================================
// GENERIC CRUD PLUMBING
// =============================================================================

// crudHandlers bundles the five handlers one collection route needs.
type crudHandlers struct {
	list   http.HandlerFunc
	create http.HandlerFunc
	get    http.HandlerFunc
	update http.HandlerFunc
	delete http.HandlerFunc
}

// resource adapts one record type to the store.
type resource[T any] struct {
	name   string
	list   func(r *http.Request) ([]T, error)
	get    func(r *http.Request, id string) (*T, error)
	save   func(r *http.Request, v T) error
	remove func(r *http.Request, id string) error
	id     func(v T) string
	setID  func(v *T, id string)
}

func crudFor[T any](h *Handler, res resource[T]) crudHandlers {
	return crudHandlers{
		list: func(w http.ResponseWriter, r *http.Request) {
			items, err := res.list(r)
			if err != nil {
				h.Logger.Error("list failed", zap.String("resource", res.name), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to list "+res.name, err)
				return
			}
			writeJSON(w, http.StatusOK, items)
		},

		create: func(w http.ResponseWriter, r *http.Request) {
			var v T
			if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request body", err)
				return
			}
			if res.id(v) == "" {
				res.setID(&v, uuid.NewString())
			}
			if err := res.save(r, v); err != nil {
				h.Logger.Error("create failed", zap.String("resource", res.name), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to create "+res.name, err)
				return
			}
			writeJSON(w, http.StatusCreated, v)
		},

		get: func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			v, err := res.get(r, id)
			if err != nil {
				h.Logger.Error("get failed", zap.String("resource", res.name), zap.String("id", id), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to get "+res.name, err)
				return
			}
			if v == nil {
				writeError(w, http.StatusNotFound, "Not found", nil)
				return
			}
			writeJSON(w, http.StatusOK, v)
		},

		update: func(w http.ResponseWriter, r *http.Request) {
			var v T
			if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request body", err)
				return
			}
			// The URL id wins: a form cannot move a record to another id.
			res.setID(&v, chi.URLParam(r, "id"))
			if err := res.save(r, v); err != nil {
				h.Logger.Error("update failed", zap.String("resource", res.name), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to update "+res.name, err)
				return
			}
			writeJSON(w, http.StatusOK, v)
		},

		delete: func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if err := res.remove(r, id); err != nil {
				if errors.Is(err, sqlite.ErrNotFound) {
					writeError(w, http.StatusNotFound, "Not found", nil)
					return
				}
				h.Logger.Error("delete failed", zap.String("resource", res.name), zap.String("id", id), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to delete "+res.name, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		},
	}
}

// =============================================================================
// RESOURCE WIRING
// =============================================================================

func (h *Handler) vehicleHandlers() crudHandlers {
	return crudFor(h, resource[fleet.Vehicle]{
		name: "vehicle",
		list: func(r *http.Request) ([]fleet.Vehicle, error) { return h.Store.ListVehicles(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.Vehicle, error) {
			return h.Store.GetVehicle(r.Context(), id)
		},
		save:   func(r *http.Request, v fleet.Vehicle) error { return h.Store.SaveVehicle(r.Context(), v) },
		remove: func(r *http.Request, id string) error { return h.Store.DeleteVehicle(r.Context(), id) },
		id:     func(v fleet.Vehicle) string { return string(v.ID) },
		setID:  func(v *fleet.Vehicle, id string) { v.ID = fleet.VehicleID(id) },
	})
}

func (h *Handler) driverHandlers() crudHandlers {
	return crudFor(h, resource[fleet.Driver]{
		name: "driver",
		list: func(r *http.Request) ([]fleet.Driver, error) { return h.Store.ListDrivers(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.Driver, error) {
			return h.Store.GetDriver(r.Context(), id)
		},
		save:   func(r *http.Request, d fleet.Driver) error { return h.Store.SaveDriver(r.Context(), d) },
		remove: func(r *http.Request, id string) error { return h.Store.DeleteDriver(r.Context(), id) },
		id:     func(d fleet.Driver) string { return string(d.ID) },
		setID:  func(d *fleet.Driver, id string) { d.ID = fleet.DriverID(id) },
	})
}

func (h *Handler) clientHandlers() crudHandlers {
	return crudFor(h, resource[fleet.Client]{
		name: "client",
		list: func(r *http.Request) ([]fleet.Client, error) { return h.Store.ListClients(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.Client, error) {
			return h.Store.GetClient(r.Context(), id)
		},
		save:   func(r *http.Request, c fleet.Client) error { return h.Store.SaveClient(r.Context(), c) },
		remove: func(r *http.Request, id string) error { return h.Store.DeleteClient(r.Context(), id) },
		id:     func(c fleet.Client) string { return string(c.ID) },
		setID:  func(c *fleet.Client, id string) { c.ID = fleet.ClientID(id) },
	})
}

func (h *Handler) insuranceHandlers() crudHandlers {
	return crudFor(h, resource[fleet.InsurancePolicy]{
		name: "insurance policy",
		list: func(r *http.Request) ([]fleet.InsurancePolicy, error) {
			return h.Store.ListInsurancePolicies(r.Context())
		},
		get: func(r *http.Request, id string) (*fleet.InsurancePolicy, error) {
			return h.Store.GetInsurancePolicy(r.Context(), id)
		},
		save: func(r *http.Request, p fleet.InsurancePolicy) error {
			return h.Store.SaveInsurancePolicy(r.Context(), p)
		},
		remove: func(r *http.Request, id string) error {
			return h.Store.DeleteInsurancePolicy(r.Context(), id)
		},
		id:    func(p fleet.InsurancePolicy) string { return p.ID },
		setID: func(p *fleet.InsurancePolicy, id string) { p.ID = id },
	})
}

func (h *Handler) inspectionHandlers() crudHandlers {
	return crudFor(h, resource[fleet.TechnicalInspection]{
		name: "inspection",
		list: func(r *http.Request) ([]fleet.TechnicalInspection, error) {
			return h.Store.ListInspections(r.Context())
		},
		get: func(r *http.Request, id string) (*fleet.TechnicalInspection, error) {
			return h.Store.GetInspection(r.Context(), id)
		},
		save: func(r *http.Request, i fleet.TechnicalInspection) error {
			return h.Store.SaveInspection(r.Context(), i)
		},
		remove: func(r *http.Request, id string) error { return h.Store.DeleteInspection(r.Context(), id) },
		id:     func(i fleet.TechnicalInspection) string { return i.ID },
		setID:  func(i *fleet.TechnicalInspection, id string) { i.ID = id },
	})
}

func (h *Handler) maintenanceHandlers() crudHandlers {
	return crudFor(h, resource[fleet.MaintenanceRecord]{
		name: "maintenance record",
		list: func(r *http.Request) ([]fleet.MaintenanceRecord, error) {
			return h.Store.ListMaintenanceRecords(r.Context())
		},
		get: func(r *http.Request, id string) (*fleet.MaintenanceRecord, error) {
			return h.Store.GetMaintenanceRecord(r.Context(), id)
		},
		save: func(r *http.Request, m fleet.MaintenanceRecord) error {
			return h.Store.SaveMaintenanceRecord(r.Context(), m)
		},
		remove: func(r *http.Request, id string) error {
			return h.Store.DeleteMaintenanceRecord(r.Context(), id)
		},
		id:    func(m fleet.MaintenanceRecord) string { return m.ID },
		setID: func(m *fleet.MaintenanceRecord, id string) { m.ID = id },
	})
}

func (h *Handler) stockHandlers() crudHandlers {
	return crudFor(h, resource[fleet.StockItem]{
		name: "stock item",
		list: func(r *http.Request) ([]fleet.StockItem, error) { return h.Store.ListStockItems(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.StockItem, error) {
			return h.Store.GetStockItem(r.Context(), id)
		},
		save:   func(r *http.Request, i fleet.StockItem) error { return h.Store.SaveStockItem(r.Context(), i) },
		remove: func(r *http.Request, id string) error { return h.Store.DeleteStockItem(r.Context(), id) },
		id:     func(i fleet.StockItem) string { return i.ID },
		setID:  func(i *fleet.StockItem, id string) { i.ID = id },
	})
}

func (h *Handler) invoiceHandlers() crudHandlers {
	return crudFor(h, resource[fleet.Invoice]{
		name: "invoice",
		list: func(r *http.Request) ([]fleet.Invoice, error) { return h.Store.ListInvoices(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.Invoice, error) {
			return h.Store.GetInvoice(r.Context(), id)
		},
		save: func(r *http.Request, inv fleet.Invoice) error {
			// amountRemaining = totalTTC - amountPaid is the form-layer
			// invariant; recompute here so a stale client cannot break it.
			inv.AmountRemaining = inv.TotalTTC.Sub(inv.AmountPaid)
			return h.Store.SaveInvoice(r.Context(), inv)
		},
		remove: func(r *http.Request, id string) error { return h.Store.DeleteInvoice(r.Context(), id) },
		id:     func(inv fleet.Invoice) string { return inv.ID },
		setID:  func(inv *fleet.Invoice, id string) { inv.ID = id },
	})
}

func (h *Handler) expenseHandlers() crudHandlers {
	return crudFor(h, resource[fleet.Expense]{
		name: "expense",
		list: func(r *http.Request) ([]fleet.Expense, error) { return h.Store.ListExpenses(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.Expense, error) {
			return h.Store.GetExpense(r.Context(), id)
		},
		save:   func(r *http.Request, e fleet.Expense) error { return h.Store.SaveExpense(r.Context(), e) },
		remove: func(r *http.Request, id string) error { return h.Store.DeleteExpense(r.Context(), id) },
		id:     func(e fleet.Expense) string { return e.ID },
		setID:  func(e *fleet.Expense, id string) { e.ID = id },
	})
}

func (h *Handler) revenueHandlers() crudHandlers {
	return crudFor(h, resource[fleet.Revenue]{
		name: "revenue",
		list: func(r *http.Request) ([]fleet.Revenue, error) { return h.Store.ListRevenues(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.Revenue, error) {
			return h.Store.GetRevenue(r.Context(), id)
		},
		save:   func(r *http.Request, rev fleet.Revenue) error { return h.Store.SaveRevenue(r.Context(), rev) },
		remove: func(r *http.Request, id string) error { return h.Store.DeleteRevenue(r.Context(), id) },
		id:     func(rev fleet.Revenue) string { return rev.ID },
		setID:  func(rev *fleet.Revenue, id string) { rev.ID = id },
	})
}

func (h *Handler) missionHandlers() crudHandlers {
	return crudFor(h, resource[fleet.Mission]{
		name: "mission",
		list: func(r *http.Request) ([]fleet.Mission, error) { return h.Store.ListMissions(r.Context()) },
		get: func(r *http.Request, id string) (*fleet.Mission, error) {
			return h.Store.GetMission(r.Context(), id)
		},
		save:   func(r *http.Request, m fleet.Mission) error { return h.Store.SaveMission(r.Context(), m) },
		remove: func(r *http.Request, id string) error { return h.Store.DeleteMission(r.Context(), id) },
		id:     func(m fleet.Mission) string { return m.ID },
		setID:  func(m *fleet.Mission, id string) { m.ID = id },
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer connecting URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/vehicles, /api/drivers, /api/clients      Entity CRUD
  /api/insurance, /api/inspections,
  /api/maintenance, /api/stock                   Compliance + stock CRUD
  /api/invoices, /api/expenses,
  /api/revenues, /api/missions                   Finance CRUD
  /api/alerts                                    Recomputed alert list
  /api/finance/summary                           Yearly totals + monthly series
  /api/reports                                   Period KPIs + rankings
  /api/config                                    Threshold singleton

SEE ALSO:
  - handlers.go: CRUD handlers
  - views.go: Computed-view handlers
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		crud := func(r chi.Router, path string, c crudHandlers) {
			r.Route(path, func(r chi.Router) {
				r.Get("/", c.list)
				r.Post("/", c.create)
				r.Get("/{id}", c.get)
				r.Put("/{id}", c.update)
				r.Delete("/{id}", c.delete)
			})
		}

		crud(r, "/vehicles", h.vehicleHandlers())
		crud(r, "/drivers", h.driverHandlers())
		crud(r, "/clients", h.clientHandlers())
		crud(r, "/insurance", h.insuranceHandlers())
		crud(r, "/inspections", h.inspectionHandlers())
		crud(r, "/maintenance", h.maintenanceHandlers())
		crud(r, "/stock", h.stockHandlers())
		crud(r, "/invoices", h.invoiceHandlers())
		crud(r, "/expenses", h.expenseHandlers())
		crud(r, "/revenues", h.revenueHandlers())
		crud(r, "/missions", h.missionHandlers())

		// Computed views
		r.Get("/alerts", h.GetAlerts)
		r.Get("/finance/summary", h.GetFinanceSummary)
		r.Get("/reports", h.GetReport)

		// Threshold configuration singleton
		r.Route("/config", func(r chi.Router) {
			r.Get("/", h.GetConfig)
			r.Put("/", h.SaveConfig)
		})
	})

	return r
}

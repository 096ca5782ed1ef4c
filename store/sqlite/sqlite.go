/*
Package sqlite provides SQLite-backed persistence for the fleet back-office.

PURPOSE:
  The back-office is document-shaped: every page loads a whole collection,
  edits one record through a form, and writes it back. The store mirrors
  that - one table per collection, each row holding the record id and the
  record as a JSON document. Nested structures (invoice line items, mission
  cost components) ride along inside the document instead of spreading over
  join tables.

KEY TABLES:
  vehicles, drivers, clients, insurance_policies, inspections,
  maintenance_records, stock_items, invoices, expenses, revenues, missions:
      id TEXT PRIMARY KEY, doc TEXT (JSON), updated_at TEXT
  config:
      single-row table for the alert threshold singleton

CONFIG CONTRACT:
  LoadConfig is read-with-defaults-on-missing: an absent or malformed row
  yields the documented defaults without persisting them. SaveConfig
  overwrites the row wholesale; there are no partial updates.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety across the single connection, and WAL
  mode so readers do not block.

USAGE:
  store, err := sqlite.New("./fleet.db")   // ":memory:" for tests
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - fleet: The record types stored here
  - alerting: ParseConfig / DefaultConfig used by LoadConfig
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gestiflot/fleet-office/alerting"
	"github.com/gestiflot/fleet-office/fleet"
)

// Store persists every collection plus the configuration singleton.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// collectionTables lists every per-collection document table.
var collectionTables = []string{
	"vehicles",
	"drivers",
	"clients",
	"insurance_policies",
	"inspections",
	"maintenance_records",
	"stock_items",
	"invoices",
	"expenses",
	"revenues",
	"missions",
}

func (s *Store) migrate() error {
	for _, table := range collectionTables {
		schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			doc TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`, table)
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}

	// Single-row config table. id is fixed at 1.
	schema := `
	CREATE TABLE IF NOT EXISTS config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		doc TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	return nil
}

// =============================================================================
// DOCUMENT PRIMITIVES
// =============================================================================

func (s *Store) listDocs(ctx context.Context, table string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// getDoc returns (nil, nil) when the id does not exist.
func (s *Store) getDoc(ctx context.Context, table, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc []byte
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, table), id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", table, id, err)
	}
	return doc, nil
}

func (s *Store) putDoc(ctx context.Context, table, id string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		table), id, doc, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", table, id, err)
	}
	return nil
}

func (s *Store) deleteDoc(ctx context.Context, table, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ErrNotFound is returned by Delete* when the record does not exist.
var ErrNotFound = sql.ErrNoRows

func listAs[T any](s *Store, ctx context.Context, table string) ([]T, error) {
	docs, err := s.listDocs(ctx, table)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			// A corrupt document is skipped, not fatal: the rest of the
			// collection still loads.
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// getAs returns (nil, nil) when the id does not exist.
func getAs[T any](s *Store, ctx context.Context, table, id string) (*T, error) {
	doc, err := s.getDoc(ctx, table, id)
	if err != nil || doc == nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", table, id, err)
	}
	return &v, nil
}

func putAs[T any](s *Store, ctx context.Context, table, id string, v T) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", table, id, err)
	}
	return s.putDoc(ctx, table, id, doc)
}

// =============================================================================
// VEHICLES
// =============================================================================

func (s *Store) ListVehicles(ctx context.Context) ([]fleet.Vehicle, error) {
	return listAs[fleet.Vehicle](s, ctx, "vehicles")
}

func (s *Store) GetVehicle(ctx context.Context, id string) (*fleet.Vehicle, error) {
	return getAs[fleet.Vehicle](s, ctx, "vehicles", id)
}

func (s *Store) SaveVehicle(ctx context.Context, v fleet.Vehicle) error {
	return putAs(s, ctx, "vehicles", string(v.ID), v)
}

func (s *Store) DeleteVehicle(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "vehicles", id)
}

// =============================================================================
// DRIVERS
// =============================================================================

func (s *Store) ListDrivers(ctx context.Context) ([]fleet.Driver, error) {
	return listAs[fleet.Driver](s, ctx, "drivers")
}

func (s *Store) GetDriver(ctx context.Context, id string) (*fleet.Driver, error) {
	return getAs[fleet.Driver](s, ctx, "drivers", id)
}

func (s *Store) SaveDriver(ctx context.Context, d fleet.Driver) error {
	return putAs(s, ctx, "drivers", string(d.ID), d)
}

func (s *Store) DeleteDriver(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "drivers", id)
}

// =============================================================================
// CLIENTS
// =============================================================================

func (s *Store) ListClients(ctx context.Context) ([]fleet.Client, error) {
	return listAs[fleet.Client](s, ctx, "clients")
}

func (s *Store) GetClient(ctx context.Context, id string) (*fleet.Client, error) {
	return getAs[fleet.Client](s, ctx, "clients", id)
}

func (s *Store) SaveClient(ctx context.Context, c fleet.Client) error {
	return putAs(s, ctx, "clients", string(c.ID), c)
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "clients", id)
}

// =============================================================================
// INSURANCE POLICIES
// =============================================================================

func (s *Store) ListInsurancePolicies(ctx context.Context) ([]fleet.InsurancePolicy, error) {
	return listAs[fleet.InsurancePolicy](s, ctx, "insurance_policies")
}

func (s *Store) GetInsurancePolicy(ctx context.Context, id string) (*fleet.InsurancePolicy, error) {
	return getAs[fleet.InsurancePolicy](s, ctx, "insurance_policies", id)
}

func (s *Store) SaveInsurancePolicy(ctx context.Context, p fleet.InsurancePolicy) error {
	return putAs(s, ctx, "insurance_policies", p.ID, p)
}

func (s *Store) DeleteInsurancePolicy(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "insurance_policies", id)
}

// =============================================================================
// TECHNICAL INSPECTIONS
// =============================================================================

func (s *Store) ListInspections(ctx context.Context) ([]fleet.TechnicalInspection, error) {
	return listAs[fleet.TechnicalInspection](s, ctx, "inspections")
}

func (s *Store) GetInspection(ctx context.Context, id string) (*fleet.TechnicalInspection, error) {
	return getAs[fleet.TechnicalInspection](s, ctx, "inspections", id)
}

func (s *Store) SaveInspection(ctx context.Context, i fleet.TechnicalInspection) error {
	return putAs(s, ctx, "inspections", i.ID, i)
}

func (s *Store) DeleteInspection(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "inspections", id)
}

// =============================================================================
// MAINTENANCE RECORDS
// =============================================================================

func (s *Store) ListMaintenanceRecords(ctx context.Context) ([]fleet.MaintenanceRecord, error) {
	return listAs[fleet.MaintenanceRecord](s, ctx, "maintenance_records")
}

func (s *Store) GetMaintenanceRecord(ctx context.Context, id string) (*fleet.MaintenanceRecord, error) {
	return getAs[fleet.MaintenanceRecord](s, ctx, "maintenance_records", id)
}

func (s *Store) SaveMaintenanceRecord(ctx context.Context, m fleet.MaintenanceRecord) error {
	return putAs(s, ctx, "maintenance_records", m.ID, m)
}

func (s *Store) DeleteMaintenanceRecord(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "maintenance_records", id)
}

// =============================================================================
// STOCK ITEMS
// =============================================================================

func (s *Store) ListStockItems(ctx context.Context) ([]fleet.StockItem, error) {
	return listAs[fleet.StockItem](s, ctx, "stock_items")
}

func (s *Store) GetStockItem(ctx context.Context, id string) (*fleet.StockItem, error) {
	return getAs[fleet.StockItem](s, ctx, "stock_items", id)
}

func (s *Store) SaveStockItem(ctx context.Context, item fleet.StockItem) error {
	return putAs(s, ctx, "stock_items", item.ID, item)
}

func (s *Store) DeleteStockItem(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "stock_items", id)
}

// =============================================================================
// INVOICES
// =============================================================================

func (s *Store) ListInvoices(ctx context.Context) ([]fleet.Invoice, error) {
	return listAs[fleet.Invoice](s, ctx, "invoices")
}

func (s *Store) GetInvoice(ctx context.Context, id string) (*fleet.Invoice, error) {
	return getAs[fleet.Invoice](s, ctx, "invoices", id)
}

func (s *Store) SaveInvoice(ctx context.Context, inv fleet.Invoice) error {
	return putAs(s, ctx, "invoices", inv.ID, inv)
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "invoices", id)
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) ListExpenses(ctx context.Context) ([]fleet.Expense, error) {
	return listAs[fleet.Expense](s, ctx, "expenses")
}

func (s *Store) GetExpense(ctx context.Context, id string) (*fleet.Expense, error) {
	return getAs[fleet.Expense](s, ctx, "expenses", id)
}

func (s *Store) SaveExpense(ctx context.Context, e fleet.Expense) error {
	return putAs(s, ctx, "expenses", e.ID, e)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "expenses", id)
}

// =============================================================================
// REVENUES
// =============================================================================

func (s *Store) ListRevenues(ctx context.Context) ([]fleet.Revenue, error) {
	return listAs[fleet.Revenue](s, ctx, "revenues")
}

func (s *Store) GetRevenue(ctx context.Context, id string) (*fleet.Revenue, error) {
	return getAs[fleet.Revenue](s, ctx, "revenues", id)
}

func (s *Store) SaveRevenue(ctx context.Context, r fleet.Revenue) error {
	return putAs(s, ctx, "revenues", r.ID, r)
}

func (s *Store) DeleteRevenue(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "revenues", id)
}

// =============================================================================
// MISSIONS
// =============================================================================

func (s *Store) ListMissions(ctx context.Context) ([]fleet.Mission, error) {
	return listAs[fleet.Mission](s, ctx, "missions")
}

func (s *Store) GetMission(ctx context.Context, id string) (*fleet.Mission, error) {
	return getAs[fleet.Mission](s, ctx, "missions", id)
}

func (s *Store) SaveMission(ctx context.Context, m fleet.Mission) error {
	return putAs(s, ctx, "missions", m.ID, m)
}

func (s *Store) DeleteMission(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, "missions", id)
}

// =============================================================================
// CONFIGURATION SINGLETON
// =============================================================================

// LoadConfig returns the stored threshold configuration, or the documented
// defaults when the row is missing or unreadable. Defaults are applied in
// memory only; nothing is persisted until SaveConfig.
func (s *Store) LoadConfig(ctx context.Context) (alerting.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM config WHERE id = 1`).Scan(&doc)
	if err == sql.ErrNoRows {
		return alerting.DefaultConfig(), nil
	}
	if err != nil {
		return alerting.DefaultConfig(), fmt.Errorf("load config: %w", err)
	}
	return alerting.ParseConfig(doc), nil
}

// SaveConfig overwrites the configuration row wholesale.
func (s *Store) SaveConfig(ctx context.Context, cfg alerting.Config) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config (id, doc, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		doc, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

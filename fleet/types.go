/*
Package fleet defines the domain records of the fleet back-office.

PURPOSE:
  Flat records with string identifiers, referencing each other by
  foreign-key fields (vehicleId, driverId, clientId). These are the inputs
  to the alerting, finance and reports packages, which treat them as
  immutable snapshots: nothing in this module mutates a record after it has
  been loaded.

KEY CONCEPTS IN THIS FILE (types.go):
  - Vehicle / Driver / Client: the tracked entities
  - InsurancePolicy / TechnicalInspection / MaintenanceRecord: per-vehicle
    compliance records driving date-window alerts
  - StockItem: spare-part inventory with per-item alert thresholds
  - Invoice: billing document with nested line items and HT/TVA/TTC totals
  - Expense / Revenue / Mission: the financial records feeding aggregation

DESIGN PRINCIPLES:
  1. Precision: monetary amounts are decimal.Decimal, never float64
  2. Normalized dates: every date field is a fleet.Date (see date.go)
  3. Closed enums: statuses are typed string constants matching the
     persisted document values

SEE ALSO:
  - date.go: Date normalization and day arithmetic
  - alerting: Rules deriving alerts from these records
  - finance, reports: Aggregation over Expense/Revenue/Mission
*/
package fleet

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type VehicleID string
type DriverID string
type ClientID string

// =============================================================================
// VEHICLES, DRIVERS, CLIENTS
// =============================================================================

// VehicleStatus is the operational state of a vehicle. The values match the
// persisted documents.
type VehicleStatus string

const (
	VehicleActive       VehicleStatus = "actif"
	VehicleMaintenance  VehicleStatus = "en_maintenance"
	VehicleOutOfService VehicleStatus = "hors_service"
)

type Vehicle struct {
	ID           VehicleID     `json:"id"`
	Registration string        `json:"registration"`
	Make         string        `json:"make"`
	Model        string        `json:"model"`
	PurchaseDate Date          `json:"purchaseDate"`
	Status       VehicleStatus `json:"status"`
	Odometer     int64         `json:"odometer"`
	Color        string        `json:"color"`
}

// Label is the display name used in alerts and rankings.
func (v Vehicle) Label() string {
	if v.Registration != "" {
		return v.Registration
	}
	return string(v.ID)
}

type DriverStatus string

const (
	DriverAvailable DriverStatus = "disponible"
	DriverOnMission DriverStatus = "en_mission"
	DriverInactive  DriverStatus = "inactif"
)

type Driver struct {
	ID            DriverID     `json:"id"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	LicenseNumber string       `json:"licenseNumber"`
	Phone         string       `json:"phone"`
	HireDate      Date         `json:"hireDate"`
	Status        DriverStatus `json:"status"`
}

func (d Driver) FullName() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	default:
		return d.FirstName + " " + d.LastName
	}
}

type Client struct {
	ID      ClientID `json:"id"`
	Name    string   `json:"name"`
	Contact string   `json:"contact"`
	Phone   string   `json:"phone"`
	Email   string   `json:"email"`
	Address string   `json:"address"`
}

// =============================================================================
// COMPLIANCE RECORDS
// =============================================================================

type InsurancePolicy struct {
	ID           string          `json:"id"`
	VehicleID    VehicleID       `json:"vehicleId"`
	PolicyNumber string          `json:"policyNumber"`
	Company      string          `json:"company"`
	StartDate    Date            `json:"startDate"`
	EndDate      Date            `json:"endDate"`
	Amount       decimal.Decimal `json:"amount"`
}

// InspectionResult is informational only; a failed inspection does not emit
// its own alert.
type InspectionResult string

const (
	InspectionPass InspectionResult = "favorable"
	InspectionFail InspectionResult = "defavorable"
)

type TechnicalInspection struct {
	ID        string           `json:"id"`
	VehicleID VehicleID        `json:"vehicleId"`
	Date      Date             `json:"date"`
	NextDate  Date             `json:"nextDate"`
	Result    InspectionResult `json:"result"`
}

type MaintenanceRecord struct {
	ID          string          `json:"id"`
	VehicleID   VehicleID       `json:"vehicleId"`
	Type        string          `json:"type"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

// =============================================================================
// STOCK
// =============================================================================

type StockItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Quantity       int             `json:"quantity"`
	AlertThreshold int             `json:"alertThreshold"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
}

// =============================================================================
// INVOICES
// =============================================================================

type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "payee"
	InvoicePartial InvoiceStatus = "partielle"
	InvoicePending InvoiceStatus = "en_attente"
)

type InvoiceLine struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalHT     decimal.Decimal `json:"totalHT"`
}

/// Invoice totals follow the French convention: HT (before tax), TVA (tax),
// TTC (after tax). AmountRemaining = TotalTTC - AmountPaid is maintained by
// the form layer; the aggregators read it as-is.
type Invoice struct {
	ID              string          `json:"id"`
	ClientID        ClientID        `json:"clientId"`
	Number          string          `json:"number"`
	Lines           []InvoiceLine   `json:"lines"`
	TotalHT         decimal.Decimal `json:"totalHT"`
	TVA             decimal.Decimal `json:"tva"`
	TotalTTC        decimal.Decimal `json:"totalTTC"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	AmountRemaining decimal.Decimal `json:"amountRemaining"`
	Status          InvoiceStatus   `json:"status"`
	IssueDate       Date            `json:"issueDate"`
	DueDate         Date            `json:"dueDate"`
}

// =============================================================================
// FINANCIAL RECORDS
// =============================================================================

// ExpenseCategory is an open set; these are the categories the finance pages
// know how to label.
type ExpenseCategory string

const (
	ExpenseFuel        ExpenseCategory = "carburant"
	ExpenseMaintenance ExpenseCategory = "entretien"
	ExpenseInsurance   ExpenseCategory = "assurance"
	ExpenseToll        ExpenseCategory = "peage"
	ExpenseSalary      ExpenseCategory = "salaire"
	ExpenseOther       ExpenseCategory = "autre"
)

type Expense struct {
	ID          string          `json:"id"`
	Type        ExpenseCategory `json:"type"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	VehicleID   VehicleID       `json:"vehicleId,omitempty"`
	DriverID    DriverID        `json:"driverId,omitempty"`
}

type Revenue struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ClientID    ClientID        `json:"clientId,omitempty"`
	MissionID   string          `json:"missionId,omitempty"`
}

// =============================================================================
// MISSIONS
// =============================================================================

type MissionStatus string

const (
	MissionPlanned   MissionStatus = "planifiee"
	MissionUnderway  MissionStatus = "en_cours"
	MissionCompleted MissionStatus = "terminee"
	MissionCanceled  MissionStatus = "annulee"
)

// Mission is a transport job linking a vehicle and a driver, carrying the
// estimated cost components and the realized revenue.
type Mission struct {
	ID        string          `json:"id"`
	VehicleID VehicleID       `json:"vehicleId"`
	DriverID  DriverID        `json:"driverId"`
	ClientID  ClientID        `json:"clientId,omitempty"`
	Departure string          `json:"departure"`
	Arrival   string          `json:"arrival"`
	Date      Date            `json:"date"`
	Status    MissionStatus   `json:"status"`
	Revenue   decimal.Decimal `json:"revenue"`
	FuelCost  decimal.Decimal `json:"fuelCost"`
	TollCost  decimal.Decimal `json:"tollCost"`
	MealCost  decimal.Decimal `json:"mealCost"`
	OtherCost decimal.Decimal `json:"otherCost"`
}

// TotalCost sums the estimated cost components.
func (m Mission) TotalCost() decimal.Decimal {
	return m.FuelCost.Add(m.TollCost).Add(m.MealCost).Add(m.OtherCost)
}

// Profit is the realized revenue minus the estimated cost.
func (m Mission) Profit() decimal.Decimal {
	return m.Revenue.Sub(m.TotalCost())
}

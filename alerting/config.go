/*
config.go - Alert threshold configuration

PURPOSE:
  One singleton record of named thresholds controls every alert rule: the
  day windows for insurance and inspection alerts, the critical-day cutoffs,
  the invoice-arrears cutoff, the two stock severity cutoffs, and a per-
  category enable flag.

PERSISTENCE CONTRACT:
  The record is read-with-defaults-on-missing and overwritten wholesale on
  save. ParseConfig is the only place defaults are applied to a stored
  document: a missing or malformed field falls back to its default, so a
  half-written document from an older version still evaluates.

  Inside Evaluate the config is taken literally (a stored zero is a real
  threshold - the default stock critical level IS zero); only negative day
  windows are clamped to the defaults, since no rule can mean anything with
  a negative window.

DEFAULTS:
  Insurance window 30 days, critical at 7.
  Inspection window 30 days, critical at 7.
  Invoice arrears critical past 30 days late.
  Stock critical at quantity <= 0, important at <= 10.
  Every category enabled.

SEE ALSO:
  - evaluator.go: Consumes Config
  - store/sqlite: Persists the singleton document
*/
package alerting

import "encoding/json"

// Default threshold values, applied by ParseConfig when a field is missing.
const (
	DefaultInsuranceAlertDays     = 30
	DefaultInsuranceCriticalDays  = 7
	DefaultInspectionAlertDays    = 30
	DefaultInspectionCriticalDays = 7
	DefaultInvoiceCriticalDays    = 30
	DefaultStockCriticalLevel     = 0
	DefaultStockImportantLevel    = 10
)

// Config is the singleton threshold record. JSON keys match the persisted
// document fields.
type Config struct {
	InsuranceAlertDays     int `json:"joursAlerteAssurance"`
	InsuranceCriticalDays  int `json:"joursCritiqueAssurance"`
	InspectionAlertDays    int `json:"joursAlerteVisite"`
	InspectionCriticalDays int `json:"joursCritiqueVisite"`
	InvoiceCriticalDays    int `json:"joursCritiqueFacture"`
	StockCriticalLevel     int `json:"seuilStockCritique"`
	StockImportantLevel    int `json:"seuilStockImportant"`

	InsuranceEnabled   bool `json:"alerteAssurance"`
	InspectionEnabled  bool `json:"alerteVisite"`
	MaintenanceEnabled bool `json:"alerteMaintenance"`
	StockEnabled       bool `json:"alerteStock"`
	InvoiceEnabled     bool `json:"alerteFacture"`
}

// DefaultConfig returns the documented defaults with every category enabled.
func DefaultConfig() Config {
	return Config{
		InsuranceAlertDays:     DefaultInsuranceAlertDays,
		InsuranceCriticalDays:  DefaultInsuranceCriticalDays,
		InspectionAlertDays:    DefaultInspectionAlertDays,
		InspectionCriticalDays: DefaultInspectionCriticalDays,
		InvoiceCriticalDays:    DefaultInvoiceCriticalDays,
		StockCriticalLevel:     DefaultStockCriticalLevel,
		StockImportantLevel:    DefaultStockImportantLevel,
		InsuranceEnabled:       true,
		InspectionEnabled:      true,
		MaintenanceEnabled:     true,
		StockEnabled:           true,
		InvoiceEnabled:         true,
	}
}

// configJSON mirrors Config with pointer fields so ParseConfig can tell a
// stored zero from a missing field.
type configJSON struct {
	InsuranceAlertDays     *int `json:"joursAlerteAssurance"`
	InsuranceCriticalDays  *int `json:"joursCritiqueAssurance"`
	InspectionAlertDays    *int `json:"joursAlerteVisite"`
	InspectionCriticalDays *int `json:"joursCritiqueVisite"`
	InvoiceCriticalDays    *int `json:"joursCritiqueFacture"`
	StockCriticalLevel     *int `json:"seuilStockCritique"`
	StockImportantLevel    *int `json:"seuilStockImportant"`

	InsuranceEnabled   *bool `json:"alerteAssurance"`
	InspectionEnabled  *bool `json:"alerteVisite"`
	MaintenanceEnabled *bool `json:"alerteMaintenance"`
	StockEnabled       *bool `json:"alerteStock"`
	InvoiceEnabled     *bool `json:"alerteFacture"`
}

// ParseConfig decodes a stored configuration document, filling defaults for
// every missing or malformed field. An unparseable document yields the full
// default configuration rather than an error: the alerts page must render
// with whatever is stored.
func ParseConfig(data []byte) Config {
	cfg := DefaultConfig()
	if len(data) == 0 {
		return cfg
	}

	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg
	}

	applyInt(&cfg.InsuranceAlertDays, raw.InsuranceAlertDays)
	applyInt(&cfg.InsuranceCriticalDays, raw.InsuranceCriticalDays)
	applyInt(&cfg.InspectionAlertDays, raw.InspectionAlertDays)
	applyInt(&cfg.InspectionCriticalDays, raw.InspectionCriticalDays)
	applyInt(&cfg.InvoiceCriticalDays, raw.InvoiceCriticalDays)
	applyInt(&cfg.StockCriticalLevel, raw.StockCriticalLevel)
	applyInt(&cfg.StockImportantLevel, raw.StockImportantLevel)

	applyBool(&cfg.InsuranceEnabled, raw.InsuranceEnabled)
	applyBool(&cfg.InspectionEnabled, raw.InspectionEnabled)
	applyBool(&cfg.MaintenanceEnabled, raw.MaintenanceEnabled)
	applyBool(&cfg.StockEnabled, raw.StockEnabled)
	applyBool(&cfg.InvoiceEnabled, raw.InvoiceEnabled)

	return cfg
}

// applyInt keeps the default when the stored value is missing or negative.
// Thresholds are non-negative by contract.
func applyInt(dst *int, src *int) {
	if src != nil && *src >= 0 {
		*dst = *src
	}
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// sanitized clamps negative day windows back to the defaults. Evaluate calls
// it so a hand-built Config cannot produce nonsense windows; stored zeros
// pass through untouched.
func (c Config) sanitized() Config {
	def := DefaultConfig()
	if c.InsuranceAlertDays < 0 {
		c.InsuranceAlertDays = def.InsuranceAlertDays
	}
	if c.InsuranceCriticalDays < 0 {
		c.InsuranceCriticalDays = def.InsuranceCriticalDays
	}
	if c.InspectionAlertDays < 0 {
		c.InspectionAlertDays = def.InspectionAlertDays
	}
	if c.InspectionCriticalDays < 0 {
		c.InspectionCriticalDays = def.InspectionCriticalDays
	}
	if c.InvoiceCriticalDays < 0 {
		c.InvoiceCriticalDays = def.InvoiceCriticalDays
	}
	return c
}

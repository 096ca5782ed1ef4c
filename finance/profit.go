/*
profit.go - Per-vehicle and per-driver profitability over missions

PURPOSE:
  Joins mission records to vehicles/drivers by foreign key and nets each
  mission's realized revenue against its estimated cost components
  (fuel + toll + meals + other). Lines follow the entity input order so a
  later stable sort breaks profit ties by insertion order.
*/
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/gestiflot/fleet-office/fleet"
)

// ProfitLine is one entity's mission economics.
type ProfitLine struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Missions int             `json:"missions"`
	Revenue  decimal.Decimal `json:"revenue"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
}

// ProfitByVehicle returns one line per vehicle, in vehicle input order.
// Missions referencing an unknown vehicle are ignored.
func ProfitByVehicle(vehicles []fleet.Vehicle, missions []fleet.Mission) []ProfitLine {
	lines := make([]ProfitLine, len(vehicles))
	index := make(map[fleet.VehicleID]int, len(vehicles))
	for i, v := range vehicles {
		lines[i] = newProfitLine(string(v.ID), v.Label())
		index[v.ID] = i
	}
	for _, m := range missions {
		i, ok := index[m.VehicleID]
		if !ok {
			continue
		}
		lines[i].accumulate(m)
	}
	return lines
}

// ProfitByDriver returns one line per driver, in driver input order.
func ProfitByDriver(drivers []fleet.Driver, missions []fleet.Mission) []ProfitLine {
	lines := make([]ProfitLine, len(drivers))
	index := make(map[fleet.DriverID]int, len(drivers))
	for i, d := range drivers {
		lines[i] = newProfitLine(string(d.ID), d.FullName())
		index[d.ID] = i
	}
	for _, m := range missions {
		i, ok := index[m.DriverID]
		if !ok {
			continue
		}
		lines[i].accumulate(m)
	}
	return lines
}

func newProfitLine(id, name string) ProfitLine {
	return ProfitLine{
		ID:      id,
		Name:    name,
		Revenue: decimal.Zero,
		Cost:    decimal.Zero,
		Profit:  decimal.Zero,
	}
}

func (l *ProfitLine) accumulate(m fleet.Mission) {
	l.Missions++
	l.Revenue = l.Revenue.Add(m.Revenue)
	l.Cost = l.Cost.Add(m.TotalCost())
	l.Profit = l.Revenue.Sub(l.Cost)
}

package fleet_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gestiflot/fleet-office/fleet"
)

func TestVehicle_Label(t *testing.T) {
	assert.Equal(t, "AB-123-CD", fleet.Vehicle{ID: "v1", Registration: "AB-123-CD"}.Label())
	assert.Equal(t, "v1", fleet.Vehicle{ID: "v1"}.Label(), "falls back to the id")
}

func TestDriver_FullName(t *testing.T) {
	assert.Equal(t, "Moussa Diop", fleet.Driver{FirstName: "Moussa", LastName: "Diop"}.FullName())
	assert.Equal(t, "Diop", fleet.Driver{LastName: "Diop"}.FullName())
	assert.Equal(t, "Moussa", fleet.Driver{FirstName: "Moussa"}.FullName())
}

func TestMission_CostAndProfit(t *testing.T) {
	m := fleet.Mission{
		Revenue:   decimal.NewFromInt(1000),
		FuelCost:  decimal.NewFromInt(150),
		TollCost:  decimal.NewFromInt(40),
		MealCost:  decimal.NewFromInt(25),
		OtherCost: decimal.NewFromInt(10),
	}
	assert.True(t, m.TotalCost().Equal(decimal.NewFromInt(225)))
	assert.True(t, m.Profit().Equal(decimal.NewFromInt(775)))

	var empty fleet.Mission
	assert.True(t, empty.TotalCost().IsZero())
	assert.True(t, empty.Profit().IsZero())
}

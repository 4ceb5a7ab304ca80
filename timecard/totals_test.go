package timecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalsAccumulateWithoutDrift(t *testing.T) {
	var week Totals
	for range 10 {
		week.Merge(Totals{HoursTotal: 0.1, ProductionTotal: 0.2, LineTotal: 0.3})
	}
	assert.Equal(t, Totals{HoursTotal: 1, ProductionTotal: 2, LineTotal: 3}, week)

	var card Totals
	card.Add(LineTotals{Hours: 7.7, Production: 1.1, LineTotal: 2.2})
	card.Add(LineTotals{Hours: 0.2, Production: 2.2, LineTotal: 0.1})
	assert.Equal(t, Totals{HoursTotal: 7.9, ProductionTotal: 3.3, LineTotal: 2.3}, card)
}

func TestLineTotalsFor(t *testing.T) {
	var hours, production, unitCost DayValues
	hours.Set(Monday, 8)
	production.Set(Monday, 3)
	unitCost.Set(Monday, 0.1)
	production.Set(Friday, 2)
	unitCost.Set(Saturday, 5)

	got := LineTotalsFor(hours, production, unitCost)
	assert.Equal(t, LineTotals{Hours: 8, Production: 5, LineTotal: 0.3}, got)
}

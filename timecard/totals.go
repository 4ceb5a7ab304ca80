package timecard

import (
	"github.com/shopspring/decimal"
)

// LineTotals are the derived sums of a single line.
type LineTotals struct {
	Hours      float64 `json:"hours"`
	Production float64 `json:"production"`
	LineTotal  float64 `json:"lineTotal"`
}

func (t *LineTotals) UnmarshalJSON(b []byte) error {
	o := decodeObject(b)
	*t = LineTotals{
		Hours:      o.number("hours"),
		Production: o.number("production"),
		LineTotal:  o.number("lineTotal"),
	}
	return nil
}

// Totals aggregate the line totals of a whole timecard.
type Totals struct {
	HoursTotal      float64 `json:"hoursTotal"`
	ProductionTotal float64 `json:"productionTotal"`
	LineTotal       float64 `json:"lineTotal"`
}

func (t *Totals) UnmarshalJSON(b []byte) error {
	o := decodeObject(b)
	*t = Totals{
		HoursTotal:      o.number("hoursTotal"),
		ProductionTotal: o.number("productionTotal"),
		LineTotal:       o.number("lineTotal"),
	}
	return nil
}

func (t *Totals) Add(l LineTotals) {
	t.HoursTotal = sum(t.HoursTotal, l.Hours)
	t.ProductionTotal = sum(t.ProductionTotal, l.Production)
	t.LineTotal = sum(t.LineTotal, l.LineTotal)
}

// Merge adds another set of totals, e.g. to total a week across timecards.
func (t *Totals) Merge(o Totals) {
	t.HoursTotal = sum(t.HoursTotal, o.HoursTotal)
	t.ProductionTotal = sum(t.ProductionTotal, o.ProductionTotal)
	t.LineTotal = sum(t.LineTotal, o.LineTotal)
}

func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(finite(v)))
	}
	f, _ := total.Float64()
	return f
}

// LineTotalsFor derives a line's totals. The dollar total is the sum of
// production × unit cost per day; hours never enter it.
func LineTotalsFor(hours, production, unitCost DayValues) LineTotals {
	dollars := decimal.Zero
	for _, d := range Week {
		p := decimal.NewFromFloat(finite(production[d]))
		u := decimal.NewFromFloat(finite(unitCost[d]))
		dollars = dollars.Add(p.Mul(u))
	}
	lineTotal, _ := dollars.Float64()
	return LineTotals{
		Hours:      hours.Sum(),
		Production: production.Sum(),
		LineTotal:  lineTotal,
	}
}

// SumLineTotals adds up the totals of every line.
func SumLineTotals(lines []Line) Totals {
	var totals Totals
	for _, l := range lines {
		totals.Add(l.Summary())
	}
	return totals
}

// Summary returns the stored line totals, deriving them when the record has none.
func (l Line) Summary() LineTotals {
	if l.Totals != nil {
		return *l.Totals
	}
	return LineTotalsFor(l.Hours, l.Production, l.UnitCost)
}

// Summary returns the stored timecard totals, deriving them from the lines
// when the record has none.
func (t Timecard) Summary() Totals {
	if t.Totals != nil {
		return *t.Totals
	}
	return SumLineTotals(t.Lines)
}

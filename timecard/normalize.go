package timecard

import (
	"math"
)

// Normalize converts a persisted record into the canonical lines + totals form.
//
// A record that already carries lines is returned as is. Otherwise every legacy
// job becomes one line and the timecard totals are summed from the lines,
// unless the record brought its own totals, which are kept verbatim.
// Malformed input degrades to empty or zero values; Normalize never fails.
func Normalize(raw Timecard) Timecard {
	if raw.Shape() == ShapeFlat {
		return raw
	}

	lines := make([]Line, 0, len(raw.Jobs))
	for _, job := range raw.Jobs {
		lines = append(lines, lineFromJob(job))
	}

	out := raw
	out.Lines = lines
	if raw.Totals != nil {
		totals := *raw.Totals
		out.Totals = &totals
	} else {
		totals := SumLineTotals(lines)
		out.Totals = &totals
	}
	return out
}

func NormalizeAll(raw []Timecard) []Timecard {
	out := make([]Timecard, len(raw))
	for i, t := range raw {
		out[i] = Normalize(t)
	}
	return out
}

func lineFromJob(job LegacyJob) Line {
	var hours, production, unitCost DayValues
	for pos, entry := range job.Days {
		d, ok := dayIndex(entry, pos)
		if !ok {
			continue
		}
		hours[d] = entry.Hours
		production[d] = entry.Production
		unitCost[d] = entry.UnitCost
	}

	totals := LineTotalsFor(hours, production, unitCost)
	return Line{
		JobNumber:  job.JobNumber,
		Area:       job.Area,
		Account:    job.ResolvedAccount(),
		CostCode:   job.ResolvedCostCode(),
		DifH:       job.DifH,
		DifP:       job.DifP,
		DifC:       job.DifC,
		Hours:      hours,
		Production: production,
		UnitCost:   unitCost,
		Totals:     &totals,
	}
}

// dayIndex picks the slot for a legacy day entry: dayOfWeek when it is a
// number in [0,6], the entry's position in days otherwise. A slot that is not
// a whole canonical day (dayOfWeek 2.5, position 7 or later) is dropped.
func dayIndex(entry LegacyDay, pos int) (Day, bool) {
	idx := float64(pos)
	if dow := entry.DayOfWeek; dow != nil && *dow >= 0 && *dow <= 6 {
		idx = *dow
	}
	if idx != math.Trunc(idx) || idx < 0 || idx >= DaysInWeek {
		return 0, false
	}
	return Day(idx), true
}

package timecard

import (
	"encoding/json"
)

// Shape tells which persisted layout a timecard record uses.
type Shape int

const (
	// ShapeEmpty has neither lines nor legacy jobs.
	ShapeEmpty Shape = iota
	// ShapeFlat carries a non-empty lines[] list and is already normalized.
	ShapeFlat
	// ShapeLegacy carries the nested jobs[].days[] layout.
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeFlat:
		return "flat"
	case ShapeLegacy:
		return "legacy"
	}
	return "empty"
}

// Timecard is one employee's week on a job, as persisted or after normalization.
type Timecard struct {
	ID             string
	EmployeeName   string
	EmployeeCode   string
	EmployeeID     string
	EmployeeNumber string

	Lines  []Line
	Jobs   []LegacyJob
	Totals *Totals

	// Extra keeps the members this type does not model so they survive a round trip.
	Extra map[string]json.RawMessage
}

// Shape is the single place that discriminates flat from legacy records.
func (t Timecard) Shape() Shape {
	if len(t.Lines) > 0 {
		return ShapeFlat
	}
	if len(t.Jobs) > 0 {
		return ShapeLegacy
	}
	return ShapeEmpty
}

var timecardKeys = map[string]bool{
	"id": true, "employeeName": true, "employeeCode": true, "employeeId": true,
	"employeeNumber": true, "lines": true, "jobs": true, "totals": true,
}

func (t *Timecard) UnmarshalJSON(b []byte) error {
	o := decodeObject(b)
	*t = Timecard{
		ID:             o.text("id"),
		EmployeeName:   o.text("employeeName"),
		EmployeeCode:   o.text("employeeCode"),
		EmployeeID:     o.text("employeeId"),
		EmployeeNumber: o.text("employeeNumber"),
		Extra:          o.rest(timecardKeys),
	}

	if items := o.elements("lines"); items != nil {
		t.Lines = make([]Line, len(items))
		for i, raw := range items {
			_ = t.Lines[i].UnmarshalJSON(raw)
		}
	}
	if items := o.elements("jobs"); items != nil {
		t.Jobs = make([]LegacyJob, len(items))
		for i, raw := range items {
			_ = t.Jobs[i].UnmarshalJSON(raw)
		}
	}
	if o.isObject("totals") {
		var totals Totals
		_ = totals.UnmarshalJSON(o["totals"])
		t.Totals = &totals
	}
	return nil
}

func (t Timecard) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Extra)+8)
	for k, v := range t.Extra {
		out[k] = v
	}
	putText(out, "id", t.ID)
	putText(out, "employeeName", t.EmployeeName)
	putText(out, "employeeCode", t.EmployeeCode)
	putText(out, "employeeId", t.EmployeeID)
	putText(out, "employeeNumber", t.EmployeeNumber)
	if t.Lines != nil {
		out["lines"] = t.Lines
	}
	if t.Jobs != nil {
		out["jobs"] = t.Jobs
	}
	if t.Totals != nil {
		out["totals"] = t.Totals
	}
	return json.Marshal(out)
}

// Line is one job-assignment row of a normalized timecard.
type Line struct {
	JobNumber      string
	Area           string
	SubsectionArea string
	Account        string
	Acct           string
	CostCode       string
	DifH           string
	DifP           string
	DifC           string

	Hours      DayValues
	Production DayValues
	UnitCost   DayValues

	Totals *LineTotals

	Extra map[string]json.RawMessage
}

var lineKeys = map[string]bool{
	"jobNumber": true, "area": true, "subsectionArea": true, "account": true, "acct": true,
	"costCode": true, "difH": true, "difP": true, "difC": true,
	"production": true, "unitCost": true, "totals": true,
	"sun": true, "mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true,
}

// UnmarshalJSON reads a flat line; hours sit directly on the line under the day keys.
func (l *Line) UnmarshalJSON(b []byte) error {
	o := decodeObject(b)
	*l = Line{
		JobNumber:      o.text("jobNumber"),
		Area:           o.text("area"),
		SubsectionArea: o.text("subsectionArea"),
		Account:        o.text("account"),
		Acct:           o.text("acct"),
		CostCode:       o.text("costCode"),
		DifH:           o.text("difH"),
		DifP:           o.text("difP"),
		DifC:           o.text("difC"),
		Extra:          o.rest(lineKeys),
	}
	for _, d := range Week {
		l.Hours[d] = o.number(d.Key())
	}
	if raw, ok := o["production"]; ok {
		_ = l.Production.UnmarshalJSON(raw)
	}
	if raw, ok := o["unitCost"]; ok {
		_ = l.UnitCost.UnmarshalJSON(raw)
	}
	if o.isObject("totals") {
		var totals LineTotals
		_ = totals.UnmarshalJSON(o["totals"])
		l.Totals = &totals
	}
	return nil
}

func (l Line) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Extra)+20)
	for k, v := range l.Extra {
		out[k] = v
	}
	putText(out, "jobNumber", l.JobNumber)
	putText(out, "area", l.Area)
	putText(out, "subsectionArea", l.SubsectionArea)
	putText(out, "account", l.Account)
	putText(out, "acct", l.Acct)
	putText(out, "costCode", l.CostCode)
	putText(out, "difH", l.DifH)
	putText(out, "difP", l.DifP)
	putText(out, "difC", l.DifC)
	for _, d := range Week {
		out[d.Key()] = l.Hours[d]
	}
	out["production"] = l.Production
	out["unitCost"] = l.UnitCost
	if l.Totals != nil {
		out["totals"] = l.Totals
	}
	return json.Marshal(out)
}

// LegacyJob is one entry of the nested jobs[] layout.
type LegacyJob struct {
	JobNumber string      `json:"jobNumber,omitempty"`
	Area      string      `json:"area,omitempty"`
	Acct      string      `json:"acct,omitempty"`
	Account   string      `json:"account,omitempty"`
	CostCode  string      `json:"costCode,omitempty"`
	DifH      string      `json:"difH,omitempty"`
	DifP      string      `json:"difP,omitempty"`
	DifC      string      `json:"difC,omitempty"`
	Days      []LegacyDay `json:"days"`
}

func (j *LegacyJob) UnmarshalJSON(b []byte) error {
	o := decodeObject(b)
	*j = LegacyJob{
		JobNumber: o.text("jobNumber"),
		Area:      o.text("area"),
		Acct:      o.text("acct"),
		Account:   o.text("account"),
		CostCode:  o.text("costCode"),
		DifH:      o.text("difH"),
		DifP:      o.text("difP"),
		DifC:      o.text("difC"),
	}
	if items := o.elements("days"); items != nil {
		j.Days = make([]LegacyDay, len(items))
		for i, raw := range items {
			_ = j.Days[i].UnmarshalJSON(raw)
		}
	}
	return nil
}

// LegacyDay is one day entry of a legacy job. DayOfWeek is nil unless the
// stored value was a JSON number.
type LegacyDay struct {
	DayOfWeek  *float64 `json:"dayOfWeek,omitempty"`
	Hours      float64  `json:"hours"`
	Production float64  `json:"production"`
	UnitCost   float64  `json:"unitCost"`
}

func (d *LegacyDay) UnmarshalJSON(b []byte) error {
	o := decodeObject(b)
	*d = LegacyDay{
		Hours:      o.number("hours"),
		Production: o.number("production"),
		UnitCost:   o.number("unitCost"),
	}
	if f, ok := o.value("dayOfWeek").(float64); ok {
		d.DayOfWeek = &f
	}
	return nil
}

func putText(out map[string]any, key, value string) {
	if value != "" {
		out[key] = value
	}
}

// Package timecard models weekly construction timecards and converts persisted
// records of either shape into the canonical lines + totals form the exporters use.
package timecard

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Day is a day-of-week index, Sunday first.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

const DaysInWeek = 7

var dayKeys = [DaysInWeek]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

var dayLabels = [DaysInWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Week lists the seven days in canonical order.
var Week = [DaysInWeek]Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func (d Day) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// Key returns the canonical short key ("sun" … "sat"), or "" for an invalid day.
func (d Day) Key() string {
	if !d.Valid() {
		return ""
	}
	return dayKeys[d]
}

func (d Day) Label() string {
	if !d.Valid() {
		return ""
	}
	return dayLabels[d]
}

// DayFromKey maps a canonical key back to its index.
func DayFromKey(key string) (Day, bool) {
	for i, k := range dayKeys {
		if k == key {
			return Day(i), true
		}
	}
	return 0, false
}

// Keys returns a copy of the canonical key order.
func Keys() []string {
	keys := make([]string, DaysInWeek)
	copy(keys, dayKeys[:])
	return keys
}

// DayValues holds one number per canonical day. Days without an entry are 0.
type DayValues [DaysInWeek]float64

func (v DayValues) Get(d Day) float64 {
	if !d.Valid() {
		return 0
	}
	return v[d]
}

func (v *DayValues) Set(d Day, x float64) {
	if !d.Valid() {
		return
	}
	v[d] = x
}

// Sum adds the seven values without float drift.
func (v DayValues) Sum() float64 {
	return sum(v[:]...)
}

// IsZero reports whether every day is exactly 0.
func (v DayValues) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func (v DayValues) Map() map[string]float64 {
	m := make(map[string]float64, DaysInWeek)
	for _, d := range Week {
		m[d.Key()] = v[d]
	}
	return m
}

// MarshalJSON writes the canonical keys in Sunday-first order.
func (v DayValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range Week {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(d.Key()))
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(v[d], 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the canonical keys, coercing each value to a number.
// Unknown keys are ignored; anything that is not an object leaves all days at 0.
func (v *DayValues) UnmarshalJSON(b []byte) error {
	*v = DayValues{}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}
	for _, d := range Week {
		v[d] = Number(fields[d.Key()])
	}
	return nil
}

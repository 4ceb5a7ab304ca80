// Package export renders normalized timecards into the payroll CSV, the
// paginated PDF, the HTML email body and an XLSX workbook.
package export

import (
	"math"
	"strconv"
	"strings"

	"jobtrack.com/jobtrack/timecard"
)

// Format is an output encoding for a batch of timecards.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

var contentTypes = map[Format]string{
	FormatCSV:  "text/csv",
	FormatPDF:  "application/pdf",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatHTML: "text/html; charset=utf-8",
}

func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	_, ok := contentTypes[f]
	return f, ok
}

func (f Format) ContentType() string {
	return contentTypes[f]
}

func (f Format) Ext() string {
	return string(f)
}

// Payload is what the PDF and HTML renderers draw a week from.
type Payload struct {
	JobName     string
	JobNumber   string
	SubmittedBy string
	WeekStart   string
	Timecards   []timecard.Timecard
}

// FormatNumber prints whole numbers without a decimal point and anything else
// with exactly two decimals. NaN and ±Inf print as 0.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if v == math.Trunc(v) {
		if v == 0 {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatText replaces a blank value with "-".
func FormatText(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// formatQuantity is the payroll rendering of one day's value: empty for 0,
// the shortest decimal form otherwise.
func formatQuantity(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func normalized(timecards []timecard.Timecard) []timecard.Timecard {
	return timecard.NormalizeAll(timecards)
}

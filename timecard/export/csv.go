package export

import (
	"log/slog"

	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/utils"
)

// PayrollHeader is the column layout the payroll importer expects. The two
// trailing columns are unnamed and always empty.
var PayrollHeader = []string{
	"Employee Name",
	"Employee Code",
	"Job Code",
	"DETAIL_DATE",
	"Sub-Section",
	"Activity Code",
	"Cost Code",
	"H_Hours",
	"P_HOURS",
	"",
	"",
}

const (
	colHours      = 7
	colProduction = 8
)

// PayrollRows expands every line × day with activity into one payroll row.
// The result starts with the header and a blank spacer row, which are present
// even when there are no timecards. A day is skipped when both its hours and
// its production are exactly 0.
func PayrollRows(timecards []timecard.Timecard, weekStart string) [][]string {
	rows := [][]string{PayrollHeader, make([]string, len(PayrollHeader))}
	if len(timecards) == 0 {
		return rows
	}

	start, ok := utils.ParseDate(weekStart)
	if !ok {
		slog.Warn("week start is not a date, using it verbatim in DETAIL_DATE", "weekStart", weekStart)
	}
	dateOf := func(d timecard.Day) string {
		if !ok {
			return weekStart
		}
		return utils.FormatUSDate(start.AddDate(0, 0, int(d)))
	}

	for _, tc := range normalized(timecards) {
		code := tc.ResolvedEmployeeCode()
		for _, line := range tc.Lines {
			for _, d := range timecard.Week {
				hours := line.Hours[d]
				production := line.Production[d]
				if hours == 0 && production == 0 {
					continue
				}
				rows = append(rows, []string{
					tc.EmployeeName,
					code,
					line.JobNumber,
					dateOf(d),
					line.ResolvedArea(),
					line.ResolvedAccount(),
					line.ResolvedCostCode(),
					formatQuantity(hours),
					formatQuantity(production),
					"",
					"",
				})
			}
		}
	}
	return rows
}

// BuildCSV renders the payroll rows as CSV text, rows separated by "\n" with
// no trailing newline.
func BuildCSV(timecards []timecard.Timecard, weekStart string) string {
	return utils.FormatCSV(PayrollRows(timecards, weekStart))
}

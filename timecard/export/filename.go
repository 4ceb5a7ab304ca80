package export

import (
	"time"

	"jobtrack.com/jobtrack/utils"
)

const fallbackBase = "timecards"

// WeekEnding is the Saturday closing the week that starts on weekStart.
func WeekEnding(weekStart string) (time.Time, bool) {
	start, ok := utils.ParseDate(weekStart)
	if !ok {
		return time.Time{}, false
	}
	return start.AddDate(0, 0, 6), true
}

// WeekLabel renders "M/D/YYYY - M/D/YYYY", or the raw week start when it does
// not parse.
func WeekLabel(weekStart string) string {
	start, ok := utils.ParseDate(weekStart)
	if !ok {
		return weekStart
	}
	return utils.FormatUSDate(start) + " - " + utils.FormatUSDate(start.AddDate(0, 0, 6))
}

// BuildFilename names an attachment after the week-ending date and job code,
// e.g. "2024-02-10 J100.csv". An unparseable week start is used as the base
// as is; an empty one becomes "timecards".
func BuildFilename(weekStart, jobCode, ext string) string {
	base := utils.OrDefault(weekStart, fallbackBase)
	if end, ok := WeekEnding(weekStart); ok {
		base = utils.FormatISODate(end)
	}
	if code := utils.OrDefault(jobCode, ""); code != "" {
		base += " " + code
	}
	return base + "." + ext
}

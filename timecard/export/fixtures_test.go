package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"jobtrack.com/jobtrack/timecard"
)

const weekStart = "2024-02-04"

func decodeTimecards(t *testing.T, raw string) []timecard.Timecard {
	t.Helper()
	var out []timecard.Timecard
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

// sampleWeek mixes a legacy record, a flat record with stored totals and a
// flat record without any.
func sampleWeek(t *testing.T) []timecard.Timecard {
	return decodeTimecards(t, `[
		{
			"employeeName": "Dana Reyes",
			"employeeId": "E-7",
			"jobs": [
				{"jobNumber": "J1", "area": "North", "acct": "100", "difC": "C9",
				 "days": [{"dayOfWeek": 1, "hours": 8, "production": 40, "unitCost": 2},
				          {"dayOfWeek": 2, "hours": 7.5, "production": 12.25, "unitCost": 3}]},
				{"jobNumber": "J2", "days": [{"hours": 0, "production": 0}, {"hours": 0, "production": 0}]}
			]
		},
		{
			"employeeName": "Kim, Lee",
			"employeeCode": "K-1",
			"lines": [
				{"jobNumber": "J1", "subsectionArea": "South", "account": "200", "costCode": "CC",
				 "mon": 4, "fri": 6, "production": {"mon": 10, "fri": 0}, "unitCost": {"mon": 1.5},
				 "totals": {"hours": 10, "production": 10, "lineTotal": 15}}
			],
			"totals": {"hoursTotal": 10, "productionTotal": 10, "lineTotal": 15}
		},
		{
			"employeeName": "",
			"employeeNumber": "N-3",
			"lines": [{"jobNumber": "J3", "sat": 2.25, "production": {"sat": 1}, "unitCost": {"sat": 0.1}}]
		}
	]`)
}

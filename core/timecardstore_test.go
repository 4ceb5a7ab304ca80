package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobtrack.com/jobtrack/timecard"
)

// dryRunDB builds statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pw@tcp(127.0.0.1:1)/jobtrack",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

func TestSubmittedTimecardsQuery(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var records []TimecardRecord
		return submittedTimecards(tx, "job-1", "2024-02-04").Find(&records)
	})

	assert.Equal(t,
		"SELECT * FROM `timecards` WHERE job_id = 'job-1' AND week_start = '2024-02-04' AND status = 'submitted' ORDER BY employee_name",
		sql)
}

func TestTimecardRecordDecode(t *testing.T) {
	tests := []struct {
		name   string
		record TimecardRecord
		id     string
		owner  string
		shape  timecard.Shape
		hours  float64
	}{
		{
			name: "legacy payload",
			record: TimecardRecord{ID: "row-1", EmployeeName: "Row Name", Payload: datatypes.JSON(`{
				"employeeName": "Dana Reyes",
				"jobs": [{"jobNumber": "J1", "days": [{"dayOfWeek": 1, "hours": 8}]}]}`)},
			id: "row-1", owner: "Dana Reyes", shape: timecard.ShapeLegacy, hours: 8,
		},
		{
			name: "flat payload with id",
			record: TimecardRecord{ID: "row-2", Payload: datatypes.JSON(`{
				"id": "tc-2", "lines": [{"jobNumber": "J1", "mon": 4, "tue": "3.5"}]}`)},
			id: "tc-2", owner: "", shape: timecard.ShapeFlat, hours: 7.5,
		},
		{
			name:   "unreadable payload",
			record: TimecardRecord{ID: "row-3", EmployeeName: "Kim Lee", Payload: datatypes.JSON(`not json`)},
			id:     "row-3", owner: "Kim Lee", shape: timecard.ShapeEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := tt.record.Timecard()
			assert.Equal(t, tt.id, tc.ID)
			assert.Equal(t, tt.owner, tc.EmployeeName)
			assert.Equal(t, tt.shape, tc.Shape())
			assert.Equal(t, tt.hours, timecard.Normalize(tc).Summary().HoursTotal)
		})
	}
}

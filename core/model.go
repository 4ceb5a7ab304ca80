package core

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"jobtrack.com/jobtrack/reporting"
	"jobtrack.com/jobtrack/timecard"
)

type Job struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string
	Number    string `gorm:"size:32;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string {
	return "jobs"
}

func (j Job) Reporting() *reporting.Job {
	return &reporting.Job{ID: j.ID, Name: j.Name, Number: j.Number}
}

// TimecardRecord stores one employee week. Payload keeps the record exactly as
// submitted, flat or legacy.
type TimecardRecord struct {
	ID           string `gorm:"primaryKey;size:64"`
	JobID        string `gorm:"size:64;index:idx_timecards_job_week"`
	WeekStart    string `gorm:"size:10;index:idx_timecards_job_week"`
	Status       string `gorm:"size:16;index"`
	EmployeeName string
	Payload      datatypes.JSON
	SubmittedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (TimecardRecord) TableName() string {
	return "timecards"
}

// Timecard decodes the payload. Row columns fill the id and employee name
// when the payload lacks them.
func (r TimecardRecord) Timecard() timecard.Timecard {
	var tc timecard.Timecard
	if len(r.Payload) > 0 {
		_ = json.Unmarshal(r.Payload, &tc)
	}
	if tc.ID == "" {
		tc.ID = r.ID
	}
	if tc.EmployeeName == "" {
		tc.EmployeeName = r.EmployeeName
	}
	return tc
}

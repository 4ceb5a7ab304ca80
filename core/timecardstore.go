package core

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobtrack.com/jobtrack/reporting"
	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/utils"
)

// TimecardStore reads jobs and timecards from a tenant schema.
type TimecardStore struct {
	db *gorm.DB
}

func NewTimecardStore(db *gorm.DB) *TimecardStore {
	return &TimecardStore{db: db}
}

func (s *TimecardStore) GetJob(ctx context.Context, jobID string) (*reporting.Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Where("id = ?", jobID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", reporting.ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	return job.Reporting(), nil
}

func submittedTimecards(db *gorm.DB, jobID, weekStart string) *gorm.DB {
	return db.Model(&TimecardRecord{}).
		Where("job_id = ? AND week_start = ? AND status = ?", jobID, weekStart, reporting.StatusSubmitted).
		Order("employee_name")
}

func (s *TimecardStore) ListTimecards(ctx context.Context, jobID, weekStart string) ([]timecard.Timecard, error) {
	var records []TimecardRecord
	if err := submittedTimecards(s.db.WithContext(ctx), jobID, weekStart).Find(&records).Error; err != nil {
		return nil, err
	}
	return utils.Map(records, TimecardRecord.Timecard), nil
}

func (s *TimecardStore) GetTimecard(ctx context.Context, jobID, weekStart, timecardID string) (*timecard.Timecard, error) {
	var record TimecardRecord
	err := submittedTimecards(s.db.WithContext(ctx), jobID, weekStart).
		Where("id = ?", timecardID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", reporting.ErrTimecardNotFound, timecardID)
	}
	if err != nil {
		return nil, fmt.Errorf("get timecard %s: %w", timecardID, err)
	}
	tc := record.Timecard()
	return &tc, nil
}

// Migrate creates the jobs and timecards tables in the current schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Job{}, &TimecardRecord{})
}

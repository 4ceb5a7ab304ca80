package reporting

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"jobtrack.com/jobtrack/logging"
	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/timecard/export"
)

type ExportRequest struct {
	Tenant      string
	JobID       string
	WeekStart   string
	TimecardID  string
	SubmittedBy string
	Format      string
}

// Export renders the week's submitted timecards, or a single timecard when
// TimecardID is set, in the requested format.
func (s *Service) Export(ctx context.Context, req ExportRequest) (*Attachment, error) {
	format, ok := export.ParseFormat(req.Format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}

	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	var timecards []timecard.Timecard
	if req.TimecardID != "" {
		tc, err := s.store.GetTimecard(ctx, req.JobID, req.WeekStart, req.TimecardID)
		if err != nil {
			return nil, err
		}
		timecards = []timecard.Timecard{*tc}
	} else {
		timecards, err = s.store.ListTimecards(ctx, req.JobID, req.WeekStart)
		if err != nil {
			return nil, fmt.Errorf("list timecards: %w", err)
		}
	}

	payload := export.Payload{
		JobName:     job.Name,
		JobNumber:   job.Number,
		SubmittedBy: req.SubmittedBy,
		WeekStart:   req.WeekStart,
		Timecards:   timecard.NormalizeAll(timecards),
	}
	att, err := Render(ctx, format, payload)
	if err != nil {
		return nil, err
	}

	s.archive(ctx, req.Tenant, req.JobID, req.WeekStart, att)
	logging.FromContext(ctx).Info("timecards exported",
		"job_id", req.JobID, "week_start", req.WeekStart, "format", format, "timecards", len(timecards), "bytes", len(att.Data))
	return att, nil
}

// Render encodes an already fetched payload. The file is named after the
// week-ending date and the job number.
func Render(ctx context.Context, format export.Format, p Payload) (*Attachment, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case export.FormatCSV:
		data = []byte(export.BuildCSV(p.Timecards, p.WeekStart))
	case export.FormatPDF:
		data, err = export.BuildPDF(ctx, p)
	case export.FormatXLSX:
		data, err = export.BuildXLSX(p.Timecards, p.WeekStart)
	case export.FormatHTML:
		var html string
		html, err = export.BuildTimecardsEmail(p)
		data = []byte(html)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &Attachment{
		Filename:    export.BuildFilename(p.WeekStart, p.JobNumber, format.Ext()),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Payload is re-exported so callers of Render need only this package.
type Payload = export.Payload

// ArchiveKey is timecards/<tenant>/<jobId>/<weekStart>/<uuid>-<filename>.
func ArchiveKey(tenant, jobID, weekStart, filename string) string {
	return fmt.Sprintf("timecards/%s/%s/%s/%s-%s", tenant, jobID, weekStart, uuid.NewString(), filename)
}

// archive stores a copy of att. Failures are logged and never fail the request.
func (s *Service) archive(ctx context.Context, tenant, jobID, weekStart string, att *Attachment) {
	if s.archiver == nil {
		return
	}
	key := ArchiveKey(tenant, jobID, weekStart, att.Filename)
	if err := s.archiver.Put(ctx, key, att.ContentType, att.Data); err != nil {
		logging.FromContext(ctx).Warn("archiving export failed", "key", key, "error", err)
	}
}

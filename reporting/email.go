package reporting

import (
	"context"
	"fmt"
	"strings"

	"jobtrack.com/jobtrack/infrastructure/mail"
	"jobtrack.com/jobtrack/logging"
	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/timecard/export"
	"jobtrack.com/jobtrack/utils"
)

type EmailRequest struct {
	Tenant      string
	JobID       string
	WeekStart   string
	SubmittedBy string
	To          []string
	Cc          []string
	AttachCSV   bool
	AttachPDF   bool
}

type EmailResult struct {
	MessageID   string   `json:"messageId"`
	Recipients  []string `json:"recipients"`
	Attachments []string `json:"attachments"`
	Timecards   int      `json:"timecards"`
}

// SendWeeklyEmail mails the week's submitted timecards as an HTML summary
// with optional CSV and PDF attachments. Body and attachments are rendered
// from one normalized batch. Recipients come from the request, or from the
// tenant directory when the request has none.
func (s *Service) SendWeeklyEmail(ctx context.Context, req EmailRequest) (*EmailResult, error) {
	if s.mailer == nil {
		return nil, ErrMailerNotConfigured
	}

	res, err := s.sendWeeklyEmail(ctx, req)
	if err != nil {
		s.alert(ctx, fmt.Sprintf("timecards email failed for %s job %s week %s: %v", req.Tenant, req.JobID, req.WeekStart, err))
		return nil, err
	}
	s.inform(ctx, fmt.Sprintf("timecards email sent for %s job %s week %s: %d timecards to %d recipients",
		req.Tenant, req.JobID, req.WeekStart, res.Timecards, len(res.Recipients)))
	return res, nil
}

func (s *Service) sendWeeklyEmail(ctx context.Context, req EmailRequest) (*EmailResult, error) {
	job, err := s.store.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	timecards, err := s.store.ListTimecards(ctx, req.JobID, req.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("list timecards: %w", err)
	}

	to, err := s.resolveRecipients(ctx, req.Tenant, req.To)
	if err != nil {
		return nil, err
	}

	payload := export.Payload{
		JobName:     job.Name,
		JobNumber:   job.Number,
		SubmittedBy: req.SubmittedBy,
		WeekStart:   req.WeekStart,
		Timecards:   timecard.NormalizeAll(timecards),
	}

	html, err := export.BuildTimecardsEmail(payload)
	if err != nil {
		return nil, err
	}

	msg := &mail.Message{
		From:    s.from,
		To:      to,
		Cc:      addresses(req.Cc),
		Subject: Subject(payload),
		Text:    PlainText(payload),
		HTML:    html,
	}

	var formats []export.Format
	if req.AttachCSV {
		formats = append(formats, export.FormatCSV)
	}
	if req.AttachPDF {
		formats = append(formats, export.FormatPDF)
	}
	var attachments []*Attachment
	for _, f := range formats {
		att, err := Render(ctx, f, payload)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
		msg.Attachments = append(msg.Attachments, mail.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Content:     att.Data,
		})
	}

	id, err := s.mailer.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("send timecards email: %w", err)
	}

	result := &EmailResult{
		MessageID:  id,
		Recipients: msg.Recipients(),
		Timecards:  len(payload.Timecards),
	}
	for _, att := range attachments {
		s.archive(ctx, req.Tenant, req.JobID, req.WeekStart, att)
		result.Attachments = append(result.Attachments, att.Filename)
	}

	logging.FromContext(ctx).Info("timecards email sent",
		"job_id", req.JobID, "week_start", req.WeekStart, "message_id", id, "recipients", len(result.Recipients))
	return result, nil
}

func (s *Service) resolveRecipients(ctx context.Context, tenant string, requested []string) ([]string, error) {
	to := addresses(requested)
	if len(to) > 0 {
		return to, nil
	}
	if s.recipients == nil {
		return nil, ErrNoRecipients
	}

	resolved, err := s.recipients.Recipients(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	if to = addresses(resolved); len(to) == 0 {
		return nil, ErrNoRecipients
	}
	return to, nil
}

// addresses trims each address and drops the blank ones.
func addresses(list []string) []string {
	return utils.Filter(utils.Map(list, strings.TrimSpace), func(a string) bool { return a != "" })
}

func (s *Service) alert(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Error(ctx, message); err != nil {
		logging.FromContext(ctx).Warn("slack alert failed", "error", err)
	}
}

func (s *Service) inform(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Info(ctx, message); err != nil {
		logging.FromContext(ctx).Warn("slack message failed", "error", err)
	}
}

// Subject reads "Timecards: <job> (#<number>), week <M/D/YYYY - M/D/YYYY>".
func Subject(p export.Payload) string {
	job := export.FormatText(p.JobName)
	if n := strings.TrimSpace(p.JobNumber); n != "" {
		job += " (#" + n + ")"
	}
	return fmt.Sprintf("Timecards: %s, week %s", job, export.WeekLabel(p.WeekStart))
}

// PlainText is the text/plain alternative: one line per employee with the
// same totals the HTML shows.
func PlainText(p export.Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Subject(p))
	fmt.Fprintf(&b, "Submitted By: %s\n\n", export.FormatText(p.SubmittedBy))
	if len(p.Timecards) == 0 {
		b.WriteString("No submitted timecards found.\n")
		return b.String()
	}
	for _, tc := range p.Timecards {
		t := tc.Summary()
		fmt.Fprintf(&b, "%s (%s): Hours %s, Production %s, Line $ %s\n",
			export.FormatText(tc.EmployeeName), export.FormatText(tc.ResolvedEmployeeCode()),
			export.FormatNumber(t.HoursTotal), export.FormatNumber(t.ProductionTotal), export.FormatNumber(t.LineTotal))
	}
	return b.String()
}

// Package reporting fetches a job's submitted timecards for a week and turns
// them into downloadable exports or the weekly timecards email.
package reporting

import (
	"context"
	"errors"

	"jobtrack.com/jobtrack/infrastructure/mail"
	"jobtrack.com/jobtrack/timecard"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrTimecardNotFound    = errors.New("timecard not found")
	ErrNoRecipients        = errors.New("no email recipients")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrMailerNotConfigured = errors.New("mail provider not configured")
)

// StatusSubmitted marks timecards that are ready for payroll.
const StatusSubmitted = "submitted"

type Job struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Store reads jobs and timecards. ListTimecards returns submitted timecards only.
type Store interface {
	GetJob(ctx context.Context, jobID string) (*Job, error)
	ListTimecards(ctx context.Context, jobID, weekStart string) ([]timecard.Timecard, error)
	GetTimecard(ctx context.Context, jobID, weekStart, timecardID string) (*timecard.Timecard, error)
}

type Mailer interface {
	Send(ctx context.Context, msg *mail.Message) (string, error)
}

type Archiver interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Notifier posts operational messages, e.g. to Slack.
type Notifier interface {
	Info(ctx context.Context, message string) error
	Error(ctx context.Context, message string) error
}

// RecipientResolver supplies the default payroll recipients of a tenant.
type RecipientResolver interface {
	Recipients(ctx context.Context, tenant string) ([]string, error)
}

type Options struct {
	Store      Store
	Mailer     Mailer
	Archiver   Archiver
	Notifier   Notifier
	Recipients RecipientResolver
	From       string
}

type Service struct {
	store      Store
	mailer     Mailer
	archiver   Archiver
	notifier   Notifier
	recipients RecipientResolver
	from       string
}

func New(o Options) *Service {
	return &Service{
		store:      o.Store,
		mailer:     o.Mailer,
		archiver:   o.Archiver,
		notifier:   o.Notifier,
		recipients: o.Recipients,
		from:       o.From,
	}
}

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

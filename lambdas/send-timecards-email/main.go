package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"gorm.io/gorm"

	"jobtrack.com/jobtrack/bootstrap"
	"jobtrack.com/jobtrack/config"
	"jobtrack.com/jobtrack/core"
	"jobtrack.com/jobtrack/logging"
	"jobtrack.com/jobtrack/reporting"
	"jobtrack.com/jobtrack/utils"
)

type SendEvent struct {
	Tenant      string   `json:"tenant"`
	Env         string   `json:"env"`
	JobID       string   `json:"jobId"`
	WeekStart   string   `json:"weekStart"`
	SubmittedBy string   `json:"submittedBy"`
	To          []string `json:"to"`
	Cc          []string `json:"cc"`
	AttachCSV   *bool    `json:"attachCsv"`
	AttachPDF   *bool    `json:"attachPdf"`
}

func (e SendEvent) Validate() error {
	var errs []error
	if e.Tenant == "" {
		errs = append(errs, errors.New("tenant is required"))
	}
	if e.JobID == "" {
		errs = append(errs, errors.New("jobId is required"))
	}
	if _, ok := utils.ParseDate(e.WeekStart); !ok {
		errs = append(errs, fmt.Errorf("weekStart %q is not a date", e.WeekStart))
	}
	return errors.Join(errs...)
}

// Request applies the defaults: both attachments on.
func (e SendEvent) Request() reporting.EmailRequest {
	return reporting.EmailRequest{
		Tenant:      e.Tenant,
		JobID:       e.JobID,
		WeekStart:   e.WeekStart,
		SubmittedBy: e.SubmittedBy,
		To:          e.To,
		Cc:          e.Cc,
		AttachCSV:   e.AttachCSV == nil || *e.AttachCSV,
		AttachPDF:   e.AttachPDF == nil || *e.AttachPDF,
	}
}

func HandleRequest(ctx context.Context, event SendEvent) (*reporting.EmailResult, error) {
	logger := logging.FromContext(ctx).With("tenant", event.Tenant, "job_id", event.JobID, "week_start", event.WeekStart)
	ctx = logging.WithLogger(ctx, logger)
	logger.Info("send timecards email")

	if err := event.Validate(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if event.Env != "" && cfg.DSN == "" {
		cfg.DBEnv = event.Env
	}

	opts, cleanup, err := bootstrap.Options(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	res, reported, err := send(ctx, cfg, opts, event.Request())
	if err != nil && !reported {
		alert(ctx, opts.Notifier, fmt.Sprintf("send-timecards-email failed for %s job %s week %s: %v", event.Tenant, event.JobID, event.WeekStart, err))
	}
	return res, err
}

// send reports whether a failure came from the reporting service, which
// raises its own alert.
func send(ctx context.Context, cfg *config.Config, opts reporting.Options, req reporting.EmailRequest) (*reporting.EmailResult, bool, error) {
	dsn, err := bootstrap.DSN(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	dm, err := core.New(cfg.DBDriver, dsn, 2)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dm.Close()
	dm.LogLevel = core.LogLevelError

	var (
		res      *reporting.EmailResult
		reported bool
	)
	err = dm.Exec(ctx, req.Tenant, func(db *gorm.DB) error {
		opts.Store = core.NewTimecardStore(db)
		var err error
		res, err = reporting.New(opts).SendWeeklyEmail(ctx, req)
		reported = err != nil
		return err
	})
	return res, reported, err
}

func alert(ctx context.Context, notifier reporting.Notifier, message string) {
	if notifier == nil {
		return
	}
	if err := notifier.Error(ctx, message); err != nil {
		logging.FromContext(ctx).Warn("slack alert failed", "error", err)
	}
}

// readEvent reads a JSON event from the file named by the first argument, or stdin.
func readEvent(args []string, stdin io.Reader) (SendEvent, error) {
	in := stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return SendEvent{}, err
		}
		defer f.Close()
		in = f
	}
	var event SendEvent
	if err := json.NewDecoder(in).Decode(&event); err != nil {
		return SendEvent{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"))

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(HandleRequest)
		return
	}

	event, err := readEvent(os.Args[1:], os.Stdin)
	if err != nil {
		logging.Fatal("read event", "error", err)
	}
	res, err := HandleRequest(context.Background(), event)
	if err != nil {
		logging.Fatal("send timecards email", "error", err)
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))
}

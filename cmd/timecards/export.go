package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobtrack.com/jobtrack/infrastructure/mail"
	"jobtrack.com/jobtrack/reporting"
	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/timecard/export"
	"jobtrack.com/jobtrack/utils"
)

const formatEML = "eml"

type exportOptions struct {
	input       string
	weekStart   string
	jobCode     string
	jobName     string
	submittedBy string
	format      string
	out         string
	timecardID  string
	from        string
	to          []string
}

// ExportCmd renders a JSON dump of timecards to a file.
func ExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a timecard dump as csv, pdf, xlsx, html or a ready-to-send eml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := runExport(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "-", "JSON array of timecards, - for stdin")
	cmd.Flags().StringVar(&opts.weekStart, "week-start", "", "Week start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.jobCode, "job-code", "", "Job number used in the file name")
	cmd.Flags().StringVar(&opts.jobName, "job-name", "", "Job name shown in the pdf and email")
	cmd.Flags().StringVar(&opts.submittedBy, "submitted-by", "", "Name shown as the submitter")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "csv, pdf, xlsx, html or eml")
	cmd.Flags().StringVar(&opts.out, "out", ".", "Output directory")
	cmd.Flags().StringVar(&opts.timecardID, "timecard", "", "Only export the timecard with this id")
	cmd.Flags().StringVar(&opts.from, "from", "timecards@localhost", "eml sender")
	cmd.Flags().StringSliceVar(&opts.to, "to", nil, "eml recipients")
	_ = cmd.MarkFlagRequired("week-start")

	return cmd
}

func readTimecards(r io.Reader) ([]timecard.Timecard, error) {
	var timecards []timecard.Timecard
	if err := json.NewDecoder(r).Decode(&timecards); err != nil {
		return nil, fmt.Errorf("decode timecards: %w", err)
	}
	return timecards, nil
}

func runExport(cmd *cobra.Command, opts exportOptions) (string, error) {
	in := cmd.InOrStdin()
	if opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return "", err
		}
		defer f.Close()
		in = f
	}
	timecards, err := readTimecards(in)
	if err != nil {
		return "", err
	}

	if opts.timecardID != "" {
		tc := utils.Find(timecards, func(tc timecard.Timecard) bool { return tc.ID == opts.timecardID })
		if tc == nil {
			return "", fmt.Errorf("%w: %s", reporting.ErrTimecardNotFound, opts.timecardID)
		}
		timecards = []timecard.Timecard{*tc}
	}

	payload := reporting.Payload{
		JobName:     opts.jobName,
		JobNumber:   opts.jobCode,
		SubmittedBy: opts.submittedBy,
		WeekStart:   opts.weekStart,
		Timecards:   timecard.NormalizeAll(timecards),
	}

	var (
		filename string
		data     []byte
	)
	if opts.format == formatEML {
		filename = export.BuildFilename(opts.weekStart, opts.jobCode, formatEML)
		data, err = buildEML(cmd, payload, opts)
	} else {
		format, ok := export.ParseFormat(opts.format)
		if !ok {
			return "", fmt.Errorf("%w: %q", reporting.ErrUnsupportedFormat, opts.format)
		}
		var att *reporting.Attachment
		att, err = reporting.Render(cmd.Context(), format, payload)
		if att != nil {
			filename, data = att.Filename, att.Data
		}
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(opts.out, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// buildEML writes the weekly email with its CSV and PDF attachments as a raw
// MIME message, the same bytes SES would receive.
func buildEML(cmd *cobra.Command, payload reporting.Payload, opts exportOptions) ([]byte, error) {
	html, err := export.BuildTimecardsEmail(payload)
	if err != nil {
		return nil, err
	}
	msg := &mail.Message{
		From:    opts.from,
		To:      opts.to,
		Subject: reporting.Subject(payload),
		Text:    reporting.PlainText(payload),
		HTML:    html,
	}
	for _, f := range []export.Format{export.FormatCSV, export.FormatPDF} {
		att, err := reporting.Render(cmd.Context(), f, payload)
		if err != nil {
			return nil, err
		}
		msg.Attachments = append(msg.Attachments, mail.Attachment{
			Filename:    att.Filename,
			ContentType: att.ContentType,
			Content:     att.Data,
		})
	}

	return mail.BuildRaw(msg)
}

// FilenameCmd prints the attachment name for a week and job.
func FilenameCmd() *cobra.Command {
	var weekStart, jobCode, ext string

	cmd := &cobra.Command{
		Use:   "filename",
		Short: "Print the export file name for a week and job",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), export.BuildFilename(weekStart, jobCode, ext))
			return nil
		},
	}

	cmd.Flags().StringVar(&weekStart, "week-start", "", "Week start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&jobCode, "job-code", "", "Job number")
	cmd.Flags().StringVar(&ext, "ext", "csv", "File extension")

	return cmd
}

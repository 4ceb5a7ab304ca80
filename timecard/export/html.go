package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"jobtrack.com/jobtrack/timecard"
)

//go:embed templates/timecards.html
var templates embed.FS

var emailTemplate = template.Must(template.ParseFS(templates, "templates/timecards.html"))

type emailView struct {
	Job         string
	Week        string
	SubmittedBy string
	Columns     []string
	Cards       []emailCard
}

type emailCard struct {
	Name       string
	Code       string
	Rows       [][]string
	Hours      string
	Production string
	LineTotal  string
}

// BuildTimecardsEmail renders the HTML body of the weekly timecards email.
// Cells and totals are the same strings the PDF prints.
func BuildTimecardsEmail(p Payload) (string, error) {
	view := emailView{
		Job:         jobIdentity(p.JobName, p.JobNumber),
		Week:        WeekLabel(p.WeekStart),
		SubmittedBy: FormatText(p.SubmittedBy),
		Columns:     pdfColumns,
	}
	for _, tc := range normalized(p.Timecards) {
		view.Cards = append(view.Cards, cardView(tc))
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering timecards email: %w", err)
	}
	return buf.String(), nil
}

func cardView(tc timecard.Timecard) emailCard {
	totals := tc.Summary()
	card := emailCard{
		Name:       FormatText(tc.EmployeeName),
		Code:       FormatText(tc.ResolvedEmployeeCode()),
		Hours:      FormatNumber(totals.HoursTotal),
		Production: FormatNumber(totals.ProductionTotal),
		LineTotal:  FormatNumber(totals.LineTotal),
	}
	for _, line := range tc.Lines {
		card.Rows = append(card.Rows, lineCells(line))
	}
	return card
}

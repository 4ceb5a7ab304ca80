package export

import (
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/utils"
)

// Every sink must show the same per-employee hours for the same batch.
func TestSinksAgreeOnHours(t *testing.T) {
	batch := timecard.NormalizeAll(sampleWeek(t))
	payload := Payload{JobName: "Harbor Bridge", WeekStart: weekStart, Timecards: batch}

	records, err := utils.ParseCSV(strings.NewReader(BuildCSV(batch, weekStart)))
	require.NoError(t, err)
	csvHours := map[string]float64{}
	for _, rec := range records[2:] {
		if rec[colHours] == "" {
			continue
		}
		h, err := strconv.ParseFloat(rec[colHours], 64)
		require.NoError(t, err)
		csvHours[rec[1]] += h
	}

	var pdfSummaries []string
	for _, e := range layoutPDF(payload).transcript {
		if strings.HasPrefix(e.Text, "Totals - ") {
			pdfSummaries = append(pdfSummaries, e.Text)
		}
	}

	html, err := BuildTimecardsEmail(payload)
	require.NoError(t, err)
	doc := parseHTML(t, html)
	var htmlHours []string
	doc.Find(".hours-total").Each(func(_ int, s *goquery.Selection) {
		htmlHours = append(htmlHours, s.Text())
	})

	require.Len(t, pdfSummaries, len(batch))
	require.Len(t, htmlHours, len(batch))
	for i, tc := range batch {
		want := FormatNumber(tc.Summary().HoursTotal)
		assert.Equal(t, want, FormatNumber(csvHours[tc.ResolvedEmployeeCode()]), "csv hours for %s", tc.ResolvedEmployeeCode())
		assert.Contains(t, pdfSummaries[i], "Hours: "+want+" |")
		assert.Equal(t, want, htmlHours[i])
	}
}

func TestCSVAndXLSXCarrySameRows(t *testing.T) {
	batch := sampleWeek(t)
	out, err := BuildXLSX(batch, weekStart)
	require.NoError(t, err)

	rows := readXLSX(t, out)
	assert.Equal(t, PayrollRows(batch, weekStart), rows)
}

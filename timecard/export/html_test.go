package export

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestBuildTimecardsEmail(t *testing.T) {
	html, err := BuildTimecardsEmail(Payload{
		JobName:     "Harbor <Bridge>",
		JobNumber:   "J100",
		SubmittedBy: "Alex Foreman",
		WeekStart:   weekStart,
		Timecards:   sampleWeek(t),
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<Bridge>")

	doc := parseHTML(t, html)
	assert.Equal(t, "Harbor <Bridge> (#J100)", doc.Find("#job").Text())
	assert.Equal(t, "2/4/2024 - 2/10/2024", doc.Find("#week").Text())
	assert.Equal(t, "Alex Foreman", doc.Find("#submitted-by").Text())
	assert.Equal(t, 0, doc.Find(".empty").Length())

	cards := doc.Find(".timecard")
	require.Equal(t, 3, cards.Length())

	first := cards.Eq(0)
	assert.Equal(t, "Dana Reyes", first.Find(".employee").Text())
	assert.Equal(t, "Code: E-7", first.Find(".code").Text())
	assert.Equal(t, 14, first.Find("thead th").Length())
	assert.Equal(t, "Line $", first.Find("thead th").Last().Text())
	assert.Equal(t, 2, first.Find("tr.line").Length())
	assert.Equal(t, "15.50", first.Find(".hours-total").Text())
	assert.Equal(t, "52.25", first.Find(".production-total").Text())
	assert.Equal(t, "116.75", first.Find(".line-total").Text())

	var cells []string
	first.Find("tr.line").First().Find("td").Each(func(_ int, s *goquery.Selection) {
		cells = append(cells, s.Text())
	})
	assert.Equal(t, []string{"J1", "North", "100", "C9", "0", "8", "7.50", "0", "0", "0", "0", "15.50", "52.25", "116.75"}, cells)

	assert.Equal(t, "10", cards.Eq(1).Find(".hours-total").Text())
	assert.Equal(t, "-", cards.Eq(2).Find(".employee").Text())
	assert.Equal(t, "0.10", cards.Eq(2).Find(".line-total").Text())
}

func TestBuildTimecardsEmailEmpty(t *testing.T) {
	html, err := BuildTimecardsEmail(Payload{WeekStart: "soon"})
	require.NoError(t, err)

	doc := parseHTML(t, html)
	assert.Equal(t, "No submitted timecards found.", doc.Find(".empty").Text())
	assert.Equal(t, "soon", doc.Find("#week").Text())
	assert.Equal(t, "-", doc.Find("#job").Text())
	assert.Equal(t, 0, doc.Find(".timecard").Length())
}

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"jobtrack.com/jobtrack/timecard"
)

const (
	pdfMargin      = 40.0
	pdfFont        = "Helvetica"
	pdfMinFontSize = 6.0
	pdfChunkSize   = 32 * 1024
)

type pdfBlock struct {
	height  float64
	size    float64
	style   string
	r, g, b int
}

var (
	blockTitle    = pdfBlock{height: 24, size: 18, style: "B"}
	blockMeta     = pdfBlock{height: 14, size: 10}
	blockEmployee = pdfBlock{height: 16, size: 12, style: "B"}
	blockCode     = pdfBlock{height: 12, size: 9, r: 90, g: 90, b: 90}
	blockHeader   = pdfBlock{height: 13, size: 8, style: "B"}
	blockRow      = pdfBlock{height: 11, size: 8}
	blockSummary  = pdfBlock{height: 14, size: 9, style: "B"}
	blockNote     = pdfBlock{height: 14, size: 10, r: 90, g: 90, b: 90}
	blockRule     = pdfBlock{height: 12}
)

var pdfColumns = []string{
	"Job", "Area", "Acct", "Cost",
	"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat",
	"Tot Hrs", "Tot Prod", "Line $",
}

// pdfEntry records one block as it was placed, so layout can be checked
// without parsing the document.
type pdfEntry struct {
	Page   int
	Y      float64
	Height float64
	Style  string
	Text   string
}

type pdfLayout struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	top        float64
	bottom     float64
	width      float64
	transcript []pdfEntry
}

func newPDFLayout() *pdfLayout {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle("Timecards This Week", true)
	pdf.SetCreator("jobtrack", true)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	return &pdfLayout{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		top:    pdfMargin,
		bottom: h - pdfMargin,
		width:  w - 2*pdfMargin,
	}
}

// reserve starts a new page when a block of height h would cross the bottom margin.
func (l *pdfLayout) reserve(h float64) {
	if l.pdf.GetY()+h <= l.bottom {
		return
	}
	l.pdf.AddPage()
	l.pdf.SetY(l.top)
}

func (l *pdfLayout) text(s string, b pdfBlock) {
	l.reserve(b.height)

	text := l.tr(s)
	l.pdf.SetFont(pdfFont, b.style, b.size)
	l.pdf.SetTextColor(b.r, b.g, b.b)
	for size := b.size; size > pdfMinFontSize && l.pdf.GetStringWidth(text) > l.width; {
		size -= 0.5
		l.pdf.SetFontSize(size)
	}

	y := l.pdf.GetY()
	l.pdf.CellFormat(l.width, b.height, text, "", 1, "L", false, 0, "")
	l.transcript = append(l.transcript, pdfEntry{Page: l.pdf.PageNo(), Y: y, Height: b.height, Style: b.style, Text: s})
}

func (l *pdfLayout) rule() {
	l.reserve(blockRule.height)

	y := l.pdf.GetY()
	l.pdf.SetDrawColor(200, 200, 200)
	l.pdf.SetLineWidth(0.5)
	l.pdf.Line(pdfMargin, y+blockRule.height/2, pdfMargin+l.width, y+blockRule.height/2)
	l.pdf.SetY(y + blockRule.height)
	l.transcript = append(l.transcript, pdfEntry{Page: l.pdf.PageNo(), Y: y, Height: blockRule.height, Style: "rule"})
}

func (l *pdfLayout) reset() {
	l.pdf.SetFont(pdfFont, "", blockRow.size)
	l.pdf.SetTextColor(0, 0, 0)
	l.pdf.SetDrawColor(0, 0, 0)
}

func layoutPDF(p Payload) *pdfLayout {
	l := newPDFLayout()

	l.text("Timecards This Week", blockTitle)
	l.text("Job: "+jobIdentity(p.JobName, p.JobNumber), blockMeta)
	l.text("Week: "+WeekLabel(p.WeekStart), blockMeta)
	l.text("Submitted By: "+FormatText(p.SubmittedBy), blockMeta)

	if len(p.Timecards) == 0 {
		l.text("No submitted timecards found.", blockNote)
		return l
	}

	for _, tc := range normalized(p.Timecards) {
		l.text(FormatText(tc.EmployeeName), blockEmployee)
		l.text("Code: "+FormatText(tc.ResolvedEmployeeCode()), blockCode)
		l.text(strings.Join(pdfColumns, " | "), blockHeader)
		for _, line := range tc.Lines {
			l.text(strings.Join(lineCells(line), " | "), blockRow)
		}
		l.text(summaryText(tc.Summary()), blockSummary)
		l.rule()
		l.reset()
	}
	return l
}

func jobIdentity(name, number string) string {
	id := FormatText(name)
	if n := strings.TrimSpace(number); n != "" {
		id += " (#" + n + ")"
	}
	return id
}

// lineCells are the identifying fields, the seven day hours and the three
// line totals, in column order.
func lineCells(line timecard.Line) []string {
	cells := make([]string, 0, len(pdfColumns))
	cells = append(cells,
		FormatText(line.JobNumber),
		FormatText(line.ResolvedArea()),
		FormatText(line.ResolvedAccount()),
		FormatText(line.ResolvedCostCode()),
	)
	for _, d := range timecard.Week {
		cells = append(cells, FormatNumber(line.Hours[d]))
	}
	lt := line.Summary()
	return append(cells, FormatNumber(lt.Hours), FormatNumber(lt.Production), FormatNumber(lt.LineTotal))
}

func summaryText(t timecard.Totals) string {
	return fmt.Sprintf("Totals - Hours: %s | Production: %s | Line $: %s",
		FormatNumber(t.HoursTotal), FormatNumber(t.ProductionTotal), FormatNumber(t.LineTotal))
}

// BuildPDF renders the week as a Letter-size document. The document is
// written through a pipe by a producer goroutine and collected until the
// stream ends; if the producer fails or ctx is cancelled no bytes are returned.
func BuildPDF(ctx context.Context, p Payload) ([]byte, error) {
	l := layoutPDF(p)
	if err := l.pdf.Error(); err != nil {
		return nil, fmt.Errorf("laying out timecards pdf: %w", err)
	}
	return streamPDF(ctx, l.pdf.Output)
}

func streamPDF(ctx context.Context, produce func(io.Writer) error) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	go func() {
		// A nil error closes the pipe with io.EOF, which is the completion signal.
		pw.CloseWithError(produce(pw))
	}()
	stop := context.AfterFunc(ctx, func() {
		pr.CloseWithError(ctx.Err())
	})
	defer stop()

	var buf bytes.Buffer
	chunk := make([]byte, pdfChunkSize)
	for {
		n, err := pr.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			pr.Close()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("writing timecards pdf: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

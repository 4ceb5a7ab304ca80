package timecards

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack.com/jobtrack/logging"
	"jobtrack.com/jobtrack/reporting"
	"jobtrack.com/jobtrack/security"
	"jobtrack.com/jobtrack/timecard"
	"jobtrack.com/jobtrack/timecard/export"
	"jobtrack.com/jobtrack/utils"
	"jobtrack.com/jobtrack/web/common"
	"jobtrack.com/jobtrack/web/middlewares"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, base common.Handler) {
	endpoint := &Endpoint{base: base}
	week := r.Group("/jobs/:jobId/weeks/:weekStart/timecards")

	week.GET("/summary", endpoint.Summary)

	payroll := week.Group("", middlewares.RequireRole(security.RoleAdmin, security.RoleManager))
	payroll.GET("/export", endpoint.Export)
	payroll.GET("/:timecardId/export", endpoint.Export)
	payroll.POST("/email", endpoint.Email)
}

type WeekURI struct {
	JobID      string `uri:"jobId" json:"jobId" binding:"required"`
	WeekStart  string `uri:"weekStart" json:"weekStart" binding:"required,isodate"`
	TimecardID string `uri:"timecardId" json:"timecardId"`
}

type ExportQuery struct {
	Format string `form:"format" json:"format"`
}

func (ep *Endpoint) fail(c *gin.Context, err error) {
	status := common.StatusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("timecards request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, common.NewErrorResponse(err.Error()))
}

func (ep *Endpoint) Export(c *gin.Context) {
	var uri WeekURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	var query ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	req := reporting.ExportRequest{
		Tenant:      common.Tenant(c),
		JobID:       uri.JobID,
		WeekStart:   uri.WeekStart,
		TimecardID:  uri.TimecardID,
		SubmittedBy: submitter(c),
		Format:      utils.OrDefault(query.Format, string(export.FormatCSV)),
	}

	var att *reporting.Attachment
	err := ep.base.WithService(c, func(svc *reporting.Service) error {
		var err error
		att, err = svc.Export(c.Request.Context(), req)
		return err
	})
	if err != nil {
		ep.fail(c, err)
		return
	}

	common.WriteAttachment(c, att.Filename, att.ContentType, att.Data)
}

type EmailRequestDTO struct {
	SubmittedBy string   `json:"submittedBy"`
	To          []string `json:"to" binding:"omitempty,dive,email"`
	Cc          []string `json:"cc" binding:"omitempty,dive,email"`
	AttachCSV   *bool    `json:"attachCsv"`
	AttachPDF   *bool    `json:"attachPdf"`
}

func (ep *Endpoint) Email(c *gin.Context) {
	var uri WeekURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	var body EmailRequestDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	req := reporting.EmailRequest{
		Tenant:      common.Tenant(c),
		JobID:       uri.JobID,
		WeekStart:   uri.WeekStart,
		SubmittedBy: utils.OrDefault(body.SubmittedBy, submitter(c)),
		To:          body.To,
		Cc:          body.Cc,
		AttachCSV:   body.AttachCSV == nil || *body.AttachCSV,
		AttachPDF:   body.AttachPDF == nil || *body.AttachPDF,
	}

	var res *reporting.EmailResult
	err := ep.base.WithService(c, func(svc *reporting.Service) error {
		var err error
		res, err = svc.SendWeeklyEmail(c.Request.Context(), req)
		return err
	})
	if err != nil {
		ep.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(res))
}

type SummaryDTO struct {
	Job       *reporting.Job             `json:"job"`
	WeekStart string                     `json:"weekStart"`
	Week      string                     `json:"week"`
	Timecards []timecard.Timecard        `json:"timecards"`
	Totals    timecard.Totals            `json:"totals"`
	ByJob     map[string]timecard.Totals `json:"byJob"`
}

func (ep *Endpoint) Summary(c *gin.Context) {
	var uri WeekURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var summary *SummaryDTO
	err := ep.base.Stores.WithStore(c.Request.Context(), c.Request.Host, func(store reporting.Store) error {
		ctx := c.Request.Context()
		job, err := store.GetJob(ctx, uri.JobID)
		if err != nil {
			return err
		}
		raw, err := store.ListTimecards(ctx, uri.JobID, uri.WeekStart)
		if err != nil {
			return err
		}
		summary = summarize(job, uri.WeekStart, timecard.NormalizeAll(raw))
		return nil
	})
	if err != nil {
		ep.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(summary))
}

// summarize adds week totals and totals per job number to normalized timecards.
func summarize(job *reporting.Job, weekStart string, timecards []timecard.Timecard) *SummaryDTO {
	s := &SummaryDTO{
		Job:       job,
		WeekStart: weekStart,
		Week:      export.WeekLabel(weekStart),
		Timecards: timecards,
		ByJob:     map[string]timecard.Totals{},
	}

	var lines []timecard.Line
	for _, tc := range timecards {
		s.Totals.Merge(tc.Summary())
		lines = append(lines, tc.Lines...)
	}
	for jobNumber, group := range utils.GroupBy(lines, func(l timecard.Line) string { return l.JobNumber }) {
		s.ByJob[jobNumber] = timecard.SumLineTotals(group)
	}
	return s
}

// submitter names the caller for the "Submitted By" line.
func submitter(c *gin.Context) string {
	claims := middlewares.Claims(c)
	if claims == nil {
		return ""
	}
	return utils.OrDefault(claims.UniqueName, claims.Email)
}
